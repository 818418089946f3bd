// BankU Core
// Copyright (c) 2026 The BankU Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of BankU Core.
//
// BankU Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// BankU Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with BankU Core.  If not, see <http://www.gnu.org/licenses/>.

package methods

import (
	"net/http"

	"github.com/BankUProject/banku-core/pkg/api/middleware"
	"github.com/BankUProject/banku-core/pkg/api/models"
)

// CreateDeal saves an accepted recommendation as a deal between the need
// owner and the item owner.
func (env *Env) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var req models.DealRequest
	if !env.decode(w, r, &req) {
		return
	}

	deal, err := env.Deals.CreateFromMatch(req.MatchID, req.Title, req.Amount)
	if err != nil {
		fail(w, err)
		return
	}

	userID := middleware.UserID(r.Context())
	if userID != deal.NeedOwnerID && userID != deal.ItemOwnerID {
		// The deal was persisted for its actual participants; the caller
		// just isn't one of them.
		respondError(w, http.StatusForbidden, "not a deal participant")
		return
	}
	respond(w, http.StatusCreated, models.FromDeal(&deal))
}

func (env *Env) ListDeals(w http.ResponseWriter, r *http.Request) {
	userDeals, err := env.Deals.ListForUser(middleware.UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromDeals(userDeals))
}

func (env *Env) GetDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	deal, err := env.DB.UserDB.GetDeal(id)
	if err != nil {
		fail(w, err)
		return
	}
	userID := middleware.UserID(r.Context())
	if userID != deal.NeedOwnerID && userID != deal.ItemOwnerID {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respond(w, http.StatusOK, models.FromDeal(&deal))
}

// CompleteDeal closes a deal and records a pending earning for the item
// owner.
func (env *Env) CompleteDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	earning, err := env.Deals.Complete(id, middleware.UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.EarningEntry{
		ID:        earning.DBID,
		DealID:    earning.DealDBID,
		Amount:    earning.Amount,
		Currency:  earning.Currency,
		Status:    earning.Status,
		CreatedAt: earning.CreatedAt,
	})
}

func (env *Env) DealMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	messages, err := env.Deals.Messages(id, middleware.UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromDealMessages(messages))
}

func (env *Env) AddDealMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.DealMessageRequest
	if !env.decode(w, r, &req) {
		return
	}
	message, err := env.Deals.AddMessage(id, middleware.UserID(r.Context()), req.Body)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, models.DealMessage{
		ID:        message.DBID,
		UserID:    message.UserID,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	})
}
