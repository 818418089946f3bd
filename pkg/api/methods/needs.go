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
	"time"

	"github.com/BankUProject/banku-core/pkg/api/middleware"
	"github.com/BankUProject/banku-core/pkg/api/models"
	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/BankUProject/banku-core/pkg/matching"
)

func needFromRequest(req *models.NeedRequest, userID int64, now time.Time) database.Need {
	need := database.Need{
		Title:               req.Title,
		Category:            req.Category,
		Subcategory:         req.Subcategory,
		ShortDescription:    req.ShortDescription,
		DetailedDescription: req.DetailedDescription,
		Location:            req.Location,
		UrgencyLevel:        req.UrgencyLevel,
		Currency:            req.Currency,
		Requirements:        req.Requirements,
		MustHave:            req.MustHave,
		NiceToHave:          req.NiceToHave,
		DealBreakers:        req.DealBreakers,
		Status:              "active",
		UserID:              userID,
		BudgetMin:           req.BudgetMin,
		BudgetMax:           req.BudgetMax,
		IsPublic:            req.IsPublic,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if req.ExpiresAt != nil {
		expires := time.Unix(*req.ExpiresAt, 0)
		need.ExpiresAt = &expires
	}
	return need
}

func (env *Env) CreateNeed(w http.ResponseWriter, r *http.Request) {
	var req models.NeedRequest
	if !env.decode(w, r, &req) {
		return
	}
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		respondError(w, http.StatusBadRequest, "budgetMin exceeds budgetMax")
		return
	}

	need := needFromRequest(&req, middleware.UserID(r.Context()), time.Now())
	id, err := env.DB.MarketDB.AddNeed(&need)
	if err != nil {
		fail(w, err)
		return
	}
	need.DBID = id
	respond(w, http.StatusCreated, models.FromNeed(&need))
}

func (env *Env) GetNeed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	need, err := env.DB.MarketDB.GetNeed(id)
	if err != nil {
		fail(w, err)
		return
	}
	if !need.IsPublic && need.UserID != middleware.UserID(r.Context()) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respond(w, http.StatusOK, models.FromNeed(&need))
}

func (env *Env) ListNeeds(w http.ResponseWriter, r *http.Request) {
	needs, err := env.DB.MarketDB.ListNeedsByUser(middleware.UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromNeeds(needs))
}

func (env *Env) UpdateNeed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	existing, err := env.DB.MarketDB.GetNeed(id)
	if err != nil {
		fail(w, err)
		return
	}
	if existing.UserID != middleware.UserID(r.Context()) {
		respondError(w, http.StatusForbidden, "not the need owner")
		return
	}

	var req models.NeedRequest
	if !env.decode(w, r, &req) {
		return
	}

	updated := needFromRequest(&req, existing.UserID, time.Now())
	updated.DBID = existing.DBID
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt
	if err := env.DB.MarketDB.UpdateNeed(&updated); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromNeed(&updated))
}

// CloseNeed retires a need rather than deleting it; its matches and
// sessions keep their history.
func (env *Env) CloseNeed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	need, err := env.DB.MarketDB.GetNeed(id)
	if err != nil {
		fail(w, err)
		return
	}
	if need.UserID != middleware.UserID(r.Context()) {
		respondError(w, http.StatusForbidden, "not the need owner")
		return
	}
	if err := env.DB.MarketDB.UpdateNeedStatus(id, "closed", time.Now()); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// NeedMatches returns the need's stored matches. With ?regen=true, or when
// no matches exist yet, the engine runs a fresh scoring pass first.
func (env *Env) NeedMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(r.Context())

	need, err := env.DB.MarketDB.GetNeed(id)
	if err != nil {
		fail(w, err)
		return
	}
	if need.UserID != userID {
		respondError(w, http.StatusForbidden, "not the need owner")
		return
	}

	limit := queryInt(r, "limit", matching.DefaultMatchLimit)
	regen := r.URL.Query().Get("regen") == "true"

	var matches []database.Match
	if !regen {
		matches, err = env.DB.MarketDB.ListMatchesForNeed(id)
		if err != nil {
			fail(w, err)
			return
		}
		if len(matches) > limit {
			matches = matches[:limit]
		}
	}
	if regen || len(matches) == 0 {
		matches, err = env.Engine.FindMatches(r.Context(), userID, id, limit)
		if err != nil {
			fail(w, err)
			return
		}
	}
	respond(w, http.StatusOK, models.FromMatches(matches))
}
