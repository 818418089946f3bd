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
	"github.com/BankUProject/banku-core/pkg/search"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func itemFromRequest(req *models.ItemRequest, ownerID int64, now time.Time) database.Item {
	item := database.Item{
		Title:               req.Title,
		ItemType:            req.ItemType,
		Category:            req.Category,
		Subcategory:         req.Subcategory,
		ShortDescription:    req.ShortDescription,
		DetailedDescription: req.DetailedDescription,
		Location:            req.Location,
		PricingType:         req.PricingType,
		Currency:            req.Currency,
		Tags:                req.Tags,
		Attrs:               req.Attrs,
		OwnerID:             ownerID,
		Price:               req.Price,
		IsAvailable:         true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if item.Currency == "" {
		item.Currency = "USD"
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	return item
}

func (env *Env) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req models.ItemRequest
	if !env.decode(w, r, &req) {
		return
	}

	item := itemFromRequest(&req, middleware.UserID(r.Context()), time.Now())
	id, err := env.DB.MarketDB.AddItem(&item)
	if err != nil {
		fail(w, err)
		return
	}
	item.DBID = id
	respond(w, http.StatusCreated, models.FromItem(&item))
}

// GetItem returns an item and counts the view. Owners browsing their own
// listings do not inflate the counter.
func (env *Env) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := env.DB.MarketDB.GetItem(id)
	if err != nil {
		fail(w, err)
		return
	}

	if item.OwnerID != middleware.UserID(r.Context()) {
		if err := env.DB.MarketDB.IncrementItemViews(id); err != nil {
			log.Warn().Err(err).Int64("item", id).Msg("failed to count item view")
		} else {
			item.Views++
		}
	}
	respond(w, http.StatusOK, models.FromItem(&item))
}

func (env *Env) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := env.DB.MarketDB.ListItemsByOwner(middleware.UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromItems(items))
}

func (env *Env) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	existing, err := env.DB.MarketDB.GetItem(id)
	if err != nil {
		fail(w, err)
		return
	}
	if existing.OwnerID != middleware.UserID(r.Context()) {
		respondError(w, http.StatusForbidden, "not the item owner")
		return
	}

	var req models.ItemRequest
	if !env.decode(w, r, &req) {
		return
	}

	updated := itemFromRequest(&req, existing.OwnerID, time.Now())
	updated.DBID = existing.DBID
	updated.Rating = existing.Rating
	updated.ReviewCount = existing.ReviewCount
	updated.RequestCount = existing.RequestCount
	updated.Views = existing.Views
	updated.IsVerified = existing.IsVerified
	updated.CreatedAt = existing.CreatedAt
	if err := env.DB.MarketDB.UpdateItem(&updated); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromItem(&updated))
}

func (env *Env) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := env.DB.MarketDB.GetItem(id)
	if err != nil {
		fail(w, err)
		return
	}
	if item.OwnerID != middleware.UserID(r.Context()) {
		respondError(w, http.StatusForbidden, "not the item owner")
		return
	}
	if err := env.DB.MarketDB.DeleteItem(id); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// SearchItems runs the filtered search with a fuzzy title fallback.
func (env *Env) SearchItems(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := search.Query{
		Term:     params.Get("q"),
		Category: params.Get("category"),
		Location: params.Get("location"),
		BankSlug: params.Get("bank"),
		BankType: params.Get("type"),
		MinPrice: queryFloat(r, "minPrice"),
		MaxPrice: queryFloat(r, "maxPrice"),
		UserID:   middleware.UserID(r.Context()),
		Limit:    queryInt(r, "limit", search.DefaultLimit),
	}
	items, err := env.Search.Search(q)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromItems(items))
}

func (env *Env) ListBanks(w http.ResponseWriter, r *http.Request) {
	publicOnly := r.URL.Query().Get("all") != "true"
	banks, err := env.DB.MarketDB.ListBanks(publicOnly)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromBanks(banks))
}

// BankItems lists a bank's linked items by slug.
func (env *Env) BankItems(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	bank, err := env.DB.MarketDB.GetBankBySlug(slug)
	if err != nil {
		fail(w, err)
		return
	}
	items, err := env.DB.MarketDB.ListBankItems(bank.DBID)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromItems(items))
}

func (env *Env) ListItemTypes(w http.ResponseWriter, _ *http.Request) {
	types, err := env.DB.MarketDB.ListItemTypes()
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromItemTypes(types))
}
