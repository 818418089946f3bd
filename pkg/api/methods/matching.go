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
	"github.com/BankUProject/banku-core/pkg/matching"
	"github.com/rs/zerolog/log"
)

// SubmitFeedback records user feedback on a match and applies its status
// side effects.
func (env *Env) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.FeedbackRequest
	if !env.decode(w, r, &req) {
		return
	}
	if req.Type == "rating" && req.Rating == nil {
		respondError(w, http.StatusBadRequest, "rating feedback requires a rating value")
		return
	}

	userID := middleware.UserID(r.Context())
	err := env.Engine.RecordFeedback(r.Context(), userID, id, req.Type, req.Rating, req.Comment)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// MarkMatchViewed flags a match as seen by the need owner.
func (env *Env) MarkMatchViewed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := env.DB.MarketDB.MarkMatchViewed(id, time.Now()); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// UserRecommendations lists pending recommendations against the caller's
// needs, excluding any they dismissed.
func (env *Env) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", matching.DefaultMatchLimit)
	matches, err := env.Engine.UserRecommendations(r.Context(), middleware.UserID(r.Context()), limit)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromMatches(matches))
}

// PersonalRecommendations suggests items from the caller's recent search
// categories, most viewed first.
func (env *Env) PersonalRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", matching.DefaultMatchLimit)
	items, err := env.Engine.PersonalRecommendations(r.Context(), middleware.UserID(r.Context()), limit)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromItems(items))
}

// RecommendationQueue is the connector work queue: high-scoring pending
// matches across all users. Admin only.
func (env *Env) RecommendationQueue(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", matching.DefaultMatchLimit)
	matches, err := env.Engine.PendingRecommendations(r.Context(), limit)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromMatches(matches))
}

// ConnectorRecommendations lists recommendations the caller has curated.
func (env *Env) ConnectorRecommendations(w http.ResponseWriter, r *http.Request) {
	matches, err := env.DB.MarketDB.ListRecommendationsByConnector(middleware.UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromMatches(matches))
}

// CreateRecommendation stores a manually curated need/item pairing. Admin
// only; the caller becomes the recommendation's connector.
func (env *Env) CreateRecommendation(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if !env.decode(w, r, &req) {
		return
	}

	connectorID := middleware.UserID(r.Context())
	id, err := env.Engine.CreateRecommendation(
		r.Context(), req.NeedID, req.ItemID, connectorID, req.Score, req.Reason)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, models.IDResponse{ID: id})
}

// UpdateRecommendationStatus moves a recommendation through its lifecycle,
// optionally assigning a connector.
func (env *Env) UpdateRecommendationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.RecommendationStatusRequest
	if !env.decode(w, r, &req) {
		return
	}

	err := env.Engine.UpdateRecommendationStatus(r.Context(), id, req.Status, req.ConnectorID)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// AutoGenerate runs a scoring pass over every active need. Admin only; the
// background recommender runs the same pass on a timer.
func (env *Env) AutoGenerate(w http.ResponseWriter, r *http.Request) {
	count, err := env.Engine.AutoGenerate(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("auto-generate pass failed")
		// Partial progress still counts; report it with the error.
		respond(w, http.StatusInternalServerError, models.ErrorResponse{
			Error: "auto-generate pass failed",
		})
		return
	}
	respond(w, http.StatusOK, models.CountResponse{Count: count})
}

// MatchingAnalytics summarizes engine activity. Admin only.
func (env *Env) MatchingAnalytics(w http.ResponseWriter, _ *http.Request) {
	stats, err := env.DB.MarketDB.MatchingStats()
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, stats)
}
