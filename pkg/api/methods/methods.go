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

// Package methods implements the REST API handlers.
package methods

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/BankUProject/banku-core/pkg/api/models"
	"github.com/BankUProject/banku-core/pkg/chatbot"
	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/BankUProject/banku-core/pkg/deals"
	"github.com/BankUProject/banku-core/pkg/matching"
	"github.com/BankUProject/banku-core/pkg/organizations"
	"github.com/BankUProject/banku-core/pkg/search"
	"github.com/BankUProject/banku-core/pkg/wallet"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// Env bundles everything the handlers reach for.
type Env struct {
	Config   *config.Instance
	DB       *database.Database
	Engine   *matching.Engine
	Search   *search.Service
	Chatbot  *chatbot.Service
	Orgs     *organizations.Service
	Wallet   *wallet.Service
	Deals    *deals.Service
	Validate *validator.Validate
}

func NewEnv(
	cfg *config.Instance,
	db *database.Database,
	engine *matching.Engine,
	searchSvc *search.Service,
	chatbotSvc *chatbot.Service,
	orgsSvc *organizations.Service,
	walletSvc *wallet.Service,
	dealsSvc *deals.Service,
) *Env {
	return &Env{
		Config:   cfg,
		DB:       db,
		Engine:   engine,
		Search:   searchSvc,
		Chatbot:  chatbotSvc,
		Orgs:     orgsSvc,
		Wallet:   walletSvc,
		Deals:    dealsSvc,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to write api response")
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, models.ErrorResponse{Error: msg})
}

// fail maps a service error to an HTTP status. Unrecognized errors are
// logged and returned as an opaque 500.
func fail(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("api request failed")
		msg = "internal error"
	}
	respondError(w, status, msg)
}

//nolint:gocyclo // one switch over every service sentinel
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, sql.ErrNoRows),
		errors.Is(err, matching.ErrMatchNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, organizations.ErrNotMember),
		errors.Is(err, organizations.ErrNotInvited):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, organizations.ErrNotPermitted),
		errors.Is(err, organizations.ErrOwnerMustStay),
		errors.Is(err, organizations.ErrCannotDemote),
		errors.Is(err, organizations.ErrSelfManagement),
		errors.Is(err, deals.ErrNotParticipant):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, organizations.ErrInvalidRole),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrBelowThreshold):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, organizations.ErrAlreadyMember),
		errors.Is(err, organizations.ErrOrgClosed),
		errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrAlreadyProcessed),
		errors.Is(err, wallet.ErrEarningNotPending),
		errors.Is(err, wallet.ErrEarningNotCredited),
		errors.Is(err, deals.ErrMatchNotAccepted),
		errors.Is(err, deals.ErrDealExists),
		errors.Is(err, deals.ErrDealNotActive),
		errors.Is(err, chatbot.ErrFlowInactive),
		errors.Is(err, chatbot.ErrSessionCompleted),
		errors.Is(err, chatbot.ErrNoCurrentQuestion):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}

// decode parses and validates a JSON request body into dst.
func (env *Env) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := env.Validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// pathID parses the named chi URL parameter as a positive int64.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter, falling back when
// absent or malformed.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// queryFloat parses an optional float query parameter, nil when absent.
func queryFloat(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
