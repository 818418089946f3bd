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

// Package api serves the REST API under /api/v1.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BankUProject/banku-core/pkg/api/methods"
	"github.com/BankUProject/banku-core/pkg/api/middleware"
	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// requestLogger logs each request at debug level once served.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("api request")
	})
}

// NewRouter builds the full route tree.
func NewRouter(cfg *config.Instance, env *methods.Env) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(writeTimeout))
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate)

		r.Route("/needs", func(r chi.Router) {
			r.Post("/", env.CreateNeed)
			r.Get("/", env.ListNeeds)
			r.Get("/{id}", env.GetNeed)
			r.Put("/{id}", env.UpdateNeed)
			r.Delete("/{id}", env.CloseNeed)
			r.Get("/{id}/matches", env.NeedMatches)
		})

		r.Route("/items", func(r chi.Router) {
			r.Post("/", env.CreateItem)
			r.Get("/", env.ListItems)
			r.Get("/{id}", env.GetItem)
			r.Put("/{id}", env.UpdateItem)
			r.Delete("/{id}", env.DeleteItem)
		})
		r.Get("/search", env.SearchItems)
		r.Get("/item-types", env.ListItemTypes)

		r.Route("/banks", func(r chi.Router) {
			r.Get("/", env.ListBanks)
			r.Get("/{slug}/items", env.BankItems)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/{id}/feedback", env.SubmitFeedback)
			r.Post("/{id}/viewed", env.MarkMatchViewed)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", env.UserRecommendations)
			r.Get("/personal", env.PersonalRecommendations)
			r.Get("/curated", env.ConnectorRecommendations)
			r.Put("/{id}/status", env.UpdateRecommendationStatus)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", env.CreateRecommendation)
				r.Get("/queue", env.RecommendationQueue)
			})
		})

		r.Route("/matching", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/auto-generate", env.AutoGenerate)
			r.Get("/analytics", env.MatchingAnalytics)
		})

		r.Route("/chatbot", func(r chi.Router) {
			r.Get("/flows", env.ListFlows)
			r.Get("/flows/{id}/questions", env.FlowQuestions)
			r.Post("/flows/{id}/sessions", env.StartSession)
			r.Post("/sessions/{sessionId}/answers", env.SubmitAnswer)
			r.Post("/sessions/{sessionId}/complete", env.CompleteSession)
			r.Get("/completions", env.ListCompletions)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/flows", env.CreateFlow)
				r.Put("/flows/{id}/active", env.SetFlowActive)
				r.Post("/mappings", env.CreateMapping)
				r.Get("/flows/{id}/mapping", env.GetMapping)
			})
		})

		r.Route("/organizations", func(r chi.Router) {
			r.Post("/", env.CreateOrganization)
			r.Get("/", env.ListOrganizations)
			r.Get("/{id}", env.GetOrganization)
			r.Delete("/{id}", env.CloseOrganization)
			r.Get("/{id}/members", env.ListMembers)
			r.Get("/{id}/history", env.OrganizationHistory)
			r.Post("/{id}/invitations", env.InviteMember)
			r.Post("/{id}/invitations/accept", env.AcceptInvitation)
			r.Post("/{id}/leave", env.LeaveOrganization)
			r.Post("/{id}/transfer", env.TransferOwnership)
			r.Put("/{id}/members/role", env.ChangeMemberRole)
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", env.WalletSummary)
			r.Get("/transactions", env.WalletTransactions)
			r.Get("/earnings", env.ListEarnings)
			r.Post("/withdrawals", env.RequestWithdrawal)
			r.Get("/withdrawals", env.ListWithdrawals)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/withdrawals", env.AdminListWithdrawals)
			r.Post("/withdrawals/{id}/process", env.ProcessWithdrawal)
			r.Post("/earnings/{id}/credit", env.CreditEarning)
		})

		r.Route("/deals", func(r chi.Router) {
			r.Post("/", env.CreateDeal)
			r.Get("/", env.ListDeals)
			r.Get("/{id}", env.GetDeal)
			r.Post("/{id}/complete", env.CompleteDeal)
			r.Get("/{id}/messages", env.DealMessages)
			r.Post("/{id}/messages", env.AddDealMessage)
		})
	})

	return r
}

// Start begins serving the API in the background and returns a stop
// function that drains in-flight requests.
func Start(cfg *config.Instance, env *methods.Env) (func(), error) {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ApiPort()),
		Handler:      NewRouter(cfg, env),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.ApiPort()).Msg("starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("api server stopped unexpectedly")
		}
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("api server shutdown failed")
		}
	}
	return stop, nil
}
