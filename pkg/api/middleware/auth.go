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

// Package middleware provides HTTP middleware for the REST API.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/rs/zerolog/log"
)

type contextKey string

const credentialKey contextKey = "credential"

// WithCredential returns a context carrying the given credential, as if the
// request had passed Authenticate.
func WithCredential(ctx context.Context, entry config.CredentialEntry) context.Context {
	return context.WithValue(ctx, credentialKey, entry)
}

// Credential returns the authenticated credential stored on the request
// context by Authenticate.
func Credential(ctx context.Context) (config.CredentialEntry, bool) {
	entry, ok := ctx.Value(credentialKey).(config.CredentialEntry)
	return entry, ok
}

// UserID returns the authenticated user's ID, or 0 when unauthenticated.
func UserID(ctx context.Context) int64 {
	entry, ok := Credential(ctx)
	if !ok {
		return 0
	}
	return entry.UserID
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // response write errors are not actionable
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Authenticate resolves the Authorization bearer token to a credential and
// stores it on the request context. Requests without a valid token get 401.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			deny(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		entry, ok := config.LookupCredential(token)
		if !ok {
			log.Debug().Str("remote", r.RemoteAddr).Msg("rejected unknown api token")
			deny(w, http.StatusUnauthorized, "invalid bearer token")
			return
		}

		ctx := WithCredential(r.Context(), entry)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose credential lacks the admin flag. Must
// run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry, ok := Credential(r.Context())
		if !ok || !entry.Admin {
			deny(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
