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

package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

// loadTestAuth writes an auth.toml next to a fresh config and reloads it so
// LookupCredential resolves the given tokens. Touches package-global state,
// so tests using it must not run in parallel.
func loadTestAuth(t *testing.T, creds string) {
	t.Helper()
	dir := t.TempDir()
	_, err := config.NewConfig(dir, config.BaseDefaults)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.AuthFile), []byte(creds), 0o600))
	_, err = config.NewConfig(dir, config.BaseDefaults)
	require.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	loadTestAuth(t, `
[creds.good-token]
user_id = 7
username = "frank"
`)

	t.Run("missing header", func(t *testing.T) {
		var hit bool
		w := httptest.NewRecorder()
		Authenticate(okHandler(&hit)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, hit)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		var hit bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		w := httptest.NewRecorder()
		Authenticate(okHandler(&hit)).ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		var hit bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		Authenticate(okHandler(&hit)).ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		var gotID int64
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID = UserID(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		Authenticate(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(7), gotID)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	t.Run("no credential", func(t *testing.T) {
		t.Parallel()
		var hit bool
		w := httptest.NewRecorder()
		RequireAdmin(okHandler(&hit)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, hit)
	})

	t.Run("non-admin credential", func(t *testing.T) {
		t.Parallel()
		var hit bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(WithCredential(r.Context(), config.CredentialEntry{UserID: 7}))
		w := httptest.NewRecorder()
		RequireAdmin(okHandler(&hit)).ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin credential", func(t *testing.T) {
		t.Parallel()
		var hit bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(WithCredential(r.Context(), config.CredentialEntry{UserID: 1, Admin: true}))
		w := httptest.NewRecorder()
		RequireAdmin(okHandler(&hit)).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hit)
	})
}

func TestUserIDUnauthenticated(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Zero(t, UserID(r.Context()))
}
