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
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BankUProject/banku-core/pkg/api/middleware"
	"github.com/BankUProject/banku-core/pkg/api/models"
	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketDB struct {
	database.MarketDBI

	needs   map[int64]database.Need
	matches map[int64][]database.Match // keyed by need ID
	nextID  int64
}

func newFakeMarketDB() *fakeMarketDB {
	return &fakeMarketDB{
		needs:   map[int64]database.Need{},
		matches: map[int64][]database.Match{},
	}
}

func (f *fakeMarketDB) AddNeed(n *database.Need) (int64, error) {
	f.nextID++
	n.DBID = f.nextID
	f.needs[n.DBID] = *n
	return n.DBID, nil
}

func (f *fakeMarketDB) GetNeed(id int64) (database.Need, error) {
	n, ok := f.needs[id]
	if !ok {
		return database.Need{}, sql.ErrNoRows
	}
	return n, nil
}

func (f *fakeMarketDB) ListNeedsByUser(userID int64) ([]database.Need, error) {
	var out []database.Need
	for _, n := range f.needs {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeMarketDB) UpdateNeed(n *database.Need) error {
	f.needs[n.DBID] = *n
	return nil
}

func (f *fakeMarketDB) UpdateNeedStatus(id int64, status string, when time.Time) error {
	n := f.needs[id]
	n.Status = status
	n.UpdatedAt = when
	f.needs[id] = n
	return nil
}

func (f *fakeMarketDB) ListMatchesForNeed(needID int64) ([]database.Match, error) {
	return f.matches[needID], nil
}

func testEnv(db *fakeMarketDB) *Env {
	return &Env{
		DB:       &database.Database{MarketDB: db},
		Validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// needsRouter mirrors the need routes the server mounts.
func needsRouter(env *Env) chi.Router {
	r := chi.NewRouter()
	r.Route("/needs", func(r chi.Router) {
		r.Post("/", env.CreateNeed)
		r.Get("/{id}", env.GetNeed)
		r.Put("/{id}", env.UpdateNeed)
		r.Delete("/{id}", env.CloseNeed)
		r.Get("/{id}/matches", env.NeedMatches)
	})
	return r
}

func authedRequest(method, target, body string, userID int64) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithCredential(r.Context(), config.CredentialEntry{
		UserID:   userID,
		Username: "tester",
	})
	return r.WithContext(ctx)
}

func TestCreateNeedHandler(t *testing.T) {
	t.Parallel()

	db := newFakeMarketDB()
	router := needsRouter(testEnv(db))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/needs",
		`{"title": "Guitar lessons", "category": "service", "isPublic": true}`, 7))

	require.Equal(t, http.StatusCreated, w.Code)
	var resp models.Need
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Guitar lessons", resp.Title)
	assert.Equal(t, "active", resp.Status)

	stored := db.needs[resp.ID]
	assert.Equal(t, int64(7), stored.UserID)
	assert.True(t, stored.IsPublic)
}

func TestCreateNeedHandlerRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"category": "service"}`},
		{"bad urgency", `{"title": "x", "urgencyLevel": "yesterday"}`},
		{"inverted budget", `{"title": "x", "budgetMin": 100, "budgetMax": 50}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router := needsRouter(testEnv(newFakeMarketDB()))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodPost, "/needs", tt.body, 7))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetNeedHandler(t *testing.T) {
	t.Parallel()

	db := newFakeMarketDB()
	db.needs[1] = database.Need{DBID: 1, UserID: 7, Title: "private need"}
	db.needs[2] = database.Need{DBID: 2, UserID: 7, Title: "public need", IsPublic: true}
	router := needsRouter(testEnv(db))

	t.Run("owner sees private need", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodGet, "/needs/1", "", 7))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("private need hidden from others", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodGet, "/needs/1", "", 8))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("public need visible to others", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodGet, "/needs/2", "", 8))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodGet, "/needs/99", "", 7))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodGet, "/needs/zero", "", 7))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateNeedHandlerOwnership(t *testing.T) {
	t.Parallel()

	db := newFakeMarketDB()
	db.needs[1] = database.Need{DBID: 1, UserID: 7, Title: "old", Status: "active"}
	router := needsRouter(testEnv(db))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPut, "/needs/1", `{"title": "hijack"}`, 8))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPut, "/needs/1", `{"title": "new title"}`, 7))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new title", db.needs[1].Title)
	// Status survives the update.
	assert.Equal(t, "active", db.needs[1].Status)
}

func TestCloseNeedHandler(t *testing.T) {
	t.Parallel()

	db := newFakeMarketDB()
	db.needs[1] = database.Need{DBID: 1, UserID: 7, Status: "active"}
	router := needsRouter(testEnv(db))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodDelete, "/needs/1", "", 7))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "closed", db.needs[1].Status)
}

func TestNeedMatchesHandler(t *testing.T) {
	t.Parallel()

	db := newFakeMarketDB()
	db.needs[1] = database.Need{DBID: 1, UserID: 7}
	db.matches[1] = []database.Match{
		{DBID: 10, NeedDBID: 1, ItemDBID: 20, Score: 0.8, Confidence: "high", Status: "pending"},
		{DBID: 11, NeedDBID: 1, ItemDBID: 21, Score: 0.5, Confidence: "low", Status: "pending"},
	}
	router := needsRouter(testEnv(db))

	t.Run("owner lists stored matches", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodGet, "/needs/1/matches", "", 7))
		require.Equal(t, http.StatusOK, w.Code)

		var resp []models.Match
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})

	t.Run("limit caps the list", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodGet, "/needs/1/matches?limit=1", "", 7))
		require.Equal(t, http.StatusOK, w.Code)

		var resp []models.Match
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodGet, "/needs/1/matches", "", 8))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
