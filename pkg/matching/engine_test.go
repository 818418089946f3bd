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

package matching

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/BankUProject/banku-core/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMarketDB implements the slice of the market store the engine touches.
// Calling anything else panics via the embedded nil interface.
type fakeMarketDB struct {
	database.MarketDBI

	mu syncutil.Mutex

	needs       map[int64]database.Need
	items       []database.Item
	aggregates  []database.SearchAggregate
	matches     map[int64]database.Match
	events      []database.SearchEvent
	byCategory  map[string][]database.Item
	mostViewed  []database.Item
	activeNeeds []database.Need

	stored          []database.Match
	recommendations []database.Match
	feedback        []database.MatchFeedback
	statuses        map[int64]string
	liked           map[int64]*bool
	contacted       map[int64]bool
	assigned        map[int64]int64
	sessionEnds     map[string]int
	nextID          int64
}

func newFakeMarketDB() *fakeMarketDB {
	return &fakeMarketDB{
		needs:       map[int64]database.Need{},
		matches:     map[int64]database.Match{},
		byCategory:  map[string][]database.Item{},
		statuses:    map[int64]string{},
		liked:       map[int64]*bool{},
		contacted:   map[int64]bool{},
		assigned:    map[int64]int64{},
		sessionEnds: map[string]int{},
	}
}

func (f *fakeMarketDB) GetNeed(id int64) (database.Need, error) {
	need, ok := f.needs[id]
	if !ok {
		return database.Need{}, sql.ErrNoRows
	}
	return need, nil
}

func (f *fakeMarketDB) GetItem(id int64) (database.Item, error) {
	for i := range f.items {
		if f.items[i].DBID == id {
			return f.items[i], nil
		}
	}
	return database.Item{}, sql.ErrNoRows
}

// ListCandidateItems mirrors the store query: hard filters first, the
// candidate cap on the filtered set.
func (f *fakeMarketDB) ListCandidateItems(q database.ItemQuery, excludeOwner int64) ([]database.Item, error) {
	out := make([]database.Item, 0, len(f.items))
	for i := range f.items {
		item := &f.items[i]
		if !item.IsAvailable {
			continue
		}
		if excludeOwner != 0 && item.OwnerID == excludeOwner {
			continue
		}
		if q.Category != "" && !strings.EqualFold(q.Category, item.Category) {
			continue
		}
		if q.Location != "" &&
			!strings.Contains(strings.ToLower(item.Location), strings.ToLower(q.Location)) {
			continue
		}
		if item.Price != nil {
			if q.MinPrice != nil && *item.Price < *q.MinPrice {
				continue
			}
			if q.MaxPrice != nil && *item.Price > *q.MaxPrice {
				continue
			}
		}
		out = append(out, *item)
		if len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMarketDB) ListRecentSearchAggregates(string, time.Time) ([]database.SearchAggregate, error) {
	return f.aggregates, nil
}

func (f *fakeMarketDB) AddMatchSession(s *database.MatchSession) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID, nil
}

func (f *fakeMarketDB) EndMatchSession(sessionID string, generated int, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionEnds[sessionID] = generated
	return nil
}

func (f *fakeMarketDB) ReplaceMatchesForNeed(_ int64, matches []database.Match, _ time.Time) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = nil
	ids := make([]int64, 0, len(matches))
	for i := range matches {
		f.nextID++
		matches[i].DBID = f.nextID
		f.stored = append(f.stored, matches[i])
		ids = append(ids, f.nextID)
	}
	return ids, nil
}

func (f *fakeMarketDB) ListMatchesForNeed(int64) ([]database.Match, error) {
	return f.stored, nil
}

func (f *fakeMarketDB) GetMatch(id int64) (database.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return database.Match{}, sql.ErrNoRows
	}
	return m, nil
}

func (f *fakeMarketDB) AddMatchFeedback(fb *database.MatchFeedback) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = append(f.feedback, *fb)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeMarketDB) UpdateMatchStatus(id int64, status string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}

func (f *fakeMarketDB) AssignMatch(id int64, status string, connectorID int64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	f.assigned[id] = connectorID
	return nil
}

func (f *fakeMarketDB) SetMatchLiked(id int64, liked bool, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.liked[id] = &liked
	return nil
}

func (f *fakeMarketDB) MarkMatchContacted(id int64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacted[id] = true
	return nil
}

func (f *fakeMarketDB) UpsertRecommendation(m *database.Match) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recommendations = append(f.recommendations, *m)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeMarketDB) ListActiveNeeds(time.Time) ([]database.Need, error) {
	return f.activeNeeds, nil
}

func (f *fakeMarketDB) ListRecentUserSearchEvents(int64, time.Time, int) ([]database.SearchEvent, error) {
	return f.events, nil
}

func (f *fakeMarketDB) ListMostViewedItemsByCategory(category string, limit int) ([]database.Item, error) {
	items := f.byCategory[category]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeMarketDB) ListMostViewedItems(limit int) ([]database.Item, error) {
	if len(f.mostViewed) > limit {
		return f.mostViewed[:limit], nil
	}
	return f.mostViewed, nil
}

func testEngine(t *testing.T, db database.MarketDBI) *Engine {
	t.Helper()
	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)
	return NewEngine(cfg, db, clockwork.NewFakeClock())
}

func TestFindMatches(t *testing.T) {
	t.Parallel()

	db := newFakeMarketDB()
	db.needs[1] = database.Need{
		DBID:     1,
		UserID:   1,
		Title:    "guitar lessons",
		Category: "service",
		Status:   "active",
	}
	db.items = []database.Item{
		{DBID: 10, OwnerID: 2, Title: "guitar lessons", Category: "service", IsAvailable: true},
		{DBID: 11, OwnerID: 2, Title: "bike repair", Category: "product", IsAvailable: true},
		{DBID: 12, OwnerID: 1, Title: "guitar lessons", Category: "service", IsAvailable: true},
	}

	engine := testEngine(t, db)
	matches, err := engine.FindMatches(context.Background(), 1, 1, 0)
	require.NoError(t, err)

	// The category filter removes item 11 and the pool excludes the need
	// owner's own item 12.
	require.Len(t, matches, 1)
	match := matches[0]
	assert.Equal(t, int64(10), match.ItemDBID)
	assert.Equal(t, "pending", match.Status)
	assert.Equal(t, "medium", match.Confidence)
	assert.Greater(t, match.Score, 0.3)
	assert.NotZero(t, match.DBID)

	// The session closed with the generated count.
	require.Len(t, db.sessionEnds, 1)
	for _, generated := range db.sessionEnds {
		assert.Equal(t, 1, generated)
	}
}

func TestFindMatchesDeepCatalogue(t *testing.T) {
	t.Parallel()

	db := newFakeMarketDB()
	db.needs[1] = database.Need{
		DBID:     1,
		UserID:   1,
		Title:    "guitar lessons",
		Category: "service",
		Status:   "active",
	}
	// Fill the catalogue with more off-category items than the candidate
	// cap before the only matching item. The cap bounds the filtered pool,
	// so the match must still surface.
	for i := 0; i < 150; i++ {
		db.items = append(db.items, database.Item{
			DBID:        int64(100 + i),
			OwnerID:     2,
			Title:       "bike repair",
			Category:    "product",
			IsAvailable: true,
		})
	}
	db.items = append(db.items, database.Item{
		DBID:        999,
		OwnerID:     2,
		Title:       "guitar lessons",
		Category:    "service",
		IsAvailable: true,
	})

	engine := testEngine(t, db)
	matches, err := engine.FindMatches(context.Background(), 1, 1, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(999), matches[0].ItemDBID)
}

func TestFindMatchesUnknownNeed(t *testing.T) {
	t.Parallel()

	engine := testEngine(t, newFakeMarketDB())
	_, err := engine.FindMatches(context.Background(), 1, 99, 5)
	assert.Error(t, err)
}

func TestRecordFeedback(t *testing.T) {
	t.Parallel()

	rating := 80

	tests := []struct {
		name       string
		fbType     string
		rating     *int
		wantStatus string
		wantLiked  *bool
		wantErr    bool
	}{
		{name: "like accepts", fbType: "like", wantStatus: "accepted", wantLiked: ptrBool(true)},
		{name: "dislike rejects", fbType: "dislike", wantStatus: "rejected", wantLiked: ptrBool(false)},
		{name: "contacted accepts", fbType: "contacted", wantStatus: "accepted"},
		{name: "dismissed leaves status", fbType: "dismissed"},
		{name: "rating leaves status", fbType: "rating", rating: &rating},
		{name: "rating without value", fbType: "rating", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := newFakeMarketDB()
			db.matches[5] = database.Match{DBID: 5, NeedDBID: 1, ItemDBID: 10, Status: "pending"}
			engine := testEngine(t, db)

			err := engine.RecordFeedback(context.Background(), 1, 5, tt.fbType, tt.rating, "")
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, db.feedback)
				return
			}
			require.NoError(t, err)

			require.Len(t, db.feedback, 1)
			assert.Equal(t, tt.fbType, db.feedback[0].Type)

			if tt.wantStatus == "" {
				assert.Empty(t, db.statuses)
			} else {
				assert.Equal(t, tt.wantStatus, db.statuses[5])
			}
			if tt.wantLiked != nil {
				require.NotNil(t, db.liked[5])
				assert.Equal(t, *tt.wantLiked, *db.liked[5])
			}
			if tt.fbType == "contacted" {
				assert.True(t, db.contacted[5])
			}
		})
	}
}

func ptrBool(v bool) *bool { return &v }

func TestRecordFeedbackUnknownMatch(t *testing.T) {
	t.Parallel()

	engine := testEngine(t, newFakeMarketDB())
	err := engine.RecordFeedback(context.Background(), 1, 404, "like", nil, "")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestUpdateRecommendationStatus(t *testing.T) {
	t.Parallel()

	db := newFakeMarketDB()
	db.matches[7] = database.Match{DBID: 7, Status: "pending"}
	engine := testEngine(t, db)

	require.NoError(t, engine.UpdateRecommendationStatus(context.Background(), 7, "accepted", nil))
	assert.Equal(t, "accepted", db.statuses[7])
	assert.Empty(t, db.assigned)

	connector := int64(42)
	require.NoError(t, engine.UpdateRecommendationStatus(context.Background(), 7, "pending", &connector))
	assert.Equal(t, connector, db.assigned[7])

	err := engine.UpdateRecommendationStatus(context.Background(), 404, "accepted", nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestCreateRecommendation(t *testing.T) {
	t.Parallel()

	db := newFakeMarketDB()
	db.needs[1] = database.Need{DBID: 1, UserID: 1}
	db.items = []database.Item{{DBID: 10, OwnerID: 2}}
	engine := testEngine(t, db)

	id, err := engine.CreateRecommendation(context.Background(), 1, 10, 42, 0.9, "curated")
	require.NoError(t, err)
	assert.NotZero(t, id)

	require.Len(t, db.recommendations, 1)
	rec := db.recommendations[0]
	require.NotNil(t, rec.ConnectorID)
	assert.Equal(t, int64(42), *rec.ConnectorID)
	assert.Equal(t, "high", rec.Confidence)
	assert.Equal(t, "pending", rec.Status)

	_, err = engine.CreateRecommendation(context.Background(), 99, 10, 42, 0.9, "")
	assert.Error(t, err)
}

func TestAutoGenerate(t *testing.T) {
	t.Parallel()

	db := newFakeMarketDB()
	need := database.Need{
		DBID:     1,
		UserID:   1,
		Title:    "vintage road bike",
		Category: "product",
		Status:   "active",
	}
	db.needs[1] = need
	db.activeNeeds = []database.Need{need}
	db.items = []database.Item{
		// Scores well: same title and category.
		{DBID: 10, OwnerID: 2, Title: "vintage road bike", Category: "product", IsAvailable: true},
		// Same category but nothing else in common; lands under the
		// auto-generation floor.
		{DBID: 11, OwnerID: 2, Title: "wool socks", Category: "product", IsAvailable: true},
	}

	engine := testEngine(t, db)
	created, err := engine.AutoGenerate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, created)
	require.Len(t, db.recommendations, 1)
	assert.Equal(t, int64(10), db.recommendations[0].ItemDBID)
	assert.GreaterOrEqual(t, db.recommendations[0].Score, 0.6)
}

func TestPersonalRecommendations(t *testing.T) {
	t.Parallel()

	t.Run("recent categories drive suggestions", func(t *testing.T) {
		t.Parallel()

		db := newFakeMarketDB()
		db.events = []database.SearchEvent{
			{CategoryFilter: "product"},
			{CategoryFilter: "Product"}, // dedupe, case-insensitive
			{CategoryFilter: "service"},
			{CategoryFilter: ""},
		}
		db.byCategory["product"] = []database.Item{{DBID: 1}, {DBID: 2}, {DBID: 3}}
		db.byCategory["service"] = []database.Item{{DBID: 2}, {DBID: 4}}

		engine := testEngine(t, db)
		items, err := engine.PersonalRecommendations(context.Background(), 1, 10)
		require.NoError(t, err)

		// Two per category, duplicates removed across categories.
		ids := make([]int64, 0, len(items))
		for i := range items {
			ids = append(ids, items[i].DBID)
		}
		assert.Equal(t, []int64{1, 2, 4}, ids)
	})

	t.Run("no search history falls back to most viewed", func(t *testing.T) {
		t.Parallel()

		db := newFakeMarketDB()
		db.mostViewed = []database.Item{{DBID: 9}, {DBID: 8}}

		engine := testEngine(t, db)
		items, err := engine.PersonalRecommendations(context.Background(), 1, 10)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(9), items[0].DBID)
	})
}
