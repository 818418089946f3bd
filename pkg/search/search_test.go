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

package search

import (
	"testing"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type aggregateKey struct {
	itemType    string
	filterField string
	filterValue string
	searchTerm  string
}

// fakeSearchDB implements the store surface the search service uses.
type fakeSearchDB struct {
	database.MarketDBI

	queries    []database.ItemQuery
	results    map[string][]database.Item // keyed by term, "" for filtered pass
	events     []database.SearchEvent
	aggregates []aggregateKey
}

func (f *fakeSearchDB) SearchItems(q database.ItemQuery) ([]database.Item, error) {
	f.queries = append(f.queries, q)
	return f.results[q.Term], nil
}

func (f *fakeSearchDB) AddSearchEvent(e *database.SearchEvent) (int64, error) {
	f.events = append(f.events, *e)
	return int64(len(f.events)), nil
}

func (f *fakeSearchDB) UpsertSearchAggregate(itemType, filterField, filterValue, searchTerm string, _ time.Time) error {
	f.aggregates = append(f.aggregates, aggregateKey{itemType, filterField, filterValue, searchTerm})
	return nil
}

func TestSearchRecordsAnalytics(t *testing.T) {
	t.Parallel()

	db := &fakeSearchDB{results: map[string][]database.Item{
		"bike": {{DBID: 1, Title: "Road Bike"}},
	}}
	svc := NewService(db, clockwork.NewFakeClock())

	items, err := svc.Search(Query{
		Term:     "bike",
		Category: "product",
		Location: "Berlin",
		UserID:   7,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.Len(t, db.events, 1)
	event := db.events[0]
	assert.Equal(t, "bike", event.Term)
	assert.Equal(t, "product", event.CategoryFilter)
	assert.Equal(t, int64(7), event.UserID)
	assert.Equal(t, 1, event.ResultsCount)

	// One aggregate per populated dimension.
	assert.Contains(t, db.aggregates, aggregateKey{"product", "category", "product", ""})
	assert.Contains(t, db.aggregates, aggregateKey{"product", "location", "Berlin", ""})
	assert.Contains(t, db.aggregates, aggregateKey{"product", "search_term", "", "bike"})
}

func TestSearchFuzzyFallback(t *testing.T) {
	t.Parallel()

	// The filtered pass finds nothing for the misspelled term; the
	// fallback pool (term-less query) holds a near-miss title.
	db := &fakeSearchDB{results: map[string][]database.Item{
		"": {{DBID: 1, Title: "Guitar Lessons"}, {DBID: 2, Title: "Bike Repair"}},
	}}
	svc := NewService(db, clockwork.NewFakeClock())

	items, err := svc.Search(Query{Term: "guitar lesons"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].DBID)

	// Two store queries: the filtered pass, then the fallback pool.
	require.Len(t, db.queries, 2)
	assert.Equal(t, "guitar lesons", db.queries[0].Term)
	assert.Empty(t, db.queries[1].Term)
}

func TestSearchNoFallbackWithoutTerm(t *testing.T) {
	t.Parallel()

	db := &fakeSearchDB{results: map[string][]database.Item{}}
	svc := NewService(db, clockwork.NewFakeClock())

	items, err := svc.Search(Query{Category: "product"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Len(t, db.queries, 1)
}
