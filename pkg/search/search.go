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

// Package search implements filtered item search with a fuzzy title fallback
// and search analytics recording.
package search

import (
	"fmt"
	"strings"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultLimit caps one result page.
	DefaultLimit = 50

	// fuzzyPoolLimit bounds how many titles the fallback pass considers.
	fuzzyPoolLimit = 500

	fuzzyMaxDistance   = 10
	fuzzyMinSimilarity = 0.75
)

// Query is one search request.
type Query struct {
	Term     string
	Category string
	Location string
	BankSlug string
	BankType string
	MinPrice *float64
	MaxPrice *float64
	UserID   int64
	Limit    int
}

type Service struct {
	db    database.MarketDBI
	clock clockwork.Clock
}

func NewService(db database.MarketDBI, clock clockwork.Clock) *Service {
	return &Service{db: db, clock: clock}
}

// Search runs the filtered pass; an empty result with a term set falls back
// to fuzzy title matching. Every search is recorded for analytics.
func (s *Service) Search(q Query) ([]database.Item, error) {
	if q.Limit <= 0 || q.Limit > DefaultLimit {
		q.Limit = DefaultLimit
	}

	items, err := s.db.SearchItems(database.ItemQuery{
		Term:     q.Term,
		Category: q.Category,
		Location: q.Location,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run item search: %w", err)
	}

	if len(items) == 0 && strings.TrimSpace(q.Term) != "" {
		items, err = s.fuzzyFallback(q)
		if err != nil {
			return nil, err
		}
	}

	s.recordSearch(q, len(items))
	return items, nil
}

// fuzzyFallback re-runs the non-term filters and ranks the surviving titles
// by Jaro-Winkler similarity to the term.
func (s *Service) fuzzyFallback(q Query) ([]database.Item, error) {
	pool, err := s.db.SearchItems(database.ItemQuery{
		Category: q.Category,
		Location: q.Location,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Limit:    fuzzyPoolLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load fuzzy candidate pool: %w", err)
	}

	byTitle := make(map[string]*database.Item, len(pool))
	titles := make([]string, 0, len(pool))
	for i := range pool {
		byTitle[pool[i].Title] = &pool[i]
		titles = append(titles, pool[i].Title)
	}

	ranked := FindFuzzyMatches(q.Term, titles, fuzzyMaxDistance, fuzzyMinSimilarity)
	items := make([]database.Item, 0, len(ranked))
	for _, match := range ranked {
		if item, ok := byTitle[match.Title]; ok {
			items = append(items, *item)
			if len(items) >= q.Limit {
				break
			}
		}
	}
	return items, nil
}

// recordSearch stores the raw event and bumps the aggregates the popularity
// scorer consumes. Analytics failures are logged, never surfaced.
func (s *Service) recordSearch(q Query, results int) {
	now := s.clock.Now()

	event := database.SearchEvent{
		UserID:         q.UserID,
		BankType:       q.BankType,
		BankSlug:       q.BankSlug,
		Term:           q.Term,
		CategoryFilter: q.Category,
		LocationFilter: q.Location,
		MinPrice:       q.MinPrice,
		MaxPrice:       q.MaxPrice,
		ResultsCount:   results,
		CreatedAt:      now,
	}
	if _, err := s.db.AddSearchEvent(&event); err != nil {
		log.Warn().Err(err).Msg("failed to record search event")
		return
	}

	itemType := q.BankType
	if itemType == "" {
		itemType = q.Category
	}
	if itemType == "" {
		return
	}
	if q.Category != "" {
		if err := s.db.UpsertSearchAggregate(itemType, "category", q.Category, "", now); err != nil {
			log.Warn().Err(err).Msg("failed to record category aggregate")
		}
	}
	if q.Location != "" {
		if err := s.db.UpsertSearchAggregate(itemType, "location", q.Location, "", now); err != nil {
			log.Warn().Err(err).Msg("failed to record location aggregate")
		}
	}
	if strings.TrimSpace(q.Term) != "" {
		if err := s.db.UpsertSearchAggregate(itemType, "search_term", "", q.Term, now); err != nil {
			log.Warn().Err(err).Msg("failed to record term aggregate")
		}
	}
}
