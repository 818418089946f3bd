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

// Package matching implements the need/item scorer and the surrounding
// session, feedback and recommendation life cycle.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMatchLimit caps one FindMatches batch unless the caller asks
	// for less.
	DefaultMatchLimit = 10

	// popularityWindow is the rolling analytics window the popularity
	// sub-score reads.
	popularityWindow = 30 * 24 * time.Hour

	// popularityTopN caps how many aggregate rows feed one score.
	popularityTopN = 20

	// autoGenLimit is the per-need match cap during auto-generation.
	autoGenLimit = 5

	// autoGenMinScore is the floor for auto-created recommendations.
	autoGenMinScore = 0.6

	// autoGenConcurrency bounds the needs scored in parallel.
	autoGenConcurrency = 4

	// personalWindow and personalSearchLimit bound the recent-search
	// sample behind personalized recommendations.
	personalWindow      = 7 * 24 * time.Hour
	personalSearchLimit = 10
	personalPerCategory = 2
)

var ErrMatchNotFound = errors.New("match not found")

type Engine struct {
	cfg   *config.Instance
	db    database.MarketDBI
	cache PopularityCache
	clock clockwork.Clock
}

func NewEngine(cfg *config.Instance, db database.MarketDBI, clock clockwork.Clock) *Engine {
	var cache PopularityCache
	if addr := cfg.Matching().RedisAddr; addr != "" {
		cache = NewRedisPopularityCache(addr)
	} else {
		cache = NewMemoryPopularityCache(clock)
	}
	return &Engine{cfg: cfg, db: db, cache: cache, clock: clock}
}

// FindMatches scores the candidate pool against a need, persists the
// surviving matches and returns them best-first. Every call runs under a
// matching session row.
func (e *Engine) FindMatches(ctx context.Context, userID, needID int64, limit int) ([]database.Match, error) {
	if limit <= 0 || limit > DefaultMatchLimit {
		limit = DefaultMatchLimit
	}

	need, err := e.db.GetNeed(needID)
	if err != nil {
		return nil, fmt.Errorf("failed to load need: %w", err)
	}

	now := e.clock.Now()
	session := database.MatchSession{
		ID:          uuid.NewString(),
		UserID:      userID,
		NeedDBID:    needID,
		SessionType: "search",
		StartedAt:   now,
	}
	if _, err := e.db.AddMatchSession(&session); err != nil {
		return nil, fmt.Errorf("failed to open matching session: %w", err)
	}

	matches, err := e.generateMatches(ctx, &need, limit)
	if err != nil {
		log.Error().Err(err).Int64("need", needID).Msg("match generation failed")
		// A failed run keeps its session row, closed with zero matches,
		// so the attempt stays visible in the session history.
		if endErr := e.db.EndMatchSession(session.ID, 0, e.clock.Now()); endErr != nil {
			log.Warn().Err(endErr).Msg("failed to close matching session")
		}
		return nil, err
	}

	if _, err := e.db.ReplaceMatchesForNeed(needID, matches, now); err != nil {
		log.Error().Err(err).Int64("need", needID).Msg("failed to persist match batch")
		if endErr := e.db.EndMatchSession(session.ID, 0, e.clock.Now()); endErr != nil {
			log.Warn().Err(endErr).Msg("failed to close matching session")
		}
		return nil, err
	}

	if err := e.db.EndMatchSession(session.ID, len(matches), e.clock.Now()); err != nil {
		log.Warn().Err(err).Msg("failed to close matching session")
	}

	// Re-read so callers see the stored IDs.
	stored, err := e.db.ListMatchesForNeed(needID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored matches: %w", err)
	}
	if len(stored) > limit {
		stored = stored[:limit]
	}
	return stored, nil
}

// generateMatches scores the candidate pool and returns the retained batch,
// unpersisted. The need's hard filters run inside the store query, so the
// candidate cap bounds the filtered pool rather than the raw table scan.
func (e *Engine) generateMatches(ctx context.Context, need *database.Need, limit int) ([]database.Match, error) {
	tunables := e.cfg.Matching()

	candidates, err := e.db.ListCandidateItems(database.ItemQuery{
		Category: need.Category,
		Location: need.Location,
		MinPrice: need.BudgetMin,
		MaxPrice: need.BudgetMax,
		Limit:    tunables.CandidateLimit,
	}, need.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}

	now := e.clock.Now()
	matches := make([]database.Match, 0, len(candidates))
	for i := range candidates {
		item := &candidates[i]
		aggs, aggErr := e.aggregatesFor(ctx, item.Category)
		if aggErr != nil {
			log.Warn().Err(aggErr).Str("category", item.Category).
				Msg("popularity window unavailable, scoring neutral")
		}

		scores := Score(need, item, aggs)
		combined := scores.Combine(tunables)
		if combined <= tunables.MinScore {
			continue
		}

		matches = append(matches, database.Match{
			NeedDBID:   need.DBID,
			ItemDBID:   item.DBID,
			Score:      combined,
			Confidence: Confidence(combined),
			Reason:     scores.Reason(),
			Status:     "pending",
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// aggregatesFor loads the popularity window for a category, via the cache
// when warm.
func (e *Engine) aggregatesFor(ctx context.Context, category string) ([]database.SearchAggregate, error) {
	if category == "" {
		return nil, nil
	}
	if aggs, err := e.cache.Get(ctx, category); err == nil {
		return aggs, nil
	}

	since := e.clock.Now().Add(-popularityWindow)
	aggs, err := e.db.ListRecentSearchAggregates(category, since)
	if err != nil {
		return nil, err
	}
	if len(aggs) > popularityTopN {
		aggs = aggs[:popularityTopN]
	}
	if err := e.cache.Set(ctx, category, aggs); err != nil {
		log.Warn().Err(err).Msg("failed to warm popularity cache")
	}
	return aggs, nil
}

// RecordFeedback stores user feedback on a match and applies its side effect
// on the match row. Ratings are 1-100 and recorded for analysis only.
func (e *Engine) RecordFeedback(_ context.Context, userID, matchID int64, fbType string, rating *int, comment string) error {
	if fbType == "rating" {
		if rating == nil || *rating < 1 || *rating > 100 {
			return errors.New("rating feedback requires a value between 1 and 100")
		}
	}

	if _, err := e.db.GetMatch(matchID); err != nil {
		return fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}

	now := e.clock.Now()
	feedback := database.MatchFeedback{
		MatchDBID: matchID,
		UserID:    userID,
		Type:      fbType,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
	}
	if _, err := e.db.AddMatchFeedback(&feedback); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	switch fbType {
	case "like":
		if err := e.db.SetMatchLiked(matchID, true, now); err != nil {
			return err
		}
		return e.db.UpdateMatchStatus(matchID, "accepted", now)
	case "dislike":
		if err := e.db.SetMatchLiked(matchID, false, now); err != nil {
			return err
		}
		return e.db.UpdateMatchStatus(matchID, "rejected", now)
	case "contacted":
		if err := e.db.MarkMatchContacted(matchID, now); err != nil {
			return err
		}
		return e.db.UpdateMatchStatus(matchID, "accepted", now)
	}
	// dismissed and rating leave the match row untouched.
	return nil
}

// CreateRecommendation records a connector-made match. Existing (need, item)
// rows are updated in place rather than duplicated.
func (e *Engine) CreateRecommendation(_ context.Context, needID, itemID, connectorID int64, score float64, reason string) (int64, error) {
	if _, err := e.db.GetNeed(needID); err != nil {
		return 0, fmt.Errorf("failed to load need: %w", err)
	}
	if _, err := e.db.GetItem(itemID); err != nil {
		return 0, fmt.Errorf("failed to load item: %w", err)
	}

	now := e.clock.Now()
	match := database.Match{
		NeedDBID:    needID,
		ItemDBID:    itemID,
		ConnectorID: &connectorID,
		Score:       score,
		Confidence:  Confidence(score),
		Reason:      reason,
		Status:      "pending",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := e.db.UpsertRecommendation(&match)
	if err != nil {
		return 0, fmt.Errorf("failed to create recommendation: %w", err)
	}
	return id, nil
}

// PendingRecommendations is the connector-facing queue: pending matches at or
// above the medium-confidence floor.
func (e *Engine) PendingRecommendations(_ context.Context, limit int) ([]database.Match, error) {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	return e.db.ListPendingMatches(autoGenMinScore, limit)
}

// UserRecommendations is the same queue scoped to one user's needs, with
// dismissed matches hidden.
func (e *Engine) UserRecommendations(_ context.Context, userID int64, limit int) ([]database.Match, error) {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	return e.db.ListPendingMatchesForUser(userID, autoGenMinScore, limit)
}

// UpdateRecommendationStatus moves a recommendation through its life cycle,
// optionally assigning a connector.
func (e *Engine) UpdateRecommendationStatus(_ context.Context, matchID int64, status string, connectorID *int64) error {
	if _, err := e.db.GetMatch(matchID); err != nil {
		return fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}
	now := e.clock.Now()
	if connectorID != nil {
		return e.db.AssignMatch(matchID, status, *connectorID, now)
	}
	return e.db.UpdateMatchStatus(matchID, status, now)
}

// PersonalRecommendations suggests items from the categories the user
// searched in the last week, falling back to globally most-viewed items.
func (e *Engine) PersonalRecommendations(_ context.Context, userID int64, limit int) ([]database.Item, error) {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	since := e.clock.Now().Add(-personalWindow)
	events, err := e.db.ListRecentUserSearchEvents(userID, since, personalSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent searches: %w", err)
	}

	seenCategory := make(map[string]struct{})
	seenItem := make(map[int64]struct{})
	var out []database.Item
	for i := range events {
		category := strings.TrimSpace(events[i].CategoryFilter)
		if category == "" {
			continue
		}
		key := strings.ToLower(category)
		if _, dup := seenCategory[key]; dup {
			continue
		}
		seenCategory[key] = struct{}{}

		items, itemsErr := e.db.ListMostViewedItemsByCategory(category, personalPerCategory)
		if itemsErr != nil {
			return nil, fmt.Errorf("failed to load category items: %w", itemsErr)
		}
		for j := range items {
			if _, dup := seenItem[items[j].DBID]; dup {
				continue
			}
			seenItem[items[j].DBID] = struct{}{}
			out = append(out, items[j])
			if len(out) >= limit {
				return out, nil
			}
		}
	}

	if len(out) == 0 {
		return e.db.ListMostViewedItems(limit)
	}
	return out, nil
}

// AutoGenerate scores every active need and creates recommendations for
// matches at or above the medium-confidence floor. Returns how many were
// created. Needs are processed concurrently but bounded.
func (e *Engine) AutoGenerate(ctx context.Context) (int, error) {
	needs, err := e.db.ListActiveNeeds(e.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list active needs: %w", err)
	}

	var created atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(autoGenConcurrency)

	for i := range needs {
		need := needs[i]
		g.Go(func() error {
			matches, genErr := e.generateMatches(ctx, &need, autoGenLimit)
			if genErr != nil {
				return fmt.Errorf("failed to score need %d: %w", need.DBID, genErr)
			}
			now := e.clock.Now()
			for j := range matches {
				if matches[j].Score < autoGenMinScore {
					continue
				}
				matches[j].CreatedAt = now
				matches[j].UpdatedAt = now
				if _, upErr := e.db.UpsertRecommendation(&matches[j]); upErr != nil {
					return fmt.Errorf("failed to store recommendation: %w", upErr)
				}
				created.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(created.Load()), err
	}
	return int(created.Load()), nil
}
