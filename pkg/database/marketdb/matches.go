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

package marketdb

import (
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

// ReplaceMatchesForNeed atomically swaps a need's system-generated match
// batch for a freshly scored one. Connector recommendations are untouched.
func (db *MarketDB) ReplaceMatchesForNeed(needID int64, matches []database.Match, when time.Time) ([]int64, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlReplaceMatchesForNeed(db.ctx, db.sql, needID, matches, when)
}

func (db *MarketDB) UpsertRecommendation(m *database.Match) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlUpsertRecommendation(db.ctx, db.sql, m)
}

func (db *MarketDB) GetMatch(id int64) (database.Match, error) {
	if db.sql == nil {
		return database.Match{}, ErrNullSQL
	}
	return sqlGetMatch(db.ctx, db.sql, id)
}

func (db *MarketDB) ListMatchesForNeed(needID int64) ([]database.Match, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListMatchesForNeed(db.ctx, db.sql, needID)
}

func (db *MarketDB) ListRecommendationsByConnector(connectorID int64) ([]database.Match, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListRecommendationsByConnector(db.ctx, db.sql, connectorID)
}

// ListPendingMatches is the connector-facing recommendation queue.
func (db *MarketDB) ListPendingMatches(minScore float64, limit int) ([]database.Match, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListPendingMatches(db.ctx, db.sql, minScore, limit)
}

// ListPendingMatchesForUser scopes the pending queue to the user's own needs
// and hides matches they dismissed.
func (db *MarketDB) ListPendingMatchesForUser(userID int64, minScore float64, limit int) ([]database.Match, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListPendingMatchesForUser(db.ctx, db.sql, userID, minScore, limit)
}

func (db *MarketDB) UpdateMatchStatus(id int64, status string, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateMatchStatus(db.ctx, db.sql, id, status, when)
}

func (db *MarketDB) AssignMatch(id int64, status string, connectorID int64, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAssignMatch(db.ctx, db.sql, id, status, connectorID, when)
}

func (db *MarketDB) MarkMatchViewed(id int64, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMarkMatchViewed(db.ctx, db.sql, id, when)
}

func (db *MarketDB) SetMatchLiked(id int64, liked bool, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlSetMatchLiked(db.ctx, db.sql, id, liked, when)
}

func (db *MarketDB) MarkMatchContacted(id int64, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMarkMatchContacted(db.ctx, db.sql, id, when)
}

func (db *MarketDB) AddMatchFeedback(f *database.MatchFeedback) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddMatchFeedback(db.ctx, db.sql, f)
}

func (db *MarketDB) ListMatchFeedback(matchID int64) ([]database.MatchFeedback, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListMatchFeedback(db.ctx, db.sql, matchID)
}

func (db *MarketDB) MatchingStats() (database.MatchingStats, error) {
	if db.sql == nil {
		return database.MatchingStats{}, ErrNullSQL
	}
	return sqlMatchingStats(db.ctx, db.sql)
}

func (db *MarketDB) AddMatchSession(s *database.MatchSession) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddMatchSession(db.ctx, db.sql, s)
}

func (db *MarketDB) EndMatchSession(sessionID string, generated int, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlEndMatchSession(db.ctx, db.sql, sessionID, generated, when)
}

func (db *MarketDB) GetMatchSession(sessionID string) (database.MatchSession, error) {
	if db.sql == nil {
		return database.MatchSession{}, ErrNullSQL
	}
	return sqlGetMatchSession(db.ctx, db.sql, sessionID)
}
