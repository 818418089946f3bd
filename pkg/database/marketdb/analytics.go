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

func (db *MarketDB) AddSearchEvent(e *database.SearchEvent) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddSearchEvent(db.ctx, db.sql, e)
}

func (db *MarketDB) UpsertSearchAggregate(itemType, filterField, filterValue, searchTerm string, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpsertSearchAggregate(db.ctx, db.sql, itemType, filterField, filterValue, searchTerm, when)
}

func (db *MarketDB) ListRecentSearchAggregates(itemType string, since time.Time) ([]database.SearchAggregate, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListRecentSearchAggregates(db.ctx, db.sql, itemType, since)
}

func (db *MarketDB) ListRecentUserSearchEvents(userID int64, since time.Time, limit int) ([]database.SearchEvent, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListRecentUserSearchEvents(db.ctx, db.sql, userID, since, limit)
}

// PruneSearchAnalytics removes events and aggregates last touched before the
// cutoff, returning how many raw events were dropped.
func (db *MarketDB) PruneSearchAnalytics(cutoff time.Time) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlPruneSearchAnalytics(db.ctx, db.sql, cutoff)
}
