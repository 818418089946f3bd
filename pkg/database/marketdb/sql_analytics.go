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
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

func sqlAddSearchEvent(ctx context.Context, db *sql.DB, e *database.SearchEvent) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into SearchEvents(
			UserID, BankType, BankSlug, Term, CategoryFilter, LocationFilter,
			MinPrice, MaxPrice, ResultsCount, SessionID, CreatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, e.UserID, e.BankType, e.BankSlug, e.Term, e.CategoryFilter, e.LocationFilter,
		e.MinPrice, e.MaxPrice, e.ResultsCount, e.SessionID, e.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert search event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get search event insert id: %w", err)
	}
	return id, nil
}

// sqlUpsertSearchAggregate bumps the rolling counter for one (item type,
// filter field, value/term) combination.
func sqlUpsertSearchAggregate(
	ctx context.Context, db *sql.DB,
	itemType, filterField, filterValue, searchTerm string, when time.Time,
) error {
	_, err := db.ExecContext(ctx, `
		insert into SearchAggregates(ItemType, FilterField, FilterValue, SearchTerm, SearchCount, LastSearched)
		values (?, ?, ?, ?, 1, ?)
		on conflict (ItemType, FilterField, FilterValue, SearchTerm) do update set
			SearchCount = SearchCount + 1,
			LastSearched = excluded.LastSearched;
	`, itemType, filterField, filterValue, searchTerm, when.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert search aggregate: %w", err)
	}
	return nil
}

// sqlListRecentSearchAggregates returns aggregates for an item type touched
// since the cutoff, most searched first. The popularity scorer reads these.
func sqlListRecentSearchAggregates(
	ctx context.Context, db *sql.DB,
	itemType string, since time.Time,
) ([]database.SearchAggregate, error) {
	rows, err := db.QueryContext(ctx, `
		select DBID, ItemType, FilterField, FilterValue, SearchTerm, SearchCount, LastSearched
		from SearchAggregates
		where ItemType = ? and LastSearched >= ?
		order by SearchCount desc;
	`, itemType, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query search aggregates: %w", err)
	}
	defer closeRows(rows)

	var list []database.SearchAggregate
	for rows.Next() {
		var a database.SearchAggregate
		var last int64
		scanErr := rows.Scan(&a.DBID, &a.ItemType, &a.FilterField, &a.FilterValue,
			&a.SearchTerm, &a.SearchCount, &last)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan search aggregate row: %w", scanErr)
		}
		a.LastSearched = time.Unix(last, 0)
		list = append(list, a)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating search aggregate rows: %w", err)
	}
	return list, nil
}

// sqlListRecentUserSearchEvents returns the user's latest searches since the
// cutoff, newest first. Personalized recommendations read these.
func sqlListRecentUserSearchEvents(
	ctx context.Context, db *sql.DB,
	userID int64, since time.Time, limit int,
) ([]database.SearchEvent, error) {
	rows, err := db.QueryContext(ctx, `
		select DBID, UserID, BankType, BankSlug, Term, CategoryFilter,
			LocationFilter, MinPrice, MaxPrice, ResultsCount, SessionID, CreatedAt
		from SearchEvents
		where UserID = ? and CreatedAt >= ?
		order by CreatedAt desc limit ?;
	`, userID, since.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent user searches: %w", err)
	}
	defer closeRows(rows)

	var list []database.SearchEvent
	for rows.Next() {
		var e database.SearchEvent
		var minPrice, maxPrice sql.NullFloat64
		var created int64
		scanErr := rows.Scan(&e.DBID, &e.UserID, &e.BankType, &e.BankSlug, &e.Term,
			&e.CategoryFilter, &e.LocationFilter, &minPrice, &maxPrice,
			&e.ResultsCount, &e.SessionID, &created)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan search event row: %w", scanErr)
		}
		if minPrice.Valid {
			e.MinPrice = &minPrice.Float64
		}
		if maxPrice.Valid {
			e.MaxPrice = &maxPrice.Float64
		}
		e.CreatedAt = time.Unix(created, 0)
		list = append(list, e)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating search event rows: %w", err)
	}
	return list, nil
}

// sqlPruneSearchAnalytics drops raw events and stale aggregates older than
// the cutoff. Returns the number of raw events removed.
func sqlPruneSearchAnalytics(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `
		delete from SearchEvents where CreatedAt < ?;
	`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune search events: %w", err)
	}
	pruned, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned search events: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		delete from SearchAggregates where LastSearched < ?;
	`, cutoff.Unix())
	if err != nil {
		return pruned, fmt.Errorf("failed to prune search aggregates: %w", err)
	}
	return pruned, nil
}
