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

const needColumns = `
	DBID, UserID, Title, Category, Subcategory, ShortDescription,
	DetailedDescription, Location, UrgencyLevel, BudgetMin, BudgetMax,
	Currency, Requirements, MustHave, NiceToHave, DealBreakers, Status,
	IsPublic, CreatedAt, UpdatedAt, ExpiresAt`

func sqlAddNeed(ctx context.Context, db *sql.DB, n *database.Need) (int64, error) {
	var expires any
	if n.ExpiresAt != nil {
		expires = n.ExpiresAt.Unix()
	}
	res, err := db.ExecContext(ctx, `
		insert into Needs(
			UserID, Title, Category, Subcategory, ShortDescription,
			DetailedDescription, Location, UrgencyLevel, BudgetMin, BudgetMax,
			Currency, Requirements, MustHave, NiceToHave, DealBreakers, Status,
			IsPublic, CreatedAt, UpdatedAt, ExpiresAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, n.UserID, n.Title, n.Category, n.Subcategory, n.ShortDescription,
		n.DetailedDescription, n.Location, n.UrgencyLevel, n.BudgetMin, n.BudgetMax,
		n.Currency, n.Requirements, n.MustHave, n.NiceToHave, n.DealBreakers,
		n.Status, n.IsPublic, n.CreatedAt.Unix(), n.UpdatedAt.Unix(), expires)
	if err != nil {
		return 0, fmt.Errorf("failed to insert need: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get need insert id: %w", err)
	}
	return id, nil
}

func scanNeed(row interface{ Scan(...any) error }) (database.Need, error) {
	var n database.Need
	var budgetMin, budgetMax sql.NullFloat64
	var created, updated int64
	var expires sql.NullInt64
	err := row.Scan(&n.DBID, &n.UserID, &n.Title, &n.Category, &n.Subcategory,
		&n.ShortDescription, &n.DetailedDescription, &n.Location, &n.UrgencyLevel,
		&budgetMin, &budgetMax, &n.Currency, &n.Requirements, &n.MustHave,
		&n.NiceToHave, &n.DealBreakers, &n.Status, &n.IsPublic,
		&created, &updated, &expires)
	if err != nil {
		return n, err
	}
	if budgetMin.Valid {
		n.BudgetMin = &budgetMin.Float64
	}
	if budgetMax.Valid {
		n.BudgetMax = &budgetMax.Float64
	}
	n.CreatedAt = time.Unix(created, 0)
	n.UpdatedAt = time.Unix(updated, 0)
	if expires.Valid {
		t := time.Unix(expires.Int64, 0)
		n.ExpiresAt = &t
	}
	return n, nil
}

func sqlGetNeed(ctx context.Context, db *sql.DB, id int64) (database.Need, error) {
	row := db.QueryRowContext(ctx,
		`select `+needColumns+` from Needs where DBID = ?;`, id)
	n, err := scanNeed(row)
	if err != nil {
		return n, fmt.Errorf("failed to query need: %w", err)
	}
	return n, nil
}

func scanNeeds(rows *sql.Rows) ([]database.Need, error) {
	var list []database.Need
	for rows.Next() {
		n, err := scanNeed(rows)
		if err != nil {
			return list, fmt.Errorf("failed to scan need row: %w", err)
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating need rows: %w", err)
	}
	return list, nil
}

func sqlListNeedsByUser(ctx context.Context, db *sql.DB, userID int64) ([]database.Need, error) {
	rows, err := db.QueryContext(ctx, `
		select `+needColumns+` from Needs where UserID = ? order by UpdatedAt desc;
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query needs by user: %w", err)
	}
	defer closeRows(rows)
	return scanNeeds(rows)
}

// sqlListActiveNeeds returns needs still open for matching: active status and
// not expired as of now.
func sqlListActiveNeeds(ctx context.Context, db *sql.DB, now time.Time) ([]database.Need, error) {
	rows, err := db.QueryContext(ctx, `
		select `+needColumns+` from Needs
		where Status = 'active' and (ExpiresAt is null or ExpiresAt > ?)
		order by UpdatedAt desc;
	`, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query active needs: %w", err)
	}
	defer closeRows(rows)
	return scanNeeds(rows)
}

func sqlUpdateNeed(ctx context.Context, db *sql.DB, n *database.Need) error {
	var expires any
	if n.ExpiresAt != nil {
		expires = n.ExpiresAt.Unix()
	}
	_, err := db.ExecContext(ctx, `
		update Needs set
			Title = ?, Category = ?, Subcategory = ?, ShortDescription = ?,
			DetailedDescription = ?, Location = ?, UrgencyLevel = ?,
			BudgetMin = ?, BudgetMax = ?, Currency = ?, Requirements = ?,
			MustHave = ?, NiceToHave = ?, DealBreakers = ?, Status = ?,
			IsPublic = ?, UpdatedAt = ?, ExpiresAt = ?
		where DBID = ?;
	`, n.Title, n.Category, n.Subcategory, n.ShortDescription,
		n.DetailedDescription, n.Location, n.UrgencyLevel, n.BudgetMin, n.BudgetMax,
		n.Currency, n.Requirements, n.MustHave, n.NiceToHave, n.DealBreakers,
		n.Status, n.IsPublic, n.UpdatedAt.Unix(), expires, n.DBID)
	if err != nil {
		return fmt.Errorf("failed to update need: %w", err)
	}
	return nil
}

func sqlUpdateNeedStatus(ctx context.Context, db *sql.DB, id int64, status string, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update Needs set Status = ?, UpdatedAt = ? where DBID = ?;
	`, status, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update need status: %w", err)
	}
	return nil
}
