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

package userdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

func sqlAddDeal(ctx context.Context, db *sql.DB, d *database.Deal) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into Deals(Title, MatchDBID, NeedOwnerID, ItemOwnerID, Amount, Currency, Status, CreatedAt, UpdatedAt)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, d.Title, d.MatchDBID, d.NeedOwnerID, d.ItemOwnerID, d.Amount, d.Currency,
		d.Status, d.CreatedAt.Unix(), d.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert deal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get deal insert id: %w", err)
	}
	return id, nil
}

func scanDeal(row interface{ Scan(...any) error }) (database.Deal, error) {
	var d database.Deal
	var created, updated int64
	var completed sql.NullInt64
	err := row.Scan(&d.DBID, &d.Title, &d.MatchDBID, &d.NeedOwnerID, &d.ItemOwnerID,
		&d.Amount, &d.Currency, &d.Status, &created, &updated, &completed)
	if err != nil {
		return d, err
	}
	d.CreatedAt = time.Unix(created, 0)
	d.UpdatedAt = time.Unix(updated, 0)
	if completed.Valid {
		t := time.Unix(completed.Int64, 0)
		d.CompletedAt = &t
	}
	return d, nil
}

const dealColumns = `
	DBID, Title, MatchDBID, NeedOwnerID, ItemOwnerID,
	Amount, Currency, Status, CreatedAt, UpdatedAt, CompletedAt`

func sqlGetDeal(ctx context.Context, db *sql.DB, id int64) (database.Deal, error) {
	row := db.QueryRowContext(ctx,
		`select `+dealColumns+` from Deals where DBID = ?;`, id)
	d, err := scanDeal(row)
	if err != nil {
		return d, fmt.Errorf("failed to query deal: %w", err)
	}
	return d, nil
}

func sqlGetDealByMatch(ctx context.Context, db *sql.DB, matchID int64) (database.Deal, error) {
	row := db.QueryRowContext(ctx,
		`select `+dealColumns+` from Deals where MatchDBID = ?;`, matchID)
	d, err := scanDeal(row)
	if err != nil {
		return d, fmt.Errorf("failed to query deal by match: %w", err)
	}
	return d, nil
}

func sqlListDealsForUser(ctx context.Context, db *sql.DB, userID int64) ([]database.Deal, error) {
	rows, err := db.QueryContext(ctx, `
		select `+dealColumns+` from Deals
		where NeedOwnerID = ? or ItemOwnerID = ?
		order by UpdatedAt desc;
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer closeRows(rows)

	var list []database.Deal
	for rows.Next() {
		d, scanErr := scanDeal(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan deal row: %w", scanErr)
		}
		list = append(list, d)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating deal rows: %w", err)
	}
	return list, nil
}

func sqlUpdateDealStatus(ctx context.Context, db *sql.DB, id int64, status string, when time.Time) error {
	var err error
	if status == "completed" {
		_, err = db.ExecContext(ctx, `
			update Deals set Status = ?, UpdatedAt = ?, CompletedAt = ? where DBID = ?;
		`, status, when.Unix(), when.Unix(), id)
	} else {
		_, err = db.ExecContext(ctx, `
			update Deals set Status = ?, UpdatedAt = ? where DBID = ?;
		`, status, when.Unix(), id)
	}
	if err != nil {
		return fmt.Errorf("failed to update deal status: %w", err)
	}
	return nil
}

func sqlAddDealMessage(ctx context.Context, db *sql.DB, m *database.DealMessage) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into DealMessages(DealDBID, UserID, Body, CreatedAt)
		values (?, ?, ?, ?);
	`, m.DealDBID, m.UserID, m.Body, m.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert deal message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get deal message insert id: %w", err)
	}
	return id, nil
}

func sqlListDealMessages(ctx context.Context, db *sql.DB, dealID int64) ([]database.DealMessage, error) {
	rows, err := db.QueryContext(ctx, `
		select DBID, DealDBID, UserID, Body, CreatedAt
		from DealMessages where DealDBID = ? order by DBID asc;
	`, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deal messages: %w", err)
	}
	defer closeRows(rows)

	var list []database.DealMessage
	for rows.Next() {
		var m database.DealMessage
		var created int64
		if scanErr := rows.Scan(&m.DBID, &m.DealDBID, &m.UserID, &m.Body, &created); scanErr != nil {
			return list, fmt.Errorf("failed to scan deal message row: %w", scanErr)
		}
		m.CreatedAt = time.Unix(created, 0)
		list = append(list, m)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating deal message rows: %w", err)
	}
	return list, nil
}
