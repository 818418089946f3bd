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

const bankColumns = `
	DBID, Name, Slug, Description, BankType, ItemType, PrivacyFilter,
	CreatedBy, SortOrder, ContentCount, IsActive, IsPublic, CreatedAt, UpdatedAt`

func sqlAddBank(ctx context.Context, db *sql.DB, b *database.Bank) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into Banks(
			Name, Slug, Description, BankType, ItemType, PrivacyFilter,
			CreatedBy, SortOrder, ContentCount, IsActive, IsPublic, CreatedAt, UpdatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, b.Name, b.Slug, b.Description, b.BankType, b.ItemType, b.PrivacyFilter,
		b.CreatedBy, b.SortOrder, b.ContentCount, b.IsActive, b.IsPublic,
		b.CreatedAt.Unix(), b.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert bank: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get bank insert id: %w", err)
	}
	return id, nil
}

func scanBank(row interface{ Scan(...any) error }) (database.Bank, error) {
	var b database.Bank
	var created, updated int64
	err := row.Scan(&b.DBID, &b.Name, &b.Slug, &b.Description, &b.BankType,
		&b.ItemType, &b.PrivacyFilter, &b.CreatedBy, &b.SortOrder,
		&b.ContentCount, &b.IsActive, &b.IsPublic, &created, &updated)
	if err != nil {
		return b, err
	}
	b.CreatedAt = time.Unix(created, 0)
	b.UpdatedAt = time.Unix(updated, 0)
	return b, nil
}

func sqlGetBank(ctx context.Context, db *sql.DB, id int64) (database.Bank, error) {
	row := db.QueryRowContext(ctx,
		`select `+bankColumns+` from Banks where DBID = ?;`, id)
	b, err := scanBank(row)
	if err != nil {
		return b, fmt.Errorf("failed to query bank: %w", err)
	}
	return b, nil
}

func sqlGetBankBySlug(ctx context.Context, db *sql.DB, slug string) (database.Bank, error) {
	row := db.QueryRowContext(ctx,
		`select `+bankColumns+` from Banks where Slug = ?;`, slug)
	b, err := scanBank(row)
	if err != nil {
		return b, fmt.Errorf("failed to query bank by slug: %w", err)
	}
	return b, nil
}

func sqlListBanks(ctx context.Context, db *sql.DB, publicOnly bool) ([]database.Bank, error) {
	q := `select ` + bankColumns + ` from Banks where IsActive = 1`
	if publicOnly {
		q += ` and IsPublic = 1`
	}
	q += ` order by SortOrder asc, Name asc;`

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query banks: %w", err)
	}
	defer closeRows(rows)

	var list []database.Bank
	for rows.Next() {
		b, scanErr := scanBank(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan bank row: %w", scanErr)
		}
		list = append(list, b)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating bank rows: %w", err)
	}
	return list, nil
}

// sqlAddBankEntry links an item into a bank and keeps the cached content
// count in step, in one transaction. Duplicate links are ignored.
func sqlAddBankEntry(ctx context.Context, db *sql.DB, bankID, itemID int64, when time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackTx(tx)

	res, err := tx.ExecContext(ctx, `
		insert or ignore into BankEntries(BankDBID, ItemDBID, AddedAt)
		values (?, ?, ?);
	`, bankID, itemID, when.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert bank entry: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check bank entry insert: %w", err)
	}
	if inserted > 0 {
		_, err = tx.ExecContext(ctx, `
			update Banks set ContentCount = ContentCount + 1, UpdatedAt = ? where DBID = ?;
		`, when.Unix(), bankID)
		if err != nil {
			return fmt.Errorf("failed to bump bank content count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bank entry: %w", err)
	}
	return nil
}

func sqlRemoveBankEntry(ctx context.Context, db *sql.DB, bankID, itemID int64, when time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackTx(tx)

	res, err := tx.ExecContext(ctx, `
		delete from BankEntries where BankDBID = ? and ItemDBID = ?;
	`, bankID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete bank entry: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check bank entry delete: %w", err)
	}
	if deleted > 0 {
		_, err = tx.ExecContext(ctx, `
			update Banks set ContentCount = ContentCount - 1, UpdatedAt = ? where DBID = ?;
		`, when.Unix(), bankID)
		if err != nil {
			return fmt.Errorf("failed to lower bank content count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bank entry removal: %w", err)
	}
	return nil
}

// itemColumnsQualified disambiguates DBID when joining against BankEntries.
const itemColumnsQualified = `
	Items.DBID, Items.OwnerID, Items.Title, Items.ItemType, Items.Category,
	Items.Subcategory, Items.ShortDescription, Items.DetailedDescription,
	Items.Location, Items.PricingType, Items.Price, Items.Currency, Items.Tags,
	Items.Attrs, Items.Rating, Items.ReviewCount, Items.RequestCount,
	Items.Views, Items.IsAvailable, Items.IsVerified, Items.CreatedAt,
	Items.UpdatedAt`

func sqlListBankItems(ctx context.Context, db *sql.DB, bankID int64) ([]database.Item, error) {
	rows, err := db.QueryContext(ctx, `
		select `+itemColumnsQualified+` from Items
		inner join BankEntries on BankEntries.ItemDBID = Items.DBID
		where BankEntries.BankDBID = ? and Items.IsAvailable = 1
		order by BankEntries.AddedAt desc;
	`, bankID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank items: %w", err)
	}
	defer closeRows(rows)
	return scanItems(rows)
}
