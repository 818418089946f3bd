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

const itemColumns = `
	DBID, OwnerID, Title, ItemType, Category, Subcategory,
	ShortDescription, DetailedDescription, Location, PricingType,
	Price, Currency, Tags, Attrs, Rating, ReviewCount, RequestCount,
	Views, IsAvailable, IsVerified, CreatedAt, UpdatedAt`

func sqlAddItem(ctx context.Context, db *sql.DB, item *database.Item) (int64, error) {
	tags, err := marshalJSON(item.Tags, "[]")
	if err != nil {
		return 0, err
	}
	attrs, err := marshalJSON(item.Attrs, "{}")
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx, `
		insert into Items(
			OwnerID, Title, ItemType, Category, Subcategory,
			ShortDescription, DetailedDescription, Location, PricingType,
			Price, Currency, Tags, Attrs, Rating, ReviewCount, RequestCount,
			Views, IsAvailable, IsVerified, CreatedAt, UpdatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, item.OwnerID, item.Title, item.ItemType, item.Category, item.Subcategory,
		item.ShortDescription, item.DetailedDescription, item.Location, item.PricingType,
		item.Price, item.Currency, tags, attrs, item.Rating, item.ReviewCount,
		item.RequestCount, item.Views, item.IsAvailable, item.IsVerified,
		item.CreatedAt.Unix(), item.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get item insert id: %w", err)
	}
	return id, nil
}

func scanItem(row interface{ Scan(...any) error }) (database.Item, error) {
	var item database.Item
	var tags, attrs string
	var price sql.NullFloat64
	var created, updated int64
	err := row.Scan(&item.DBID, &item.OwnerID, &item.Title, &item.ItemType,
		&item.Category, &item.Subcategory, &item.ShortDescription,
		&item.DetailedDescription, &item.Location, &item.PricingType,
		&price, &item.Currency, &tags, &attrs, &item.Rating, &item.ReviewCount,
		&item.RequestCount, &item.Views, &item.IsAvailable, &item.IsVerified,
		&created, &updated)
	if err != nil {
		return item, err
	}
	if price.Valid {
		item.Price = &price.Float64
	}
	item.Tags = unmarshalStrings(tags)
	item.Attrs = unmarshalMap(attrs)
	item.CreatedAt = time.Unix(created, 0)
	item.UpdatedAt = time.Unix(updated, 0)
	return item, nil
}

func sqlGetItem(ctx context.Context, db *sql.DB, id int64) (database.Item, error) {
	row := db.QueryRowContext(ctx,
		`select `+itemColumns+` from Items where DBID = ?;`, id)
	item, err := scanItem(row)
	if err != nil {
		return item, fmt.Errorf("failed to query item: %w", err)
	}
	return item, nil
}

func scanItems(rows *sql.Rows) ([]database.Item, error) {
	var list []database.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return list, fmt.Errorf("failed to scan item row: %w", err)
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating item rows: %w", err)
	}
	return list, nil
}

func sqlListItemsByOwner(ctx context.Context, db *sql.DB, ownerID int64) ([]database.Item, error) {
	rows, err := db.QueryContext(ctx, `
		select `+itemColumns+` from Items where OwnerID = ? order by UpdatedAt desc;
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items by owner: %w", err)
	}
	defer closeRows(rows)
	return scanItems(rows)
}

// sqlListCandidateItems backs the matching candidate pool: available items
// narrowed by the need's hard filters, capped only after filtering so a
// selective need still sees the full depth of the catalogue. Unpriced items
// pass the budget filters and exclusion of the need's owner happens here.
func sqlListCandidateItems(ctx context.Context, db *sql.DB, q database.ItemQuery, excludeOwner int64) ([]database.Item, error) {
	stmt := `select ` + itemColumns + ` from Items where IsAvailable = 1`
	args := make([]any, 0, 6)

	if excludeOwner != 0 {
		stmt += ` and OwnerID != ?`
		args = append(args, excludeOwner)
	}
	if q.Category != "" {
		stmt += ` and Category = ? collate nocase`
		args = append(args, q.Category)
	}
	if q.Location != "" {
		stmt += ` and Location like ?`
		args = append(args, "%"+q.Location+"%")
	}
	if q.MinPrice != nil {
		stmt += ` and (Price is null or Price >= ?)`
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		stmt += ` and (Price is null or Price <= ?)`
		args = append(args, *q.MaxPrice)
	}
	stmt += ` order by CreatedAt desc, Views desc limit ?;`
	args = append(args, q.Limit)

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate items: %w", err)
	}
	defer closeRows(rows)
	return scanItems(rows)
}

func sqlListMostViewedItemsByCategory(ctx context.Context, db *sql.DB, category string, limit int) ([]database.Item, error) {
	rows, err := db.QueryContext(ctx, `
		select `+itemColumns+` from Items
		where IsAvailable = 1 and Category = ? collate nocase
		order by Views desc limit ?;
	`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query items by category: %w", err)
	}
	defer closeRows(rows)
	return scanItems(rows)
}

func sqlListMostViewedItems(ctx context.Context, db *sql.DB, limit int) ([]database.Item, error) {
	rows, err := db.QueryContext(ctx, `
		select `+itemColumns+` from Items
		where IsAvailable = 1 order by Views desc limit ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query most viewed items: %w", err)
	}
	defer closeRows(rows)
	return scanItems(rows)
}

func sqlUpdateItem(ctx context.Context, db *sql.DB, item *database.Item) error {
	tags, err := marshalJSON(item.Tags, "[]")
	if err != nil {
		return err
	}
	attrs, err := marshalJSON(item.Attrs, "{}")
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		update Items set
			Title = ?, ItemType = ?, Category = ?, Subcategory = ?,
			ShortDescription = ?, DetailedDescription = ?, Location = ?,
			PricingType = ?, Price = ?, Currency = ?, Tags = ?, Attrs = ?,
			IsAvailable = ?, UpdatedAt = ?
		where DBID = ?;
	`, item.Title, item.ItemType, item.Category, item.Subcategory,
		item.ShortDescription, item.DetailedDescription, item.Location,
		item.PricingType, item.Price, item.Currency, tags, attrs,
		item.IsAvailable, item.UpdatedAt.Unix(), item.DBID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

func sqlIncrementItemViews(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `
		update Items set Views = Views + 1 where DBID = ?;
	`, id)
	if err != nil {
		return fmt.Errorf("failed to increment item views: %w", err)
	}
	return nil
}

func sqlIncrementItemRequests(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `
		update Items set RequestCount = RequestCount + 1 where DBID = ?;
	`, id)
	if err != nil {
		return fmt.Errorf("failed to increment item requests: %w", err)
	}
	return nil
}

func sqlDeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `delete from Items where DBID = ?;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// sqlSearchItems runs the filtered LIKE pass over available items.
func sqlSearchItems(ctx context.Context, db *sql.DB, q database.ItemQuery) ([]database.Item, error) {
	stmt := `select ` + itemColumns + ` from Items where IsAvailable = 1`
	args := make([]any, 0, 6)

	if q.Term != "" {
		stmt += ` and (Title like ? or ShortDescription like ?)`
		like := "%" + q.Term + "%"
		args = append(args, like, like)
	}
	if q.Category != "" {
		stmt += ` and Category = ? collate nocase`
		args = append(args, q.Category)
	}
	if q.Location != "" {
		stmt += ` and Location like ?`
		args = append(args, "%"+q.Location+"%")
	}
	if q.MinPrice != nil {
		stmt += ` and Price >= ?`
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		stmt += ` and Price <= ?`
		args = append(args, *q.MaxPrice)
	}
	stmt += ` order by CreatedAt desc, Views desc limit ?;`
	args = append(args, q.Limit)

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer closeRows(rows)
	return scanItems(rows)
}

/*
 * Item types
 */

func sqlAddItemType(ctx context.Context, db *sql.DB, it *database.ItemType) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into ItemTypes(Name, Label, SortOrder, IsActive)
		values (?, ?, ?, ?);
	`, it.Name, it.Label, it.SortOrder, it.IsActive)
	if err != nil {
		return 0, fmt.Errorf("failed to insert item type: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get item type insert id: %w", err)
	}
	return id, nil
}

func sqlListItemTypes(ctx context.Context, db *sql.DB) ([]database.ItemType, error) {
	rows, err := db.QueryContext(ctx, `
		select DBID, Name, Label, SortOrder, IsActive
		from ItemTypes where IsActive = 1 order by SortOrder asc;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query item types: %w", err)
	}
	defer closeRows(rows)

	var list []database.ItemType
	for rows.Next() {
		var it database.ItemType
		if scanErr := rows.Scan(&it.DBID, &it.Name, &it.Label, &it.SortOrder, &it.IsActive); scanErr != nil {
			return list, fmt.Errorf("failed to scan item type row: %w", scanErr)
		}
		list = append(list, it)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating item type rows: %w", err)
	}
	return list, nil
}
