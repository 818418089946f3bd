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

import "github.com/BankUProject/banku-core/pkg/database"

func (db *MarketDB) AddItem(item *database.Item) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddItem(db.ctx, db.sql, item)
}

func (db *MarketDB) GetItem(id int64) (database.Item, error) {
	if db.sql == nil {
		return database.Item{}, ErrNullSQL
	}
	return sqlGetItem(db.ctx, db.sql, id)
}

func (db *MarketDB) ListItemsByOwner(ownerID int64) ([]database.Item, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListItemsByOwner(db.ctx, db.sql, ownerID)
}

// ListCandidateItems backs the matching candidate pool. Empty or nil query
// fields match everything, a zero excludeOwner excludes nobody.
func (db *MarketDB) ListCandidateItems(q database.ItemQuery, excludeOwner int64) ([]database.Item, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListCandidateItems(db.ctx, db.sql, q, excludeOwner)
}

func (db *MarketDB) ListMostViewedItemsByCategory(category string, limit int) ([]database.Item, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListMostViewedItemsByCategory(db.ctx, db.sql, category, limit)
}

func (db *MarketDB) ListMostViewedItems(limit int) ([]database.Item, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListMostViewedItems(db.ctx, db.sql, limit)
}

// SearchItems runs the filtered LIKE pass over available items.
func (db *MarketDB) SearchItems(q database.ItemQuery) ([]database.Item, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlSearchItems(db.ctx, db.sql, q)
}

func (db *MarketDB) UpdateItem(item *database.Item) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateItem(db.ctx, db.sql, item)
}

func (db *MarketDB) IncrementItemViews(id int64) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlIncrementItemViews(db.ctx, db.sql, id)
}

func (db *MarketDB) IncrementItemRequests(id int64) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlIncrementItemRequests(db.ctx, db.sql, id)
}

func (db *MarketDB) DeleteItem(id int64) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlDeleteItem(db.ctx, db.sql, id)
}

func (db *MarketDB) AddItemType(it *database.ItemType) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddItemType(db.ctx, db.sql, it)
}

func (db *MarketDB) ListItemTypes() ([]database.ItemType, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListItemTypes(db.ctx, db.sql)
}
