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

func (db *MarketDB) AddBank(b *database.Bank) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddBank(db.ctx, db.sql, b)
}

func (db *MarketDB) GetBank(id int64) (database.Bank, error) {
	if db.sql == nil {
		return database.Bank{}, ErrNullSQL
	}
	return sqlGetBank(db.ctx, db.sql, id)
}

func (db *MarketDB) GetBankBySlug(slug string) (database.Bank, error) {
	if db.sql == nil {
		return database.Bank{}, ErrNullSQL
	}
	return sqlGetBankBySlug(db.ctx, db.sql, slug)
}

func (db *MarketDB) ListBanks(publicOnly bool) ([]database.Bank, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListBanks(db.ctx, db.sql, publicOnly)
}

func (db *MarketDB) AddBankEntry(bankID, itemID int64, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAddBankEntry(db.ctx, db.sql, bankID, itemID, when)
}

func (db *MarketDB) RemoveBankEntry(bankID, itemID int64, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlRemoveBankEntry(db.ctx, db.sql, bankID, itemID, when)
}

func (db *MarketDB) ListBankItems(bankID int64) ([]database.Item, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListBankItems(db.ctx, db.sql, bankID)
}
