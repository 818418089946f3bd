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
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

func (db *UserDB) AddDeal(d *database.Deal) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddDeal(db.ctx, db.sql, d)
}

func (db *UserDB) GetDeal(id int64) (database.Deal, error) {
	if db.sql == nil {
		return database.Deal{}, ErrNullSQL
	}
	return sqlGetDeal(db.ctx, db.sql, id)
}

func (db *UserDB) GetDealByMatch(matchID int64) (database.Deal, error) {
	if db.sql == nil {
		return database.Deal{}, ErrNullSQL
	}
	return sqlGetDealByMatch(db.ctx, db.sql, matchID)
}

func (db *UserDB) ListDealsForUser(userID int64) ([]database.Deal, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListDealsForUser(db.ctx, db.sql, userID)
}

func (db *UserDB) UpdateDealStatus(id int64, status string, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateDealStatus(db.ctx, db.sql, id, status, when)
}

func (db *UserDB) AddDealMessage(m *database.DealMessage) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddDealMessage(db.ctx, db.sql, m)
}

func (db *UserDB) ListDealMessages(dealID int64) ([]database.DealMessage, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListDealMessages(db.ctx, db.sql, dealID)
}
