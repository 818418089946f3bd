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

func (db *MarketDB) AddNeed(n *database.Need) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddNeed(db.ctx, db.sql, n)
}

func (db *MarketDB) GetNeed(id int64) (database.Need, error) {
	if db.sql == nil {
		return database.Need{}, ErrNullSQL
	}
	return sqlGetNeed(db.ctx, db.sql, id)
}

func (db *MarketDB) ListNeedsByUser(userID int64) ([]database.Need, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListNeedsByUser(db.ctx, db.sql, userID)
}

func (db *MarketDB) ListActiveNeeds(now time.Time) ([]database.Need, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListActiveNeeds(db.ctx, db.sql, now)
}

func (db *MarketDB) UpdateNeed(n *database.Need) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateNeed(db.ctx, db.sql, n)
}

func (db *MarketDB) UpdateNeedStatus(id int64, status string, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateNeedStatus(db.ctx, db.sql, id, status, when)
}
