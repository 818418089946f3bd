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

import "github.com/BankUProject/banku-core/pkg/database"

func (db *UserDB) AddUser(u *database.User) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddUser(db.ctx, db.sql, u)
}

func (db *UserDB) GetUser(id int64) (database.User, error) {
	if db.sql == nil {
		return database.User{}, ErrNullSQL
	}
	return sqlGetUser(db.ctx, db.sql, id)
}

func (db *UserDB) GetUserByUsername(username string) (database.User, error) {
	if db.sql == nil {
		return database.User{}, ErrNullSQL
	}
	return sqlGetUserByUsername(db.ctx, db.sql, username)
}
