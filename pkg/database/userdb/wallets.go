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

func (db *UserDB) AddWallet(w *database.Wallet) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddWallet(db.ctx, db.sql, w)
}

func (db *UserDB) GetWallet(userID int64) (database.Wallet, error) {
	if db.sql == nil {
		return database.Wallet{}, ErrNullSQL
	}
	return sqlGetWallet(db.ctx, db.sql, userID)
}

// ApplyWalletTransaction records a ledger entry and updates the wallet
// balance atomically. The returned entry has BalanceBefore, BalanceAfter and
// DBID filled in.
func (db *UserDB) ApplyWalletTransaction(entry *database.WalletTransaction) (database.WalletTransaction, error) {
	if db.sql == nil {
		return database.WalletTransaction{}, ErrNullSQL
	}
	return sqlApplyWalletTransaction(db.ctx, db.sql, entry)
}

func (db *UserDB) HasWalletCredit(walletID int64, refType string, refID int64) (bool, error) {
	if db.sql == nil {
		return false, ErrNullSQL
	}
	return sqlHasWalletCredit(db.ctx, db.sql, walletID, refType, refID)
}

func (db *UserDB) ListWalletTransactions(walletID int64, limit int) ([]database.WalletTransaction, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListWalletTransactions(db.ctx, db.sql, walletID, limit)
}

func (db *UserDB) AddWithdrawalRequest(r *database.WithdrawalRequest) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddWithdrawalRequest(db.ctx, db.sql, r)
}

func (db *UserDB) GetWithdrawalRequest(id int64) (database.WithdrawalRequest, error) {
	if db.sql == nil {
		return database.WithdrawalRequest{}, ErrNullSQL
	}
	return sqlGetWithdrawalRequest(db.ctx, db.sql, id)
}

// ListWithdrawalRequests filters by user and/or status; zero values skip the
// corresponding filter.
func (db *UserDB) ListWithdrawalRequests(userID int64, status string) ([]database.WithdrawalRequest, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListWithdrawalRequests(db.ctx, db.sql, userID, status)
}

func (db *UserDB) UpdateWithdrawalStatus(id int64, status, notes string, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateWithdrawalStatus(db.ctx, db.sql, id, status, notes, when)
}

func (db *UserDB) AddEarning(e *database.Earning) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddEarning(db.ctx, db.sql, e)
}

func (db *UserDB) GetEarning(id int64) (database.Earning, error) {
	if db.sql == nil {
		return database.Earning{}, ErrNullSQL
	}
	return sqlGetEarning(db.ctx, db.sql, id)
}

func (db *UserDB) ListEarnings(userID int64) ([]database.Earning, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListEarnings(db.ctx, db.sql, userID)
}

func (db *UserDB) MarkEarningCredited(id int64, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMarkEarningCredited(db.ctx, db.sql, id, when)
}
