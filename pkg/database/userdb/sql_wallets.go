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
	"errors"
	"fmt"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

var (
	ErrWalletInactive    = errors.New("wallet is not active")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateCredit   = errors.New("reference already credited")
)

func sqlAddWallet(ctx context.Context, db *sql.DB, w *database.Wallet) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into Wallets(UserID, Balance, Currency, WithdrawalThreshold, IsActive, CreatedAt, UpdatedAt)
		values (?, ?, ?, ?, ?, ?, ?);
	`, w.UserID, w.Balance, w.Currency, w.WithdrawalThreshold, w.IsActive,
		w.CreatedAt.Unix(), w.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert wallet: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get wallet insert id: %w", err)
	}
	return id, nil
}

func scanWallet(row interface{ Scan(...any) error }) (database.Wallet, error) {
	var w database.Wallet
	var created, updated int64
	err := row.Scan(&w.DBID, &w.UserID, &w.Balance, &w.Currency,
		&w.WithdrawalThreshold, &w.IsActive, &created, &updated)
	if err != nil {
		return w, err
	}
	w.CreatedAt = time.Unix(created, 0)
	w.UpdatedAt = time.Unix(updated, 0)
	return w, nil
}

const walletColumns = `DBID, UserID, Balance, Currency, WithdrawalThreshold, IsActive, CreatedAt, UpdatedAt`

func sqlGetWallet(ctx context.Context, db *sql.DB, userID int64) (database.Wallet, error) {
	row := db.QueryRowContext(ctx,
		`select `+walletColumns+` from Wallets where UserID = ?;`, userID)
	w, err := scanWallet(row)
	if err != nil {
		return w, fmt.Errorf("failed to query wallet: %w", err)
	}
	return w, nil
}

// sqlApplyWalletTransaction applies a ledger entry atomically: the balance is
// read, the entry inserted with BalanceBefore/BalanceAfter, and the wallet
// balance updated, all in one transaction. A negative amount debits, a
// positive amount credits.
func sqlApplyWalletTransaction(
	ctx context.Context, db *sql.DB, entry *database.WalletTransaction,
) (database.WalletTransaction, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return database.WalletTransaction{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackTx(tx)

	var balance float64
	var active bool
	err = tx.QueryRowContext(ctx, `
		select Balance, IsActive from Wallets where DBID = ?;
	`, entry.WalletDBID).Scan(&balance, &active)
	if err != nil {
		return database.WalletTransaction{}, fmt.Errorf("failed to query wallet balance: %w", err)
	}
	if !active {
		return database.WalletTransaction{}, ErrWalletInactive
	}

	after := balance + entry.Amount
	if after < 0 {
		return database.WalletTransaction{}, ErrInsufficientFunds
	}

	entry.BalanceBefore = balance
	entry.BalanceAfter = after

	res, err := tx.ExecContext(ctx, `
		insert into WalletTransactions(
			WalletDBID, UserID, Type, Amount, Currency,
			BalanceBefore, BalanceAfter, Description,
			ReferenceType, ReferenceID, Status, CreatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, entry.WalletDBID, entry.UserID, entry.Type, entry.Amount, entry.Currency,
		entry.BalanceBefore, entry.BalanceAfter, entry.Description,
		entry.ReferenceType, entry.ReferenceID, entry.Status, entry.CreatedAt.Unix())
	if err != nil {
		return database.WalletTransaction{}, fmt.Errorf("failed to insert wallet transaction: %w", err)
	}
	entry.DBID, err = res.LastInsertId()
	if err != nil {
		return database.WalletTransaction{}, fmt.Errorf("failed to get transaction insert id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		update Wallets set Balance = ?, UpdatedAt = ? where DBID = ?;
	`, after, entry.CreatedAt.Unix(), entry.WalletDBID)
	if err != nil {
		return database.WalletTransaction{}, fmt.Errorf("failed to update wallet balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return database.WalletTransaction{}, fmt.Errorf("failed to commit wallet transaction: %w", err)
	}
	return *entry, nil
}

func sqlHasWalletCredit(ctx context.Context, db *sql.DB, walletID int64, refType string, refID int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		select count(*) from WalletTransactions
		where WalletDBID = ? and ReferenceType = ? and ReferenceID = ?;
	`, walletID, refType, refID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query wallet credits: %w", err)
	}
	return count > 0, nil
}

func sqlListWalletTransactions(ctx context.Context, db *sql.DB, walletID int64, limit int) ([]database.WalletTransaction, error) {
	rows, err := db.QueryContext(ctx, `
		select DBID, WalletDBID, UserID, Type, Amount, Currency,
			BalanceBefore, BalanceAfter, Description,
			ReferenceType, ReferenceID, Status, CreatedAt
		from WalletTransactions
		where WalletDBID = ?
		order by DBID desc limit ?;
	`, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet transactions: %w", err)
	}
	defer closeRows(rows)

	var list []database.WalletTransaction
	for rows.Next() {
		var e database.WalletTransaction
		var created int64
		scanErr := rows.Scan(&e.DBID, &e.WalletDBID, &e.UserID, &e.Type, &e.Amount,
			&e.Currency, &e.BalanceBefore, &e.BalanceAfter, &e.Description,
			&e.ReferenceType, &e.ReferenceID, &e.Status, &created)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan wallet transaction row: %w", scanErr)
		}
		e.CreatedAt = time.Unix(created, 0)
		list = append(list, e)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating wallet transaction rows: %w", err)
	}
	return list, nil
}

/*
 * Withdrawals
 */

func sqlAddWithdrawalRequest(ctx context.Context, db *sql.DB, r *database.WithdrawalRequest) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into WithdrawalRequests(
			UserID, WalletDBID, Amount, Currency, RequestedBalance,
			PaymentMethod, Status, AdminNotes, CreatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, r.UserID, r.WalletDBID, r.Amount, r.Currency, r.RequestedBalance,
		r.PaymentMethod, r.Status, r.AdminNotes, r.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert withdrawal request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get withdrawal insert id: %w", err)
	}
	return id, nil
}

func scanWithdrawal(row interface{ Scan(...any) error }) (database.WithdrawalRequest, error) {
	var r database.WithdrawalRequest
	var created int64
	var processed sql.NullInt64
	err := row.Scan(&r.DBID, &r.UserID, &r.WalletDBID, &r.Amount, &r.Currency,
		&r.RequestedBalance, &r.PaymentMethod, &r.Status, &r.AdminNotes,
		&created, &processed)
	if err != nil {
		return r, err
	}
	r.CreatedAt = time.Unix(created, 0)
	if processed.Valid {
		t := time.Unix(processed.Int64, 0)
		r.ProcessedAt = &t
	}
	return r, nil
}

const withdrawalColumns = `
	DBID, UserID, WalletDBID, Amount, Currency, RequestedBalance,
	PaymentMethod, Status, AdminNotes, CreatedAt, ProcessedAt`

func sqlGetWithdrawalRequest(ctx context.Context, db *sql.DB, id int64) (database.WithdrawalRequest, error) {
	row := db.QueryRowContext(ctx,
		`select `+withdrawalColumns+` from WithdrawalRequests where DBID = ?;`, id)
	r, err := scanWithdrawal(row)
	if err != nil {
		return r, fmt.Errorf("failed to query withdrawal request: %w", err)
	}
	return r, nil
}

func sqlListWithdrawalRequests(ctx context.Context, db *sql.DB, userID int64, status string) ([]database.WithdrawalRequest, error) {
	q := `select ` + withdrawalColumns + ` from WithdrawalRequests where 1=1`
	args := make([]any, 0, 2)
	if userID != 0 {
		q += ` and UserID = ?`
		args = append(args, userID)
	}
	if status != "" {
		q += ` and Status = ?`
		args = append(args, status)
	}
	q += ` order by DBID desc;`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawal requests: %w", err)
	}
	defer closeRows(rows)

	var list []database.WithdrawalRequest
	for rows.Next() {
		r, scanErr := scanWithdrawal(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan withdrawal row: %w", scanErr)
		}
		list = append(list, r)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating withdrawal rows: %w", err)
	}
	return list, nil
}

func sqlUpdateWithdrawalStatus(
	ctx context.Context, db *sql.DB,
	id int64, status, notes string, when time.Time,
) error {
	_, err := db.ExecContext(ctx, `
		update WithdrawalRequests
		set Status = ?, AdminNotes = ?, ProcessedAt = ?
		where DBID = ?;
	`, status, notes, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal status: %w", err)
	}
	return nil
}

/*
 * Earnings
 */

func sqlAddEarning(ctx context.Context, db *sql.DB, e *database.Earning) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into Earnings(UserID, DealDBID, Amount, Currency, Status, CreatedAt)
		values (?, ?, ?, ?, ?, ?);
	`, e.UserID, e.DealDBID, e.Amount, e.Currency, e.Status, e.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert earning: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get earning insert id: %w", err)
	}
	return id, nil
}

func sqlGetEarning(ctx context.Context, db *sql.DB, id int64) (database.Earning, error) {
	var e database.Earning
	var created int64
	var credited sql.NullInt64
	err := db.QueryRowContext(ctx, `
		select DBID, UserID, DealDBID, Amount, Currency, Status, CreatedAt, CreditedAt
		from Earnings where DBID = ?;
	`, id).Scan(&e.DBID, &e.UserID, &e.DealDBID, &e.Amount, &e.Currency, &e.Status, &created, &credited)
	if err != nil {
		return e, fmt.Errorf("failed to query earning: %w", err)
	}
	e.CreatedAt = time.Unix(created, 0)
	if credited.Valid {
		t := time.Unix(credited.Int64, 0)
		e.CreditedAt = &t
	}
	return e, nil
}

func sqlListEarnings(ctx context.Context, db *sql.DB, userID int64) ([]database.Earning, error) {
	rows, err := db.QueryContext(ctx, `
		select DBID, UserID, DealDBID, Amount, Currency, Status, CreatedAt, CreditedAt
		from Earnings where UserID = ? order by DBID desc;
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query earnings: %w", err)
	}
	defer closeRows(rows)

	var list []database.Earning
	for rows.Next() {
		var e database.Earning
		var created int64
		var credited sql.NullInt64
		scanErr := rows.Scan(&e.DBID, &e.UserID, &e.DealDBID, &e.Amount,
			&e.Currency, &e.Status, &created, &credited)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan earning row: %w", scanErr)
		}
		e.CreatedAt = time.Unix(created, 0)
		if credited.Valid {
			t := time.Unix(credited.Int64, 0)
			e.CreditedAt = &t
		}
		list = append(list, e)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating earning rows: %w", err)
	}
	return list, nil
}

func sqlMarkEarningCredited(ctx context.Context, db *sql.DB, id int64, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update Earnings set Status = 'credited', CreditedAt = ? where DBID = ?;
	`, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark earning credited: %w", err)
	}
	return nil
}
