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

package wallet

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserDB mimics the store's ledger semantics in memory.
type fakeUserDB struct {
	database.UserDBI

	wallets     map[int64]database.Wallet // keyed by user ID
	earnings    map[int64]database.Earning
	withdrawals map[int64]database.WithdrawalRequest
	entries     []database.WalletTransaction
	nextID      int64
}

func newFakeUserDB() *fakeUserDB {
	return &fakeUserDB{
		wallets:     map[int64]database.Wallet{},
		earnings:    map[int64]database.Earning{},
		withdrawals: map[int64]database.WithdrawalRequest{},
	}
}

func (f *fakeUserDB) GetWallet(userID int64) (database.Wallet, error) {
	w, ok := f.wallets[userID]
	if !ok {
		return database.Wallet{}, sql.ErrNoRows
	}
	return w, nil
}

func (f *fakeUserDB) AddWallet(w *database.Wallet) (int64, error) {
	f.nextID++
	w.DBID = f.nextID
	f.wallets[w.UserID] = *w
	return w.DBID, nil
}

func (f *fakeUserDB) ApplyWalletTransaction(entry *database.WalletTransaction) (database.WalletTransaction, error) {
	for userID, w := range f.wallets {
		if w.DBID != entry.WalletDBID {
			continue
		}
		if !w.IsActive {
			return database.WalletTransaction{}, sql.ErrNoRows
		}
		if w.Balance+entry.Amount < 0 {
			return database.WalletTransaction{}, errors.New("insufficient funds")
		}
		entry.BalanceBefore = w.Balance
		entry.BalanceAfter = w.Balance + entry.Amount
		w.Balance = entry.BalanceAfter
		f.wallets[userID] = w

		f.nextID++
		entry.DBID = f.nextID
		f.entries = append(f.entries, *entry)
		return *entry, nil
	}
	return database.WalletTransaction{}, sql.ErrNoRows
}

func (f *fakeUserDB) HasWalletCredit(walletID int64, refType string, refID int64) (bool, error) {
	for i := range f.entries {
		e := &f.entries[i]
		if e.WalletDBID == walletID && e.ReferenceType == refType && e.ReferenceID == refID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserDB) ListWalletTransactions(walletID int64, limit int) ([]database.WalletTransaction, error) {
	out := make([]database.WalletTransaction, 0, len(f.entries))
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].WalletDBID == walletID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeUserDB) GetEarning(id int64) (database.Earning, error) {
	e, ok := f.earnings[id]
	if !ok {
		return database.Earning{}, sql.ErrNoRows
	}
	return e, nil
}

func (f *fakeUserDB) MarkEarningCredited(id int64, when time.Time) error {
	e := f.earnings[id]
	e.Status = "credited"
	e.CreditedAt = &when
	f.earnings[id] = e
	return nil
}

func (f *fakeUserDB) AddWithdrawalRequest(r *database.WithdrawalRequest) (int64, error) {
	f.nextID++
	r.DBID = f.nextID
	f.withdrawals[r.DBID] = *r
	return r.DBID, nil
}

func (f *fakeUserDB) GetWithdrawalRequest(id int64) (database.WithdrawalRequest, error) {
	r, ok := f.withdrawals[id]
	if !ok {
		return database.WithdrawalRequest{}, sql.ErrNoRows
	}
	return r, nil
}

func (f *fakeUserDB) UpdateWithdrawalStatus(id int64, status, notes string, when time.Time) error {
	r := f.withdrawals[id]
	r.Status = status
	r.AdminNotes = notes
	r.ProcessedAt = &when
	f.withdrawals[id] = r
	return nil
}

func testWallet(t *testing.T) (*Service, *fakeUserDB) {
	t.Helper()
	db := newFakeUserDB()
	return NewService(db, clockwork.NewFakeClock()), db
}

func TestGetOrCreate(t *testing.T) {
	t.Parallel()

	svc, db := testWallet(t)
	created, err := svc.GetOrCreate(7)
	require.NoError(t, err)
	assert.Equal(t, "USD", created.Currency)
	assert.True(t, created.IsActive)
	assert.InDelta(t, float64(defaultWithdrawalThreshold), created.WithdrawalThreshold, 1e-9)

	again, err := svc.GetOrCreate(7)
	require.NoError(t, err)
	assert.Equal(t, created.DBID, again.DBID)
	assert.Len(t, db.wallets, 1)
}

func TestCreditEarning(t *testing.T) {
	t.Parallel()

	svc, db := testWallet(t)
	db.earnings[1] = database.Earning{
		DBID: 1, UserID: 7, DealDBID: 3, Amount: 150, Currency: "USD", Status: "pending",
	}

	entry, err := svc.CreditEarning(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, entry.BalanceBefore, 1e-9)
	assert.InDelta(t, 150.0, entry.BalanceAfter, 1e-9)
	assert.Equal(t, "earning", entry.ReferenceType)
	assert.Equal(t, int64(1), entry.ReferenceID)

	wallet, err := svc.GetOrCreate(7)
	require.NoError(t, err)
	assert.InDelta(t, 150.0, wallet.Balance, 1e-9)
	assert.Equal(t, "credited", db.earnings[1].Status)
}

func TestCreditEarningIdempotent(t *testing.T) {
	t.Parallel()

	svc, db := testWallet(t)
	db.earnings[1] = database.Earning{
		DBID: 1, UserID: 7, Amount: 150, Currency: "USD", Status: "pending",
	}

	_, err := svc.CreditEarning(1)
	require.NoError(t, err)

	// A retry with a stale pending status must not double credit: the
	// ledger reference check catches it.
	stale := db.earnings[1]
	stale.Status = "pending"
	db.earnings[1] = stale

	_, err = svc.CreditEarning(1)
	assert.ErrorIs(t, err, ErrEarningNotCredited)
	assert.Len(t, db.entries, 1)
}

func TestCreditEarningNotPending(t *testing.T) {
	t.Parallel()

	svc, db := testWallet(t)
	db.earnings[1] = database.Earning{DBID: 1, UserID: 7, Amount: 150, Status: "credited"}

	_, err := svc.CreditEarning(1)
	assert.ErrorIs(t, err, ErrEarningNotPending)
}

func TestRequestWithdrawal(t *testing.T) {
	t.Parallel()

	svc, db := testWallet(t)
	db.earnings[1] = database.Earning{DBID: 1, UserID: 7, Amount: 500, Currency: "USD", Status: "pending"}
	_, err := svc.CreditEarning(1)
	require.NoError(t, err)

	t.Run("below threshold", func(t *testing.T) {
		_, err := svc.RequestWithdrawal(7, 50, "bank_transfer")
		assert.ErrorIs(t, err, ErrBelowThreshold)
	})

	t.Run("exceeds balance", func(t *testing.T) {
		_, err := svc.RequestWithdrawal(7, 600, "bank_transfer")
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := svc.RequestWithdrawal(7, 0, "bank_transfer")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("valid request", func(t *testing.T) {
		request, err := svc.RequestWithdrawal(7, 200, "bank_transfer")
		require.NoError(t, err)
		assert.Equal(t, "pending", request.Status)
		assert.InDelta(t, 500.0, request.RequestedBalance, 1e-9)

		// Nothing is held until approval.
		wallet, err := svc.GetOrCreate(7)
		require.NoError(t, err)
		assert.InDelta(t, 500.0, wallet.Balance, 1e-9)
	})
}

func TestProcessWithdrawal(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*Service, *fakeUserDB, int64) {
		t.Helper()
		svc, db := testWallet(t)
		db.earnings[1] = database.Earning{DBID: 1, UserID: 7, Amount: 500, Currency: "USD", Status: "pending"}
		_, err := svc.CreditEarning(1)
		require.NoError(t, err)
		request, err := svc.RequestWithdrawal(7, 200, "bank_transfer")
		require.NoError(t, err)
		return svc, db, request.DBID
	}

	t.Run("approval debits the wallet", func(t *testing.T) {
		t.Parallel()
		svc, db, requestID := setup(t)

		require.NoError(t, svc.ProcessWithdrawal(requestID, true, "ok"))
		assert.Equal(t, "approved", db.withdrawals[requestID].Status)

		wallet, err := svc.GetOrCreate(7)
		require.NoError(t, err)
		assert.InDelta(t, 300.0, wallet.Balance, 1e-9)

		// Ledger entries: credit then debit.
		require.Len(t, db.entries, 2)
		debit := db.entries[1]
		assert.InDelta(t, -200.0, debit.Amount, 1e-9)
		assert.InDelta(t, 500.0, debit.BalanceBefore, 1e-9)
		assert.InDelta(t, 300.0, debit.BalanceAfter, 1e-9)
	})

	t.Run("rejection releases nothing", func(t *testing.T) {
		t.Parallel()
		svc, db, requestID := setup(t)

		require.NoError(t, svc.ProcessWithdrawal(requestID, false, "suspicious"))
		assert.Equal(t, "rejected", db.withdrawals[requestID].Status)
		assert.Equal(t, "suspicious", db.withdrawals[requestID].AdminNotes)

		wallet, err := svc.GetOrCreate(7)
		require.NoError(t, err)
		assert.InDelta(t, 500.0, wallet.Balance, 1e-9)
		assert.Len(t, db.entries, 1)
	})

	t.Run("already processed", func(t *testing.T) {
		t.Parallel()
		svc, _, requestID := setup(t)
		require.NoError(t, svc.ProcessWithdrawal(requestID, false, ""))
		assert.ErrorIs(t, svc.ProcessWithdrawal(requestID, true, ""), ErrAlreadyProcessed)
	})
}
