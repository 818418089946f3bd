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

package methods

import (
	"net/http"

	"github.com/BankUProject/banku-core/pkg/api/middleware"
	"github.com/BankUProject/banku-core/pkg/api/models"
)

// WalletSummary returns the caller's wallet, creating it on first access.
func (env *Env) WalletSummary(w http.ResponseWriter, r *http.Request) {
	wlt, err := env.Wallet.GetOrCreate(middleware.UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.WalletSummary{
		Currency:            wlt.Currency,
		Balance:             wlt.Balance,
		WithdrawalThreshold: wlt.WithdrawalThreshold,
		IsActive:            wlt.IsActive,
	})
}

func (env *Env) WalletTransactions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	entries, err := env.Wallet.Transactions(middleware.UserID(r.Context()), limit)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromTransactions(entries))
}

func (env *Env) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req models.WithdrawalRequest
	if !env.decode(w, r, &req) {
		return
	}
	request, err := env.Wallet.RequestWithdrawal(
		middleware.UserID(r.Context()), req.Amount, req.PaymentMethod)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, models.FromWithdrawal(&request))
}

func (env *Env) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	requests, err := env.DB.UserDB.ListWithdrawalRequests(middleware.UserID(r.Context()), status)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromWithdrawals(requests))
}

// AdminListWithdrawals lists withdrawal requests across all users, filtered
// by status. Admin only.
func (env *Env) AdminListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "pending"
	}
	requests, err := env.DB.UserDB.ListWithdrawalRequests(0, status)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromWithdrawals(requests))
}

// ProcessWithdrawal approves or rejects a pending withdrawal. Approval
// debits the wallet. Admin only.
func (env *Env) ProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.ProcessWithdrawalRequest
	if !env.decode(w, r, &req) {
		return
	}
	if err := env.Wallet.ProcessWithdrawal(id, req.Approve, req.AdminNotes); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (env *Env) ListEarnings(w http.ResponseWriter, r *http.Request) {
	earnings, err := env.DB.UserDB.ListEarnings(middleware.UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromEarnings(earnings))
}

// CreditEarning pushes a pending earning into its owner's wallet. The
// ledger reference check makes retries idempotent. Admin only.
func (env *Env) CreditEarning(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entry, err := env.Wallet.CreditEarning(id)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.Transaction{
		ID:            entry.DBID,
		Type:          entry.Type,
		Amount:        entry.Amount,
		Currency:      entry.Currency,
		Description:   entry.Description,
		BalanceBefore: entry.BalanceBefore,
		BalanceAfter:  entry.BalanceAfter,
		Status:        entry.Status,
		CreatedAt:     entry.CreatedAt,
	})
}
