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

// Package wallet manages per-user balances as an append-only transaction
// ledger. The wallet balance always equals the latest ledger entry's
// balance-after; the store applies both atomically.
package wallet

import (
	"errors"
	"fmt"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const defaultWithdrawalThreshold = 100

var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrBelowThreshold     = errors.New("amount is below the withdrawal threshold")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAlreadyProcessed   = errors.New("withdrawal request already processed")
	ErrEarningNotPending  = errors.New("earning is not pending")
	ErrEarningNotCredited = errors.New("earning already credited")
)

type Service struct {
	db    database.UserDBI
	clock clockwork.Clock
}

func NewService(db database.UserDBI, clock clockwork.Clock) *Service {
	return &Service{db: db, clock: clock}
}

// GetOrCreate returns the user's wallet, creating it on first use.
func (s *Service) GetOrCreate(userID int64) (database.Wallet, error) {
	wallet, err := s.db.GetWallet(userID)
	if err == nil {
		return wallet, nil
	}

	now := s.clock.Now()
	wallet = database.Wallet{
		UserID:              userID,
		Currency:            "USD",
		WithdrawalThreshold: defaultWithdrawalThreshold,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	id, err := s.db.AddWallet(&wallet)
	if err != nil {
		return wallet, fmt.Errorf("failed to create wallet: %w", err)
	}
	wallet.DBID = id
	return wallet, nil
}

// CreditEarning credits a pending earning to its user's wallet exactly once.
// The reference check makes retries idempotent.
func (s *Service) CreditEarning(earningID int64) (database.WalletTransaction, error) {
	earning, err := s.db.GetEarning(earningID)
	if err != nil {
		return database.WalletTransaction{}, fmt.Errorf("failed to load earning: %w", err)
	}
	if earning.Status != "pending" {
		return database.WalletTransaction{}, ErrEarningNotPending
	}

	wallet, err := s.GetOrCreate(earning.UserID)
	if err != nil {
		return database.WalletTransaction{}, err
	}

	credited, err := s.db.HasWalletCredit(wallet.DBID, "earning", earningID)
	if err != nil {
		return database.WalletTransaction{}, fmt.Errorf("failed to check earning credit: %w", err)
	}
	if credited {
		return database.WalletTransaction{}, ErrEarningNotCredited
	}

	now := s.clock.Now()
	entry := database.WalletTransaction{
		WalletDBID:    wallet.DBID,
		UserID:        earning.UserID,
		Type:          "earning",
		Amount:        earning.Amount,
		Currency:      earning.Currency,
		Description:   fmt.Sprintf("earning from deal %d", earning.DealDBID),
		ReferenceType: "earning",
		ReferenceID:   earningID,
		Status:        "completed",
		CreatedAt:     now,
	}
	applied, err := s.db.ApplyWalletTransaction(&entry)
	if err != nil {
		return database.WalletTransaction{}, fmt.Errorf("failed to credit earning: %w", err)
	}

	if err := s.db.MarkEarningCredited(earningID, now); err != nil {
		// The ledger entry exists and the reference check prevents a
		// double credit, so only log.
		log.Error().Err(err).Int64("earning", earningID).
			Msg("failed to mark earning credited")
	}
	return applied, nil
}

// RequestWithdrawal opens a pending withdrawal. The amount must be at or
// above the wallet's threshold and within the current balance. Nothing is
// held; the debit happens on approval.
func (s *Service) RequestWithdrawal(userID int64, amount float64, paymentMethod string) (database.WithdrawalRequest, error) {
	if amount <= 0 {
		return database.WithdrawalRequest{}, ErrInvalidAmount
	}

	wallet, err := s.GetOrCreate(userID)
	if err != nil {
		return database.WithdrawalRequest{}, err
	}
	if amount < wallet.WithdrawalThreshold {
		return database.WithdrawalRequest{}, ErrBelowThreshold
	}
	if amount > wallet.Balance {
		return database.WithdrawalRequest{}, ErrInsufficientFunds
	}

	request := database.WithdrawalRequest{
		UserID:           userID,
		WalletDBID:       wallet.DBID,
		Amount:           amount,
		Currency:         wallet.Currency,
		RequestedBalance: wallet.Balance,
		PaymentMethod:    paymentMethod,
		Status:           "pending",
		CreatedAt:        s.clock.Now(),
	}
	id, err := s.db.AddWithdrawalRequest(&request)
	if err != nil {
		return request, fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	request.DBID = id
	return request, nil
}

// ProcessWithdrawal approves or rejects a pending request. Approval debits
// the wallet; rejection releases nothing since nothing was held.
func (s *Service) ProcessWithdrawal(requestID int64, approve bool, adminNotes string) error {
	request, err := s.db.GetWithdrawalRequest(requestID)
	if err != nil {
		return fmt.Errorf("failed to load withdrawal request: %w", err)
	}
	if request.Status != "pending" {
		return ErrAlreadyProcessed
	}

	now := s.clock.Now()
	if !approve {
		if err := s.db.UpdateWithdrawalStatus(requestID, "rejected", adminNotes, now); err != nil {
			return fmt.Errorf("failed to reject withdrawal: %w", err)
		}
		return nil
	}

	entry := database.WalletTransaction{
		WalletDBID:    request.WalletDBID,
		UserID:        request.UserID,
		Type:          "withdrawal",
		Amount:        -request.Amount,
		Currency:      request.Currency,
		Description:   "approved withdrawal",
		ReferenceType: "withdrawal",
		ReferenceID:   requestID,
		Status:        "completed",
		CreatedAt:     now,
	}
	if _, err := s.db.ApplyWalletTransaction(&entry); err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}
	if err := s.db.UpdateWithdrawalStatus(requestID, "approved", adminNotes, now); err != nil {
		return fmt.Errorf("failed to approve withdrawal: %w", err)
	}
	return nil
}

// Transactions returns the wallet's recent ledger entries, newest first.
func (s *Service) Transactions(userID int64, limit int) ([]database.WalletTransaction, error) {
	wallet, err := s.db.GetWallet(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	if limit <= 0 {
		limit = 50
	}
	return s.db.ListWalletTransactions(wallet.DBID, limit)
}
