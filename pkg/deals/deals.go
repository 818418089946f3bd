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

// Package deals turns accepted recommendations into tracked deals between
// the need owner and the item owner, and records an earning on completion.
package deals

import (
	"errors"
	"fmt"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/jonboulle/clockwork"
)

var (
	ErrMatchNotAccepted = errors.New("match has not been accepted")
	ErrDealExists       = errors.New("a deal already exists for this match")
	ErrNotParticipant   = errors.New("user is not a deal participant")
	ErrDealNotActive    = errors.New("deal is not active")
)

type Service struct {
	user   database.UserDBI
	market database.MarketDBI
	clock  clockwork.Clock
}

func NewService(user database.UserDBI, market database.MarketDBI, clock clockwork.Clock) *Service {
	return &Service{user: user, market: market, clock: clock}
}

// CreateFromMatch saves an accepted recommendation as a deal. Participants
// come from the match's need and item owners.
func (s *Service) CreateFromMatch(matchID int64, title string, amount float64) (database.Deal, error) {
	match, err := s.market.GetMatch(matchID)
	if err != nil {
		return database.Deal{}, fmt.Errorf("failed to load match: %w", err)
	}
	if match.Status != "accepted" {
		return database.Deal{}, ErrMatchNotAccepted
	}
	if _, err := s.user.GetDealByMatch(matchID); err == nil {
		return database.Deal{}, ErrDealExists
	}

	need, err := s.market.GetNeed(match.NeedDBID)
	if err != nil {
		return database.Deal{}, fmt.Errorf("failed to load need: %w", err)
	}
	item, err := s.market.GetItem(match.ItemDBID)
	if err != nil {
		return database.Deal{}, fmt.Errorf("failed to load item: %w", err)
	}

	if title == "" {
		title = need.Title
	}
	if amount == 0 && item.Price != nil {
		amount = *item.Price
	}

	now := s.clock.Now()
	deal := database.Deal{
		Title:       title,
		MatchDBID:   matchID,
		NeedOwnerID: need.UserID,
		ItemOwnerID: item.OwnerID,
		Amount:      amount,
		Currency:    item.Currency,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.user.AddDeal(&deal)
	if err != nil {
		return deal, fmt.Errorf("failed to create deal: %w", err)
	}
	deal.DBID = id
	return deal, nil
}

// Complete marks a deal completed and records a pending earning for the item
// owner. The wallet module credits it.
func (s *Service) Complete(dealID, actorID int64) (database.Earning, error) {
	deal, err := s.user.GetDeal(dealID)
	if err != nil {
		return database.Earning{}, fmt.Errorf("failed to load deal: %w", err)
	}
	if actorID != deal.NeedOwnerID && actorID != deal.ItemOwnerID {
		return database.Earning{}, ErrNotParticipant
	}
	if deal.Status != "active" {
		return database.Earning{}, ErrDealNotActive
	}

	now := s.clock.Now()
	if err := s.user.UpdateDealStatus(dealID, "completed", now); err != nil {
		return database.Earning{}, fmt.Errorf("failed to complete deal: %w", err)
	}

	earning := database.Earning{
		UserID:    deal.ItemOwnerID,
		DealDBID:  dealID,
		Amount:    deal.Amount,
		Currency:  deal.Currency,
		Status:    "pending",
		CreatedAt: now,
	}
	id, err := s.user.AddEarning(&earning)
	if err != nil {
		return earning, fmt.Errorf("failed to record earning: %w", err)
	}
	earning.DBID = id
	return earning, nil
}

// AddMessage appends a note to a deal. Participants only.
func (s *Service) AddMessage(dealID, userID int64, body string) (database.DealMessage, error) {
	deal, err := s.user.GetDeal(dealID)
	if err != nil {
		return database.DealMessage{}, fmt.Errorf("failed to load deal: %w", err)
	}
	if userID != deal.NeedOwnerID && userID != deal.ItemOwnerID {
		return database.DealMessage{}, ErrNotParticipant
	}

	message := database.DealMessage{
		DealDBID:  dealID,
		UserID:    userID,
		Body:      body,
		CreatedAt: s.clock.Now(),
	}
	id, err := s.user.AddDealMessage(&message)
	if err != nil {
		return message, fmt.Errorf("failed to add deal message: %w", err)
	}
	message.DBID = id
	return message, nil
}

func (s *Service) ListForUser(userID int64) ([]database.Deal, error) {
	return s.user.ListDealsForUser(userID)
}

func (s *Service) Messages(dealID, userID int64) ([]database.DealMessage, error) {
	deal, err := s.user.GetDeal(dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deal: %w", err)
	}
	if userID != deal.NeedOwnerID && userID != deal.ItemOwnerID {
		return nil, ErrNotParticipant
	}
	return s.user.ListDealMessages(dealID)
}
