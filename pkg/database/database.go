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

package database

import (
	"time"
)

/*
 * Record structs shared between the two databases. Concrete query
 * implementations live in userdb (accounts, organizations, wallets, deals)
 * and marketdb (items, banks, needs, matching, analytics, chatbot).
 */

// Database bundles both stores for handlers and services.
type Database struct {
	UserDB   UserDBI
	MarketDB MarketDBI
}

/*
 * userdb records
 */

type User struct {
	Username    string
	Email       string
	DisplayName string
	DBID        int64
	IsAdmin     bool
	IsActive    bool
	CreatedAt   time.Time
}

type Organization struct {
	Name         string
	Slug         string
	Description  string
	OrgType      string
	Status       string
	DBID         int64
	OwnerID      int64
	MemberCount  int
	ContentCount int
	IsPublic     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OrganizationMember struct {
	Role      string
	Status    string
	DBID      int64
	OrgDBID   int64
	UserID    int64
	InvitedBy int64
	JoinedAt  time.Time
	LeftAt    *time.Time
}

// OrganizationEvent is an append-only membership/ownership history entry.
type OrganizationEvent struct {
	Action    string
	Detail    string
	DBID      int64
	OrgDBID   int64
	UserID    int64
	CreatedAt time.Time
}

type Wallet struct {
	Currency            string
	DBID                int64
	UserID              int64
	Balance             float64
	WithdrawalThreshold float64
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// WalletTransaction is a ledger entry. BalanceBefore/BalanceAfter are
// captured in the same transaction as the wallet balance update; the wallet
// balance always equals the latest entry's BalanceAfter.
type WalletTransaction struct {
	Type          string
	Currency      string
	Description   string
	ReferenceType string
	Status        string
	DBID          int64
	WalletDBID    int64
	UserID        int64
	ReferenceID   int64
	Amount        float64
	BalanceBefore float64
	BalanceAfter  float64
	CreatedAt     time.Time
}

type WithdrawalRequest struct {
	Currency         string
	PaymentMethod    string
	Status           string
	AdminNotes       string
	DBID             int64
	UserID           int64
	WalletDBID       int64
	Amount           float64
	RequestedBalance float64
	CreatedAt        time.Time
	ProcessedAt      *time.Time
}

type Earning struct {
	Currency   string
	Status     string
	DBID       int64
	UserID     int64
	DealDBID   int64
	Amount     float64
	CreatedAt  time.Time
	CreditedAt *time.Time
}

type Deal struct {
	Title       string
	Currency    string
	Status      string
	DBID        int64
	MatchDBID   int64
	NeedOwnerID int64
	ItemOwnerID int64
	Amount      float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

type DealMessage struct {
	Body      string
	DBID      int64
	DealDBID  int64
	UserID    int64
	CreatedAt time.Time
}

/*
 * marketdb records
 */

// Item is a marketplace listing. Category-specific attributes from the
// intake flows land in Attrs rather than dedicated columns.
type Item struct {
	Title               string
	ItemType            string
	Category            string
	Subcategory         string
	ShortDescription    string
	DetailedDescription string
	Location            string
	PricingType         string
	Currency            string
	Tags                []string
	Attrs               map[string]any
	DBID                int64
	OwnerID             int64
	Price               *float64
	Rating              float64
	ReviewCount         int
	RequestCount        int
	Views               int
	IsAvailable         bool
	IsVerified          bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ItemQuery is the filter set behind item search.
type ItemQuery struct {
	Term     string
	Category string
	Location string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
}

type ItemType struct {
	Name      string
	Label     string
	DBID      int64
	SortOrder int
	IsActive  bool
}

// Bank is a named, filterable collection view over items.
type Bank struct {
	Name          string
	Slug          string
	Description   string
	BankType      string
	ItemType      string
	PrivacyFilter string
	DBID          int64
	CreatedBy     int64
	SortOrder     int
	ContentCount  int
	IsActive      bool
	IsPublic      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type BankEntry struct {
	DBID     int64
	BankDBID int64
	ItemDBID int64
	AddedAt  time.Time
}

type Need struct {
	Title               string
	Category            string
	Subcategory         string
	ShortDescription    string
	DetailedDescription string
	Location            string
	UrgencyLevel        string
	Currency            string
	Requirements        string
	MustHave            string
	NiceToHave          string
	DealBreakers        string
	Status              string
	DBID                int64
	UserID              int64
	BudgetMin           *float64
	BudgetMax           *float64
	IsPublic            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ExpiresAt           *time.Time
}

type Match struct {
	Confidence    string
	Reason        string
	Status        string
	DBID          int64
	NeedDBID      int64
	ItemDBID      int64
	ConnectorID   *int64
	Score         float64
	UserViewed    bool
	UserLiked     *bool
	UserContacted bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type MatchFeedback struct {
	Type      string
	Comment   string
	DBID      int64
	MatchDBID int64
	UserID    int64
	Rating    *int
	CreatedAt time.Time
}

// MatchingStats summarizes engine activity for the analytics endpoint.
type MatchingStats struct {
	TotalMatches    int64   `json:"totalMatches"`
	TotalSessions   int64   `json:"totalSessions"`
	TotalFeedback   int64   `json:"totalFeedback"`
	AcceptedMatches int64   `json:"acceptedMatches"`
	AverageScore    float64 `json:"averageScore"`
	AcceptanceRate  float64 `json:"acceptanceRate"`
}

type MatchSession struct {
	ID               string
	SessionType      string
	DBID             int64
	UserID           int64
	NeedDBID         int64
	MatchesGenerated int
	StartedAt        time.Time
	EndedAt          *time.Time
}

// SearchEvent is one executed search, recorded verbatim.
type SearchEvent struct {
	BankType       string
	BankSlug       string
	Term           string
	CategoryFilter string
	LocationFilter string
	SessionID      string
	DBID           int64
	UserID         int64
	MinPrice       *float64
	MaxPrice       *float64
	ResultsCount   int
	CreatedAt      time.Time
}

// SearchAggregate is the rolled-up shape the popularity scorer consumes:
// one row per (item type, filter field, filter value / term) with a running
// count and last-seen time.
type SearchAggregate struct {
	ItemType     string
	FilterField  string
	FilterValue  string
	SearchTerm   string
	DBID         int64
	SearchCount  int
	LastSearched time.Time
}

/*
 * chatbot records (marketdb)
 */

type ChatbotFlow struct {
	Name        string
	Description string
	DBID        int64
	CreatedBy   int64
	Version     int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ChatbotQuestion struct {
	Text             string
	Type             string
	Placeholder      string
	HelpText         string
	FieldMapping     string
	BranchRule       string
	Options          []string
	DBID             int64
	FlowDBID         int64
	AIWeight         float64
	StepSequence     int
	QuestionSequence int
	OrderIndex       int
	Required         bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ChatbotResponse struct {
	SessionID   string
	Answers     map[string]any
	DBID        int64
	FlowDBID    int64
	UserID      int64
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type ChatbotCompletion struct {
	ItemType        string
	StorageStatus   string
	StorageLocation string
	ErrorMessage    string
	CollectedData   map[string]any
	ProcessedData   map[string]any
	DBID            int64
	FlowDBID        int64
	UserID          int64
	StartedAt       time.Time
	CompletedAt     *time.Time
	StoredAt        *time.Time
}

// StorageMapping links a chatbot flow and item type to a target bank plus
// field-mapping rules for collected answers.
type StorageMapping struct {
	ItemType    string
	DataMapping map[string]string
	DBID        int64
	FlowDBID    int64
	BankDBID    int64
	CreatedBy   int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
