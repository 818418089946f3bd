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

import "time"

// UserDBI is the interface for the user database, allowing mocks in tests.
type UserDBI interface {
	// Lifecycle
	Open() error
	MigrateUp() error
	Allocate() error
	Truncate() error
	Vacuum() error
	Close() error
	GetDBPath() string

	// Users
	AddUser(u *User) (int64, error)
	GetUser(id int64) (User, error)
	GetUserByUsername(username string) (User, error)

	// Organizations
	AddOrganization(org Organization) (int64, error)
	GetOrganization(id int64) (Organization, error)
	GetOrganizationBySlug(slug string) (Organization, error)
	ListOrganizations(publicOnly bool) ([]Organization, error)
	UpdateOrganizationStatus(id int64, status string, when time.Time) error
	SetOrganizationOwner(id, ownerID int64, when time.Time) error
	AddMember(m *OrganizationMember) (int64, error)
	GetMember(orgID, userID int64) (OrganizationMember, error)
	ListMembers(orgID int64) ([]OrganizationMember, error)
	UpdateMemberRole(memberID int64, role string) error
	UpdateMemberStatus(memberID int64, status string, when time.Time) error
	AddOrganizationEvent(e *OrganizationEvent) error
	ListOrganizationEvents(orgID int64, limit int) ([]OrganizationEvent, error)

	// Wallets
	AddWallet(w *Wallet) (int64, error)
	GetWallet(userID int64) (Wallet, error)
	ApplyWalletTransaction(entry *WalletTransaction) (WalletTransaction, error)
	HasWalletCredit(walletID int64, refType string, refID int64) (bool, error)
	ListWalletTransactions(walletID int64, limit int) ([]WalletTransaction, error)
	AddWithdrawalRequest(r *WithdrawalRequest) (int64, error)
	GetWithdrawalRequest(id int64) (WithdrawalRequest, error)
	ListWithdrawalRequests(userID int64, status string) ([]WithdrawalRequest, error)
	UpdateWithdrawalStatus(id int64, status, notes string, when time.Time) error
	AddEarning(e *Earning) (int64, error)
	GetEarning(id int64) (Earning, error)
	ListEarnings(userID int64) ([]Earning, error)
	MarkEarningCredited(id int64, when time.Time) error

	// Deals
	AddDeal(d *Deal) (int64, error)
	GetDeal(id int64) (Deal, error)
	GetDealByMatch(matchID int64) (Deal, error)
	ListDealsForUser(userID int64) ([]Deal, error)
	UpdateDealStatus(id int64, status string, when time.Time) error
	AddDealMessage(m *DealMessage) (int64, error)
	ListDealMessages(dealID int64) ([]DealMessage, error)
}

// MarketDBI is the interface for the market database, allowing mocks in
// tests.
type MarketDBI interface {
	// Lifecycle
	Open() error
	MigrateUp() error
	Allocate() error
	Truncate() error
	Vacuum() error
	Close() error
	GetDBPath() string

	// Items
	AddItem(item *Item) (int64, error)
	GetItem(id int64) (Item, error)
	ListItemsByOwner(ownerID int64) ([]Item, error)
	ListCandidateItems(q ItemQuery, excludeOwner int64) ([]Item, error)
	ListMostViewedItems(limit int) ([]Item, error)
	ListMostViewedItemsByCategory(category string, limit int) ([]Item, error)
	SearchItems(q ItemQuery) ([]Item, error)
	UpdateItem(item *Item) error
	IncrementItemViews(id int64) error
	IncrementItemRequests(id int64) error
	DeleteItem(id int64) error
	AddItemType(it *ItemType) (int64, error)
	ListItemTypes() ([]ItemType, error)

	// Banks
	AddBank(b *Bank) (int64, error)
	GetBank(id int64) (Bank, error)
	GetBankBySlug(slug string) (Bank, error)
	ListBanks(publicOnly bool) ([]Bank, error)
	AddBankEntry(bankID, itemID int64, when time.Time) error
	RemoveBankEntry(bankID, itemID int64, when time.Time) error
	ListBankItems(bankID int64) ([]Item, error)

	// Needs
	AddNeed(n *Need) (int64, error)
	GetNeed(id int64) (Need, error)
	ListNeedsByUser(userID int64) ([]Need, error)
	ListActiveNeeds(now time.Time) ([]Need, error)
	UpdateNeed(n *Need) error
	UpdateNeedStatus(id int64, status string, when time.Time) error

	// Matches
	ReplaceMatchesForNeed(needID int64, matches []Match, when time.Time) ([]int64, error)
	UpsertRecommendation(m *Match) (int64, error)
	GetMatch(id int64) (Match, error)
	ListMatchesForNeed(needID int64) ([]Match, error)
	ListRecommendationsByConnector(connectorID int64) ([]Match, error)
	ListPendingMatches(minScore float64, limit int) ([]Match, error)
	ListPendingMatchesForUser(userID int64, minScore float64, limit int) ([]Match, error)
	UpdateMatchStatus(id int64, status string, when time.Time) error
	AssignMatch(id int64, status string, connectorID int64, when time.Time) error
	MarkMatchViewed(id int64, when time.Time) error
	SetMatchLiked(id int64, liked bool, when time.Time) error
	MarkMatchContacted(id int64, when time.Time) error
	AddMatchFeedback(f *MatchFeedback) (int64, error)
	ListMatchFeedback(matchID int64) ([]MatchFeedback, error)
	MatchingStats() (MatchingStats, error)
	AddMatchSession(s *MatchSession) (int64, error)
	EndMatchSession(sessionID string, generated int, when time.Time) error
	GetMatchSession(sessionID string) (MatchSession, error)

	// Search analytics
	AddSearchEvent(e *SearchEvent) (int64, error)
	UpsertSearchAggregate(itemType, filterField, filterValue, searchTerm string, when time.Time) error
	ListRecentSearchAggregates(itemType string, since time.Time) ([]SearchAggregate, error)
	ListRecentUserSearchEvents(userID int64, since time.Time, limit int) ([]SearchEvent, error)
	PruneSearchAnalytics(cutoff time.Time) (int64, error)

	// Chatbot
	AddChatbotFlow(f *ChatbotFlow) (int64, error)
	GetChatbotFlow(id int64) (ChatbotFlow, error)
	GetChatbotFlowByName(name string) (ChatbotFlow, error)
	ListChatbotFlows(activeOnly bool) ([]ChatbotFlow, error)
	SetChatbotFlowActive(id int64, active bool, when time.Time) error
	AddChatbotQuestion(q *ChatbotQuestion) (int64, error)
	ListFlowQuestions(flowID int64) ([]ChatbotQuestion, error)
	AddChatbotResponse(r *ChatbotResponse) (int64, error)
	GetChatbotResponse(sessionID string) (ChatbotResponse, error)
	UpdateChatbotResponseAnswers(sessionID string, answers map[string]any) error
	CompleteChatbotResponse(sessionID string, when time.Time) error
	AddChatbotCompletion(c *ChatbotCompletion) (int64, error)
	ListChatbotCompletions(userID int64) ([]ChatbotCompletion, error)
	AddStorageMapping(m *StorageMapping) (int64, error)
	GetStorageMapping(flowID int64) (StorageMapping, error)
}
