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

package models

import (
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

// Response DTOs. Storage records stay free of serialization concerns; the
// converters below decide what the API exposes.

type Need struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"userId"`
	Title               string     `json:"title"`
	Category            string     `json:"category,omitempty"`
	Subcategory         string     `json:"subcategory,omitempty"`
	ShortDescription    string     `json:"shortDescription,omitempty"`
	DetailedDescription string     `json:"detailedDescription,omitempty"`
	Location            string     `json:"location,omitempty"`
	UrgencyLevel        string     `json:"urgencyLevel,omitempty"`
	Currency            string     `json:"currency,omitempty"`
	Requirements        string     `json:"requirements,omitempty"`
	MustHave            string     `json:"mustHave,omitempty"`
	NiceToHave          string     `json:"niceToHave,omitempty"`
	DealBreakers        string     `json:"dealBreakers,omitempty"`
	Status              string     `json:"status"`
	BudgetMin           *float64   `json:"budgetMin,omitempty"`
	BudgetMax           *float64   `json:"budgetMax,omitempty"`
	IsPublic            bool       `json:"isPublic"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	ExpiresAt           *time.Time `json:"expiresAt,omitempty"`
}

func FromNeed(n *database.Need) Need {
	return Need{
		ID:                  n.DBID,
		UserID:              n.UserID,
		Title:               n.Title,
		Category:            n.Category,
		Subcategory:         n.Subcategory,
		ShortDescription:    n.ShortDescription,
		DetailedDescription: n.DetailedDescription,
		Location:            n.Location,
		UrgencyLevel:        n.UrgencyLevel,
		Currency:            n.Currency,
		Requirements:        n.Requirements,
		MustHave:            n.MustHave,
		NiceToHave:          n.NiceToHave,
		DealBreakers:        n.DealBreakers,
		Status:              n.Status,
		BudgetMin:           n.BudgetMin,
		BudgetMax:           n.BudgetMax,
		IsPublic:            n.IsPublic,
		CreatedAt:           n.CreatedAt,
		UpdatedAt:           n.UpdatedAt,
		ExpiresAt:           n.ExpiresAt,
	}
}

func FromNeeds(needs []database.Need) []Need {
	out := make([]Need, 0, len(needs))
	for i := range needs {
		out = append(out, FromNeed(&needs[i]))
	}
	return out
}

type Item struct {
	ID                  int64          `json:"id"`
	OwnerID             int64          `json:"ownerId"`
	Title               string         `json:"title"`
	ItemType            string         `json:"itemType"`
	Category            string         `json:"category,omitempty"`
	Subcategory         string         `json:"subcategory,omitempty"`
	ShortDescription    string         `json:"shortDescription,omitempty"`
	DetailedDescription string         `json:"detailedDescription,omitempty"`
	Location            string         `json:"location,omitempty"`
	PricingType         string         `json:"pricingType,omitempty"`
	Currency            string         `json:"currency,omitempty"`
	Tags                []string       `json:"tags,omitempty"`
	Attrs               map[string]any `json:"attrs,omitempty"`
	Price               *float64       `json:"price,omitempty"`
	Rating              float64        `json:"rating"`
	ReviewCount         int            `json:"reviewCount"`
	RequestCount        int            `json:"requestCount"`
	Views               int            `json:"views"`
	IsAvailable         bool           `json:"isAvailable"`
	IsVerified          bool           `json:"isVerified"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func FromItem(i *database.Item) Item {
	return Item{
		ID:                  i.DBID,
		OwnerID:             i.OwnerID,
		Title:               i.Title,
		ItemType:            i.ItemType,
		Category:            i.Category,
		Subcategory:         i.Subcategory,
		ShortDescription:    i.ShortDescription,
		DetailedDescription: i.DetailedDescription,
		Location:            i.Location,
		PricingType:         i.PricingType,
		Currency:            i.Currency,
		Tags:                i.Tags,
		Attrs:               i.Attrs,
		Price:               i.Price,
		Rating:              i.Rating,
		ReviewCount:         i.ReviewCount,
		RequestCount:        i.RequestCount,
		Views:               i.Views,
		IsAvailable:         i.IsAvailable,
		IsVerified:          i.IsVerified,
		CreatedAt:           i.CreatedAt,
		UpdatedAt:           i.UpdatedAt,
	}
}

func FromItems(items []database.Item) []Item {
	out := make([]Item, 0, len(items))
	for i := range items {
		out = append(out, FromItem(&items[i]))
	}
	return out
}

type Bank struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	BankType      string    `json:"bankType,omitempty"`
	ItemType      string    `json:"itemType,omitempty"`
	PrivacyFilter string    `json:"privacyFilter,omitempty"`
	ContentCount  int       `json:"contentCount"`
	SortOrder     int       `json:"sortOrder"`
	IsActive      bool      `json:"isActive"`
	IsPublic      bool      `json:"isPublic"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromBank(b *database.Bank) Bank {
	return Bank{
		ID:            b.DBID,
		Name:          b.Name,
		Slug:          b.Slug,
		Description:   b.Description,
		BankType:      b.BankType,
		ItemType:      b.ItemType,
		PrivacyFilter: b.PrivacyFilter,
		ContentCount:  b.ContentCount,
		SortOrder:     b.SortOrder,
		IsActive:      b.IsActive,
		IsPublic:      b.IsPublic,
		CreatedAt:     b.CreatedAt,
	}
}

func FromBanks(banks []database.Bank) []Bank {
	out := make([]Bank, 0, len(banks))
	for i := range banks {
		out = append(out, FromBank(&banks[i]))
	}
	return out
}

type ItemTypeEntry struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	SortOrder int    `json:"sortOrder"`
}

func FromItemTypes(types []database.ItemType) []ItemTypeEntry {
	out := make([]ItemTypeEntry, 0, len(types))
	for _, t := range types {
		out = append(out, ItemTypeEntry{
			ID: t.DBID, Name: t.Name, Label: t.Label, SortOrder: t.SortOrder,
		})
	}
	return out
}

type Match struct {
	ID            int64     `json:"id"`
	NeedID        int64     `json:"needId"`
	ItemID        int64     `json:"itemId"`
	ConnectorID   *int64    `json:"connectorId,omitempty"`
	Score         float64   `json:"score"`
	Confidence    string    `json:"confidence"`
	Reason        string    `json:"reason"`
	Status        string    `json:"status"`
	UserViewed    bool      `json:"userViewed"`
	UserLiked     *bool     `json:"userLiked,omitempty"`
	UserContacted bool      `json:"userContacted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func FromMatch(m *database.Match) Match {
	return Match{
		ID:            m.DBID,
		NeedID:        m.NeedDBID,
		ItemID:        m.ItemDBID,
		ConnectorID:   m.ConnectorID,
		Score:         m.Score,
		Confidence:    m.Confidence,
		Reason:        m.Reason,
		Status:        m.Status,
		UserViewed:    m.UserViewed,
		UserLiked:     m.UserLiked,
		UserContacted: m.UserContacted,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func FromMatches(matches []database.Match) []Match {
	out := make([]Match, 0, len(matches))
	for i := range matches {
		out = append(out, FromMatch(&matches[i]))
	}
	return out
}

type Organization struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	OrgType      string    `json:"orgType,omitempty"`
	Status       string    `json:"status"`
	OwnerID      int64     `json:"ownerId"`
	MemberCount  int       `json:"memberCount"`
	ContentCount int       `json:"contentCount"`
	IsPublic     bool      `json:"isPublic"`
	CreatedAt    time.Time `json:"createdAt"`
}

func FromOrganization(o *database.Organization) Organization {
	return Organization{
		ID:           o.DBID,
		Name:         o.Name,
		Slug:         o.Slug,
		Description:  o.Description,
		OrgType:      o.OrgType,
		Status:       o.Status,
		OwnerID:      o.OwnerID,
		MemberCount:  o.MemberCount,
		ContentCount: o.ContentCount,
		IsPublic:     o.IsPublic,
		CreatedAt:    o.CreatedAt,
	}
}

func FromOrganizations(orgs []database.Organization) []Organization {
	out := make([]Organization, 0, len(orgs))
	for i := range orgs {
		out = append(out, FromOrganization(&orgs[i]))
	}
	return out
}

type Member struct {
	ID       int64      `json:"id"`
	UserID   int64      `json:"userId"`
	Role     string     `json:"role"`
	Status   string     `json:"status"`
	JoinedAt time.Time  `json:"joinedAt"`
	LeftAt   *time.Time `json:"leftAt,omitempty"`
}

func FromMembers(members []database.OrganizationMember) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		out = append(out, Member{
			ID: m.DBID, UserID: m.UserID, Role: m.Role, Status: m.Status,
			JoinedAt: m.JoinedAt, LeftAt: m.LeftAt,
		})
	}
	return out
}

type OrgEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromOrgEvents(events []database.OrganizationEvent) []OrgEvent {
	out := make([]OrgEvent, 0, len(events))
	for _, e := range events {
		out = append(out, OrgEvent{
			ID: e.DBID, UserID: e.UserID, Action: e.Action,
			Detail: e.Detail, CreatedAt: e.CreatedAt,
		})
	}
	return out
}

type Transaction struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Description   string    `json:"description,omitempty"`
	BalanceBefore float64   `json:"balanceBefore"`
	BalanceAfter  float64   `json:"balanceAfter"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromTransactions(entries []database.WalletTransaction) []Transaction {
	out := make([]Transaction, 0, len(entries))
	for _, t := range entries {
		out = append(out, Transaction{
			ID: t.DBID, Type: t.Type, Amount: t.Amount, Currency: t.Currency,
			Description: t.Description, BalanceBefore: t.BalanceBefore,
			BalanceAfter: t.BalanceAfter, Status: t.Status, CreatedAt: t.CreatedAt,
		})
	}
	return out
}

type Withdrawal struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"userId"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	PaymentMethod string     `json:"paymentMethod"`
	Status        string     `json:"status"`
	AdminNotes    string     `json:"adminNotes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
}

func FromWithdrawal(r *database.WithdrawalRequest) Withdrawal {
	return Withdrawal{
		ID:            r.DBID,
		UserID:        r.UserID,
		Amount:        r.Amount,
		Currency:      r.Currency,
		PaymentMethod: r.PaymentMethod,
		Status:        r.Status,
		AdminNotes:    r.AdminNotes,
		CreatedAt:     r.CreatedAt,
		ProcessedAt:   r.ProcessedAt,
	}
}

func FromWithdrawals(requests []database.WithdrawalRequest) []Withdrawal {
	out := make([]Withdrawal, 0, len(requests))
	for i := range requests {
		out = append(out, FromWithdrawal(&requests[i]))
	}
	return out
}

type EarningEntry struct {
	ID         int64      `json:"id"`
	DealID     int64      `json:"dealId"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreditedAt *time.Time `json:"creditedAt,omitempty"`
}

func FromEarnings(earnings []database.Earning) []EarningEntry {
	out := make([]EarningEntry, 0, len(earnings))
	for _, e := range earnings {
		out = append(out, EarningEntry{
			ID: e.DBID, DealID: e.DealDBID, Amount: e.Amount, Currency: e.Currency,
			Status: e.Status, CreatedAt: e.CreatedAt, CreditedAt: e.CreditedAt,
		})
	}
	return out
}

type Deal struct {
	ID          int64      `json:"id"`
	MatchID     int64      `json:"matchId"`
	Title       string     `json:"title"`
	NeedOwnerID int64      `json:"needOwnerId"`
	ItemOwnerID int64      `json:"itemOwnerId"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func FromDeal(d *database.Deal) Deal {
	return Deal{
		ID:          d.DBID,
		MatchID:     d.MatchDBID,
		Title:       d.Title,
		NeedOwnerID: d.NeedOwnerID,
		ItemOwnerID: d.ItemOwnerID,
		Amount:      d.Amount,
		Currency:    d.Currency,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		CompletedAt: d.CompletedAt,
	}
}

func FromDeals(deals []database.Deal) []Deal {
	out := make([]Deal, 0, len(deals))
	for i := range deals {
		out = append(out, FromDeal(&deals[i]))
	}
	return out
}

type DealMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromDealMessages(messages []database.DealMessage) []DealMessage {
	out := make([]DealMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, DealMessage{
			ID: m.DBID, UserID: m.UserID, Body: m.Body, CreatedAt: m.CreatedAt,
		})
	}
	return out
}

type Flow struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Version     int       `json:"version"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromFlow(f *database.ChatbotFlow) Flow {
	return Flow{
		ID:          f.DBID,
		Name:        f.Name,
		Description: f.Description,
		Version:     f.Version,
		IsActive:    f.IsActive,
		CreatedAt:   f.CreatedAt,
	}
}

func FromFlows(flows []database.ChatbotFlow) []Flow {
	out := make([]Flow, 0, len(flows))
	for i := range flows {
		out = append(out, FromFlow(&flows[i]))
	}
	return out
}

type Question struct {
	ID          int64    `json:"id"`
	Text        string   `json:"text"`
	Type        string   `json:"type"`
	Placeholder string   `json:"placeholder,omitempty"`
	Help        string   `json:"help,omitempty"`
	Options     []string `json:"options,omitempty"`
	Step        int      `json:"step"`
	Sequence    int      `json:"sequence"`
	Required    bool     `json:"required"`
}

// FromQuestion deliberately omits the field mapping and branching rule;
// those are server-side concerns.
func FromQuestion(q *database.ChatbotQuestion) *Question {
	if q == nil {
		return nil
	}
	return &Question{
		ID:          q.DBID,
		Text:        q.Text,
		Type:        q.Type,
		Placeholder: q.Placeholder,
		Help:        q.HelpText,
		Options:     q.Options,
		Step:        q.StepSequence,
		Sequence:    q.QuestionSequence,
		Required:    q.Required,
	}
}

func FromQuestions(questions []database.ChatbotQuestion) []Question {
	out := make([]Question, 0, len(questions))
	for i := range questions {
		out = append(out, *FromQuestion(&questions[i]))
	}
	return out
}

// SessionState is returned by the session endpoints: the current question,
// or done=true when the flow has no further questions.
type SessionState struct {
	SessionID string    `json:"sessionId"`
	Question  *Question `json:"question,omitempty"`
	Done      bool      `json:"done"`
}

type Mapping struct {
	ID          int64             `json:"id"`
	FlowID      int64             `json:"flowId"`
	BankID      int64             `json:"bankId"`
	ItemType    string            `json:"itemType"`
	DataMapping map[string]string `json:"dataMapping"`
	IsActive    bool              `json:"isActive"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func FromMapping(m *database.StorageMapping) Mapping {
	return Mapping{
		ID:          m.DBID,
		FlowID:      m.FlowDBID,
		BankID:      m.BankDBID,
		ItemType:    m.ItemType,
		DataMapping: m.DataMapping,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
}

type Completion struct {
	ID              int64          `json:"id"`
	FlowID          int64          `json:"flowId"`
	ItemType        string         `json:"itemType,omitempty"`
	StorageStatus   string         `json:"storageStatus"`
	StorageLocation string         `json:"storageLocation,omitempty"`
	ErrorMessage    string         `json:"errorMessage,omitempty"`
	ProcessedData   map[string]any `json:"processedData,omitempty"`
	StartedAt       time.Time      `json:"startedAt"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
	StoredAt        *time.Time     `json:"storedAt,omitempty"`
}

func FromCompletion(c *database.ChatbotCompletion) Completion {
	return Completion{
		ID:              c.DBID,
		FlowID:          c.FlowDBID,
		ItemType:        c.ItemType,
		StorageStatus:   c.StorageStatus,
		StorageLocation: c.StorageLocation,
		ErrorMessage:    c.ErrorMessage,
		ProcessedData:   c.ProcessedData,
		StartedAt:       c.StartedAt,
		CompletedAt:     c.CompletedAt,
		StoredAt:        c.StoredAt,
	}
}

func FromCompletions(completions []database.ChatbotCompletion) []Completion {
	out := make([]Completion, 0, len(completions))
	for i := range completions {
		out = append(out, FromCompletion(&completions[i]))
	}
	return out
}
