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

// Package models holds the REST API request and response shapes.
package models

// ErrorResponse is the JSON error envelope returned on any failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// IDResponse acknowledges a create with the new record's ID.
type IDResponse struct {
	ID int64 `json:"id"`
}

// CountResponse reports how many records an operation touched.
type CountResponse struct {
	Count int `json:"count"`
}

type NeedRequest struct {
	Title               string   `json:"title" validate:"required,max=200"`
	Category            string   `json:"category" validate:"max=100"`
	Subcategory         string   `json:"subcategory" validate:"max=100"`
	ShortDescription    string   `json:"shortDescription" validate:"max=500"`
	DetailedDescription string   `json:"detailedDescription"`
	Location            string   `json:"location" validate:"max=200"`
	UrgencyLevel        string   `json:"urgencyLevel" validate:"omitempty,oneof=low normal high urgent"`
	Currency            string   `json:"currency" validate:"omitempty,len=3"`
	Requirements        string   `json:"requirements"`
	MustHave            string   `json:"mustHave"`
	NiceToHave          string   `json:"niceToHave"`
	DealBreakers        string   `json:"dealBreakers"`
	BudgetMin           *float64 `json:"budgetMin" validate:"omitempty,gte=0"`
	BudgetMax           *float64 `json:"budgetMax" validate:"omitempty,gte=0"`
	ExpiresAt           *int64   `json:"expiresAt"`
	IsPublic            bool     `json:"isPublic"`
}

type ItemRequest struct {
	Title               string         `json:"title" validate:"required,max=200"`
	ItemType            string         `json:"itemType" validate:"required,max=100"`
	Category            string         `json:"category" validate:"max=100"`
	Subcategory         string         `json:"subcategory" validate:"max=100"`
	ShortDescription    string         `json:"shortDescription" validate:"max=500"`
	DetailedDescription string         `json:"detailedDescription"`
	Location            string         `json:"location" validate:"max=200"`
	PricingType         string         `json:"pricingType" validate:"max=50"`
	Currency            string         `json:"currency" validate:"omitempty,len=3"`
	Tags                []string       `json:"tags" validate:"max=20,dive,max=50"`
	Attrs               map[string]any `json:"attrs"`
	Price               *float64       `json:"price" validate:"omitempty,gte=0"`
	IsAvailable         *bool          `json:"isAvailable"`
}

type FeedbackRequest struct {
	Type    string `json:"type" validate:"required,oneof=like dislike contacted dismissed rating"`
	Comment string `json:"comment" validate:"max=1000"`
	Rating  *int   `json:"rating" validate:"omitempty,min=1,max=100"`
}

type RecommendationRequest struct {
	NeedID int64   `json:"needId" validate:"required,gt=0"`
	ItemID int64   `json:"itemId" validate:"required,gt=0"`
	Score  float64 `json:"score" validate:"gte=0,lte=1"`
	Reason string  `json:"reason" validate:"max=500"`
}

type RecommendationStatusRequest struct {
	Status      string `json:"status" validate:"required,oneof=pending accepted rejected dismissed"`
	ConnectorID *int64 `json:"connectorId" validate:"omitempty,gt=0"`
}

type FlowRequest struct {
	Name        string            `json:"name" validate:"required,max=100"`
	Description string            `json:"description" validate:"max=500"`
	ItemType    string            `json:"itemType" validate:"max=100"`
	Questions   []QuestionRequest `json:"questions" validate:"required,min=1,max=100,dive"`
}

type FlowActiveRequest struct {
	Active bool `json:"active"`
}

type QuestionRequest struct {
	Text        string   `json:"text" validate:"required,max=500"`
	Type        string   `json:"type" validate:"required,oneof=text select radio checkbox number email phone date"`
	Field       string   `json:"field" validate:"max=100"`
	Placeholder string   `json:"placeholder" validate:"max=200"`
	Help        string   `json:"help" validate:"max=500"`
	BranchRule  string   `json:"branchRule" validate:"max=1000"`
	Options     []string `json:"options" validate:"max=50,dive,max=200"`
	AIWeight    float64  `json:"aiWeight" validate:"gte=0,lte=10"`
	Step        int      `json:"step" validate:"gte=0"`
	Sequence    int      `json:"sequence" validate:"gte=0"`
	Required    bool     `json:"required"`
}

type AnswerRequest struct {
	Value any `json:"value" validate:"required"`
}

type MappingRequest struct {
	FlowID      int64             `json:"flowId" validate:"required,gt=0"`
	BankID      int64             `json:"bankId" validate:"required,gt=0"`
	ItemType    string            `json:"itemType" validate:"required,max=100"`
	DataMapping map[string]string `json:"dataMapping" validate:"required,min=1"`
}

type OrganizationRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	OrgType     string `json:"orgType" validate:"max=100"`
	IsPublic    bool   `json:"isPublic"`
}

type InviteRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Role   string `json:"role" validate:"required,oneof=admin member viewer"`
}

type RoleRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Role   string `json:"role" validate:"required,oneof=admin member viewer"`
}

type TransferRequest struct {
	NewOwnerID int64 `json:"newOwnerId" validate:"required,gt=0"`
}

type WithdrawalRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,max=100"`
}

type ProcessWithdrawalRequest struct {
	Approve    bool   `json:"approve"`
	AdminNotes string `json:"adminNotes" validate:"max=1000"`
}

type DealRequest struct {
	MatchID int64   `json:"matchId" validate:"required,gt=0"`
	Title   string  `json:"title" validate:"max=200"`
	Amount  float64 `json:"amount" validate:"gte=0"`
}

type DealMessageRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// WalletSummary is the wallet overview response.
type WalletSummary struct {
	Currency            string  `json:"currency"`
	Balance             float64 `json:"balance"`
	WithdrawalThreshold float64 `json:"withdrawalThreshold"`
	IsActive            bool    `json:"isActive"`
}
