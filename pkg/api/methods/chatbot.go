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
	"time"

	"github.com/BankUProject/banku-core/pkg/api/middleware"
	"github.com/BankUProject/banku-core/pkg/api/models"
	"github.com/BankUProject/banku-core/pkg/chatbot"
	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/go-chi/chi/v5"
)

func (env *Env) ListFlows(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	flows, err := env.DB.MarketDB.ListChatbotFlows(activeOnly)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromFlows(flows))
}

// CreateFlow stores a new intake flow. Branching rules are compiled during
// validation, so a flow with a broken rule never reaches the database.
// Admin only.
func (env *Env) CreateFlow(w http.ResponseWriter, r *http.Request) {
	var req models.FlowRequest
	if !env.decode(w, r, &req) {
		return
	}

	def := chatbot.FlowDefinition{
		Name:        req.Name,
		Description: req.Description,
		ItemType:    req.ItemType,
	}
	for _, q := range req.Questions {
		def.Questions = append(def.Questions, chatbot.QuestionDefinition{
			Text:        q.Text,
			Type:        q.Type,
			Field:       q.Field,
			Placeholder: q.Placeholder,
			Help:        q.Help,
			BranchRule:  q.BranchRule,
			Options:     q.Options,
			AIWeight:    q.AIWeight,
			Step:        q.Step,
			Sequence:    q.Sequence,
			Required:    q.Required,
		})
	}

	id, err := env.Chatbot.SeedFlow(&def, middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respond(w, http.StatusCreated, models.IDResponse{ID: id})
}

func (env *Env) FlowQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	questions, err := env.DB.MarketDB.ListFlowQuestions(id)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromQuestions(questions))
}

// SetFlowActive enables or disables a flow. Admin only.
func (env *Env) SetFlowActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.FlowActiveRequest
	if !env.decode(w, r, &req) {
		return
	}
	if err := env.DB.MarketDB.SetChatbotFlowActive(id, req.Active, time.Now()); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// StartSession opens a chatbot session on a flow and returns the first
// question.
func (env *Env) StartSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	sessionID, question, err := env.Chatbot.StartSession(id, middleware.UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, models.SessionState{
		SessionID: sessionID,
		Question:  models.FromQuestion(question),
		Done:      question == nil,
	})
}

// SubmitAnswer answers the session's current question and returns the next
// one, or done=true when the flow is finished.
func (env *Env) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	var req models.AnswerRequest
	if !env.decode(w, r, &req) {
		return
	}

	next, err := env.Chatbot.SubmitAnswer(sessionID, req.Value)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.SessionState{
		SessionID: sessionID,
		Question:  models.FromQuestion(next),
		Done:      next == nil,
	})
}

// CompleteSession finishes a session and stores the collected answers as a
// marketplace item via the flow's storage mapping.
func (env *Env) CompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	completion, err := env.Chatbot.Complete(sessionID)
	if err != nil {
		if completion != nil {
			// Storage failed but the attempt was recorded; surface both.
			respond(w, http.StatusUnprocessableEntity, models.FromCompletion(completion))
			return
		}
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromCompletion(completion))
}

func (env *Env) ListCompletions(w http.ResponseWriter, r *http.Request) {
	completions, err := env.DB.MarketDB.ListChatbotCompletions(middleware.UserID(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromCompletions(completions))
}

// GetMapping returns a flow's active storage mapping. Admin only.
func (env *Env) GetMapping(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	mapping, err := env.DB.MarketDB.GetStorageMapping(id)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromMapping(&mapping))
}

// CreateMapping links a flow and item type to a destination bank. Admin
// only.
func (env *Env) CreateMapping(w http.ResponseWriter, r *http.Request) {
	var req models.MappingRequest
	if !env.decode(w, r, &req) {
		return
	}

	// The flow and bank must exist before the mapping goes live.
	if _, err := env.DB.MarketDB.GetChatbotFlow(req.FlowID); err != nil {
		fail(w, err)
		return
	}
	if _, err := env.DB.MarketDB.GetBank(req.BankID); err != nil {
		fail(w, err)
		return
	}

	now := time.Now()
	mapping := database.StorageMapping{
		ItemType:    req.ItemType,
		DataMapping: req.DataMapping,
		FlowDBID:    req.FlowID,
		BankDBID:    req.BankID,
		CreatedBy:   middleware.UserID(r.Context()),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := env.DB.MarketDB.AddStorageMapping(&mapping)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, models.IDResponse{ID: id})
}
