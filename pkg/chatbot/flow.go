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

// Package chatbot drives the guided intake flows: ordered questions with
// server-side branching rules, per-session answer sets, and storage mappings
// that turn a finished session into a marketplace item.
package chatbot

import (
	"errors"
	"fmt"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var (
	ErrFlowInactive      = errors.New("flow is not active")
	ErrSessionCompleted  = errors.New("session is already completed")
	ErrNoCurrentQuestion = errors.New("no question awaiting an answer")
)

type Service struct {
	db    database.MarketDBI
	rules *RuleEngine
	clock clockwork.Clock
}

func NewService(db database.MarketDBI, rules *RuleEngine, clock clockwork.Clock) *Service {
	return &Service{db: db, rules: rules, clock: clock}
}

// SeedFlow stores a validated definition as a new flow with dense question
// ordering.
func (s *Service) SeedFlow(def *FlowDefinition, createdBy int64) (int64, error) {
	if err := def.Validate(s.rules); err != nil {
		return 0, err
	}

	now := s.clock.Now()
	flow := database.ChatbotFlow{
		Name:        def.Name,
		Description: def.Description,
		CreatedBy:   createdBy,
		Version:     1,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	flowID, err := s.db.AddChatbotFlow(&flow)
	if err != nil {
		return 0, fmt.Errorf("failed to store flow: %w", err)
	}

	for i := range def.Questions {
		q := &def.Questions[i]
		step := q.Step
		if step == 0 {
			step = 1
		}
		sequence := q.Sequence
		if sequence == 0 {
			sequence = i + 1
		}
		aiWeight := q.AIWeight
		if aiWeight == 0 {
			aiWeight = 1
		}
		record := database.ChatbotQuestion{
			FlowDBID:         flowID,
			Text:             q.Text,
			Type:             q.Type,
			Placeholder:      q.Placeholder,
			HelpText:         q.Help,
			FieldMapping:     q.Field,
			BranchRule:       q.BranchRule,
			Options:          q.Options,
			AIWeight:         aiWeight,
			StepSequence:     step,
			QuestionSequence: sequence,
			OrderIndex:       i + 1,
			Required:         q.Required,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if _, err := s.db.AddChatbotQuestion(&record); err != nil {
			return 0, fmt.Errorf("failed to store question: %w", err)
		}
	}
	return flowID, nil
}

// answerKey is the key a question's answer is stored under: its field mapping
// when set, otherwise a synthetic per-question key.
func answerKey(q *database.ChatbotQuestion) string {
	if q.FieldMapping != "" {
		return q.FieldMapping
	}
	return fmt.Sprintf("q%d", q.DBID)
}

// StartSession opens a response row and returns the first question.
func (s *Service) StartSession(flowID, userID int64) (string, *database.ChatbotQuestion, error) {
	flow, err := s.db.GetChatbotFlow(flowID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load flow: %w", err)
	}
	if !flow.IsActive {
		return "", nil, ErrFlowInactive
	}

	sessionID := uuid.NewString()
	response := database.ChatbotResponse{
		FlowDBID:  flowID,
		UserID:    userID,
		SessionID: sessionID,
		Answers:   map[string]any{},
		CreatedAt: s.clock.Now(),
	}
	if _, err := s.db.AddChatbotResponse(&response); err != nil {
		return "", nil, fmt.Errorf("failed to open session: %w", err)
	}

	next, err := s.nextQuestion(flowID, nil)
	if err != nil {
		return "", nil, err
	}
	return sessionID, next, nil
}

// nextQuestion walks the flow's ordered questions and returns the first one
// that is unanswered and whose branching rule passes against the collected
// answers. A nil return means the flow is finished.
func (s *Service) nextQuestion(flowID int64, answers map[string]any) (*database.ChatbotQuestion, error) {
	questions, err := s.db.ListFlowQuestions(flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load flow questions: %w", err)
	}

	for i := range questions {
		q := &questions[i]
		if answers != nil {
			if _, answered := answers[answerKey(q)]; answered {
				continue
			}
		}
		eligible, evalErr := s.rules.Eval(q.BranchRule, answers)
		if evalErr != nil {
			// A rule that compiled at save time but fails at eval
			// (e.g. missing answer key) skips its question.
			log.Warn().Err(evalErr).Int64("question", q.DBID).
				Msg("branching rule evaluation failed, skipping question")
			continue
		}
		if eligible {
			return q, nil
		}
	}
	return nil, nil //nolint:nilnil // nil question signals flow end
}

// SubmitAnswer records the answer to the session's current question and
// returns the next one, or nil when the flow is finished.
func (s *Service) SubmitAnswer(sessionID string, value any) (*database.ChatbotQuestion, error) {
	response, err := s.db.GetChatbotResponse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if response.Completed {
		return nil, ErrSessionCompleted
	}

	current, err := s.nextQuestion(response.FlowDBID, response.Answers)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoCurrentQuestion
	}

	if response.Answers == nil {
		response.Answers = map[string]any{}
	}
	response.Answers[answerKey(current)] = value
	if err := s.db.UpdateChatbotResponseAnswers(sessionID, response.Answers); err != nil {
		return nil, fmt.Errorf("failed to store answer: %w", err)
	}

	return s.nextQuestion(response.FlowDBID, response.Answers)
}

// Complete finishes a session: the collected answers are mapped onto a new
// item via the flow's storage mapping, the item linked into the target bank,
// and the attempt recorded as a completion. Storage failures are recorded on
// the completion row rather than lost.
func (s *Service) Complete(sessionID string) (*database.ChatbotCompletion, error) {
	response, err := s.db.GetChatbotResponse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if response.Completed {
		return nil, ErrSessionCompleted
	}

	now := s.clock.Now()
	completion := database.ChatbotCompletion{
		FlowDBID:      response.FlowDBID,
		UserID:        response.UserID,
		CollectedData: response.Answers,
		StorageStatus: "pending",
		StartedAt:     response.CreatedAt,
		CompletedAt:   &now,
	}

	mapping, err := s.db.GetStorageMapping(response.FlowDBID)
	if err != nil {
		return s.failCompletion(&completion, sessionID, fmt.Errorf("no active storage mapping: %w", err))
	}
	completion.ItemType = mapping.ItemType

	item, err := ResolveItem(&mapping, response.Answers, response.UserID)
	if err != nil {
		return s.failCompletion(&completion, sessionID, err)
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	itemID, err := s.db.AddItem(&item)
	if err != nil {
		return s.failCompletion(&completion, sessionID, fmt.Errorf("failed to store item: %w", err))
	}
	if err := s.db.AddBankEntry(mapping.BankDBID, itemID, now); err != nil {
		return s.failCompletion(&completion, sessionID, fmt.Errorf("failed to link item into bank: %w", err))
	}

	bank, err := s.db.GetBank(mapping.BankDBID)
	if err == nil {
		completion.StorageLocation = bank.Slug
	}
	completion.StorageStatus = "stored"
	completion.StoredAt = &now
	completion.ProcessedData = map[string]any{"item_id": itemID}

	if _, err := s.db.AddChatbotCompletion(&completion); err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}
	if err := s.db.CompleteChatbotResponse(sessionID, now); err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	return &completion, nil
}

// failCompletion records a failed storage attempt and still closes the
// session so it cannot be replayed.
func (s *Service) failCompletion(
	completion *database.ChatbotCompletion, sessionID string, cause error,
) (*database.ChatbotCompletion, error) {
	log.Error().Err(cause).Str("session", sessionID).Msg("chatbot completion storage failed")
	completion.StorageStatus = "failed"
	completion.ErrorMessage = cause.Error()

	if _, err := s.db.AddChatbotCompletion(completion); err != nil {
		return nil, fmt.Errorf("failed to record failed completion: %w", err)
	}
	if err := s.db.CompleteChatbotResponse(sessionID, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	return completion, cause
}
