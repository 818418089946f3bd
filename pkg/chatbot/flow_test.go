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

package chatbot

import (
	"database/sql"
	"testing"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements the market store surface the chatbot service uses.
type fakeStore struct {
	database.MarketDBI

	flows       map[int64]database.ChatbotFlow
	questions   []database.ChatbotQuestion
	responses   map[string]database.ChatbotResponse
	mapping     *database.StorageMapping
	bank        database.Bank
	items       []database.Item
	bankEntries []int64
	completions []database.ChatbotCompletion
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		flows:     map[int64]database.ChatbotFlow{},
		responses: map[string]database.ChatbotResponse{},
	}
}

func (f *fakeStore) AddChatbotFlow(flow *database.ChatbotFlow) (int64, error) {
	f.nextID++
	flow.DBID = f.nextID
	f.flows[flow.DBID] = *flow
	return flow.DBID, nil
}

func (f *fakeStore) GetChatbotFlow(id int64) (database.ChatbotFlow, error) {
	flow, ok := f.flows[id]
	if !ok {
		return database.ChatbotFlow{}, sql.ErrNoRows
	}
	return flow, nil
}

func (f *fakeStore) AddChatbotQuestion(q *database.ChatbotQuestion) (int64, error) {
	f.nextID++
	q.DBID = f.nextID
	f.questions = append(f.questions, *q)
	return q.DBID, nil
}

func (f *fakeStore) ListFlowQuestions(flowID int64) ([]database.ChatbotQuestion, error) {
	out := make([]database.ChatbotQuestion, 0, len(f.questions))
	for _, q := range f.questions {
		if q.FlowDBID == flowID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) AddChatbotResponse(r *database.ChatbotResponse) (int64, error) {
	f.nextID++
	r.DBID = f.nextID
	f.responses[r.SessionID] = *r
	return r.DBID, nil
}

func (f *fakeStore) GetChatbotResponse(sessionID string) (database.ChatbotResponse, error) {
	r, ok := f.responses[sessionID]
	if !ok {
		return database.ChatbotResponse{}, sql.ErrNoRows
	}
	return r, nil
}

func (f *fakeStore) UpdateChatbotResponseAnswers(sessionID string, answers map[string]any) error {
	r := f.responses[sessionID]
	r.Answers = answers
	f.responses[sessionID] = r
	return nil
}

func (f *fakeStore) CompleteChatbotResponse(sessionID string, when time.Time) error {
	r := f.responses[sessionID]
	r.Completed = true
	r.CompletedAt = &when
	f.responses[sessionID] = r
	return nil
}

func (f *fakeStore) GetStorageMapping(int64) (database.StorageMapping, error) {
	if f.mapping == nil {
		return database.StorageMapping{}, sql.ErrNoRows
	}
	return *f.mapping, nil
}

func (f *fakeStore) AddItem(item *database.Item) (int64, error) {
	f.nextID++
	item.DBID = f.nextID
	f.items = append(f.items, *item)
	return item.DBID, nil
}

func (f *fakeStore) AddBankEntry(_, itemID int64, _ time.Time) error {
	f.bankEntries = append(f.bankEntries, itemID)
	return nil
}

func (f *fakeStore) GetBank(int64) (database.Bank, error) {
	return f.bank, nil
}

func (f *fakeStore) AddChatbotCompletion(c *database.ChatbotCompletion) (int64, error) {
	f.nextID++
	c.DBID = f.nextID
	f.completions = append(f.completions, *c)
	return c.DBID, nil
}

func testService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	rules, err := NewRuleEngine()
	require.NoError(t, err)
	store := newFakeStore()
	return NewService(store, rules, clockwork.NewFakeClock()), store
}

func intakeFlow() *FlowDefinition {
	return &FlowDefinition{
		Name:     "product-intake",
		ItemType: "product",
		Questions: []QuestionDefinition{
			{Text: "What are you listing?", Field: "title", Required: true},
			{Text: "Which category?", Type: "select", Field: "category",
				Options: []string{"product", "service"}},
			{Text: "What color is it?", Field: "color",
				BranchRule: `answers["category"] == "product"`},
		},
	}
}

func TestSeedFlow(t *testing.T) {
	t.Parallel()

	svc, store := testService(t)
	flowID, err := svc.SeedFlow(intakeFlow(), 1)
	require.NoError(t, err)

	flow := store.flows[flowID]
	assert.True(t, flow.IsActive)
	assert.Equal(t, 1, flow.Version)

	require.Len(t, store.questions, 3)
	assert.Equal(t, 1, store.questions[0].OrderIndex)
	assert.Equal(t, 3, store.questions[2].OrderIndex)
	assert.InDelta(t, 1.0, store.questions[0].AIWeight, 1e-9)
}

func TestSeedFlowRejectsBrokenRule(t *testing.T) {
	t.Parallel()

	svc, store := testService(t)
	def := intakeFlow()
	def.Questions[2].BranchRule = `answers[ ==`

	_, err := svc.SeedFlow(def, 1)
	assert.Error(t, err)
	assert.Empty(t, store.flows)
}

func TestSessionWalk(t *testing.T) {
	t.Parallel()

	svc, _ := testService(t)
	flowID, err := svc.SeedFlow(intakeFlow(), 1)
	require.NoError(t, err)

	sessionID, first, err := svc.StartSession(flowID, 5)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "What are you listing?", first.Text)

	next, err := svc.SubmitAnswer(sessionID, "Vintage Road Bike")
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "Which category?", next.Text)

	// Answering "service" makes the color question's rule false, ending
	// the flow early.
	next, err = svc.SubmitAnswer(sessionID, "service")
	require.NoError(t, err)
	assert.Nil(t, next)

	_, err = svc.SubmitAnswer(sessionID, "anything")
	assert.ErrorIs(t, err, ErrNoCurrentQuestion)
}

func TestSessionBranchTaken(t *testing.T) {
	t.Parallel()

	svc, _ := testService(t)
	flowID, err := svc.SeedFlow(intakeFlow(), 1)
	require.NoError(t, err)

	sessionID, _, err := svc.StartSession(flowID, 5)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(sessionID, "Vintage Road Bike")
	require.NoError(t, err)
	next, err := svc.SubmitAnswer(sessionID, "product")
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "What color is it?", next.Text)
}

func TestStartSessionInactiveFlow(t *testing.T) {
	t.Parallel()

	svc, store := testService(t)
	flowID, err := svc.SeedFlow(intakeFlow(), 1)
	require.NoError(t, err)

	flow := store.flows[flowID]
	flow.IsActive = false
	store.flows[flowID] = flow

	_, _, err = svc.StartSession(flowID, 5)
	assert.ErrorIs(t, err, ErrFlowInactive)
}

func TestComplete(t *testing.T) {
	t.Parallel()

	svc, store := testService(t)
	flowID, err := svc.SeedFlow(intakeFlow(), 1)
	require.NoError(t, err)

	store.mapping = &database.StorageMapping{
		FlowDBID: flowID,
		BankDBID: 99,
		ItemType: "product",
		DataMapping: map[string]string{
			"title":    "title",
			"category": "category",
		},
	}
	store.bank = database.Bank{DBID: 99, Slug: "public-products"}

	sessionID, _, err := svc.StartSession(flowID, 5)
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(sessionID, "Vintage Road Bike")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(sessionID, "product")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(sessionID, "red")
	require.NoError(t, err)

	completion, err := svc.Complete(sessionID)
	require.NoError(t, err)
	assert.Equal(t, "stored", completion.StorageStatus)
	assert.Equal(t, "public-products", completion.StorageLocation)

	require.Len(t, store.items, 1)
	item := store.items[0]
	assert.Equal(t, "Vintage Road Bike", item.Title)
	assert.Equal(t, "product", item.Category)
	assert.Equal(t, map[string]any{"color": "red"}, item.Attrs)
	assert.Equal(t, []int64{item.DBID}, store.bankEntries)

	assert.True(t, store.responses[sessionID].Completed)

	_, err = svc.Complete(sessionID)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestCompleteWithoutMapping(t *testing.T) {
	t.Parallel()

	svc, store := testService(t)
	flowID, err := svc.SeedFlow(intakeFlow(), 1)
	require.NoError(t, err)

	sessionID, _, err := svc.StartSession(flowID, 5)
	require.NoError(t, err)

	completion, err := svc.Complete(sessionID)
	assert.Error(t, err)
	require.NotNil(t, completion)
	assert.Equal(t, "failed", completion.StorageStatus)
	assert.NotEmpty(t, completion.ErrorMessage)

	// The session still closes so it cannot be replayed.
	assert.True(t, store.responses[sessionID].Completed)
}
