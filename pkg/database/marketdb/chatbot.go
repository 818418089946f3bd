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

package marketdb

import (
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

func (db *MarketDB) AddChatbotFlow(f *database.ChatbotFlow) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddChatbotFlow(db.ctx, db.sql, f)
}

func (db *MarketDB) GetChatbotFlow(id int64) (database.ChatbotFlow, error) {
	if db.sql == nil {
		return database.ChatbotFlow{}, ErrNullSQL
	}
	return sqlGetChatbotFlow(db.ctx, db.sql, id)
}

func (db *MarketDB) GetChatbotFlowByName(name string) (database.ChatbotFlow, error) {
	if db.sql == nil {
		return database.ChatbotFlow{}, ErrNullSQL
	}
	return sqlGetChatbotFlowByName(db.ctx, db.sql, name)
}

func (db *MarketDB) ListChatbotFlows(activeOnly bool) ([]database.ChatbotFlow, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListChatbotFlows(db.ctx, db.sql, activeOnly)
}

func (db *MarketDB) SetChatbotFlowActive(id int64, active bool, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlSetChatbotFlowActive(db.ctx, db.sql, id, active, when)
}

func (db *MarketDB) AddChatbotQuestion(q *database.ChatbotQuestion) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddChatbotQuestion(db.ctx, db.sql, q)
}

func (db *MarketDB) ListFlowQuestions(flowID int64) ([]database.ChatbotQuestion, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListFlowQuestions(db.ctx, db.sql, flowID)
}

func (db *MarketDB) AddChatbotResponse(r *database.ChatbotResponse) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddChatbotResponse(db.ctx, db.sql, r)
}

func (db *MarketDB) GetChatbotResponse(sessionID string) (database.ChatbotResponse, error) {
	if db.sql == nil {
		return database.ChatbotResponse{}, ErrNullSQL
	}
	return sqlGetChatbotResponse(db.ctx, db.sql, sessionID)
}

func (db *MarketDB) UpdateChatbotResponseAnswers(sessionID string, answers map[string]any) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateChatbotResponseAnswers(db.ctx, db.sql, sessionID, answers)
}

func (db *MarketDB) CompleteChatbotResponse(sessionID string, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlCompleteChatbotResponse(db.ctx, db.sql, sessionID, when)
}

func (db *MarketDB) AddChatbotCompletion(c *database.ChatbotCompletion) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddChatbotCompletion(db.ctx, db.sql, c)
}

func (db *MarketDB) ListChatbotCompletions(userID int64) ([]database.ChatbotCompletion, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListChatbotCompletions(db.ctx, db.sql, userID)
}

func (db *MarketDB) AddStorageMapping(m *database.StorageMapping) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddStorageMapping(db.ctx, db.sql, m)
}

func (db *MarketDB) GetStorageMapping(flowID int64) (database.StorageMapping, error) {
	if db.sql == nil {
		return database.StorageMapping{}, ErrNullSQL
	}
	return sqlGetStorageMapping(db.ctx, db.sql, flowID)
}
