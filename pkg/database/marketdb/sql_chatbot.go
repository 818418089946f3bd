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
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

func sqlAddChatbotFlow(ctx context.Context, db *sql.DB, f *database.ChatbotFlow) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into ChatbotFlows(Name, Description, CreatedBy, Version, IsActive, CreatedAt, UpdatedAt)
		values (?, ?, ?, ?, ?, ?, ?);
	`, f.Name, f.Description, f.CreatedBy, f.Version, f.IsActive,
		f.CreatedAt.Unix(), f.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert chatbot flow: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get flow insert id: %w", err)
	}
	return id, nil
}

func scanChatbotFlow(row interface{ Scan(...any) error }) (database.ChatbotFlow, error) {
	var f database.ChatbotFlow
	var created, updated int64
	err := row.Scan(&f.DBID, &f.Name, &f.Description, &f.CreatedBy, &f.Version,
		&f.IsActive, &created, &updated)
	if err != nil {
		return f, err
	}
	f.CreatedAt = time.Unix(created, 0)
	f.UpdatedAt = time.Unix(updated, 0)
	return f, nil
}

const flowColumns = `DBID, Name, Description, CreatedBy, Version, IsActive, CreatedAt, UpdatedAt`

func sqlGetChatbotFlow(ctx context.Context, db *sql.DB, id int64) (database.ChatbotFlow, error) {
	row := db.QueryRowContext(ctx,
		`select `+flowColumns+` from ChatbotFlows where DBID = ?;`, id)
	f, err := scanChatbotFlow(row)
	if err != nil {
		return f, fmt.Errorf("failed to query chatbot flow: %w", err)
	}
	return f, nil
}

func sqlGetChatbotFlowByName(ctx context.Context, db *sql.DB, name string) (database.ChatbotFlow, error) {
	row := db.QueryRowContext(ctx,
		`select `+flowColumns+` from ChatbotFlows where Name = ?;`, name)
	f, err := scanChatbotFlow(row)
	if err != nil {
		return f, fmt.Errorf("failed to query chatbot flow by name: %w", err)
	}
	return f, nil
}

func sqlListChatbotFlows(ctx context.Context, db *sql.DB, activeOnly bool) ([]database.ChatbotFlow, error) {
	q := `select ` + flowColumns + ` from ChatbotFlows`
	if activeOnly {
		q += ` where IsActive = 1`
	}
	q += ` order by Name asc;`

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query chatbot flows: %w", err)
	}
	defer closeRows(rows)

	var list []database.ChatbotFlow
	for rows.Next() {
		f, scanErr := scanChatbotFlow(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan chatbot flow row: %w", scanErr)
		}
		list = append(list, f)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating chatbot flow rows: %w", err)
	}
	return list, nil
}

func sqlSetChatbotFlowActive(ctx context.Context, db *sql.DB, id int64, active bool, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update ChatbotFlows set IsActive = ?, UpdatedAt = ? where DBID = ?;
	`, active, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to set chatbot flow active: %w", err)
	}
	return nil
}

/*
 * Questions
 */

const questionColumns = `
	DBID, FlowDBID, Text, Type, Placeholder, HelpText, FieldMapping,
	BranchRule, Options, AIWeight, StepSequence, QuestionSequence,
	OrderIndex, Required, IsActive, CreatedAt, UpdatedAt`

func sqlAddChatbotQuestion(ctx context.Context, db *sql.DB, q *database.ChatbotQuestion) (int64, error) {
	options, err := marshalJSON(q.Options, "[]")
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		insert into ChatbotQuestions(
			FlowDBID, Text, Type, Placeholder, HelpText, FieldMapping,
			BranchRule, Options, AIWeight, StepSequence, QuestionSequence,
			OrderIndex, Required, IsActive, CreatedAt, UpdatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, q.FlowDBID, q.Text, q.Type, q.Placeholder, q.HelpText, q.FieldMapping,
		q.BranchRule, options, q.AIWeight, q.StepSequence, q.QuestionSequence,
		q.OrderIndex, q.Required, q.IsActive, q.CreatedAt.Unix(), q.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert chatbot question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get question insert id: %w", err)
	}
	return id, nil
}

func scanChatbotQuestion(row interface{ Scan(...any) error }) (database.ChatbotQuestion, error) {
	var q database.ChatbotQuestion
	var options string
	var created, updated int64
	err := row.Scan(&q.DBID, &q.FlowDBID, &q.Text, &q.Type, &q.Placeholder,
		&q.HelpText, &q.FieldMapping, &q.BranchRule, &options, &q.AIWeight,
		&q.StepSequence, &q.QuestionSequence, &q.OrderIndex, &q.Required,
		&q.IsActive, &created, &updated)
	if err != nil {
		return q, err
	}
	q.Options = unmarshalStrings(options)
	q.CreatedAt = time.Unix(created, 0)
	q.UpdatedAt = time.Unix(updated, 0)
	return q, nil
}

// sqlListFlowQuestions returns a flow's active questions in presentation
// order: step, then question sequence, then order index.
func sqlListFlowQuestions(ctx context.Context, db *sql.DB, flowID int64) ([]database.ChatbotQuestion, error) {
	rows, err := db.QueryContext(ctx, `
		select `+questionColumns+` from ChatbotQuestions
		where FlowDBID = ? and IsActive = 1
		order by StepSequence asc, QuestionSequence asc, OrderIndex asc;
	`, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flow questions: %w", err)
	}
	defer closeRows(rows)

	var list []database.ChatbotQuestion
	for rows.Next() {
		q, scanErr := scanChatbotQuestion(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan question row: %w", scanErr)
		}
		list = append(list, q)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating question rows: %w", err)
	}
	return list, nil
}

/*
 * Responses
 */

func sqlAddChatbotResponse(ctx context.Context, db *sql.DB, r *database.ChatbotResponse) (int64, error) {
	answers, err := marshalJSON(r.Answers, "{}")
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		insert into ChatbotResponses(FlowDBID, UserID, SessionID, Answers, Completed, CreatedAt)
		values (?, ?, ?, ?, ?, ?);
	`, r.FlowDBID, r.UserID, r.SessionID, answers, r.Completed, r.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert chatbot response: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get response insert id: %w", err)
	}
	return id, nil
}

func sqlGetChatbotResponse(ctx context.Context, db *sql.DB, sessionID string) (database.ChatbotResponse, error) {
	var r database.ChatbotResponse
	var answers string
	var created int64
	var completed sql.NullInt64
	err := db.QueryRowContext(ctx, `
		select DBID, FlowDBID, UserID, SessionID, Answers, Completed, CreatedAt, CompletedAt
		from ChatbotResponses where SessionID = ?;
	`, sessionID).Scan(&r.DBID, &r.FlowDBID, &r.UserID, &r.SessionID, &answers,
		&r.Completed, &created, &completed)
	if err != nil {
		return r, fmt.Errorf("failed to query chatbot response: %w", err)
	}
	r.Answers = unmarshalMap(answers)
	r.CreatedAt = time.Unix(created, 0)
	if completed.Valid {
		t := time.Unix(completed.Int64, 0)
		r.CompletedAt = &t
	}
	return r, nil
}

func sqlUpdateChatbotResponseAnswers(
	ctx context.Context, db *sql.DB,
	sessionID string, answers map[string]any,
) error {
	data, err := marshalJSON(answers, "{}")
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		update ChatbotResponses set Answers = ? where SessionID = ?;
	`, data, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update chatbot response answers: %w", err)
	}
	return nil
}

func sqlCompleteChatbotResponse(ctx context.Context, db *sql.DB, sessionID string, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update ChatbotResponses set Completed = 1, CompletedAt = ? where SessionID = ?;
	`, when.Unix(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to complete chatbot response: %w", err)
	}
	return nil
}

/*
 * Completions
 */

func sqlAddChatbotCompletion(ctx context.Context, db *sql.DB, c *database.ChatbotCompletion) (int64, error) {
	collected, err := marshalJSON(c.CollectedData, "{}")
	if err != nil {
		return 0, err
	}
	processed, err := marshalJSON(c.ProcessedData, "{}")
	if err != nil {
		return 0, err
	}
	var completedAt, storedAt any
	if c.CompletedAt != nil {
		completedAt = c.CompletedAt.Unix()
	}
	if c.StoredAt != nil {
		storedAt = c.StoredAt.Unix()
	}
	res, err := db.ExecContext(ctx, `
		insert into ChatbotCompletions(
			FlowDBID, UserID, ItemType, CollectedData, ProcessedData,
			StorageStatus, StorageLocation, ErrorMessage, StartedAt, CompletedAt, StoredAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, c.FlowDBID, c.UserID, c.ItemType, collected, processed,
		c.StorageStatus, c.StorageLocation, c.ErrorMessage,
		c.StartedAt.Unix(), completedAt, storedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert chatbot completion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get completion insert id: %w", err)
	}
	return id, nil
}

func sqlListChatbotCompletions(ctx context.Context, db *sql.DB, userID int64) ([]database.ChatbotCompletion, error) {
	rows, err := db.QueryContext(ctx, `
		select DBID, FlowDBID, UserID, ItemType, CollectedData, ProcessedData,
			StorageStatus, StorageLocation, ErrorMessage, StartedAt, CompletedAt, StoredAt
		from ChatbotCompletions where UserID = ? order by DBID desc;
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chatbot completions: %w", err)
	}
	defer closeRows(rows)

	var list []database.ChatbotCompletion
	for rows.Next() {
		var c database.ChatbotCompletion
		var collected, processed string
		var started int64
		var completedAt, storedAt sql.NullInt64
		scanErr := rows.Scan(&c.DBID, &c.FlowDBID, &c.UserID, &c.ItemType,
			&collected, &processed, &c.StorageStatus, &c.StorageLocation,
			&c.ErrorMessage, &started, &completedAt, &storedAt)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan completion row: %w", scanErr)
		}
		c.CollectedData = unmarshalMap(collected)
		c.ProcessedData = unmarshalMap(processed)
		c.StartedAt = time.Unix(started, 0)
		if completedAt.Valid {
			t := time.Unix(completedAt.Int64, 0)
			c.CompletedAt = &t
		}
		if storedAt.Valid {
			t := time.Unix(storedAt.Int64, 0)
			c.StoredAt = &t
		}
		list = append(list, c)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating completion rows: %w", err)
	}
	return list, nil
}

/*
 * Storage mappings
 */

func sqlAddStorageMapping(ctx context.Context, db *sql.DB, m *database.StorageMapping) (int64, error) {
	mapping, err := marshalJSON(m.DataMapping, "{}")
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		insert into StorageMappings(FlowDBID, BankDBID, ItemType, DataMapping, CreatedBy, IsActive, CreatedAt, UpdatedAt)
		values (?, ?, ?, ?, ?, ?, ?, ?)
		on conflict (FlowDBID, ItemType) do update set
			BankDBID = excluded.BankDBID,
			DataMapping = excluded.DataMapping,
			IsActive = excluded.IsActive,
			UpdatedAt = excluded.UpdatedAt;
	`, m.FlowDBID, m.BankDBID, m.ItemType, mapping, m.CreatedBy, m.IsActive,
		m.CreatedAt.Unix(), m.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to upsert storage mapping: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get storage mapping insert id: %w", err)
	}
	return id, nil
}

func sqlGetStorageMapping(ctx context.Context, db *sql.DB, flowID int64) (database.StorageMapping, error) {
	var m database.StorageMapping
	var mapping string
	var created, updated int64
	err := db.QueryRowContext(ctx, `
		select DBID, FlowDBID, BankDBID, ItemType, DataMapping, CreatedBy, IsActive, CreatedAt, UpdatedAt
		from StorageMappings where FlowDBID = ? and IsActive = 1;
	`, flowID).Scan(&m.DBID, &m.FlowDBID, &m.BankDBID, &m.ItemType, &mapping,
		&m.CreatedBy, &m.IsActive, &created, &updated)
	if err != nil {
		return m, fmt.Errorf("failed to query storage mapping: %w", err)
	}
	m.DataMapping = unmarshalStringMap(mapping)
	m.CreatedAt = time.Unix(created, 0)
	m.UpdatedAt = time.Unix(updated, 0)
	return m, nil
}
