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
	"embed"
	"encoding/json"
	"fmt"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run market database migrations: %w", err)
	}
	return nil
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from StorageMappings;
	delete from ChatbotCompletions;
	delete from ChatbotResponses;
	delete from ChatbotQuestions;
	delete from ChatbotFlows;
	delete from SearchAggregates;
	delete from SearchEvents;
	delete from MatchSessions;
	delete from MatchFeedback;
	delete from Matches;
	delete from Needs;
	delete from BankEntries;
	delete from Banks;
	delete from ItemTypes;
	delete from Items;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `vacuum;`)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql rows")
	}
}

func rollbackTx(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		log.Warn().Err(err).Msg("failed to roll back transaction")
	}
}

// marshalJSON serializes JSON column values, falling back to the given
// default on nil so columns never hold SQL NULL.
func marshalJSON(v any, fallback string) (string, error) {
	if v == nil {
		return fallback, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal json column: %w", err)
	}
	return string(data), nil
}

func unmarshalStrings(data string) []string {
	if data == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		log.Warn().Err(err).Msg("failed to unmarshal string list column")
		return nil
	}
	return out
}

func unmarshalMap(data string) map[string]any {
	if data == "" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		log.Warn().Err(err).Msg("failed to unmarshal map column")
		return nil
	}
	return out
}

func unmarshalStringMap(data string) map[string]string {
	if data == "" {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		log.Warn().Err(err).Msg("failed to unmarshal string map column")
		return nil
	}
	return out
}
