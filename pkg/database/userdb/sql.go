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

package userdb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run user database migrations: %w", err)
	}
	return nil
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from DealMessages;
	delete from Deals;
	delete from Earnings;
	delete from WithdrawalRequests;
	delete from WalletTransactions;
	delete from Wallets;
	delete from OrganizationEvents;
	delete from OrganizationMembers;
	delete from Organizations;
	delete from Users;
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

/*
 * Users
 */

func sqlAddUser(ctx context.Context, db *sql.DB, u *database.User) (int64, error) {
	res, err := db.ExecContext(ctx, `
		insert into Users(Username, Email, DisplayName, IsAdmin, IsActive, CreatedAt)
		values (?, ?, ?, ?, ?, ?);
	`, u.Username, u.Email, u.DisplayName, u.IsAdmin, u.IsActive, u.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user insert id: %w", err)
	}
	return id, nil
}

func sqlGetUser(ctx context.Context, db *sql.DB, id int64) (database.User, error) {
	var u database.User
	var created int64
	err := db.QueryRowContext(ctx, `
		select DBID, Username, Email, DisplayName, IsAdmin, IsActive, CreatedAt
		from Users where DBID = ?;
	`, id).Scan(&u.DBID, &u.Username, &u.Email, &u.DisplayName, &u.IsAdmin, &u.IsActive, &created)
	if err != nil {
		return u, fmt.Errorf("failed to query user: %w", err)
	}
	u.CreatedAt = time.Unix(created, 0)
	return u, nil
}

func sqlGetUserByUsername(ctx context.Context, db *sql.DB, username string) (database.User, error) {
	var u database.User
	var created int64
	err := db.QueryRowContext(ctx, `
		select DBID, Username, Email, DisplayName, IsAdmin, IsActive, CreatedAt
		from Users where Username = ?;
	`, username).Scan(&u.DBID, &u.Username, &u.Email, &u.DisplayName, &u.IsAdmin, &u.IsActive, &created)
	if err != nil {
		return u, fmt.Errorf("failed to query user by username: %w", err)
	}
	u.CreatedAt = time.Unix(created, 0)
	return u, nil
}
