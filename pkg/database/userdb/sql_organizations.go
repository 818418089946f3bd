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
	"fmt"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

//nolint:gocritic // struct passed for DB insertion
func sqlAddOrganization(ctx context.Context, db *sql.DB, org database.Organization) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackTx(tx)

	res, err := tx.ExecContext(ctx, `
		insert into Organizations(
			Name, Slug, Description, OrgType, Status, OwnerID,
			MemberCount, ContentCount, IsPublic, CreatedAt, UpdatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, org.Name, org.Slug, org.Description, org.OrgType, org.Status, org.OwnerID,
		1, 0, org.IsPublic, org.CreatedAt.Unix(), org.UpdatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert organization: %w", err)
	}
	orgID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get organization insert id: %w", err)
	}

	// Creator joins as owner in the same transaction.
	_, err = tx.ExecContext(ctx, `
		insert into OrganizationMembers(OrgDBID, UserID, Role, Status, InvitedBy, JoinedAt)
		values (?, ?, 'owner', 'active', ?, ?);
	`, orgID, org.OwnerID, org.OwnerID, org.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert owner membership: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		insert into OrganizationEvents(OrgDBID, UserID, Action, Detail, CreatedAt)
		values (?, ?, 'created', '', ?);
	`, orgID, org.OwnerID, org.CreatedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert organization event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit organization insert: %w", err)
	}
	return orgID, nil
}

func scanOrganization(row interface{ Scan(...any) error }) (database.Organization, error) {
	var org database.Organization
	var created, updated int64
	err := row.Scan(&org.DBID, &org.Name, &org.Slug, &org.Description, &org.OrgType,
		&org.Status, &org.OwnerID, &org.MemberCount, &org.ContentCount,
		&org.IsPublic, &created, &updated)
	if err != nil {
		return org, err
	}
	org.CreatedAt = time.Unix(created, 0)
	org.UpdatedAt = time.Unix(updated, 0)
	return org, nil
}

const organizationColumns = `
	DBID, Name, Slug, Description, OrgType, Status, OwnerID,
	MemberCount, ContentCount, IsPublic, CreatedAt, UpdatedAt`

func sqlGetOrganization(ctx context.Context, db *sql.DB, id int64) (database.Organization, error) {
	row := db.QueryRowContext(ctx,
		`select `+organizationColumns+` from Organizations where DBID = ?;`, id)
	org, err := scanOrganization(row)
	if err != nil {
		return org, fmt.Errorf("failed to query organization: %w", err)
	}
	return org, nil
}

func sqlGetOrganizationBySlug(ctx context.Context, db *sql.DB, slug string) (database.Organization, error) {
	row := db.QueryRowContext(ctx,
		`select `+organizationColumns+` from Organizations where Slug = ?;`, slug)
	org, err := scanOrganization(row)
	if err != nil {
		return org, fmt.Errorf("failed to query organization by slug: %w", err)
	}
	return org, nil
}

func sqlListOrganizations(ctx context.Context, db *sql.DB, publicOnly bool) ([]database.Organization, error) {
	q := `select ` + organizationColumns + ` from Organizations where Status != 'closed'`
	if publicOnly {
		q += ` and IsPublic = 1`
	}
	q += ` order by CreatedAt desc;`

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer closeRows(rows)

	var list []database.Organization
	for rows.Next() {
		org, scanErr := scanOrganization(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan organization row: %w", scanErr)
		}
		list = append(list, org)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating organization rows: %w", err)
	}
	return list, nil
}

func sqlUpdateOrganizationStatus(ctx context.Context, db *sql.DB, id int64, status string, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update Organizations set Status = ?, UpdatedAt = ? where DBID = ?;
	`, status, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update organization status: %w", err)
	}
	return nil
}

func sqlSetOrganizationOwner(ctx context.Context, db *sql.DB, id, ownerID int64, when time.Time) error {
	_, err := db.ExecContext(ctx, `
		update Organizations set OwnerID = ?, UpdatedAt = ? where DBID = ?;
	`, ownerID, when.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update organization owner: %w", err)
	}
	return nil
}

/*
 * Members
 */

func sqlAddMember(ctx context.Context, db *sql.DB, m *database.OrganizationMember) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackTx(tx)

	res, err := tx.ExecContext(ctx, `
		insert into OrganizationMembers(OrgDBID, UserID, Role, Status, InvitedBy, JoinedAt)
		values (?, ?, ?, ?, ?, ?);
	`, m.OrgDBID, m.UserID, m.Role, m.Status, m.InvitedBy, m.JoinedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert member: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get member insert id: %w", err)
	}

	if m.Status == "active" {
		_, err = tx.ExecContext(ctx, `
			update Organizations
			set MemberCount = MemberCount + 1, UpdatedAt = ?
			where DBID = ?;
		`, m.JoinedAt.Unix(), m.OrgDBID)
		if err != nil {
			return 0, fmt.Errorf("failed to bump member count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit member insert: %w", err)
	}
	return id, nil
}

func scanMember(row interface{ Scan(...any) error }) (database.OrganizationMember, error) {
	var m database.OrganizationMember
	var joined int64
	var left sql.NullInt64
	err := row.Scan(&m.DBID, &m.OrgDBID, &m.UserID, &m.Role, &m.Status, &m.InvitedBy, &joined, &left)
	if err != nil {
		return m, err
	}
	m.JoinedAt = time.Unix(joined, 0)
	if left.Valid {
		t := time.Unix(left.Int64, 0)
		m.LeftAt = &t
	}
	return m, nil
}

func sqlGetMember(ctx context.Context, db *sql.DB, orgID, userID int64) (database.OrganizationMember, error) {
	row := db.QueryRowContext(ctx, `
		select DBID, OrgDBID, UserID, Role, Status, InvitedBy, JoinedAt, LeftAt
		from OrganizationMembers
		where OrgDBID = ? and UserID = ? and Status != 'left'
		order by DBID desc limit 1;
	`, orgID, userID)
	m, err := scanMember(row)
	if err != nil {
		return m, fmt.Errorf("failed to query member: %w", err)
	}
	return m, nil
}

func sqlListMembers(ctx context.Context, db *sql.DB, orgID int64) ([]database.OrganizationMember, error) {
	rows, err := db.QueryContext(ctx, `
		select DBID, OrgDBID, UserID, Role, Status, InvitedBy, JoinedAt, LeftAt
		from OrganizationMembers
		where OrgDBID = ? and Status != 'left'
		order by JoinedAt asc;
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer closeRows(rows)

	var list []database.OrganizationMember
	for rows.Next() {
		m, scanErr := scanMember(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan member row: %w", scanErr)
		}
		list = append(list, m)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating member rows: %w", err)
	}
	return list, nil
}

func sqlUpdateMemberRole(ctx context.Context, db *sql.DB, memberID int64, role string) error {
	_, err := db.ExecContext(ctx, `
		update OrganizationMembers set Role = ? where DBID = ?;
	`, role, memberID)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	return nil
}

func sqlUpdateMemberStatus(ctx context.Context, db *sql.DB, memberID int64, status string, when time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackTx(tx)

	var orgID int64
	var prev string
	err = tx.QueryRowContext(ctx, `
		select OrgDBID, Status from OrganizationMembers where DBID = ?;
	`, memberID).Scan(&orgID, &prev)
	if err != nil {
		return fmt.Errorf("failed to query member status: %w", err)
	}

	if status == "left" {
		_, err = tx.ExecContext(ctx, `
			update OrganizationMembers set Status = ?, LeftAt = ? where DBID = ?;
		`, status, when.Unix(), memberID)
	} else {
		_, err = tx.ExecContext(ctx, `
			update OrganizationMembers set Status = ? where DBID = ?;
		`, status, memberID)
	}
	if err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}

	// Keep the cached member count in step with active membership.
	delta := 0
	if prev != "active" && status == "active" {
		delta = 1
	} else if prev == "active" && status != "active" {
		delta = -1
	}
	if delta != 0 {
		_, err = tx.ExecContext(ctx, `
			update Organizations set MemberCount = MemberCount + ?, UpdatedAt = ? where DBID = ?;
		`, delta, when.Unix(), orgID)
		if err != nil {
			return fmt.Errorf("failed to adjust member count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit member status update: %w", err)
	}
	return nil
}

func sqlAddOrganizationEvent(ctx context.Context, db *sql.DB, e *database.OrganizationEvent) error {
	_, err := db.ExecContext(ctx, `
		insert into OrganizationEvents(OrgDBID, UserID, Action, Detail, CreatedAt)
		values (?, ?, ?, ?, ?);
	`, e.OrgDBID, e.UserID, e.Action, e.Detail, e.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert organization event: %w", err)
	}
	return nil
}

func sqlListOrganizationEvents(ctx context.Context, db *sql.DB, orgID int64, limit int) ([]database.OrganizationEvent, error) {
	rows, err := db.QueryContext(ctx, `
		select DBID, OrgDBID, UserID, Action, Detail, CreatedAt
		from OrganizationEvents
		where OrgDBID = ?
		order by DBID desc limit ?;
	`, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query organization events: %w", err)
	}
	defer closeRows(rows)

	var list []database.OrganizationEvent
	for rows.Next() {
		var e database.OrganizationEvent
		var created int64
		if scanErr := rows.Scan(&e.DBID, &e.OrgDBID, &e.UserID, &e.Action, &e.Detail, &created); scanErr != nil {
			return list, fmt.Errorf("failed to scan organization event row: %w", scanErr)
		}
		e.CreatedAt = time.Unix(created, 0)
		list = append(list, e)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating organization event rows: %w", err)
	}
	return list, nil
}
