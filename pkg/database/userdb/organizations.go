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
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
)

// AddOrganization creates the organization, its owner membership and the
// initial history event in one transaction.
func (db *UserDB) AddOrganization(org database.Organization) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddOrganization(db.ctx, db.sql, org)
}

func (db *UserDB) GetOrganization(id int64) (database.Organization, error) {
	if db.sql == nil {
		return database.Organization{}, ErrNullSQL
	}
	return sqlGetOrganization(db.ctx, db.sql, id)
}

func (db *UserDB) GetOrganizationBySlug(slug string) (database.Organization, error) {
	if db.sql == nil {
		return database.Organization{}, ErrNullSQL
	}
	return sqlGetOrganizationBySlug(db.ctx, db.sql, slug)
}

func (db *UserDB) ListOrganizations(publicOnly bool) ([]database.Organization, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListOrganizations(db.ctx, db.sql, publicOnly)
}

func (db *UserDB) UpdateOrganizationStatus(id int64, status string, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateOrganizationStatus(db.ctx, db.sql, id, status, when)
}

func (db *UserDB) SetOrganizationOwner(id, ownerID int64, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlSetOrganizationOwner(db.ctx, db.sql, id, ownerID, when)
}

func (db *UserDB) AddMember(m *database.OrganizationMember) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlAddMember(db.ctx, db.sql, m)
}

func (db *UserDB) GetMember(orgID, userID int64) (database.OrganizationMember, error) {
	if db.sql == nil {
		return database.OrganizationMember{}, ErrNullSQL
	}
	return sqlGetMember(db.ctx, db.sql, orgID, userID)
}

func (db *UserDB) ListMembers(orgID int64) ([]database.OrganizationMember, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListMembers(db.ctx, db.sql, orgID)
}

func (db *UserDB) UpdateMemberRole(memberID int64, role string) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateMemberRole(db.ctx, db.sql, memberID, role)
}

func (db *UserDB) UpdateMemberStatus(memberID int64, status string, when time.Time) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpdateMemberStatus(db.ctx, db.sql, memberID, status, when)
}

func (db *UserDB) AddOrganizationEvent(e *database.OrganizationEvent) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAddOrganizationEvent(db.ctx, db.sql, e)
}

func (db *UserDB) ListOrganizationEvents(orgID int64, limit int) ([]database.OrganizationEvent, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListOrganizationEvents(db.ctx, db.sql, orgID, limit)
}
