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

// Package organizations implements multi-user tenants: membership, role
// management and ownership transfer, with an append-only history log.
package organizations

import (
	"errors"
	"fmt"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/BankUProject/banku-core/pkg/helpers"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotMember      = errors.New("user is not a member")
	ErrNotPermitted   = errors.New("role does not permit this operation")
	ErrOwnerMustStay  = errors.New("owner must transfer ownership before leaving")
	ErrInvalidRole    = errors.New("invalid member role")
	ErrAlreadyMember  = errors.New("user is already a member")
	ErrNotInvited     = errors.New("user has no pending invitation")
	ErrCannotDemote   = errors.New("the owner role can only move via ownership transfer")
	ErrOrgClosed      = errors.New("organization is closed")
	ErrSelfManagement = errors.New("members cannot change their own role")
)

var assignableRoles = []string{"admin", "member", "viewer"}

type Service struct {
	db    database.UserDBI
	clock clockwork.Clock
}

func NewService(db database.UserDBI, clock clockwork.Clock) *Service {
	return &Service{db: db, clock: clock}
}

// Create stores a new organization; the creator becomes its owner.
func (s *Service) Create(name, description, orgType string, ownerID int64, isPublic bool) (database.Organization, error) {
	now := s.clock.Now()
	org := database.Organization{
		Name:        name,
		Slug:        helpers.Slugify(name),
		Description: description,
		OrgType:     orgType,
		Status:      "active",
		OwnerID:     ownerID,
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.db.AddOrganization(org)
	if err != nil {
		return org, fmt.Errorf("failed to create organization: %w", err)
	}
	org.DBID = id
	org.MemberCount = 1
	return org, nil
}

// activeAdmin loads the acting member and checks they hold owner or admin.
func (s *Service) activeAdmin(orgID, actorID int64) (database.OrganizationMember, error) {
	actor, err := s.db.GetMember(orgID, actorID)
	if err != nil {
		return actor, ErrNotMember
	}
	if actor.Status != "active" || (actor.Role != "owner" && actor.Role != "admin") {
		return actor, ErrNotPermitted
	}
	return actor, nil
}

// Invite adds a user with status invited. Only owner/admin may invite.
func (s *Service) Invite(orgID, actorID, userID int64, role string) error {
	org, err := s.db.GetOrganization(orgID)
	if err != nil {
		return fmt.Errorf("failed to load organization: %w", err)
	}
	if org.Status == "closed" {
		return ErrOrgClosed
	}
	if _, err := s.activeAdmin(orgID, actorID); err != nil {
		return err
	}
	if !helpers.Contains(assignableRoles, role) {
		return ErrInvalidRole
	}
	if _, err := s.db.GetMember(orgID, userID); err == nil {
		return ErrAlreadyMember
	}

	member := database.OrganizationMember{
		OrgDBID:   orgID,
		UserID:    userID,
		Role:      role,
		Status:    "invited",
		InvitedBy: actorID,
		JoinedAt:  s.clock.Now(),
	}
	if _, err := s.db.AddMember(&member); err != nil {
		return fmt.Errorf("failed to invite member: %w", err)
	}
	s.logEvent(orgID, actorID, "invited", fmt.Sprintf("user %d as %s", userID, role))
	return nil
}

// Accept turns an invitation into active membership.
func (s *Service) Accept(orgID, userID int64) error {
	member, err := s.db.GetMember(orgID, userID)
	if err != nil {
		return ErrNotInvited
	}
	if member.Status != "invited" {
		return ErrNotInvited
	}
	if err := s.db.UpdateMemberStatus(member.DBID, "active", s.clock.Now()); err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}
	s.logEvent(orgID, userID, "joined", "")
	return nil
}

// Leave removes the user's membership. The owner cannot leave while other
// active members remain; they must transfer ownership first.
func (s *Service) Leave(orgID, userID int64) error {
	member, err := s.db.GetMember(orgID, userID)
	if err != nil {
		return ErrNotMember
	}

	if member.Role == "owner" {
		members, listErr := s.db.ListMembers(orgID)
		if listErr != nil {
			return fmt.Errorf("failed to list members: %w", listErr)
		}
		for i := range members {
			if members[i].UserID != userID && members[i].Status == "active" {
				return ErrOwnerMustStay
			}
		}
	}

	if err := s.db.UpdateMemberStatus(member.DBID, "left", s.clock.Now()); err != nil {
		return fmt.Errorf("failed to leave organization: %w", err)
	}
	s.logEvent(orgID, userID, "left", "")
	return nil
}

// TransferOwnership moves the owner role to another active member. The
// previous owner becomes an admin, keeping exactly one owner.
func (s *Service) TransferOwnership(orgID, actorID, newOwnerID int64) error {
	org, err := s.db.GetOrganization(orgID)
	if err != nil {
		return fmt.Errorf("failed to load organization: %w", err)
	}
	if org.OwnerID != actorID {
		return ErrNotPermitted
	}

	current, err := s.db.GetMember(orgID, actorID)
	if err != nil {
		return ErrNotMember
	}
	successor, err := s.db.GetMember(orgID, newOwnerID)
	if err != nil {
		return ErrNotMember
	}
	if successor.Status != "active" {
		return ErrNotMember
	}

	now := s.clock.Now()
	if err := s.db.UpdateMemberRole(successor.DBID, "owner"); err != nil {
		return fmt.Errorf("failed to promote new owner: %w", err)
	}
	if err := s.db.UpdateMemberRole(current.DBID, "admin"); err != nil {
		return fmt.Errorf("failed to demote previous owner: %w", err)
	}
	if err := s.db.SetOrganizationOwner(orgID, newOwnerID, now); err != nil {
		return fmt.Errorf("failed to update organization owner: %w", err)
	}
	s.logEvent(orgID, actorID, "ownership_transferred", fmt.Sprintf("to user %d", newOwnerID))
	return nil
}

// ChangeRole assigns a non-owner role to a member. Only owner/admin may
// change roles; the owner role itself only moves via TransferOwnership.
func (s *Service) ChangeRole(orgID, actorID, userID int64, role string) error {
	if actorID == userID {
		return ErrSelfManagement
	}
	if _, err := s.activeAdmin(orgID, actorID); err != nil {
		return err
	}
	if !helpers.Contains(assignableRoles, role) {
		return ErrInvalidRole
	}

	member, err := s.db.GetMember(orgID, userID)
	if err != nil {
		return ErrNotMember
	}
	if member.Role == "owner" {
		return ErrCannotDemote
	}

	if err := s.db.UpdateMemberRole(member.DBID, role); err != nil {
		return fmt.Errorf("failed to change member role: %w", err)
	}
	s.logEvent(orgID, actorID, "role_changed", fmt.Sprintf("user %d to %s", userID, role))
	return nil
}

// Close marks the organization closed. Owner only.
func (s *Service) Close(orgID, actorID int64) error {
	org, err := s.db.GetOrganization(orgID)
	if err != nil {
		return fmt.Errorf("failed to load organization: %w", err)
	}
	if org.OwnerID != actorID {
		return ErrNotPermitted
	}
	if err := s.db.UpdateOrganizationStatus(orgID, "closed", s.clock.Now()); err != nil {
		return fmt.Errorf("failed to close organization: %w", err)
	}
	s.logEvent(orgID, actorID, "closed", "")
	return nil
}

// logEvent appends to the history log. History is best-effort; failures are
// logged, not surfaced.
func (s *Service) logEvent(orgID, userID int64, action, detail string) {
	event := database.OrganizationEvent{
		OrgDBID:   orgID,
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: s.clock.Now(),
	}
	if err := s.db.AddOrganizationEvent(&event); err != nil {
		log.Warn().Err(err).Int64("org", orgID).Str("action", action).
			Msg("failed to record organization event")
	}
}
