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

	"github.com/BankUProject/banku-core/pkg/api/middleware"
	"github.com/BankUProject/banku-core/pkg/api/models"
)

func (env *Env) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req models.OrganizationRequest
	if !env.decode(w, r, &req) {
		return
	}

	org, err := env.Orgs.Create(
		req.Name, req.Description, req.OrgType,
		middleware.UserID(r.Context()), req.IsPublic)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusCreated, models.FromOrganization(&org))
}

func (env *Env) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	org, err := env.DB.UserDB.GetOrganization(id)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromOrganization(&org))
}

func (env *Env) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	publicOnly := r.URL.Query().Get("all") != "true"
	orgs, err := env.DB.UserDB.ListOrganizations(publicOnly)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromOrganizations(orgs))
}

func (env *Env) InviteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.InviteRequest
	if !env.decode(w, r, &req) {
		return
	}
	err := env.Orgs.Invite(id, middleware.UserID(r.Context()), req.UserID, req.Role)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (env *Env) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := env.Orgs.Accept(id, middleware.UserID(r.Context())); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (env *Env) LeaveOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := env.Orgs.Leave(id, middleware.UserID(r.Context())); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (env *Env) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.TransferRequest
	if !env.decode(w, r, &req) {
		return
	}
	err := env.Orgs.TransferOwnership(id, middleware.UserID(r.Context()), req.NewOwnerID)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (env *Env) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.RoleRequest
	if !env.decode(w, r, &req) {
		return
	}
	err := env.Orgs.ChangeRole(id, middleware.UserID(r.Context()), req.UserID, req.Role)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (env *Env) CloseOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := env.Orgs.Close(id, middleware.UserID(r.Context())); err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (env *Env) ListMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	members, err := env.DB.UserDB.ListMembers(id)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromMembers(members))
}

// OrganizationHistory returns the append-only membership/ownership log.
func (env *Env) OrganizationHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 50)
	events, err := env.DB.UserDB.ListOrganizationEvents(id, limit)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, models.FromOrgEvents(events))
}
