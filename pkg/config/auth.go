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

package config

import (
	"os"
	"sync/atomic"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// CredentialEntry maps an API bearer token to a user account. Admin entries
// unlock the admin-gated API surface (flow/mapping mutation, withdrawal
// processing, auto-generate, analytics).
type CredentialEntry struct {
	UserID   int64  `toml:"user_id"`
	Username string `toml:"username"`
	Admin    bool   `toml:"admin"`
}

// Auth holds API credentials, keyed by bearer token. Kept in a separate
// auth.toml so the main config can be shared freely.
type Auth struct {
	Creds map[string]CredentialEntry `toml:"creds,omitempty"`
}

var authCfg atomic.Value

// GetAuthCfg returns the current auth credentials. Safe for concurrent use.
func GetAuthCfg() Auth {
	val := authCfg.Load()
	if val == nil {
		return Auth{}
	}
	auth, ok := val.(Auth)
	if !ok {
		return Auth{}
	}
	return auth
}

// LoadAuthFromData parses auth.toml data.
func LoadAuthFromData(data []byte) (Auth, error) {
	var auth Auth
	if err := toml.Unmarshal(data, &auth); err != nil {
		return Auth{}, err
	}
	return auth, nil
}

func (c *Instance) loadAuth() error {
	if _, err := os.Stat(c.authPath); os.IsNotExist(err) {
		log.Debug().Str("path", c.authPath).Msg("no auth config found")
		return nil
	}

	data, err := os.ReadFile(c.authPath)
	if err != nil {
		return err
	}

	auth, err := LoadAuthFromData(data)
	if err != nil {
		return err
	}

	authCfg.Store(auth)
	log.Info().Int("creds", len(auth.Creds)).Msg("loaded auth config")
	return nil
}

// LookupCredential resolves a bearer token to its credential entry.
func LookupCredential(token string) (CredentialEntry, bool) {
	if token == "" {
		return CredentialEntry{}, false
	}
	entry, ok := GetAuthCfg().Creds[token]
	return entry, ok
}
