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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigWritesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, CfgFile))
	assert.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir())
	assert.Equal(t, BaseDefaults.Api.Port, cfg.ApiPort())
	assert.Equal(t, BaseDefaults.Matching, cfg.Matching())
}

func TestConfigRoundtrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetApiPort(9000)
	cfg.SetDebugLogging(true)
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, 9000, reloaded.ApiPort())
	assert.True(t, reloaded.DebugLogging())
}

func TestSetMatchingRejectsBadWeights(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(t.TempDir(), BaseDefaults)
	require.NoError(t, err)

	bad := BaseDefaults.Matching
	bad.KeywordWeight = 0.9
	assert.Error(t, cfg.SetMatching(bad))

	good := BaseDefaults.Matching
	good.KeywordWeight = 0.4
	good.CategoryWeight = 0.1
	require.NoError(t, cfg.SetMatching(good))
	assert.Equal(t, good, cfg.Matching())
}

func TestLoadAuthFromData(t *testing.T) {
	t.Parallel()

	data := []byte(`
[creds.token-abc]
user_id = 7
username = "frank"
admin = true
`)
	auth, err := LoadAuthFromData(data)
	require.NoError(t, err)

	entry, ok := auth.Creds["token-abc"]
	require.True(t, ok)
	assert.Equal(t, int64(7), entry.UserID)
	assert.Equal(t, "frank", entry.Username)
	assert.True(t, entry.Admin)
}

func TestLoadAuthFromDataInvalid(t *testing.T) {
	t.Parallel()

	_, err := LoadAuthFromData([]byte("not toml ["))
	assert.Error(t, err)
}

func TestLookupCredentialEmptyToken(t *testing.T) {
	t.Parallel()

	_, ok := LookupCredential("")
	assert.False(t, ok)
}
