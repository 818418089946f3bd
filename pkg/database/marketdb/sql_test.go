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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	out, err := marshalJSON(nil, "[]")
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	out, err = marshalJSON([]string{"a", "b"}, "[]")
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, out)

	out, err = marshalJSON(map[string]any{"color": "red"}, "{}")
	require.NoError(t, err)
	assert.JSONEq(t, `{"color":"red"}`, out)
}

func TestUnmarshalStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, unmarshalStrings(`["a","b"]`))
	assert.Nil(t, unmarshalStrings(""))
	// Corrupt column data degrades to nil rather than failing the scan.
	assert.Nil(t, unmarshalStrings("{broken"))
}

func TestUnmarshalMap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]any{"color": "red"}, unmarshalMap(`{"color":"red"}`))
	assert.Nil(t, unmarshalMap(""))
	assert.Nil(t, unmarshalMap("[broken"))
}
