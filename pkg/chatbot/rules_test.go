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

package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleCompile(t *testing.T) {
	t.Parallel()

	rules, err := NewRuleEngine()
	require.NoError(t, err)

	tests := []struct {
		name    string
		rule    string
		wantErr bool
	}{
		{"empty rule", "", false},
		{"comparison", `answers["item_type"] == "product"`, false},
		{"size check", `size(answers) > 0`, false},
		{"syntax error", `answers[ ==`, true},
		{"non-boolean output", `answers["item_type"]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := rules.Compile(tt.rule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRuleEval(t *testing.T) {
	t.Parallel()

	rules, err := NewRuleEngine()
	require.NoError(t, err)

	t.Run("empty rule is always true", func(t *testing.T) {
		t.Parallel()
		ok, err := rules.Eval("", nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("matching answer", func(t *testing.T) {
		t.Parallel()
		ok, err := rules.Eval(
			`answers["item_type"] == "product"`,
			map[string]any{"item_type": "product"})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("non-matching answer", func(t *testing.T) {
		t.Parallel()
		ok, err := rules.Eval(
			`answers["item_type"] == "product"`,
			map[string]any{"item_type": "service"})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing key errors", func(t *testing.T) {
		t.Parallel()
		_, err := rules.Eval(`answers["missing"] == "x"`, map[string]any{})
		assert.Error(t, err)
	})

	t.Run("guarded missing key", func(t *testing.T) {
		t.Parallel()
		ok, err := rules.Eval(
			`"color" in answers && answers["color"] == "red"`,
			map[string]any{})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
