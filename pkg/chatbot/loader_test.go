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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFlowFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadFlowFile(t *testing.T) {
	t.Parallel()

	rules, err := NewRuleEngine()
	require.NoError(t, err)

	path := writeFlowFile(t, `
name: product-intake
description: List a physical product
item_type: product
questions:
  - text: What are you listing?
    field: title
    required: true
  - text: Which category?
    type: select
    field: category
    options: [product, service]
  - text: What color is it?
    field: color
    branch_rule: answers["category"] == "product"
    ai_weight: 2.5
`)

	def, err := LoadFlowFile(path, rules)
	require.NoError(t, err)
	assert.Equal(t, "product-intake", def.Name)
	assert.Equal(t, "product", def.ItemType)
	require.Len(t, def.Questions, 3)

	// Type defaults to text during validation.
	assert.Equal(t, "text", def.Questions[0].Type)
	assert.True(t, def.Questions[0].Required)
	assert.Equal(t, []string{"product", "service"}, def.Questions[1].Options)
	assert.InDelta(t, 2.5, def.Questions[2].AIWeight, 1e-9)
}

func TestLoadFlowFileErrors(t *testing.T) {
	t.Parallel()

	rules, err := NewRuleEngine()
	require.NoError(t, err)

	tests := []struct {
		name     string
		contents string
	}{
		{
			name:     "missing name",
			contents: "questions:\n  - text: hello\n",
		},
		{
			name:     "no questions",
			contents: "name: empty-flow\n",
		},
		{
			name:     "question without text",
			contents: "name: f\nquestions:\n  - field: title\n",
		},
		{
			name:     "unknown question type",
			contents: "name: f\nquestions:\n  - text: hi\n    type: slider\n",
		},
		{
			name:     "select without options",
			contents: "name: f\nquestions:\n  - text: hi\n    type: select\n",
		},
		{
			name:     "broken branch rule",
			contents: "name: f\nquestions:\n  - text: hi\n    branch_rule: 'answers[ =='\n",
		},
		{
			name:     "not yaml",
			contents: "\t{nope",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFlowFile(writeFlowFile(t, tt.contents), rules)
			assert.Error(t, err)
		})
	}
}

func TestLoadFlowFileMissing(t *testing.T) {
	t.Parallel()

	rules, err := NewRuleEngine()
	require.NoError(t, err)

	_, err = LoadFlowFile(filepath.Join(t.TempDir(), "absent.yaml"), rules)
	assert.Error(t, err)
}
