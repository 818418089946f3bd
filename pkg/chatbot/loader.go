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
	"fmt"
	"os"

	"github.com/BankUProject/banku-core/pkg/helpers"
	"gopkg.in/yaml.v3"
)

// FlowDefinition is the YAML shape of an admin-authored intake flow.
type FlowDefinition struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	ItemType    string               `yaml:"item_type"`
	Questions   []QuestionDefinition `yaml:"questions"`
}

type QuestionDefinition struct {
	Text        string   `yaml:"text"`
	Type        string   `yaml:"type"`
	Field       string   `yaml:"field"`
	Placeholder string   `yaml:"placeholder"`
	Help        string   `yaml:"help"`
	BranchRule  string   `yaml:"branch_rule"`
	Options     []string `yaml:"options"`
	AIWeight    float64  `yaml:"ai_weight"`
	Step        int      `yaml:"step"`
	Sequence    int      `yaml:"sequence"`
	Required    bool     `yaml:"required"`
}

var questionTypes = []string{
	"text", "select", "radio", "checkbox", "number", "email", "phone", "date",
}

// LoadFlowFile parses and validates a flow definition from disk. Branching
// rules are compiled so broken flows are rejected before they reach the
// database.
func LoadFlowFile(path string, rules *RuleEngine) (*FlowDefinition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // admin-supplied flow path
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}

	var def FlowDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse flow file: %w", err)
	}
	if err := def.Validate(rules); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition's structural rules and compiles every
// branching rule.
func (d *FlowDefinition) Validate(rules *RuleEngine) error {
	if d.Name == "" {
		return fmt.Errorf("flow definition has no name")
	}
	if len(d.Questions) == 0 {
		return fmt.Errorf("flow %q has no questions", d.Name)
	}
	for i := range d.Questions {
		q := &d.Questions[i]
		if q.Text == "" {
			return fmt.Errorf("flow %q: question %d has no text", d.Name, i+1)
		}
		if q.Type == "" {
			q.Type = "text"
		}
		if !helpers.Contains(questionTypes, q.Type) {
			return fmt.Errorf("flow %q: question %d has unknown type %q", d.Name, i+1, q.Type)
		}
		if (q.Type == "select" || q.Type == "radio" || q.Type == "checkbox") && len(q.Options) == 0 {
			return fmt.Errorf("flow %q: question %d of type %q has no options", d.Name, i+1, q.Type)
		}
		if err := rules.Compile(q.BranchRule); err != nil {
			return fmt.Errorf("flow %q: question %d: %w", d.Name, i+1, err)
		}
	}
	return nil
}
