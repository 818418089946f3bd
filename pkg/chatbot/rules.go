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

	"github.com/BankUProject/banku-core/pkg/helpers/syncutil"
	"github.com/google/cel-go/cel"
)

// RuleEngine compiles and evaluates question branching rules. A rule is a CEL
// boolean expression over the session's collected answers, e.g.
// `answers["item_type"] == "product"`. Rules are compiled once and cached.
type RuleEngine struct {
	env      *cel.Env
	programs map[string]cel.Program
	mu       syncutil.RWMutex
}

func NewRuleEngine() (*RuleEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("answers", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rule environment: %w", err)
	}
	return &RuleEngine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Compile validates a rule and caches its program. Flows reject rules that
// fail to compile at save time.
func (r *RuleEngine) Compile(rule string) error {
	if rule == "" {
		return nil
	}

	r.mu.RLock()
	_, cached := r.programs[rule]
	r.mu.RUnlock()
	if cached {
		return nil
	}

	ast, issues := r.env.Compile(rule)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("invalid branching rule %q: %w", rule, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return fmt.Errorf("branching rule %q must evaluate to a boolean", rule)
	}

	prg, err := r.env.Program(ast)
	if err != nil {
		return fmt.Errorf("failed to build rule program: %w", err)
	}

	r.mu.Lock()
	r.programs[rule] = prg
	r.mu.Unlock()
	return nil
}

// Eval runs a rule against the collected answers. An empty rule is always
// true.
func (r *RuleEngine) Eval(rule string, answers map[string]any) (bool, error) {
	if rule == "" {
		return true, nil
	}
	if err := r.Compile(rule); err != nil {
		return false, err
	}

	r.mu.RLock()
	prg := r.programs[rule]
	r.mu.RUnlock()

	if answers == nil {
		answers = map[string]any{}
	}
	out, _, err := prg.Eval(map[string]any{"answers": answers})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate branching rule: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("branching rule %q returned non-boolean", rule)
	}
	return result, nil
}
