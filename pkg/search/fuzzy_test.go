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

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFuzzyMatches(t *testing.T) {
	t.Parallel()

	t.Run("near misses rank by similarity", func(t *testing.T) {
		t.Parallel()
		candidates := []string{"Guitar Lessons", "Guitar Lesson", "Bike Repair"}
		matches := FindFuzzyMatches("guitar lesons", candidates, 10, 0.75)

		require.NotEmpty(t, matches)
		assert.NotEqual(t, "Bike Repair", matches[0].Title)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i-1].Similarity, matches[i].Similarity)
		}
	})

	t.Run("exact matches are skipped", func(t *testing.T) {
		t.Parallel()
		matches := FindFuzzyMatches("guitar lessons", []string{"Guitar Lessons"}, 10, 0.5)
		assert.Empty(t, matches)
	})

	t.Run("length pre-filter drops distant candidates", func(t *testing.T) {
		t.Parallel()
		matches := FindFuzzyMatches("bike", []string{"a much longer unrelated title"}, 3, 0.0)
		assert.Empty(t, matches)
	})

	t.Run("similarity floor filters weak candidates", func(t *testing.T) {
		t.Parallel()
		matches := FindFuzzyMatches("guitar", []string{"yoga mat"}, 10, 0.9)
		assert.Empty(t, matches)
	})

	t.Run("no candidates", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, FindFuzzyMatches("guitar", nil, 10, 0.75))
	})
}
