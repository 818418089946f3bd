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

package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	t.Parallel()

	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
	assert.False(t, Contains(nil, 1))
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Makers Guild", "makers-guild"},
		{"  Fancy  Name!  ", "fancy-name"},
		{"already-a-slug", "already-a-slug"},
		{"Ümlaut Café", "mlaut-caf"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestTokenizeWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"guitar", "lessons", "for", "beginners"},
		TokenizeWords("Guitar lessons, for beginners!"))
	assert.Empty(t, TokenizeWords("!!!"))
}

func TestTokenSet(t *testing.T) {
	t.Parallel()

	set := TokenSet("red red blue")
	assert.Len(t, set, 2)
	_, ok := set["red"]
	assert.True(t, ok)
}
