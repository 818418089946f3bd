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
	"regexp"
	"strings"
)

// Contains returns true if slice contains value.
func Contains[T comparable](xs []T, x T) bool {
	for i := range xs {
		if xs[i] == x {
			return true
		}
	}
	return false
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name into a URL-friendly slug.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStripRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

var wordRe = regexp.MustCompile(`\b\w+\b`)

// TokenizeWords lowercases text and extracts its word tokens.
func TokenizeWords(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// TokenSet builds a set of unique word tokens from text.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range TokenizeWords(text) {
		set[w] = struct{}{}
	}
	return set
}
