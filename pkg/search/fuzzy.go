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
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

// FuzzyMatch is a candidate title scored against the query.
type FuzzyMatch struct {
	Title      string
	Similarity float32
}

// FindFuzzyMatches ranks near-miss titles with Jaro-Winkler similarity.
// Jaro-Winkler weights matching prefixes heavily, which suits listing titles
// where users usually get the start right. A length pre-filter skips
// candidates that cannot be within maxDistance edits.
func FindFuzzyMatches(query string, candidates []string, maxDistance int, minSimilarity float32) []FuzzyMatch {
	query = strings.ToLower(strings.TrimSpace(query))

	var matches []FuzzyMatch
	for _, candidate := range candidates {
		normalized := strings.ToLower(candidate)
		if normalized == query {
			continue
		}

		lenDiff := len(query) - len(normalized)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > maxDistance {
			continue
		}

		similarity := edlib.JaroWinklerSimilarity(query, normalized)
		if similarity > 0.7 {
			log.Debug().
				Str("query", query).
				Str("candidate", candidate).
				Float32("similarity", similarity).
				Msg("fuzzy title candidate")
		}
		if similarity >= minSimilarity {
			matches = append(matches, FuzzyMatch{
				Title:      candidate,
				Similarity: similarity,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}
