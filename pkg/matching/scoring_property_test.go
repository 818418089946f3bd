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

package matching

import (
	"testing"

	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/BankUProject/banku-core/pkg/helpers"
	"pgregory.net/rapid"
)

func genNeed(t *rapid.T) database.Need {
	need := database.Need{
		Title:               rapid.StringMatching(`[a-z ]{0,40}`).Draw(t, "title"),
		DetailedDescription: rapid.StringMatching(`[a-z ]{0,80}`).Draw(t, "desc"),
		Category:            rapid.SampledFrom([]string{"", "product", "service", "event"}).Draw(t, "category"),
		Location:            rapid.SampledFrom([]string{"", "berlin", "berlin, de", "munich"}).Draw(t, "location"),
	}
	if rapid.Bool().Draw(t, "hasMin") {
		v := rapid.Float64Range(0, 500).Draw(t, "min")
		need.BudgetMin = &v
	}
	if rapid.Bool().Draw(t, "hasMax") {
		v := rapid.Float64Range(0, 1000).Draw(t, "max")
		need.BudgetMax = &v
	}
	return need
}

func genItem(t *rapid.T) database.Item {
	item := database.Item{
		Title:            rapid.StringMatching(`[a-z ]{0,40}`).Draw(t, "ititle"),
		ShortDescription: rapid.StringMatching(`[a-z ]{0,80}`).Draw(t, "idesc"),
		Category:         rapid.SampledFrom([]string{"", "product", "physical", "service"}).Draw(t, "icategory"),
		Location:         rapid.SampledFrom([]string{"", "berlin", "berlin, germany", "hamburg"}).Draw(t, "ilocation"),
	}
	if rapid.Bool().Draw(t, "hasPrice") {
		v := rapid.Float64Range(0, 2000).Draw(t, "price")
		item.Price = &v
	}
	return item
}

func genAggregates(t *rapid.T) []database.SearchAggregate {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) database.SearchAggregate {
		return database.SearchAggregate{
			FilterField: rapid.SampledFrom([]string{"category", "location", "search_term"}).Draw(t, "field"),
			FilterValue: rapid.SampledFrom([]string{"product", "berlin", "service"}).Draw(t, "value"),
			SearchTerm:  rapid.StringMatching(`[a-z ]{0,20}`).Draw(t, "term"),
			SearchCount: rapid.IntRange(0, 100).Draw(t, "count"),
		}
	}), 0, 10).Draw(t, "aggregates")
}

// Sub-scores and the combined score must stay inside [0,1] for any input;
// everything downstream (confidence labels, score floors) depends on it.
func TestScoreBounds(t *testing.T) {
	t.Parallel()

	weights := config.BaseDefaults.Matching

	rapid.Check(t, func(t *rapid.T) {
		need := genNeed(t)
		item := genItem(t)
		aggs := genAggregates(t)

		scores := Score(&need, &item, aggs)
		for name, v := range map[string]float64{
			"keyword":    scores.Keyword,
			"category":   scores.Category,
			"location":   scores.Location,
			"price":      scores.Price,
			"popularity": scores.Popularity,
		} {
			if v < 0 || v > 1 {
				t.Fatalf("%s score %f out of range", name, v)
			}
		}

		combined := scores.Combine(weights)
		if combined < 0 || combined > 1 {
			t.Fatalf("combined score %f out of range", combined)
		}

		label := Confidence(combined)
		if !helpers.Contains([]string{"high", "medium", "low"}, label) {
			t.Fatalf("unexpected confidence label %q", label)
		}
	})
}

// Keyword scoring is symmetric in the token sets: swapping the texts
// between need and item must not change the score.
func TestKeywordSymmetry(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.StringMatching(`[a-z ]{1,40}`).Draw(t, "a")
		b := rapid.StringMatching(`[a-z ]{1,40}`).Draw(t, "b")

		forward := scoreKeywords(
			&database.Need{Title: a}, &database.Item{Title: b})
		backward := scoreKeywords(
			&database.Need{Title: b}, &database.Item{Title: a})
		if forward != backward {
			t.Fatalf("keyword score not symmetric: %f vs %f", forward, backward)
		}
	})
}
