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
	"strings"

	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/BankUProject/banku-core/pkg/helpers"
)

// categorySynonyms groups categories that score as near-matches even when the
// strings differ.
var categorySynonyms = map[string][]string{
	"product":     {"physical", "digital"},
	"service":     {"consulting", "support"},
	"event":       {"experience"},
	"experience":  {"event"},
	"opportunity": {"job", "project"},
	"information": {"data", "knowledge"},
}

// Scores holds the five sub-scores, each in [0,1].
type Scores struct {
	Keyword    float64
	Category   float64
	Location   float64
	Price      float64
	Popularity float64
}

// Combine folds the sub-scores into one weighted score. Weights are assumed
// to sum to 1.0, which config.SetMatching enforces.
func (s Scores) Combine(w config.Matching) float64 {
	return s.Keyword*w.KeywordWeight +
		s.Category*w.CategoryWeight +
		s.Location*w.LocationWeight +
		s.Price*w.PriceWeight +
		s.Popularity*w.PopularityWeight
}

// Reason builds the human-readable explanation shown next to a match.
func (s Scores) Reason() string {
	var parts []string
	if s.Keyword > 0.5 {
		parts = append(parts, "strong keyword match")
	}
	if s.Category > 0.8 {
		parts = append(parts, "perfect category match")
	}
	if s.Location > 0.7 {
		parts = append(parts, "good location match")
	}
	if s.Price > 0.8 {
		parts = append(parts, "price within budget")
	}
	if s.Popularity > 0.6 {
		parts = append(parts, "based on popular searches")
	}
	if len(parts) == 0 {
		return "basic match"
	}
	return strings.Join(parts, "; ")
}

// Confidence labels a combined score.
func Confidence(score float64) string {
	switch {
	case score >= 0.8:
		return "high"
	case score >= 0.6:
		return "medium"
	default:
		return "low"
	}
}

// scoreKeywords is the Jaccard similarity of word-token sets drawn from the
// need's title+description against the item's title+short description.
func scoreKeywords(need *database.Need, item *database.Item) float64 {
	needTokens := helpers.TokenSet(need.Title + " " + need.DetailedDescription)
	if len(needTokens) == 0 {
		return 0
	}
	itemTokens := helpers.TokenSet(item.Title + " " + item.ShortDescription)
	if len(itemTokens) == 0 {
		return 0
	}

	intersection := 0
	for tok := range needTokens {
		if _, ok := itemTokens[tok]; ok {
			intersection++
		}
	}
	union := len(needTokens) + len(itemTokens) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func scoreCategory(need *database.Need, item *database.Item) float64 {
	needCat := strings.ToLower(strings.TrimSpace(need.Category))
	itemCat := strings.ToLower(strings.TrimSpace(item.Category))
	if needCat == "" || itemCat == "" {
		return 0
	}
	if needCat == itemCat {
		return 1.0
	}
	if helpers.Contains(categorySynonyms[needCat], itemCat) ||
		helpers.Contains(categorySynonyms[itemCat], needCat) {
		return 0.8
	}
	return 0
}

func scoreLocation(need *database.Need, item *database.Item) float64 {
	needLoc := strings.ToLower(strings.TrimSpace(need.Location))
	itemLoc := strings.ToLower(strings.TrimSpace(item.Location))
	if needLoc == "" && itemLoc == "" {
		return 0.5
	}
	if needLoc == itemLoc {
		return 1.0
	}
	if needLoc == "" || itemLoc == "" {
		return 0.2
	}
	if strings.Contains(needLoc, itemLoc) || strings.Contains(itemLoc, needLoc) {
		return 0.8
	}
	// Same leading segment, e.g. "Berlin, DE" vs "Berlin, Germany".
	needCity := strings.TrimSpace(strings.SplitN(needLoc, ",", 2)[0])
	itemCity := strings.TrimSpace(strings.SplitN(itemLoc, ",", 2)[0])
	if needCity != "" && needCity == itemCity {
		return 0.6
	}
	return 0.2
}

func scorePrice(need *database.Need, item *database.Item) float64 {
	if item.Price == nil {
		return 0.5
	}
	if need.BudgetMin == nil && need.BudgetMax == nil {
		return 0.7
	}
	price := *item.Price

	if need.BudgetMin != nil && price < *need.BudgetMin {
		return 0.3
	}
	if need.BudgetMax != nil && price > *need.BudgetMax {
		maxBudget := *need.BudgetMax
		if maxBudget <= 0 {
			return 0
		}
		over := 1 - 2*(price-maxBudget)/maxBudget
		if over < 0 {
			return 0
		}
		return over
	}
	return 1.0
}

// scorePopularity weighs an item against recent search activity for its
// category. A row counts only when its filter hits the item: hits contribute
// weight min(count/10, 1) to both sides of the average, so misses never
// dilute the score. No hits at all is neutral.
func scorePopularity(item *database.Item, aggregates []database.SearchAggregate) float64 {
	if len(aggregates) == 0 {
		return 0.5
	}

	itemLoc := strings.ToLower(strings.TrimSpace(item.Location))
	itemCat := strings.ToLower(strings.TrimSpace(item.Category))
	itemTitle := strings.ToLower(item.Title)

	var sum, total float64
	for i := range aggregates {
		agg := &aggregates[i]
		w := float64(agg.SearchCount) / 10
		if w > 1 {
			w = 1
		}

		switch agg.FilterField {
		case "location":
			// Containment, not equality: a "berlin" filter hits an item
			// located in "Berlin, Germany".
			if itemLoc != "" && strings.Contains(itemLoc, strings.ToLower(agg.FilterValue)) {
				sum += 0.8 * w
				total += w
			}
		case "category":
			if itemCat != "" && strings.ToLower(agg.FilterValue) == itemCat {
				sum += 1.0 * w
				total += w
			}
		case "search_term":
			term := strings.ToLower(strings.TrimSpace(agg.SearchTerm))
			if term != "" && strings.Contains(itemTitle, term) {
				sum += 0.6 * w
				total += w
			}
		}
	}
	if total == 0 {
		return 0.5
	}
	return sum / total
}

// Score computes all five sub-scores for one need/item pair.
func Score(need *database.Need, item *database.Item, aggregates []database.SearchAggregate) Scores {
	return Scores{
		Keyword:    scoreKeywords(need, item),
		Category:   scoreCategory(need, item),
		Location:   scoreLocation(need, item),
		Price:      scorePrice(need, item),
		Popularity: scorePopularity(item, aggregates),
	}
}
