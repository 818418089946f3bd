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
	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestScoreKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		needText string
		itemText string
		want     float64
	}{
		{"identical", "guitar lessons", "guitar lessons", 1.0},
		{"partial overlap", "beginner guitar lessons", "guitar tuition", 0.25},
		{"no overlap", "guitar lessons", "bicycle repair", 0.0},
		{"empty need", "", "guitar lessons", 0.0},
		{"empty item", "guitar lessons", "", 0.0},
		{"case insensitive", "Guitar Lessons", "GUITAR LESSONS", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			need := database.Need{Title: tt.needText}
			item := database.Item{Title: tt.itemText}
			assert.InDelta(t, tt.want, scoreKeywords(&need, &item), 1e-9)
		})
	}
}

func TestScoreCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		needCat string
		itemCat string
		want    float64
	}{
		{"exact", "service", "service", 1.0},
		{"exact mixed case", "Service", "SERVICE", 1.0},
		{"synonym", "product", "physical", 0.8},
		{"synonym reversed", "physical", "product", 0.8},
		{"unrelated", "service", "product", 0.0},
		{"need empty", "", "service", 0.0},
		{"item empty", "service", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			need := database.Need{Category: tt.needCat}
			item := database.Item{Category: tt.itemCat}
			assert.InDelta(t, tt.want, scoreCategory(&need, &item), 1e-9)
		})
	}
}

func TestScoreLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		needLoc string
		itemLoc string
		want    float64
	}{
		{"both empty", "", "", 0.5},
		{"exact", "Berlin", "berlin", 1.0},
		{"need empty", "", "Berlin", 0.2},
		{"item empty", "Berlin", "", 0.2},
		{"substring", "Berlin", "Berlin, Germany", 0.8},
		{"same city different region", "Berlin, DE", "Berlin, Germany", 0.6},
		{"unrelated", "Munich", "Hamburg", 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			need := database.Need{Location: tt.needLoc}
			item := database.Item{Location: tt.itemLoc}
			assert.InDelta(t, tt.want, scoreLocation(&need, &item), 1e-9)
		})
	}
}

func TestScorePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		min   *float64
		max   *float64
		price *float64
		want  float64
	}{
		{"no price", fptr(10), fptr(100), nil, 0.5},
		{"no budget", nil, nil, fptr(50), 0.7},
		{"below minimum", fptr(50), fptr(100), fptr(20), 0.3},
		{"within budget", fptr(10), fptr(100), fptr(50), 1.0},
		{"at maximum", nil, fptr(100), fptr(100), 1.0},
		{"slightly over", nil, fptr(100), fptr(120), 0.6},
		{"half over", nil, fptr(100), fptr(150), 0.0},
		{"far over", nil, fptr(100), fptr(500), 0.0},
		{"zero max budget", nil, fptr(0), fptr(10), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			need := database.Need{BudgetMin: tt.min, BudgetMax: tt.max}
			item := database.Item{Price: tt.price}
			assert.InDelta(t, tt.want, scorePrice(&need, &item), 1e-9)
		})
	}
}

func TestScorePopularity(t *testing.T) {
	t.Parallel()

	item := database.Item{
		Title:    "Vintage Road Bike",
		Category: "product",
		Location: "Berlin",
	}

	t.Run("no aggregates is neutral", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 0.5, scorePopularity(&item, nil), 1e-9)
	})

	t.Run("category filter match", func(t *testing.T) {
		t.Parallel()
		aggs := []database.SearchAggregate{
			{FilterField: "category", FilterValue: "Product", SearchCount: 10},
		}
		assert.InDelta(t, 1.0, scorePopularity(&item, aggs), 1e-9)
	})

	t.Run("location filter match", func(t *testing.T) {
		t.Parallel()
		aggs := []database.SearchAggregate{
			{FilterField: "location", FilterValue: "berlin", SearchCount: 10},
		}
		assert.InDelta(t, 0.8, scorePopularity(&item, aggs), 1e-9)
	})

	t.Run("search term substring match", func(t *testing.T) {
		t.Parallel()
		aggs := []database.SearchAggregate{
			{FilterField: "search_term", SearchTerm: "road bike", SearchCount: 10},
		}
		assert.InDelta(t, 0.6, scorePopularity(&item, aggs), 1e-9)
	})

	t.Run("count caps row weight", func(t *testing.T) {
		t.Parallel()
		aggs := []database.SearchAggregate{
			{FilterField: "category", FilterValue: "product", SearchCount: 500},
		}
		assert.InDelta(t, 1.0, scorePopularity(&item, aggs), 1e-9)
	})

	t.Run("misses never dilute hits", func(t *testing.T) {
		t.Parallel()
		aggs := []database.SearchAggregate{
			{FilterField: "category", FilterValue: "product", SearchCount: 10},
			{FilterField: "category", FilterValue: "service", SearchCount: 10},
		}
		// The non-matching row stays out of the average entirely.
		assert.InDelta(t, 1.0, scorePopularity(&item, aggs), 1e-9)
	})

	t.Run("only misses stay neutral", func(t *testing.T) {
		t.Parallel()
		aggs := []database.SearchAggregate{
			{FilterField: "category", FilterValue: "service", SearchCount: 10},
		}
		assert.InDelta(t, 0.5, scorePopularity(&item, aggs), 1e-9)
	})

	t.Run("location filter hits by containment", func(t *testing.T) {
		t.Parallel()
		wide := database.Item{Title: "City Tour", Category: "service", Location: "Berlin, Germany"}
		aggs := []database.SearchAggregate{
			{FilterField: "location", FilterValue: "berlin", SearchCount: 10},
		}
		assert.InDelta(t, 0.8, scorePopularity(&wide, aggs), 1e-9)
	})

	t.Run("mixed hits average by weight", func(t *testing.T) {
		t.Parallel()
		aggs := []database.SearchAggregate{
			{FilterField: "category", FilterValue: "product", SearchCount: 10},
			{FilterField: "search_term", SearchTerm: "road bike", SearchCount: 10},
		}
		// (1.0 + 0.6) / 2, equal weights.
		assert.InDelta(t, 0.8, scorePopularity(&item, aggs), 1e-9)
	})

	t.Run("zero weight rows are neutral", func(t *testing.T) {
		t.Parallel()
		aggs := []database.SearchAggregate{
			{FilterField: "category", FilterValue: "product", SearchCount: 0},
		}
		assert.InDelta(t, 0.5, scorePopularity(&item, aggs), 1e-9)
	})
}

func TestCombine(t *testing.T) {
	t.Parallel()

	weights := config.BaseDefaults.Matching

	t.Run("all ones", func(t *testing.T) {
		t.Parallel()
		s := Scores{Keyword: 1, Category: 1, Location: 1, Price: 1, Popularity: 1}
		assert.InDelta(t, 1.0, s.Combine(weights), 1e-9)
	})

	t.Run("all zeros", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 0.0, Scores{}.Combine(weights), 1e-9)
	})

	t.Run("weighted mix", func(t *testing.T) {
		t.Parallel()
		s := Scores{Keyword: 1, Category: 0.5, Location: 0, Price: 1, Popularity: 0.5}
		// 0.3*1 + 0.2*0.5 + 0.15*0 + 0.15*1 + 0.2*0.5
		assert.InDelta(t, 0.65, s.Combine(weights), 1e-9)
	})
}

func TestReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scores Scores
		want   string
	}{
		{"nothing stands out", Scores{Keyword: 0.5, Category: 0.8, Location: 0.7, Price: 0.8, Popularity: 0.6}, "basic match"},
		{"keyword only", Scores{Keyword: 0.6}, "strong keyword match"},
		{"category only", Scores{Category: 1.0}, "perfect category match"},
		{
			"everything",
			Scores{Keyword: 0.9, Category: 1.0, Location: 0.9, Price: 1.0, Popularity: 0.9},
			"strong keyword match; perfect category match; good location match; price within budget; based on popular searches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.scores.Reason())
		})
	}
}

func TestConfidence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "high", Confidence(0.8))
	assert.Equal(t, "high", Confidence(0.95))
	assert.Equal(t, "medium", Confidence(0.6))
	assert.Equal(t, "medium", Confidence(0.79))
	assert.Equal(t, "low", Confidence(0.59))
	assert.Equal(t, "low", Confidence(0))
}
