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
	"errors"
	"fmt"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/go-viper/mapstructure/v2"
)

// itemDraft is the subset of item fields a storage mapping may target.
type itemDraft struct {
	Title               string   `mapstructure:"title"`
	Category            string   `mapstructure:"category"`
	Subcategory         string   `mapstructure:"subcategory"`
	ShortDescription    string   `mapstructure:"short_description"`
	DetailedDescription string   `mapstructure:"detailed_description"`
	Location            string   `mapstructure:"location"`
	PricingType         string   `mapstructure:"pricing_type"`
	Currency            string   `mapstructure:"currency"`
	Tags                []string `mapstructure:"tags"`
	Price               *float64 `mapstructure:"price"`
}

// ResolveItem maps collected answers onto a new item via the flow's storage
// mapping. DataMapping translates answer keys to item field names; answers
// without a mapping land in the item's attrs bag.
func ResolveItem(mapping *database.StorageMapping, answers map[string]any, ownerID int64) (database.Item, error) {
	if mapping.DataMapping == nil {
		return database.Item{}, errors.New("storage mapping has no field rules")
	}

	fields := make(map[string]any, len(mapping.DataMapping))
	attrs := make(map[string]any)
	for key, value := range answers {
		if field, ok := mapping.DataMapping[key]; ok {
			fields[field] = value
		} else {
			attrs[key] = value
		}
	}

	var draft itemDraft
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &draft,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return database.Item{}, fmt.Errorf("failed to build answer decoder: %w", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return database.Item{}, fmt.Errorf("failed to map answers onto item fields: %w", err)
	}

	if draft.Title == "" {
		return database.Item{}, errors.New("mapped answers produced no item title")
	}

	item := database.Item{
		OwnerID:             ownerID,
		Title:               draft.Title,
		ItemType:            mapping.ItemType,
		Category:            draft.Category,
		Subcategory:         draft.Subcategory,
		ShortDescription:    draft.ShortDescription,
		DetailedDescription: draft.DetailedDescription,
		Location:            draft.Location,
		PricingType:         draft.PricingType,
		Currency:            draft.Currency,
		Tags:                draft.Tags,
		Price:               draft.Price,
		IsAvailable:         true,
	}
	if item.Currency == "" {
		item.Currency = "USD"
	}
	if len(attrs) > 0 {
		item.Attrs = attrs
	}
	return item, nil
}
