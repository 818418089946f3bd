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

package marketdb

import (
	"context"
	"regexp"
	"testing"

	"github.com/BankUProject/banku-core/pkg/database"
	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemRowColumns = []string{
	"DBID", "OwnerID", "Title", "ItemType", "Category", "Subcategory",
	"ShortDescription", "DetailedDescription", "Location", "PricingType",
	"Price", "Currency", "Tags", "Attrs", "Rating", "ReviewCount",
	"RequestCount", "Views", "IsAvailable", "IsVerified", "CreatedAt",
	"UpdatedAt",
}

func itemRow(id int64, price any) *sqlmock.Rows {
	return sqlmock.NewRows(itemRowColumns).AddRow(
		id, int64(2), "guitar lessons", "service", "service", "",
		"weekly lessons", "", "Berlin, Germany", "hourly",
		price, "EUR", "[]", "{}", 0.0, 0, 0, 5, true, false,
		int64(1700000000), int64(1700000000))
}

// The need's hard filters must run inside the query so the candidate cap
// bounds the filtered pool, not the raw table scan.
func TestSQLListCandidateItemsFiltered(t *testing.T) {
	t.Parallel()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close() //nolint:errcheck

	mock.ExpectQuery(regexp.QuoteMeta(
		`and OwnerID != ? and Category = ? collate nocase and Location like ?`+
			` and (Price is null or Price >= ?) and (Price is null or Price <= ?)`+
			` order by CreatedAt desc, Views desc limit ?`)).
		WithArgs(int64(1), "service", "%Berlin%", 10.0, 100.0, 100).
		WillReturnRows(itemRow(10, 50.0))

	minPrice, maxPrice := 10.0, 100.0
	items, err := sqlListCandidateItems(context.Background(), mockDB, database.ItemQuery{
		Category: "service",
		Location: "Berlin",
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Limit:    100,
	}, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(10), items[0].DBID)
	require.NotNil(t, items[0].Price)
	assert.InDelta(t, 50.0, *items[0].Price, 1e-9)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLListCandidateItemsUnfiltered(t *testing.T) {
	t.Parallel()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close() //nolint:errcheck

	// No filter clauses when the need carries none; unpriced items scan
	// through with a nil price.
	mock.ExpectQuery(regexp.QuoteMeta(
		`where IsAvailable = 1 order by CreatedAt desc, Views desc limit ?`)).
		WithArgs(100).
		WillReturnRows(itemRow(11, nil))

	items, err := sqlListCandidateItems(context.Background(), mockDB,
		database.ItemQuery{Limit: 100}, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Price)

	assert.NoError(t, mock.ExpectationsWereMet())
}
