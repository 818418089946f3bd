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

// Package service wires the stores, matching engine and API together and
// runs the background recommender.
package service

import (
	"context"
	"fmt"

	"github.com/BankUProject/banku-core/pkg/api"
	"github.com/BankUProject/banku-core/pkg/api/methods"
	"github.com/BankUProject/banku-core/pkg/chatbot"
	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/BankUProject/banku-core/pkg/database/marketdb"
	"github.com/BankUProject/banku-core/pkg/database/userdb"
	"github.com/BankUProject/banku-core/pkg/deals"
	"github.com/BankUProject/banku-core/pkg/matching"
	"github.com/BankUProject/banku-core/pkg/organizations"
	"github.com/BankUProject/banku-core/pkg/search"
	"github.com/BankUProject/banku-core/pkg/wallet"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Start opens both databases, runs migrations, builds the services and
// starts the API plus the background recommender. The returned function
// shuts everything down in reverse order.
func Start(cfg *config.Instance) (func() error, error) {
	ctx, cancel := context.WithCancel(context.Background())

	userDB, err := userdb.OpenUserDB(ctx, cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}
	if err := userDB.MigrateUp(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to migrate user database: %w", err)
	}

	marketDB, err := marketdb.OpenMarketDB(ctx, cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open market database: %w", err)
	}
	if err := marketDB.MigrateUp(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to migrate market database: %w", err)
	}

	db := &database.Database{UserDB: userDB, MarketDB: marketDB}
	clock := clockwork.NewRealClock()

	rules, err := chatbot.NewRuleEngine()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to build rule engine: %w", err)
	}

	engine := matching.NewEngine(cfg, marketDB, clock)
	env := methods.NewEnv(
		cfg,
		db,
		engine,
		search.NewService(marketDB, clock),
		chatbot.NewService(marketDB, rules, clock),
		organizations.NewService(userDB, clock),
		wallet.NewService(userDB, clock),
		deals.NewService(userDB, marketDB, clock),
	)

	stopAPI, err := api.Start(cfg, env)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start api server: %w", err)
	}

	recommenderDone := make(chan struct{})
	go func() {
		defer close(recommenderDone)
		runRecommender(ctx, cfg, engine, marketDB, clock)
	}()

	stop := func() error {
		log.Info().Msg("shutting down service")
		stopAPI()
		cancel()
		<-recommenderDone

		if err := marketDB.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close market database")
		}
		if err := userDB.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close user database")
		}
		return nil
	}
	return stop, nil
}
