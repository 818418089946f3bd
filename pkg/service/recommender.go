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

package service

import (
	"context"
	"time"

	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/BankUProject/banku-core/pkg/matching"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// runRecommender periodically regenerates recommendations for every active
// need and prunes old search analytics. Interval and retention come from
// config; an interval of zero disables the loop.
func runRecommender(
	ctx context.Context,
	cfg *config.Instance,
	engine *matching.Engine,
	db database.MarketDBI,
	clock clockwork.Clock,
) {
	intervalMins := cfg.RecommendIntervalMins()
	if intervalMins <= 0 {
		log.Info().Msg("background recommender disabled")
		return
	}

	interval := time.Duration(intervalMins) * time.Minute
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("background recommender started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("background recommender stopped")
			return
		case <-ticker.Chan():
			runPass(ctx, cfg, engine, db, clock)
		}
	}
}

func runPass(
	ctx context.Context,
	cfg *config.Instance,
	engine *matching.Engine,
	db database.MarketDBI,
	clock clockwork.Clock,
) {
	count, err := engine.AutoGenerate(ctx)
	if err != nil {
		log.Error().Err(err).Int("generated", count).
			Msg("recommendation pass finished with errors")
	} else {
		log.Info().Int("generated", count).Msg("recommendation pass finished")
	}

	retainDays := cfg.AnalyticsRetainDays()
	if retainDays <= 0 {
		return
	}
	cutoff := clock.Now().AddDate(0, 0, -retainDays)
	pruned, err := db.PruneSearchAnalytics(cutoff)
	if err != nil {
		log.Warn().Err(err).Msg("failed to prune search analytics")
		return
	}
	if pruned > 0 {
		log.Info().Int64("pruned", pruned).Msg("pruned old search analytics")
	}
}
