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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BankUProject/banku-core/pkg/database"
	"github.com/BankUProject/banku-core/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// popCacheTTL bounds how stale the popularity window may get between scoring
// runs. The underlying aggregates only change on searches, so a short TTL is
// enough.
const popCacheTTL = 5 * time.Minute

var errCacheMiss = errors.New("cache miss")

// PopularityCache caches the per-category search aggregate window consumed by
// the popularity sub-score.
type PopularityCache interface {
	Get(ctx context.Context, category string) ([]database.SearchAggregate, error)
	Set(ctx context.Context, category string, aggs []database.SearchAggregate) error
}

type memoryCacheEntry struct {
	aggs    []database.SearchAggregate
	expires time.Time
}

// MemoryPopularityCache is the in-process default.
type MemoryPopularityCache struct {
	clock   clockwork.Clock
	entries map[string]memoryCacheEntry
	mu      syncutil.RWMutex
}

func NewMemoryPopularityCache(clock clockwork.Clock) *MemoryPopularityCache {
	return &MemoryPopularityCache{
		clock:   clock,
		entries: make(map[string]memoryCacheEntry),
	}
}

func (c *MemoryPopularityCache) Get(_ context.Context, category string) ([]database.SearchAggregate, error) {
	c.mu.RLock()
	entry, ok := c.entries[category]
	c.mu.RUnlock()
	if !ok || c.clock.Now().After(entry.expires) {
		return nil, errCacheMiss
	}
	return entry.aggs, nil
}

func (c *MemoryPopularityCache) Set(_ context.Context, category string, aggs []database.SearchAggregate) error {
	c.mu.Lock()
	c.entries[category] = memoryCacheEntry{
		aggs:    aggs,
		expires: c.clock.Now().Add(popCacheTTL),
	}
	c.mu.Unlock()
	return nil
}

// RedisPopularityCache shares the window between instances when a Redis
// address is configured.
type RedisPopularityCache struct {
	client *redis.Client
}

func NewRedisPopularityCache(addr string) *RedisPopularityCache {
	return &RedisPopularityCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func redisPopKey(category string) string {
	return "banku:popularity:" + category
}

func (c *RedisPopularityCache) Get(ctx context.Context, category string) ([]database.SearchAggregate, error) {
	data, err := c.client.Get(ctx, redisPopKey(category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read popularity cache: %w", err)
	}
	var aggs []database.SearchAggregate
	if err := json.Unmarshal(data, &aggs); err != nil {
		return nil, fmt.Errorf("failed to decode popularity cache: %w", err)
	}
	return aggs, nil
}

func (c *RedisPopularityCache) Set(ctx context.Context, category string, aggs []database.SearchAggregate) error {
	data, err := json.Marshal(aggs)
	if err != nil {
		return fmt.Errorf("failed to encode popularity cache: %w", err)
	}
	if err := c.client.Set(ctx, redisPopKey(category), data, popCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to write popularity cache: %w", err)
	}
	return nil
}
