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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BankUProject/banku-core/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "BANKU_CFG"
	CfgFile       = "config.toml"
	AuthFile      = "auth.toml"
	UserDBFile    = "user.db"
	MarketDBFile  = "market.db"
)

type Values struct {
	Service      Service  `toml:"service"`
	Api          Api      `toml:"api,omitempty"`
	Matching     Matching `toml:"matching,omitempty"`
	ConfigSchema int      `toml:"config_schema"`
	DebugLogging bool     `toml:"debug_logging"`
}

type Service struct {
	DataDir              string `toml:"data_dir,omitempty"`
	LogDir               string `toml:"log_dir,omitempty"`
	AnalyticsRetainDays  int    `toml:"analytics_retain_days"`
	RecommendIntervalMin int    `toml:"recommend_interval_mins"`
}

type Api struct {
	Port         int      `toml:"port"`
	AllowOrigins []string `toml:"allow_origins,omitempty,multiline"`
}

// Matching holds the tunables of the need/item scorer. Weights must sum to
// 1.0; SetMatching rejects values that do not.
type Matching struct {
	KeywordWeight    float64 `toml:"keyword_weight"`
	CategoryWeight   float64 `toml:"category_weight"`
	LocationWeight   float64 `toml:"location_weight"`
	PriceWeight      float64 `toml:"price_weight"`
	PopularityWeight float64 `toml:"popularity_weight"`
	MinScore         float64 `toml:"min_score"`
	CandidateLimit   int     `toml:"candidate_limit"`
	RedisAddr        string  `toml:"redis_addr,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Service: Service{
		AnalyticsRetainDays:  90,
		RecommendIntervalMin: 60,
	},
	Api: Api{
		Port: 7720,
	},
	Matching: Matching{
		KeywordWeight:    0.3,
		CategoryWeight:   0.2,
		LocationWeight:   0.15,
		PriceWeight:      0.15,
		PopularityWeight: 0.2,
		MinScore:         0.3,
		CandidateLimit:   100,
	},
}

type Instance struct {
	cfgPath  string
	authPath string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	if defaults.Service.DataDir == "" {
		defaults.Service.DataDir = configDir
	}
	if defaults.Service.LogDir == "" {
		defaults.Service.LogDir = configDir
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		cfgPath:  cfgPath,
		authPath: filepath.Join(filepath.Dir(cfgPath), AuthFile),
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
		return &cfg, nil
	}

	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return fmt.Errorf("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newVals := c.defaults
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Warn().
			Int("got", newVals.ConfigSchema).
			Int("want", SchemaVersion).
			Msg("config schema version mismatch")
	}

	c.vals = newVals

	if err := c.loadAuth(); err != nil {
		log.Warn().Err(err).Msg("failed to load auth config")
	}

	return nil
}

func (c *Instance) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cfgPath == "" {
		return fmt.Errorf("config path not set")
	}

	if err := os.MkdirAll(filepath.Dir(c.cfgPath), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Instance) DataDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.DataDir
}

func (c *Instance) LogDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.LogDir
}

func (c *Instance) ApiPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Api.Port
}

func (c *Instance) SetApiPort(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Api.Port = port
}

func (c *Instance) AllowOrigins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.vals.Api.AllowOrigins...)
}

func (c *Instance) AnalyticsRetainDays() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.AnalyticsRetainDays
}

func (c *Instance) RecommendIntervalMins() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.RecommendIntervalMin
}

//nolint:gocritic // returned by value, callers must not mutate shared state
func (c *Instance) Matching() Matching {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Matching
}

// SetMatching replaces the scorer tunables. The five weights must sum to 1.0
// (within a small epsilon) so combined scores stay in [0,1].
//
//nolint:gocritic // config struct copied for immutability
func (c *Instance) SetMatching(m Matching) error {
	sum := m.KeywordWeight + m.CategoryWeight + m.LocationWeight +
		m.PriceWeight + m.PopularityWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("matching weights must sum to 1.0, got %f", sum)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Matching = m
	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}
