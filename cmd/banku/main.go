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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/BankUProject/banku-core/pkg/config"
	"github.com/BankUProject/banku-core/pkg/helpers"
	"github.com/BankUProject/banku-core/pkg/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const appVersion = "0.1.0"

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "banku")
}

func run() int {
	configDir := flag.String("config", defaultConfigDir(), "path to config directory")
	port := flag.Int("port", 0, "override api port")
	debug := flag.Bool("debug", false, "enable debug logging")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("banku v" + appVersion)
		return 0
	}

	cfg, err := config.NewConfig(*configDir, config.BaseDefaults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	err = helpers.InitLogging(cfg.LogDir(), []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		return 1
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug || cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *port > 0 {
		cfg.SetApiPort(*port)
	}

	log.Info().Str("version", appVersion).Str("config", *configDir).Msg("starting banku")

	stop, err := service.Start(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to start service")
		return 1
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	if err := stop(); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
