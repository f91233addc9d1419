// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/openconf/meeting-lifecycle-service/internal/logging"
)

// flags are the command line flags for the lifecycle service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the lifecycle service.
type environment struct {
	Port          string
	NatsURL       string
	SweepSchedule string
	WorkerCount   int
}

// parseFlags parses command line flags for the lifecycle service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the lifecycle service. A local
// .env file is loaded first when present; real environment variables win.
func parseEnv() environment {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.With(logging.ErrKey, err).Warn("error loading .env file, continuing with process environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sweepSchedule := os.Getenv("SWEEP_SCHEDULE")
	if sweepSchedule == "" {
		sweepSchedule = "@hourly"
	}

	workerCount := 10
	if raw := os.Getenv("WORKER_COUNT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			slog.With("worker_count", raw).Warn("invalid WORKER_COUNT, using default")
		} else {
			workerCount = parsed
		}
	}

	return environment{
		Port:          port,
		NatsURL:       natsURL,
		SweepSchedule: sweepSchedule,
		WorkerCount:   workerCount,
	}
}
