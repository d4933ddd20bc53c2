// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Document Handoff — Dead-Letter Redrive Command
//
// Standalone CLI tool that moves parked envelopes from the dead-letter list
// back onto their origin queues after the underlying fault is fixed.
//
// Usage:
//
//	go run ./cmd/redrive/ [--limit 50]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/docrelay/handoff/internal/config"
	"github.com/docrelay/handoff/internal/deadletter"
	"github.com/docrelay/handoff/internal/queue"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// --- CLI Flags ---
	limitFlag := flag.Int("limit", 50, "Maximum number of envelopes to redrive in one run")
	flag.Parse()

	if *limitFlag <= 0 {
		fmt.Fprintf(os.Stderr, "Error: --limit must be positive\n\n")
		flag.Usage()
		os.Exit(1)
	}

	slog.Info("starting dead-letter redrive", "limit", *limitFlag)

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Connect to PostgreSQL ---
	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create Postgres pool", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()

	store, err := deadletter.NewStore(ctx, pgPool)
	if err != nil {
		slog.Error("failed to initialise dead-letter store", "error", err)
		os.Exit(1)
	}

	// --- Connect to Redis ---
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	publisher := queue.NewPublisher(rdb)
	if err := publisher.Ping(ctx); err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to Redis")

	// --- Run Redrive ---
	channel := deadletter.NewChannel(rdb, cfg.DeadLetterQueue, store)
	result, err := channel.Redrive(ctx, publisher, *limitFlag)
	if err != nil {
		slog.Error("redrive failed",
			"redriven", result.Redriven,
			"skipped", result.Skipped,
			"error", err,
		)
		os.Exit(1)
	}

	// --- Summary ---
	slog.Info("redrive complete",
		"redriven", result.Redriven,
		"skipped", result.Skipped,
	)
}
