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

// Document Handoff Service
//
// Entry point for the handoff service. It:
//  1. Loads configuration from config.yaml
//  2. Connects to PostgreSQL and Redis
//  3. Starts the inbound pipeline consumer (cached attachments → imaging endpoint)
//  4. Starts the outbound pipeline consumer (release notices → registration)
//  5. Serves the mailbox state controller and the validation SOAP endpoint
//  6. Handles graceful shutdown on SIGTERM/SIGINT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/docrelay/handoff/internal/config"
	"github.com/docrelay/handoff/internal/deadletter"
	"github.com/docrelay/handoff/internal/dedup"
	"github.com/docrelay/handoff/internal/mailbox"
	"github.com/docrelay/handoff/internal/models"
	"github.com/docrelay/handoff/internal/queue"
	"github.com/docrelay/handoff/internal/registry"
	"github.com/docrelay/handoff/internal/storage"
	"github.com/docrelay/handoff/internal/transfer"
	"github.com/docrelay/handoff/internal/validation"
	"github.com/docrelay/handoff/internal/worker"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("starting document handoff service")

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"work_queue", cfg.WorkQueue,
		"release_queue", cfg.ReleaseQueue,
		"max_attempts", cfg.MaxAttempts,
		"retry_backoff", cfg.RetryBackoff,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Connect to PostgreSQL ---
	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create Postgres pool", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()

	if err := pgPool.Ping(ctx); err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to PostgreSQL")

	// --- Connect to Redis ---
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(opt)

	publisher := queue.NewPublisher(rdb)
	if err := publisher.Ping(ctx); err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to Redis")

	// --- Dead-Letter Store (Postgres) + Channel (Redis) ---
	dlStore, err := deadletter.NewStore(ctx, pgPool)
	if err != nil {
		slog.Error("failed to initialise dead-letter store", "error", err)
		os.Exit(1)
	}
	dlChannel := deadletter.NewChannel(rdb, cfg.DeadLetterQueue, dlStore)

	// --- Dedup Filter + Content Store ---
	filter := dedup.NewFilter(rdb)
	var contentStore storage.ContentStore = storage.NewRedisStore(rdb)

	// --- Outbound HTTP client with OAuth transport ---
	// A bare client is used when no token endpoint is configured, as in
	// local development against stub services.
	httpClient := &http.Client{Timeout: cfg.CallTimeout}
	if cfg.OAuth.TokenURL != "" {
		creds := &clientcredentials.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			TokenURL:     cfg.OAuth.TokenURL,
			Scopes:       cfg.OAuth.Scopes,
		}
		httpClient = creds.Client(ctx)
		httpClient.Timeout = cfg.CallTimeout
	}

	// --- Imaging Endpoint (SFTP) ---
	var fileTransfer transfer.FileTransfer = transfer.NewSFTPClient(cfg.SFTP, cfg.CallTimeout)

	// --- Downstream Clients ---
	gateway := registry.NewClient(httpClient, cfg.RegistryBaseURL)
	notifier := mailbox.NewNotifier(httpClient, cfg.MailboxBaseURL)
	queryClient := validation.NewClient(httpClient, cfg.ValidationBaseURL)

	// --- Pipeline Workers ---
	inbound := worker.NewInbound(worker.InboundConfig{
		Content:    contentStore,
		Uploader:   fileTransfer,
		Notifier:   notifier,
		Completed:  filter,
		RefFor:     func(models.WorkItem) string { return cfg.ImportReference },
		RemoteBase: cfg.SFTP.RemoteBase,
		BatchClass: cfg.BatchClass,
	})
	outbound := worker.NewOutbound(worker.OutboundConfig{
		Gateway:     gateway,
		Transfer:    fileTransfer,
		States:      dlStore,
		Completed:   filter,
		Host:        cfg.SFTP.Host,
		ReleaseBase: cfg.SFTP.ReleaseBase,
		ArchiveBase: cfg.SFTP.ArchiveBase,
		ErrorBase:   cfg.SFTP.ErrorBase,
	})

	// --- Queue Consumers ---
	workConsumer := queue.NewConsumer(queue.ConsumerConfig{
		Client:      rdb,
		Queue:       cfg.WorkQueue,
		Handler:     inbound.HandleMessage,
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     cfg.RetryBackoff,
		DeadLetter:  dlChannel,
	})
	releaseConsumer := queue.NewConsumer(queue.ConsumerConfig{
		Client:      rdb,
		Queue:       cfg.ReleaseQueue,
		Handler:     outbound.HandleMessage,
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     cfg.RetryBackoff,
		DeadLetter:  dlChannel,
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		workConsumer.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		releaseConsumer.Run(ctx)
	}()
	slog.Info("pipeline consumers started")

	// --- Mailbox State Controller + Validation Endpoint ---
	mover := mailbox.NewGraphMover(mailbox.GraphMoverConfig{
		HTTPClient:      httpClient,
		GraphBaseURL:    cfg.GraphBaseURL,
		User:            cfg.MailboxUser,
		ProcessedFolder: cfg.ProcessedFolder,
		ErrorFolder:     cfg.ErrorFolder,
	})
	facade := validation.NewFacade(queryClient)

	router := chi.NewRouter()
	router.Mount("/", mailbox.NewHandler(mover).Routes())
	router.Handle("/ws/registration", validation.NewEndpoint(facade))
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		// Check Redis
		if err := publisher.Ping(r.Context()); err != nil {
			http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
			return
		}
		// Check Postgres
		if err := pgPool.Ping(r.Context()); err != nil {
			http.Error(w, "postgres unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh

		slog.Info("received shutdown signal", "signal", sig)
		cancel() // Stop the consumers
		wg.Wait()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}

		rdb.Close()
		pgPool.Close()
	}()

	slog.Info("handoff service listening", "addr", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("handoff service stopped")
}
