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

// Package worker holds the two queue-driven pipeline handlers. Each handler
// processes one message and returns an error when the run should be retried;
// the queue consumer owns retry and dead-letter policy.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/docrelay/handoff/internal/importsession"
	"github.com/docrelay/handoff/internal/models"
	"github.com/docrelay/handoff/internal/storage"
)

// ContentStore fetches cached attachment content by file id.
type ContentStore interface {
	Get(ctx context.Context, id string) ([]byte, error)
}

// Uploader pushes file content to the imaging endpoint.
type Uploader interface {
	Upload(ctx context.Context, content io.Reader, remotePath string) error
}

// ProcessedNotifier reports a fully handled work item back to the mailbox
// controller so the source email can be moved out of the inbox.
type ProcessedNotifier interface {
	Processed(ctx context.Context, emailIDBase64, importRef, correlationID string) error
}

// CompletionFilter remembers which keys were already processed to completion
// so redelivered messages can be skipped.
type CompletionFilter interface {
	Completed(ctx context.Context, key string) (bool, error)
	MarkCompleted(ctx context.Context, key string) error
}

// RefProvider yields the import reference reported for a work item. The
// upstream import tracking system assigns these; until it is wired in, the
// configured placeholder is used for every item.
type RefProvider func(item models.WorkItem) string

// Inbound moves one cached email attachment onto the imaging endpoint and
// acknowledges the source email.
type Inbound struct {
	content    ContentStore
	uploader   Uploader
	notifier   ProcessedNotifier
	completed  CompletionFilter
	refFor     RefProvider
	remoteBase string
	batchClass string
}

// InboundConfig wires an inbound worker.
type InboundConfig struct {
	Content    ContentStore
	Uploader   Uploader
	Notifier   ProcessedNotifier
	Completed  CompletionFilter
	RefFor     RefProvider
	RemoteBase string
	BatchClass string
}

// NewInbound creates the inbound pipeline worker.
func NewInbound(cfg InboundConfig) *Inbound {
	return &Inbound{
		content:    cfg.Content,
		uploader:   cfg.Uploader,
		notifier:   cfg.Notifier,
		completed:  cfg.Completed,
		refFor:     cfg.RefFor,
		remoteBase: cfg.RemoteBase,
		batchClass: cfg.BatchClass,
	}
}

// HandleMessage decodes a queued work item and processes it. This is the
// queue consumer entry point.
func (w *Inbound) HandleMessage(ctx context.Context, body json.RawMessage) error {
	var item models.WorkItem
	if err := json.Unmarshal(body, &item); err != nil {
		return fmt.Errorf("decode work item: %w", err)
	}
	return w.Handle(ctx, item)
}

// Handle processes one work item: fetch the cached attachment, upload it,
// build the import-session descriptor, and acknowledge the source email.
// Exactly one upload happens per successful run; the target treats a repeat
// upload of the same path as an overwrite, so redelivery before the
// completion mark is safe.
func (w *Inbound) Handle(ctx context.Context, item models.WorkItem) error {
	log := slog.With(
		"transaction_id", item.TransactionID,
		"correlation_id", item.CorrelationID,
		"file_id", item.FileInfo.ID,
	)

	done, err := w.completed.Completed(ctx, item.TransactionID.String())
	if err != nil {
		log.Warn("completion check failed, processing anyway", "error", err)
	} else if done {
		log.Info("work item already completed, skipping redelivery")
		return nil
	}

	content, err := w.content.Get(ctx, item.FileInfo.ID)
	if err != nil {
		if errors.Is(err, storage.ErrContentNotFound) {
			// Distinct from a transport failure: the cache entry may have
			// expired before the item was picked up, so log loudly before
			// the retry budget runs out and the item dead-letters.
			log.Error("attachment content missing from cache", "error", err)
		}
		return fmt.Errorf("fetch attachment content: %w", err)
	}

	remotePath := w.remoteBase + "/" + item.FileInfo.Name
	if err := w.uploader.Upload(ctx, bytes.NewReader(content), remotePath); err != nil {
		return fmt.Errorf("upload attachment: %w", err)
	}
	log.Info("attachment uploaded", "remote_path", remotePath, "bytes", len(content))

	descriptor, err := importsession.Build(item, w.batchClass)
	if err != nil {
		return fmt.Errorf("build import session: %w", err)
	}
	log.Debug("import session descriptor built", "bytes", len(descriptor))

	if err := w.notifier.Processed(ctx, item.MailboxIDBase64, w.refFor(item), item.CorrelationID); err != nil {
		return fmt.Errorf("acknowledge source email: %w", err)
	}

	if err := w.completed.MarkCompleted(ctx, item.TransactionID.String()); err != nil {
		log.Warn("failed to mark work item completed", "error", err)
	}

	log.Info("work item processed")
	return nil
}
