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

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one decoded queue payload. A nil return consumes the
// message; an error triggers the consumer's retry policy.
type Handler func(ctx context.Context, body json.RawMessage) error

// DeadLetterSink receives envelopes whose retry budget is exhausted.
type DeadLetterSink interface {
	Park(ctx context.Context, queueName string, env Envelope, cause error) error
}

// popTimeout bounds each blocking pop so the loop observes ctx cancellation.
const popTimeout = 5 * time.Second

// Consumer pops envelopes off one Redis list and dispatches them to a
// handler with bounded retry. From the broker's point of view every message
// is consumed exactly once; failures end up in the dead-letter channel, not
// back on the queue.
type Consumer struct {
	rdb         *redis.Client
	queueName   string
	handler     Handler
	maxAttempts int
	backoff     time.Duration
	deadLetter  DeadLetterSink
}

// ConsumerConfig holds dependencies for a queue consumer.
type ConsumerConfig struct {
	Client      *redis.Client
	Queue       string
	Handler     Handler
	MaxAttempts int
	Backoff     time.Duration
	DeadLetter  DeadLetterSink
}

// NewConsumer creates a consumer for one queue.
func NewConsumer(cfg ConsumerConfig) *Consumer {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	backoff := cfg.Backoff
	if backoff == 0 {
		backoff = 5 * time.Second
	}
	return &Consumer{
		rdb:         cfg.Client,
		queueName:   cfg.Queue,
		handler:     cfg.Handler,
		maxAttempts: attempts,
		backoff:     backoff,
		deadLetter:  cfg.DeadLetter,
	}
}

// Run starts the consume loop. It blocks until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	slog.Info("queue consumer starting",
		"queue", c.queueName,
		"max_attempts", c.maxAttempts,
		"backoff", c.backoff,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("queue consumer stopping", "queue", c.queueName)
			return
		default:
		}

		res, err := c.rdb.BRPop(ctx, popTimeout, c.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			slog.Error("queue pop failed", "queue", c.queueName, "error", err)
			// Back off briefly so a dead Redis does not spin the loop
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		// BRPOP returns [key, value]
		if len(res) != 2 {
			continue
		}

		var env Envelope
		if err := json.Unmarshal([]byte(res[1]), &env); err != nil {
			slog.Error("discarding undecodable envelope",
				"queue", c.queueName,
				"error", err,
			)
			continue
		}

		c.process(ctx, env)
	}
}

// process runs the handler with bounded retry, then parks the envelope if
// every attempt failed. The message is consumed regardless of outcome.
func (c *Consumer) process(ctx context.Context, env Envelope) {
	var lastErr error

retry:
	for attempt := env.Attempts + 1; attempt <= c.maxAttempts; attempt++ {
		lastErr = c.handler(ctx, env.Body)
		env.Attempts = attempt
		if lastErr == nil {
			return
		}

		slog.Warn("handler attempt failed",
			"queue", c.queueName,
			"envelope_id", env.ID,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"error", lastErr,
		)

		if attempt == c.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			// Budget not exhausted; mark the park so redrive triage can
			// tell shutdown casualties from genuine failures.
			lastErr = fmt.Errorf("interrupted during retry backoff: %w", lastErr)
			break retry
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}

	if c.deadLetter == nil {
		slog.Error("retry budget exhausted, envelope dropped",
			"queue", c.queueName,
			"envelope_id", env.ID,
			"error", lastErr,
		)
		return
	}

	// The park must survive the cancellation that may have ended the retry
	// loop, or the envelope is lost on shutdown.
	parkCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		parkCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	if err := c.deadLetter.Park(parkCtx, c.queueName, env, lastErr); err != nil {
		slog.Error("failed to park envelope in dead-letter channel",
			"queue", c.queueName,
			"envelope_id", env.ID,
			"error", err,
		)
		return
	}

	slog.Error("envelope dead-lettered",
		"queue", c.queueName,
		"envelope_id", env.ID,
		"attempts", env.Attempts,
		"error", lastErr,
	)
}
