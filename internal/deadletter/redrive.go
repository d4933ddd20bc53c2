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

package deadletter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/docrelay/handoff/internal/queue"
)

// EnvelopePublisher republishes an existing envelope to a queue.
type EnvelopePublisher interface {
	PublishEnvelope(ctx context.Context, queueName string, env queue.Envelope) error
}

// RedriveResult summarizes one redrive run.
type RedriveResult struct {
	Redriven int
	Skipped  int
}

// Redrive pops up to limit parked envelopes off the dead-letter list and
// republishes each to its origin queue with a fresh retry budget. Entries
// that cannot be decoded are dropped with a log line; a publish failure
// stops the run with the entry pushed back so nothing is lost.
func (c *Channel) Redrive(ctx context.Context, pub EnvelopePublisher, limit int) (RedriveResult, error) {
	var result RedriveResult

	for i := 0; i < limit; i++ {
		raw, err := c.rdb.RPop(ctx, c.listName).Result()
		if errors.Is(err, redis.Nil) {
			return result, nil
		}
		if err != nil {
			return result, fmt.Errorf("pop dead-letter entry: %w", err)
		}

		var parked ParkedEnvelope
		if err := json.Unmarshal([]byte(raw), &parked); err != nil {
			slog.Error("dropping undecodable dead-letter entry", "error", err)
			result.Skipped++
			continue
		}

		env := parked.Envelope
		env.Attempts = 0

		if err := pub.PublishEnvelope(ctx, parked.Queue, env); err != nil {
			if pushErr := c.rdb.RPush(ctx, c.listName, raw).Err(); pushErr != nil {
				slog.Error("failed to return entry to dead-letter list",
					"envelope_id", env.ID,
					"error", pushErr,
				)
			}
			return result, fmt.Errorf("republish envelope %s: %w", env.ID, err)
		}

		if err := c.store.MarkRedriven(ctx, env.ID); err != nil {
			slog.Warn("failed to mark dead-letter record redriven",
				"envelope_id", env.ID,
				"error", err,
			)
		}

		slog.Info("envelope redriven",
			"envelope_id", env.ID,
			"queue", parked.Queue,
			"original_cause", parked.Cause,
		)
		result.Redriven++
	}

	return result, nil
}
