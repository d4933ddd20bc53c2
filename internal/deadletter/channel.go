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
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/docrelay/handoff/internal/queue"
)

// ParkedEnvelope is the dead-letter list entry: the original envelope plus
// where it came from and why it was parked.
type ParkedEnvelope struct {
	Queue    string         `json:"queue"`
	Cause    string         `json:"cause"`
	Envelope queue.Envelope `json:"envelope"`
}

// Channel implements queue.DeadLetterSink. A parked envelope lands on the
// Redis dead-letter list (the redrive source of truth) and in Postgres (the
// inspection record). The list push is the one that matters; a failed
// Postgres insert is logged, not fatal.
type Channel struct {
	rdb      *redis.Client
	listName string
	store    *Store
}

// NewChannel creates the dead-letter channel.
func NewChannel(rdb *redis.Client, listName string, store *Store) *Channel {
	return &Channel{
		rdb:      rdb,
		listName: listName,
		store:    store,
	}
}

// Park routes an exhausted envelope to the dead-letter list and records it.
func (c *Channel) Park(ctx context.Context, queueName string, env queue.Envelope, cause error) error {
	causeText := ""
	if cause != nil {
		causeText = cause.Error()
	}

	parked := ParkedEnvelope{
		Queue:    queueName,
		Cause:    causeText,
		Envelope: env,
	}

	data, err := json.Marshal(parked)
	if err != nil {
		return fmt.Errorf("marshal parked envelope: %w", err)
	}

	if err := c.rdb.LPush(ctx, c.listName, string(data)).Err(); err != nil {
		return fmt.Errorf("dead-letter LPUSH: %w", err)
	}

	if c.store != nil {
		rec := Record{
			EnvelopeID: env.ID,
			Queue:      queueName,
			Attempts:   env.Attempts,
			Body:       string(env.Body),
			Cause:      causeText,
		}
		if err := c.store.Insert(ctx, rec); err != nil {
			slog.Error("failed to record dead letter in Postgres",
				"envelope_id", env.ID,
				"queue", queueName,
				"error", err,
			)
		}
	}

	return nil
}
