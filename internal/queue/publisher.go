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

// Package queue moves work items between the pipeline stages over Redis
// lists. Delivery is at-least-once: a consumer that dies mid-invocation
// loses nothing the broker promised, but a redelivered message may repeat
// side effects, so every handler must be safe to repeat.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Envelope wraps a queue payload for Redis transport. Attempts counts
// delivery attempts already consumed; the dead-letter channel parks the
// envelope verbatim, and a redrive re-enters it with a fresh budget.
type Envelope struct {
	ID         string          `json:"id"`
	EnqueuedAt string          `json:"enqueued_at"`
	Attempts   int             `json:"attempts"`
	Body       json.RawMessage `json:"body"`
}

// Publisher sends envelopes to Redis lists.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a publisher on the given Redis client.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// Publish wraps the payload in a fresh envelope and pushes it to the queue.
func (p *Publisher) Publish(ctx context.Context, queueName string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	env := Envelope{
		ID:         uuid.New().String(),
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Attempts:   0,
		Body:       body,
	}

	if err := p.PublishEnvelope(ctx, queueName, env); err != nil {
		return err
	}

	slog.Info("published message",
		"envelope_id", env.ID,
		"queue", queueName,
	)
	return nil
}

// PublishEnvelope pushes an existing envelope as-is. Used by the dead-letter
// channel and the redrive CLI, which manage the envelope's attempt count
// themselves.
func (p *Publisher) PublishEnvelope(ctx context.Context, queueName string, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := p.rdb.LPush(ctx, queueName, string(data)).Err(); err != nil {
		return fmt.Errorf("redis LPUSH: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (p *Publisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.rdb.Ping(ctx).Err()
}
