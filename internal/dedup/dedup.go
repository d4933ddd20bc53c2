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

// Package dedup suppresses repeated side effects under at-least-once
// delivery, using Redis keys with TTL. A unit of work is recorded only after
// it completed, so a failed invocation stays eligible for retry while a
// redelivered duplicate of a completed one is skipped.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a completed unit of work is remembered.
	// Queue redeliveries arrive within minutes; 24h leaves a wide margin.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces completion keys in Redis.
	keyPrefix = "handoff:done:"
)

// Filter tracks which units of work have already completed.
type Filter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFilter creates a completion filter backed by Redis.
func NewFilter(rdb *redis.Client) *Filter {
	return &Filter{
		rdb: rdb,
		ttl: DefaultTTL,
	}
}

// Completed reports whether the key was recorded as completed.
func (f *Filter) Completed(ctx context.Context, key string) (bool, error) {
	n, err := f.rdb.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("dedup EXISTS: %w", err)
	}
	return n > 0, nil
}

// MarkCompleted records the key after a successful invocation.
func (f *Filter) MarkCompleted(ctx context.Context, key string) error {
	if err := f.rdb.Set(ctx, keyPrefix+key, 1, f.ttl).Err(); err != nil {
		return fmt.Errorf("dedup SET: %w", err)
	}
	return nil
}
