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

// Package storage reads cached email attachment content. The mailbox poller
// writes attachment bytes into the cache keyed by a generated id; the inbound
// worker is the only reader.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrContentNotFound reports a cache miss for a requested attachment.
var ErrContentNotFound = errors.New("content not found in cache")

// ContentStore retrieves cached attachment content by id.
type ContentStore interface {
	Get(ctx context.Context, id string) ([]byte, error)
}

// keyPrefix namespaces attachment keys in Redis.
const keyPrefix = "handoff:content:"

// RedisStore is a ContentStore backed by the shared Redis instance.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a content store on the given Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Get returns the cached attachment bytes for the id.
// A missing key returns an error wrapping ErrContentNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrContentNotFound, id)
		}
		return nil, fmt.Errorf("content GET %s: %w", id, err)
	}
	return data, nil
}
