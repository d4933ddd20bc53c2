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

// Package deadletter provides a Postgres-backed record of failed units of
// work and of release-state transitions, plus the channel that parks
// exhausted envelopes for later inspection and redrive.
package deadletter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docrelay/handoff/internal/models"
)

// Record represents one dead-lettered envelope persisted in Postgres.
type Record struct {
	ID         int64
	EnvelopeID string
	Queue      string
	Attempts   int
	Body       string
	Cause      string
	Status     string // "parked", "redriven"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReleaseRecord tracks a released document's state machine position.
type ReleaseRecord struct {
	FileID         string
	BusinessAreaCd string
	State          models.ReleaseState
	GUID           string
	Detail         string
	UpdatedAt      time.Time
}

// Store provides CRUD operations for dead-letter and release-state rows.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a store backed by the given Postgres pool.
// It ensures the tables exist on creation.
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure dead-letter schema: %w", err)
	}
	slog.Info("dead-letter store initialised")
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dead_letters (
			id          BIGSERIAL PRIMARY KEY,
			envelope_id TEXT NOT NULL UNIQUE,
			queue       TEXT NOT NULL,
			attempts    INT NOT NULL,
			body        TEXT NOT NULL,
			cause       TEXT DEFAULT '',
			status      TEXT DEFAULT 'parked',
			created_at  TIMESTAMPTZ DEFAULT NOW(),
			updated_at  TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_dead_letters_queue ON dead_letters(queue);
		CREATE INDEX IF NOT EXISTS idx_dead_letters_status ON dead_letters(status);

		CREATE TABLE IF NOT EXISTS release_states (
			file_id          TEXT PRIMARY KEY,
			business_area_cd TEXT DEFAULT '',
			state            TEXT NOT NULL,
			guid             TEXT DEFAULT '',
			detail           TEXT DEFAULT '',
			updated_at       TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_release_states_state ON release_states(state);
	`)
	return err
}

// Insert records a newly parked envelope keyed on its envelope id.
// A repeated park of the same envelope updates the attempt count and cause.
func (s *Store) Insert(ctx context.Context, r Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO dead_letters (envelope_id, queue, attempts, body, cause, status)
		VALUES ($1, $2, $3, $4, $5, 'parked')
		ON CONFLICT (envelope_id) DO UPDATE SET
			attempts   = EXCLUDED.attempts,
			cause      = EXCLUDED.cause,
			status     = 'parked',
			updated_at = NOW()
	`, r.EnvelopeID, r.Queue, r.Attempts, r.Body, r.Cause)
	return err
}

// MarkRedriven flags a parked record after the redrive CLI republishes it.
func (s *Store) MarkRedriven(ctx context.Context, envelopeID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE dead_letters
		SET status = 'redriven', updated_at = NOW()
		WHERE envelope_id = $1
	`, envelopeID)
	return err
}

// ListParked returns parked records for a queue, oldest first.
func (s *Store) ListParked(ctx context.Context, queueName string, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, envelope_id, queue, attempts, body, cause, status, created_at, updated_at
		FROM dead_letters
		WHERE queue = $1 AND status = 'parked'
		ORDER BY created_at
		LIMIT $2
	`, queueName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.ID, &r.EnvelopeID, &r.Queue, &r.Attempts,
			&r.Body, &r.Cause, &r.Status, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SetReleaseState upserts a released document's state machine position.
// An empty guid never overwrites one recorded by an earlier transition.
func (s *Store) SetReleaseState(ctx context.Context, fileID, businessAreaCd string, state models.ReleaseState, guid, detail string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO release_states (file_id, business_area_cd, state, guid, detail)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (file_id) DO UPDATE SET
			state      = EXCLUDED.state,
			guid       = COALESCE(NULLIF(EXCLUDED.guid, ''), release_states.guid),
			detail     = EXCLUDED.detail,
			updated_at = NOW()
	`, fileID, businessAreaCd, string(state), guid, detail)
	return err
}

// GetReleaseState retrieves the state row for a file id, or nil when absent.
func (s *Store) GetReleaseState(ctx context.Context, fileID string) (*ReleaseRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT file_id, business_area_cd, state, guid, detail, updated_at
		FROM release_states
		WHERE file_id = $1
	`, fileID)

	var r ReleaseRecord
	var state string
	err := row.Scan(&r.FileID, &r.BusinessAreaCd, &state, &r.GUID, &r.Detail, &r.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.State = models.ReleaseState(state)
	return &r, nil
}
