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
	"strings"
	"testing"
	"time"
)

// mockSink implements DeadLetterSink for testing.
type mockSink struct {
	parked []Envelope
	causes []error
}

func (m *mockSink) Park(_ context.Context, _ string, env Envelope, cause error) error {
	m.parked = append(m.parked, env)
	m.causes = append(m.causes, cause)
	return nil
}

// TestProcess_SucceedsWithoutRetry verifies the happy path never touches the
// dead-letter channel.
func TestProcess_SucceedsWithoutRetry(t *testing.T) {
	sink := &mockSink{}
	calls := 0

	c := &Consumer{
		queueName:   "test",
		maxAttempts: 3,
		backoff:     time.Millisecond,
		deadLetter:  sink,
		handler: func(context.Context, json.RawMessage) error {
			calls++
			return nil
		},
	}

	c.process(context.Background(), Envelope{ID: "e1", Body: json.RawMessage(`{}`)})

	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
	if len(sink.parked) != 0 {
		t.Errorf("parked = %d envelopes, want 0", len(sink.parked))
	}
}

// TestProcess_RecoversWithinBudget verifies that a handler failing once and
// then succeeding does not dead-letter.
func TestProcess_RecoversWithinBudget(t *testing.T) {
	sink := &mockSink{}
	calls := 0

	c := &Consumer{
		queueName:   "test",
		maxAttempts: 3,
		backoff:     time.Millisecond,
		deadLetter:  sink,
		handler: func(context.Context, json.RawMessage) error {
			calls++
			if calls < 2 {
				return errors.New("transient")
			}
			return nil
		},
	}

	c.process(context.Background(), Envelope{ID: "e1", Body: json.RawMessage(`{}`)})

	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
	if len(sink.parked) != 0 {
		t.Errorf("parked = %d envelopes, want 0", len(sink.parked))
	}
}

// TestProcess_DeadLettersAfterExhaustion verifies the retry budget and the
// parked envelope's attempt count.
func TestProcess_DeadLettersAfterExhaustion(t *testing.T) {
	sink := &mockSink{}
	calls := 0
	cause := errors.New("permanent")

	c := &Consumer{
		queueName:   "test",
		maxAttempts: 3,
		backoff:     time.Millisecond,
		deadLetter:  sink,
		handler: func(context.Context, json.RawMessage) error {
			calls++
			return cause
		},
	}

	c.process(context.Background(), Envelope{ID: "e1", Body: json.RawMessage(`{}`)})

	if calls != 3 {
		t.Errorf("handler calls = %d, want 3", calls)
	}
	if len(sink.parked) != 1 {
		t.Fatalf("parked = %d envelopes, want 1", len(sink.parked))
	}
	if sink.parked[0].Attempts != 3 {
		t.Errorf("parked attempts = %d, want 3", sink.parked[0].Attempts)
	}
	if !errors.Is(sink.causes[0], cause) {
		t.Errorf("parked cause = %v, want %v", sink.causes[0], cause)
	}
}

// TestProcess_ResumesAttemptCount verifies that an envelope carrying prior
// attempts only gets the remainder of its budget.
func TestProcess_ResumesAttemptCount(t *testing.T) {
	sink := &mockSink{}
	calls := 0

	c := &Consumer{
		queueName:   "test",
		maxAttempts: 3,
		backoff:     time.Millisecond,
		deadLetter:  sink,
		handler: func(context.Context, json.RawMessage) error {
			calls++
			return errors.New("still failing")
		},
	}

	// Envelope already consumed two attempts before being redriven.
	c.process(context.Background(), Envelope{ID: "e1", Attempts: 2, Body: json.RawMessage(`{}`)})

	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
	if len(sink.parked) != 1 {
		t.Fatalf("parked = %d envelopes, want 1", len(sink.parked))
	}
}

// TestProcess_ShutdownMarksInterruptedCause verifies that cancellation during
// the retry backoff parks the envelope with a cause that names the
// interruption, so redrive triage can tell shutdown casualties from
// genuinely exhausted envelopes.
func TestProcess_ShutdownMarksInterruptedCause(t *testing.T) {
	sink := &mockSink{}
	calls := 0
	cause := errors.New("transient")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &Consumer{
		queueName:   "test",
		maxAttempts: 3,
		backoff:     time.Minute, // never elapses; cancellation wins
		deadLetter:  sink,
		handler: func(context.Context, json.RawMessage) error {
			calls++
			cancel()
			return cause
		},
	}

	c.process(ctx, Envelope{ID: "e1", Body: json.RawMessage(`{}`)})

	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
	if len(sink.parked) != 1 {
		t.Fatalf("parked = %d envelopes, want 1", len(sink.parked))
	}
	if sink.parked[0].Attempts != 1 {
		t.Errorf("parked attempts = %d, want 1", sink.parked[0].Attempts)
	}
	if !errors.Is(sink.causes[0], cause) {
		t.Errorf("parked cause = %v, want wrapped %v", sink.causes[0], cause)
	}
	if got := sink.causes[0].Error(); !strings.Contains(got, "interrupted during retry backoff") {
		t.Errorf("parked cause = %q, want interruption marker", got)
	}
}
