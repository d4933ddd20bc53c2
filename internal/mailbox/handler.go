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

// Package mailbox exposes the mailbox state transitions over HTTP and
// provides the client the inbound worker uses to report a processed email.
// The actual folder moves live in the mailbox access layer behind the Mover
// interface; this package only translates between HTTP and that capability.
package mailbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mover transitions a source email between logical folders.
type Mover interface {
	MoveToProcessedFolder(ctx context.Context, emailID string) error
	MoveToErrorFolder(ctx context.Context, emailID string) error
}

// AckRequest is the transition request body.
type AckRequest struct {
	CorrelationID   string `json:"correlationId"`
	ImportReference string `json:"importReference,omitempty"`
}

// AckResponse is the uniform transition response. Acknowledge is true iff
// Message is empty.
type AckResponse struct {
	Acknowledge bool   `json:"acknowledge"`
	Message     string `json:"message,omitempty"`
}

// Handler serves the mailbox state endpoints.
type Handler struct {
	mover Mover
}

// NewHandler creates a mailbox state handler.
func NewHandler(mover Mover) *Handler {
	return &Handler{mover: mover}
}

// Routes mounts the state transition endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/emails/{id}/processed", h.markProcessed)
	r.Post("/emails/{id}/failed", h.markFailed)
	return r
}

func (h *Handler) markProcessed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.mover.MoveToProcessedFolder)
}

func (h *Handler) markFailed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.mover.MoveToErrorFolder)
}

// transition decodes the base64 email id and delegates the folder move.
// Collaborator failures come back as a 400 with the failure text: the caller
// owns retries, and "this email could not be transitioned" is a condition it
// can address, not a server fault.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, move func(context.Context, string) error) {
	idBase64 := chi.URLParam(r, "id")

	// Ids travel in a path segment, so the contract is URL-safe base64.
	emailID, err := base64.URLEncoding.DecodeString(idBase64)
	if err != nil {
		writeAck(w, http.StatusBadRequest, AckResponse{
			Acknowledge: false,
			Message:     "invalid base64 email id",
		})
		return
	}

	var req AckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// The body only carries tracing fields; a missing body is tolerated.
		req = AckRequest{}
	}

	if err := move(r.Context(), string(emailID)); err != nil {
		slog.Warn("mailbox state transition failed",
			"correlation_id", req.CorrelationID,
			"error", err,
		)
		writeAck(w, http.StatusBadRequest, AckResponse{
			Acknowledge: false,
			Message:     err.Error(),
		})
		return
	}

	slog.Info("mailbox state transition complete",
		"correlation_id", req.CorrelationID,
	)
	writeAck(w, http.StatusOK, AckResponse{Acknowledge: true})
}

func writeAck(w http.ResponseWriter, status int, resp AckResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write ack response", "error", err)
	}
}
