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

package mailbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// GraphMover moves source emails between folders through the Microsoft
// Graph API. Folder values are well-known names or folder ids.
type GraphMover struct {
	httpClient      *http.Client
	graphBaseURL    string
	user            string
	processedFolder string
	errorFolder     string
}

// GraphMoverConfig wires a GraphMover.
type GraphMoverConfig struct {
	HTTPClient      *http.Client
	GraphBaseURL    string
	User            string
	ProcessedFolder string
	ErrorFolder     string
}

// NewGraphMover creates a mover for the configured source mailbox. The
// http.Client carries the OAuth transport.
func NewGraphMover(cfg GraphMoverConfig) *GraphMover {
	return &GraphMover{
		httpClient:      cfg.HTTPClient,
		graphBaseURL:    cfg.GraphBaseURL,
		user:            cfg.User,
		processedFolder: cfg.ProcessedFolder,
		errorFolder:     cfg.ErrorFolder,
	}
}

// MoveToProcessedFolder files a fully handled email away.
func (m *GraphMover) MoveToProcessedFolder(ctx context.Context, emailID string) error {
	return m.move(ctx, emailID, m.processedFolder)
}

// MoveToErrorFolder parks an email whose processing failed.
func (m *GraphMover) MoveToErrorFolder(ctx context.Context, emailID string) error {
	return m.move(ctx, emailID, m.errorFolder)
}

func (m *GraphMover) move(ctx context.Context, emailID, destination string) error {
	endpoint := fmt.Sprintf("%s/users/%s/messages/%s/move",
		m.graphBaseURL,
		url.PathEscape(m.user),
		url.PathEscape(emailID),
	)

	body, err := json.Marshal(map[string]string{"destinationId": destination})
	if err != nil {
		return fmt.Errorf("marshal move request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build move request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("move message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		// Already moved or deleted. The state transition is what matters,
		// so a missing message is not a failure.
		slog.Warn("message not found during move",
			"email_id", emailID,
			"destination", destination,
		)
		return nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("graph API returned HTTP %d moving message %s", resp.StatusCode, emailID)
	}

	slog.Info("message moved", "email_id", emailID, "destination", destination)
	return nil
}
