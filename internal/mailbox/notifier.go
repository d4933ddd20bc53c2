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
	"net/http"
)

// Notifier calls the mailbox service to report that an email's attachment
// reached the imaging endpoint.
type Notifier struct {
	httpClient *http.Client
	baseURL    string
}

// NewNotifier creates a processed-notification client.
func NewNotifier(httpClient *http.Client, baseURL string) *Notifier {
	return &Notifier{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Processed notifies the mailbox service that the email identified by the
// base64 id has been handed off. The import reference is the backend-assigned
// id for the import session; until the backend assigns real ids the wiring
// injects a placeholder value.
func (n *Notifier) Processed(ctx context.Context, emailIDBase64, importRef, correlationID string) error {
	reqBody, err := json.Marshal(AckRequest{
		CorrelationID:   correlationID,
		ImportReference: importRef,
	})
	if err != nil {
		return fmt.Errorf("marshal notification body: %w", err)
	}

	url := fmt.Sprintf("%s/emails/%s/processed", n.baseURL, emailIDBase64)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify processed: %w", err)
	}
	defer resp.Body.Close()

	var ack AckResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("decode ack response: %w", err)
	}

	if !ack.Acknowledge {
		return fmt.Errorf("mailbox did not acknowledge processed email: %s", ack.Message)
	}

	return nil
}
