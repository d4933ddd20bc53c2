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

// Package registry is the client for the downstream case-management gateway:
// the document-release check and the registration submission.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SuccessCode is the gateway's response code for a completed operation.
// Any other code means the operation did not take effect; for a release
// check it means the rendered document does not exist yet.
const SuccessCode = 0

// ReleaseRequest asks the gateway whether a rendered document is available.
type ReleaseRequest struct {
	Host     string `json:"host"`
	FileName string `json:"fileName"`
}

// ReleaseResponse carries the gateway's answer and, on success, the document
// guid under which the rendered file was registered.
type ReleaseResponse struct {
	RespCode int    `json:"respCode"`
	RespMsg  string `json:"respMsg"`
	GUID     string `json:"guid"`
}

// RegistrationResponse reports the outcome of a registration submission.
type RegistrationResponse struct {
	RespCode int    `json:"respCode"`
	RespMsg  string `json:"respMsg"`
}

// Client talks to the case-management gateway over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a gateway client. The http.Client carries any OAuth
// transport the wiring configured.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// Release checks whether the named rendered document is available.
func (c *Client) Release(ctx context.Context, req ReleaseRequest) (*ReleaseResponse, error) {
	var resp ReleaseResponse
	if err := c.post(ctx, "/documents/release", req, &resp); err != nil {
		return nil, fmt.Errorf("release check: %w", err)
	}
	return &resp, nil
}

// Register submits the mapped document fields for registration.
func (c *Client) Register(ctx context.Context, req RegistrationRequest) (*RegistrationResponse, error) {
	var resp RegistrationResponse
	if err := c.post(ctx, "/documents/register", req, &resp); err != nil {
		return nil, fmt.Errorf("registration: %w", err)
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned HTTP %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}

	return nil
}
