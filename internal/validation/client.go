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

package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Client implements QueryService against the organization query service's
// REST interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a query service client.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// drawDownBalanceResponse mirrors the query service's JSON for a balance check.
type drawDownBalanceResponse struct {
	ValidationResult string `json:"validationResult"`
	StatusCode       string `json:"statusCode"`
	StatusMessage    string `json:"statusMessage"`
}

// orgPartyResponse mirrors the query service's JSON for a party validation.
type orgPartyResponse struct {
	ValidationResult string `json:"validationResult"`
	StatusCode       string `json:"statusCode"`
	StatusMessage    string `json:"statusMessage"`
	FoundOrgPartyID  string `json:"foundOrgPartyId"`
	FoundOrgName     string `json:"foundOrgName"`
	FoundOrgType     string `json:"foundOrgType"`
	ContactPersons   []struct {
		ContactPersonName    string `json:"contactPersonName"`
		ContactPersonRole    string `json:"contactPersonRole"`
		ContactPersonPartyID string `json:"contactPersonPartyId"`
	} `json:"contactPersons"`
}

// ValidateOrgDrawDownBalance queries the balance check endpoint.
func (c *Client) ValidateOrgDrawDownBalance(ctx context.Context, req DrawDownBalanceRequest) (*DrawDownBalanceOutcome, error) {
	params := url.Values{}
	params.Set("jurisdictionType", req.JurisdictionType)
	params.Set("orgPartyId", req.OrgPartyID)
	params.Set("scheduleType", req.ScheduleType)

	var resp drawDownBalanceResponse
	if err := c.get(ctx, "/validateOrgDrawDownBalance", params, &resp); err != nil {
		return nil, err
	}

	return &DrawDownBalanceOutcome{
		ValidationResult: resp.ValidationResult,
		StatusCode:       resp.StatusCode,
		StatusMessage:    resp.StatusMessage,
	}, nil
}

// ValidateOrgParty queries the party validation endpoint.
func (c *Client) ValidateOrgParty(ctx context.Context, req OrgPartyRequest) (*OrgPartyOutcome, error) {
	params := url.Values{}
	params.Set("orgCity", req.OrgCity)
	params.Set("orgPartyId", req.OrgPartyID)
	params.Set("orgSubname1", req.OrgSubname1)
	params.Set("orgSubname2", req.OrgSubname2)
	params.Set("orgSubname3", req.OrgSubname3)
	params.Set("orgSubname4", req.OrgSubname4)
	params.Set("orgSubname5", req.OrgSubname5)

	var resp orgPartyResponse
	if err := c.get(ctx, "/validateOrgParty", params, &resp); err != nil {
		return nil, err
	}

	contacts := make([]ContactPerson, 0, len(resp.ContactPersons))
	for _, cp := range resp.ContactPersons {
		contacts = append(contacts, ContactPerson{
			Name:    cp.ContactPersonName,
			Role:    cp.ContactPersonRole,
			PartyID: cp.ContactPersonPartyID,
		})
	}

	return &OrgPartyOutcome{
		ValidationResult: resp.ValidationResult,
		StatusCode:       resp.StatusCode,
		StatusMessage:    resp.StatusMessage,
		FoundOrgPartyID:  resp.FoundOrgPartyID,
		FoundOrgName:     resp.FoundOrgName,
		FoundOrgType:     resp.FoundOrgType,
		ContactPersons:   contacts,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call query service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("query service returned HTTP %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode query response: %w", err)
	}

	return nil
}
