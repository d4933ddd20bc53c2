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

// Package validation wraps the external organization query service behind a
// façade that normalizes every call outcome into exactly two variants:
// Success carrying the query outcome, or Error carrying the failure text.
// Callers never see a third state and no error crosses the boundary.
package validation

import (
	"context"
	"log/slog"
)

// DrawDownBalanceRequest identifies the organization balance to validate.
type DrawDownBalanceRequest struct {
	JurisdictionType string
	OrgPartyID       string
	ScheduleType     string
}

// OrgPartyRequest identifies the organization party to validate.
type OrgPartyRequest struct {
	OrgCity     string
	OrgPartyID  string
	OrgSubname1 string
	OrgSubname2 string
	OrgSubname3 string
	OrgSubname4 string
	OrgSubname5 string
}

// DrawDownBalanceOutcome is the query service's answer for a balance check.
type DrawDownBalanceOutcome struct {
	ValidationResult string
	StatusCode       string
	StatusMessage    string
}

// ContactPerson is one normalized contact record from a party validation.
type ContactPerson struct {
	Name    string
	Role    string
	PartyID string
}

// OrgPartyOutcome is the query service's answer for a party validation.
type OrgPartyOutcome struct {
	ValidationResult string
	StatusCode       string
	StatusMessage    string
	FoundOrgPartyID  string
	FoundOrgName     string
	FoundOrgType     string
	ContactPersons   []ContactPerson
}

// DrawDownBalanceResult is the two-variant façade result. Exactly one of
// Outcome and Failure is set.
type DrawDownBalanceResult struct {
	Outcome *DrawDownBalanceOutcome
	Failure string
}

// OK reports whether the result is the success variant.
func (r DrawDownBalanceResult) OK() bool { return r.Outcome != nil }

// OrgPartyResult is the two-variant façade result. Exactly one of Outcome
// and Failure is set.
type OrgPartyResult struct {
	Outcome *OrgPartyOutcome
	Failure string
}

// OK reports whether the result is the success variant.
func (r OrgPartyResult) OK() bool { return r.Outcome != nil }

// QueryService is the external organization query collaborator.
type QueryService interface {
	ValidateOrgDrawDownBalance(ctx context.Context, req DrawDownBalanceRequest) (*DrawDownBalanceOutcome, error)
	ValidateOrgParty(ctx context.Context, req OrgPartyRequest) (*OrgPartyOutcome, error)
}

// Facade translates query service calls into two-variant results.
type Facade struct {
	query QueryService
}

// NewFacade creates the validation façade.
func NewFacade(query QueryService) *Facade {
	return &Facade{query: query}
}

// ValidateOrgDrawDownBalance forwards the balance check. No retry, no
// partial result: any collaborator error becomes the Error variant.
func (f *Facade) ValidateOrgDrawDownBalance(ctx context.Context, req DrawDownBalanceRequest) DrawDownBalanceResult {
	outcome, err := f.query.ValidateOrgDrawDownBalance(ctx, req)
	if err != nil {
		slog.Error("org draw-down balance validation failed",
			"org_party_id", req.OrgPartyID,
			"error", err,
		)
		return DrawDownBalanceResult{Failure: err.Error()}
	}
	return DrawDownBalanceResult{Outcome: outcome}
}

// ValidateOrgParty forwards the party validation. The contact list is
// normalized: an absent list comes back as an empty slice, never nil.
func (f *Facade) ValidateOrgParty(ctx context.Context, req OrgPartyRequest) OrgPartyResult {
	outcome, err := f.query.ValidateOrgParty(ctx, req)
	if err != nil {
		slog.Error("org party validation failed",
			"org_party_id", req.OrgPartyID,
			"error", err,
		)
		return OrgPartyResult{Failure: err.Error()}
	}

	if outcome.ContactPersons == nil {
		outcome.ContactPersons = []ContactPerson{}
	}
	return OrgPartyResult{Outcome: outcome}
}
