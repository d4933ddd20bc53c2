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
	"errors"
	"testing"
)

type mockQueryService struct {
	balanceOutcome *DrawDownBalanceOutcome
	balanceErr     error
	partyOutcome   *OrgPartyOutcome
	partyErr       error

	lastBalanceReq DrawDownBalanceRequest
	lastPartyReq   OrgPartyRequest
}

func (m *mockQueryService) ValidateOrgDrawDownBalance(ctx context.Context, req DrawDownBalanceRequest) (*DrawDownBalanceOutcome, error) {
	m.lastBalanceReq = req
	return m.balanceOutcome, m.balanceErr
}

func (m *mockQueryService) ValidateOrgParty(ctx context.Context, req OrgPartyRequest) (*OrgPartyOutcome, error) {
	m.lastPartyReq = req
	return m.partyOutcome, m.partyErr
}

func TestFacadeDrawDownBalanceSuccess(t *testing.T) {
	mock := &mockQueryService{
		balanceOutcome: &DrawDownBalanceOutcome{
			ValidationResult: "VALID",
			StatusCode:       "0",
			StatusMessage:    "ok",
		},
	}
	f := NewFacade(mock)

	result := f.ValidateOrgDrawDownBalance(context.Background(), DrawDownBalanceRequest{
		JurisdictionType: "PROV",
		OrgPartyID:       "42",
		ScheduleType:     "A",
	})

	if !result.OK() {
		t.Fatalf("expected success variant, got failure %q", result.Failure)
	}
	if result.Outcome.ValidationResult != "VALID" {
		t.Errorf("validation result = %q, want VALID", result.Outcome.ValidationResult)
	}
	if result.Failure != "" {
		t.Errorf("failure set on success variant: %q", result.Failure)
	}
	if mock.lastBalanceReq.OrgPartyID != "42" {
		t.Errorf("request not forwarded: org party id = %q", mock.lastBalanceReq.OrgPartyID)
	}
}

func TestFacadeDrawDownBalanceFailure(t *testing.T) {
	mock := &mockQueryService{balanceErr: errors.New("connection refused")}
	f := NewFacade(mock)

	result := f.ValidateOrgDrawDownBalance(context.Background(), DrawDownBalanceRequest{OrgPartyID: "42"})

	if result.OK() {
		t.Fatal("expected failure variant")
	}
	if result.Outcome != nil {
		t.Error("outcome set on failure variant")
	}
	if result.Failure != "connection refused" {
		t.Errorf("failure = %q, want collaborator error text", result.Failure)
	}
}

func TestFacadeOrgPartySuccess(t *testing.T) {
	mock := &mockQueryService{
		partyOutcome: &OrgPartyOutcome{
			ValidationResult: "VALID",
			FoundOrgPartyID:  "42",
			FoundOrgName:     "Acme Health",
			ContactPersons: []ContactPerson{
				{Name: "Jo Smith", Role: "admin", PartyID: "77"},
			},
		},
	}
	f := NewFacade(mock)

	result := f.ValidateOrgParty(context.Background(), OrgPartyRequest{OrgPartyID: "42"})

	if !result.OK() {
		t.Fatalf("expected success variant, got failure %q", result.Failure)
	}
	if result.Outcome.FoundOrgName != "Acme Health" {
		t.Errorf("found org name = %q", result.Outcome.FoundOrgName)
	}
	if len(result.Outcome.ContactPersons) != 1 || result.Outcome.ContactPersons[0].PartyID != "77" {
		t.Errorf("contacts not forwarded: %+v", result.Outcome.ContactPersons)
	}
}

func TestFacadeOrgPartyFailure(t *testing.T) {
	mock := &mockQueryService{partyErr: errors.New("timeout waiting for response")}
	f := NewFacade(mock)

	result := f.ValidateOrgParty(context.Background(), OrgPartyRequest{OrgPartyID: "42"})

	if result.OK() {
		t.Fatal("expected failure variant")
	}
	if result.Failure != "timeout waiting for response" {
		t.Errorf("failure = %q", result.Failure)
	}
}

func TestFacadeOrgPartyNormalizesNilContacts(t *testing.T) {
	mock := &mockQueryService{
		partyOutcome: &OrgPartyOutcome{ValidationResult: "VALID", ContactPersons: nil},
	}
	f := NewFacade(mock)

	result := f.ValidateOrgParty(context.Background(), OrgPartyRequest{})

	if !result.OK() {
		t.Fatalf("expected success variant, got failure %q", result.Failure)
	}
	if result.Outcome.ContactPersons == nil {
		t.Error("contact list should be an empty slice, not nil")
	}
	if len(result.Outcome.ContactPersons) != 0 {
		t.Errorf("contact list should be empty, got %d entries", len(result.Outcome.ContactPersons))
	}
}
