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
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postSOAP(t *testing.T, endpoint *Endpoint, body string) (*http.Response, string) {
	t.Helper()

	srv := httptest.NewServer(endpoint)
	defer srv.Close()

	resp, err := http.Post(srv.URL, "text/xml", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, string(raw)
}

func TestSOAPDrawDownBalance(t *testing.T) {
	mock := &mockQueryService{
		balanceOutcome: &DrawDownBalanceOutcome{
			ValidationResult: "VALID",
			StatusCode:       "0",
			StatusMessage:    "balance available",
		},
	}
	endpoint := NewEndpoint(NewFacade(mock))

	resp, body := postSOAP(t, endpoint, `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <ValidateOrgDrawDownBalance>
      <jurisdictionType>PROV</jurisdictionType>
      <orgPartyId>42</orgPartyId>
      <scheduleType>A</scheduleType>
    </ValidateOrgDrawDownBalance>
  </soap:Body>
</soap:Envelope>`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", resp.StatusCode, body)
	}
	if mock.lastBalanceReq.OrgPartyID != "42" || mock.lastBalanceReq.ScheduleType != "A" {
		t.Errorf("operation fields not extracted: %+v", mock.lastBalanceReq)
	}
	for _, want := range []string{
		"<ValidateOrgDrawDownBalanceResponse>",
		"<acknowledged>true</acknowledged>",
		"<validationResult>VALID</validationResult>",
		"<statusMessage>balance available</statusMessage>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("response missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "<failure>") {
		t.Errorf("failure element present on success:\n%s", body)
	}
}

func TestSOAPDrawDownBalanceFailureVariant(t *testing.T) {
	mock := &mockQueryService{balanceErr: errors.New("backend unavailable")}
	endpoint := NewEndpoint(NewFacade(mock))

	resp, body := postSOAP(t, endpoint, `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <ValidateOrgDrawDownBalance>
      <orgPartyId>42</orgPartyId>
    </ValidateOrgDrawDownBalance>
  </soap:Body>
</soap:Envelope>`)

	// A collaborator failure is still a normal response, not a fault.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "<acknowledged>false</acknowledged>") {
		t.Errorf("expected unacknowledged result:\n%s", body)
	}
	if !strings.Contains(body, "<failure>backend unavailable</failure>") {
		t.Errorf("expected failure text:\n%s", body)
	}
	if strings.Contains(body, "Fault") {
		t.Errorf("collaborator failure should not produce a fault:\n%s", body)
	}
}

func TestSOAPOrgParty(t *testing.T) {
	mock := &mockQueryService{
		partyOutcome: &OrgPartyOutcome{
			ValidationResult: "VALID",
			FoundOrgPartyID:  "42",
			FoundOrgName:     "Acme Health",
			ContactPersons: []ContactPerson{
				{Name: "Jo Smith", Role: "admin", PartyID: "77"},
				{Name: "Ray Lee", Role: "clerk", PartyID: "78"},
			},
		},
	}
	endpoint := NewEndpoint(NewFacade(mock))

	resp, body := postSOAP(t, endpoint, `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <ValidateOrgParty>
      <orgCity>Victoria</orgCity>
      <orgPartyId>42</orgPartyId>
      <orgSubname1>acme</orgSubname1>
    </ValidateOrgParty>
  </soap:Body>
</soap:Envelope>`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", resp.StatusCode, body)
	}
	if mock.lastPartyReq.OrgCity != "Victoria" || mock.lastPartyReq.OrgSubname1 != "acme" {
		t.Errorf("operation fields not extracted: %+v", mock.lastPartyReq)
	}
	for _, want := range []string{
		"<ValidateOrgPartyResponse>",
		"<foundOrgName>Acme Health</foundOrgName>",
		"<contactPerson>",
		"<name>Jo Smith</name>",
		"<partyId>78</partyId>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("response missing %q:\n%s", want, body)
		}
	}
}

func TestSOAPMalformedEnvelope(t *testing.T) {
	endpoint := NewEndpoint(NewFacade(&mockQueryService{}))

	resp, body := postSOAP(t, endpoint, `this is not xml`)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500; body: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "<faultcode>soap:Client</faultcode>") {
		t.Errorf("expected client fault:\n%s", body)
	}
	if !strings.Contains(body, "malformed SOAP envelope") {
		t.Errorf("expected fault string:\n%s", body)
	}
}

func TestSOAPUnknownOperation(t *testing.T) {
	endpoint := NewEndpoint(NewFacade(&mockQueryService{}))

	resp, body := postSOAP(t, endpoint, `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <SomethingElse/>
  </soap:Body>
</soap:Envelope>`)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500; body: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "unknown operation") {
		t.Errorf("expected unknown-operation fault:\n%s", body)
	}
}

func TestSOAPMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(NewEndpoint(NewFacade(&mockQueryService{})))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}
