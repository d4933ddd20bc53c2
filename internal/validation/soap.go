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
	"encoding/xml"
	"io"
	"log/slog"
	"net/http"
)

const soapNS = "http://schemas.xmlsoap.org/soap/envelope/"

// requestEnvelope is the inbound SOAP 1.1 envelope. Exactly one operation
// element is expected in the body.
type requestEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		DrawDownBalance *drawDownBalanceOp `xml:"ValidateOrgDrawDownBalance"`
		OrgParty        *orgPartyOp        `xml:"ValidateOrgParty"`
	} `xml:"Body"`
}

type drawDownBalanceOp struct {
	JurisdictionType string `xml:"jurisdictionType"`
	OrgPartyID       string `xml:"orgPartyId"`
	ScheduleType     string `xml:"scheduleType"`
}

type orgPartyOp struct {
	OrgCity     string `xml:"orgCity"`
	OrgPartyID  string `xml:"orgPartyId"`
	OrgSubname1 string `xml:"orgSubname1"`
	OrgSubname2 string `xml:"orgSubname2"`
	OrgSubname3 string `xml:"orgSubname3"`
	OrgSubname4 string `xml:"orgSubname4"`
	OrgSubname5 string `xml:"orgSubname5"`
}

type responseEnvelope struct {
	XMLName xml.Name     `xml:"soap:Envelope"`
	SoapNS  string       `xml:"xmlns:soap,attr"`
	Body    responseBody `xml:"soap:Body"`
}

type responseBody struct {
	DrawDownBalance *drawDownBalanceResult `xml:"ValidateOrgDrawDownBalanceResponse,omitempty"`
	OrgParty        *orgPartyResult        `xml:"ValidateOrgPartyResponse,omitempty"`
	Fault           *soapFault             `xml:"soap:Fault,omitempty"`
}

type drawDownBalanceResult struct {
	Acknowledged     bool   `xml:"acknowledged"`
	ValidationResult string `xml:"validationResult,omitempty"`
	StatusCode       string `xml:"statusCode,omitempty"`
	StatusMessage    string `xml:"statusMessage,omitempty"`
	Failure          string `xml:"failure,omitempty"`
}

type contactPersonXML struct {
	Name    string `xml:"name"`
	Role    string `xml:"role"`
	PartyID string `xml:"partyId"`
}

type orgPartyResult struct {
	Acknowledged     bool               `xml:"acknowledged"`
	ValidationResult string             `xml:"validationResult,omitempty"`
	StatusCode       string             `xml:"statusCode,omitempty"`
	StatusMessage    string             `xml:"statusMessage,omitempty"`
	FoundOrgPartyID  string             `xml:"foundOrgPartyId,omitempty"`
	FoundOrgName     string             `xml:"foundOrgName,omitempty"`
	FoundOrgType     string             `xml:"foundOrgType,omitempty"`
	ContactPersons   []contactPersonXML `xml:"contactPersons>contactPerson"`
	Failure          string             `xml:"failure,omitempty"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// Endpoint serves the validation façade to a legacy SOAP-only caller.
// Collaborator failures still come back as the two-variant result inside a
// normal response; only an unreadable envelope produces a fault.
type Endpoint struct {
	facade *Facade
}

// NewEndpoint creates the SOAP endpoint.
func NewEndpoint(facade *Facade) *Endpoint {
	return &Endpoint{facade: facade}
}

// ServeHTTP handles one SOAP request.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		e.writeFault(w, "Client", "unreadable request body")
		return
	}

	var env requestEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		slog.Warn("malformed SOAP envelope", "error", err)
		e.writeFault(w, "Client", "malformed SOAP envelope")
		return
	}

	switch {
	case env.Body.DrawDownBalance != nil:
		op := env.Body.DrawDownBalance
		result := e.facade.ValidateOrgDrawDownBalance(r.Context(), DrawDownBalanceRequest{
			JurisdictionType: op.JurisdictionType,
			OrgPartyID:       op.OrgPartyID,
			ScheduleType:     op.ScheduleType,
		})
		e.writeResponse(w, responseBody{DrawDownBalance: mapDrawDownResult(result)})

	case env.Body.OrgParty != nil:
		op := env.Body.OrgParty
		result := e.facade.ValidateOrgParty(r.Context(), OrgPartyRequest{
			OrgCity:     op.OrgCity,
			OrgPartyID:  op.OrgPartyID,
			OrgSubname1: op.OrgSubname1,
			OrgSubname2: op.OrgSubname2,
			OrgSubname3: op.OrgSubname3,
			OrgSubname4: op.OrgSubname4,
			OrgSubname5: op.OrgSubname5,
		})
		e.writeResponse(w, responseBody{OrgParty: mapOrgPartyResult(result)})

	default:
		e.writeFault(w, "Client", "unknown operation")
	}
}

func mapDrawDownResult(r DrawDownBalanceResult) *drawDownBalanceResult {
	if !r.OK() {
		return &drawDownBalanceResult{Failure: r.Failure}
	}
	return &drawDownBalanceResult{
		Acknowledged:     true,
		ValidationResult: r.Outcome.ValidationResult,
		StatusCode:       r.Outcome.StatusCode,
		StatusMessage:    r.Outcome.StatusMessage,
	}
}

func mapOrgPartyResult(r OrgPartyResult) *orgPartyResult {
	if !r.OK() {
		return &orgPartyResult{Failure: r.Failure}
	}

	contacts := make([]contactPersonXML, 0, len(r.Outcome.ContactPersons))
	for _, cp := range r.Outcome.ContactPersons {
		contacts = append(contacts, contactPersonXML{
			Name:    cp.Name,
			Role:    cp.Role,
			PartyID: cp.PartyID,
		})
	}

	return &orgPartyResult{
		Acknowledged:     true,
		ValidationResult: r.Outcome.ValidationResult,
		StatusCode:       r.Outcome.StatusCode,
		StatusMessage:    r.Outcome.StatusMessage,
		FoundOrgPartyID:  r.Outcome.FoundOrgPartyID,
		FoundOrgName:     r.Outcome.FoundOrgName,
		FoundOrgType:     r.Outcome.FoundOrgType,
		ContactPersons:   contacts,
	}
}

func (e *Endpoint) writeResponse(w http.ResponseWriter, body responseBody) {
	e.write(w, http.StatusOK, body)
}

// writeFault returns a SOAP 1.1 fault; the protocol requires HTTP 500.
func (e *Endpoint) writeFault(w http.ResponseWriter, code, message string) {
	e.write(w, http.StatusInternalServerError, responseBody{
		Fault: &soapFault{Code: "soap:" + code, String: message},
	})
}

func (e *Endpoint) write(w http.ResponseWriter, status int, body responseBody) {
	env := responseEnvelope{
		SoapNS: soapNS,
		Body:   body,
	}

	out, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		slog.Error("failed to marshal SOAP response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(xml.Header))
	w.Write(out)
}
