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

// Package metadata parses the XML sidecar that accompanies a rendered
// document on the imaging endpoint.
package metadata

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// ErrMetadataParse reports a malformed XML sidecar. It is fatal to the
// invocation that hit it: no partial mapping is ever produced.
var ErrMetadataParse = errors.New("malformed metadata sidecar")

// DocumentData carries the structured fields extracted by the imaging backend
// from the scanned document. Every field is optional at this layer — an absent
// element leaves the zero value and must not abort parsing. Only downstream
// mapping may reject on a missing required field.
type DocumentData struct {
	ScheduleType             string `xml:"ScheduleType"`
	JurisdictionType         string `xml:"JurisdictionType"`
	ProcessingStream         string `xml:"ProcessingStream"`
	ApplicationCategory      string `xml:"ApplicationCategory"`
	PaymentMethod            string `xml:"PaymentMethod"`
	NonFinancialRejectReason string `xml:"NonFinancialRejectReason"`
	ApplicationSignedYN      string `xml:"ApplicationSignedYN"`
	ApplicationSignedDate    string `xml:"ApplicationSignedDate"`
	GuardianSignedYN         string `xml:"GuardianSignedYN"`
	PaymentID                string `xml:"PaymentID"`
	IncompleteReason         string `xml:"IncompleteReason"`
	ValidationUser           string `xml:"ValidationUser"`

	ApplicantPartyID    string `xml:"ApplicantPartyID"`
	ApplicantSurname    string `xml:"ApplicantSurname"`
	ApplicantFirstName  string `xml:"ApplicantFirstName"`
	ApplicantSecondName string `xml:"ApplicantSecondName"`
	ApplicantBirthDate  string `xml:"ApplicantBirthDate"`
	ApplicantGender     string `xml:"ApplicantGender"`
	ApplicantBirthPlace string `xml:"ApplicantBirthPlace"`

	AddlSurname1    string `xml:"AddlSurname1"`
	AddlFirstName1  string `xml:"AddlFirstName1"`
	AddlSecondName1 string `xml:"AddlSecondName1"`
	AddlSurname2    string `xml:"AddlSurname2"`
	AddlFirstName2  string `xml:"AddlFirstName2"`
	AddlSecondName2 string `xml:"AddlSecondName2"`
	AddlSurname3    string `xml:"AddlSurname3"`
	AddlFirstName3  string `xml:"AddlFirstName3"`
	AddlSecondName3 string `xml:"AddlSecondName3"`

	StreetAddress  string `xml:"StreetAddress"`
	City           string `xml:"City"`
	Province       string `xml:"Province"`
	Country        string `xml:"Country"`
	PostalCode     string `xml:"PostalCode"`
	DriversLicence string `xml:"DriversLicence"`
	PhoneNumber    string `xml:"PhoneNumber"`
	EmailAddress   string `xml:"EmailAddress"`

	OrgPartyID         string `xml:"OrgPartyID"`
	OrgFacilityPartyID string `xml:"OrgFacilityPartyID"`
	OrgFacilityName    string `xml:"OrgFacilityName"`
	OrgContactPartyID  string `xml:"OrgContactPartyID"`
}

// Data is the root of the metadata sidecar document.
type Data struct {
	XMLName      xml.Name     `xml:"Data"`
	DocumentData DocumentData `xml:"DocumentData"`
}

// Parse decodes a metadata sidecar from its UTF-8 text content.
// Malformed XML returns an error wrapping ErrMetadataParse.
func Parse(content string) (*Data, error) {
	var data Data

	decoder := xml.NewDecoder(strings.NewReader(content))
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataParse, err)
	}

	return &data, nil
}
