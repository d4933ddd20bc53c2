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

package metadata

import (
	"errors"
	"testing"
)

// TestParse_FullDocument verifies that a fully populated sidecar parses into
// the expected fields.
func TestParse_FullDocument(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<Data>
  <DocumentData>
    <ScheduleType>SCH1</ScheduleType>
    <JurisdictionType>PROV</JurisdictionType>
    <ProcessingStream>FAST</ProcessingStream>
    <ApplicationCategory>NEW</ApplicationCategory>
    <PaymentMethod>CC</PaymentMethod>
    <ApplicationSignedYN>Y</ApplicationSignedYN>
    <ApplicationSignedDate>2026-01-15</ApplicationSignedDate>
    <ApplicantSurname>Doe</ApplicantSurname>
    <ApplicantFirstName>Jane</ApplicantFirstName>
    <ApplicantBirthDate>1990-04-01</ApplicantBirthDate>
    <City>Victoria</City>
    <Province>BC</Province>
    <PostalCode>V8V 1A1</PostalCode>
    <OrgPartyID>9001</OrgPartyID>
    <OrgFacilityName>Main Office</OrgFacilityName>
  </DocumentData>
</Data>`

	data, err := Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := data.DocumentData
	if d.ScheduleType != "SCH1" {
		t.Errorf("ScheduleType = %q, want SCH1", d.ScheduleType)
	}
	if d.ApplicantSurname != "Doe" {
		t.Errorf("ApplicantSurname = %q, want Doe", d.ApplicantSurname)
	}
	if d.ApplicationSignedYN != "Y" {
		t.Errorf("ApplicationSignedYN = %q, want Y", d.ApplicationSignedYN)
	}
	if d.OrgFacilityName != "Main Office" {
		t.Errorf("OrgFacilityName = %q, want Main Office", d.OrgFacilityName)
	}
}

// TestParse_AbsentFieldsDoNotAbort verifies that missing elements leave zero
// values instead of failing the parse.
func TestParse_AbsentFieldsDoNotAbort(t *testing.T) {
	content := `<Data><DocumentData><ApplicantSurname>Doe</ApplicantSurname></DocumentData></Data>`

	data, err := Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.DocumentData.ApplicantSurname != "Doe" {
		t.Errorf("ApplicantSurname = %q, want Doe", data.DocumentData.ApplicantSurname)
	}
	if data.DocumentData.ScheduleType != "" {
		t.Errorf("ScheduleType = %q, want empty", data.DocumentData.ScheduleType)
	}
	if data.DocumentData.OrgPartyID != "" {
		t.Errorf("OrgPartyID = %q, want empty", data.DocumentData.OrgPartyID)
	}
}

// TestParse_MalformedXML verifies the parse error taxonomy.
func TestParse_MalformedXML(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated document", content: `<Data><DocumentData><ScheduleType>SCH1`},
		{name: "not xml at all", content: `this is not xml`},
		{name: "empty input", content: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content)
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if !errors.Is(err, ErrMetadataParse) {
				t.Errorf("error %v does not wrap ErrMetadataParse", err)
			}
		})
	}
}
