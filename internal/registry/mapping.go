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

package registry

import "github.com/docrelay/handoff/internal/metadata"

// RegistrationRequest is the registration submission. Its fields correspond
// 1:1 by name to the metadata sidecar fields, plus the document guid from the
// release check. A field absent in the sidecar stays empty here: the gateway
// distinguishes "absent" from any sentinel, so nothing is defaulted.
type RegistrationRequest struct {
	ScheduleType             string `json:"scheduleType"`
	JurisdictionType         string `json:"jurisdictionType"`
	ProcessingStream         string `json:"processingStream"`
	ApplicationCategory      string `json:"applicationCategory"`
	PaymentMethod            string `json:"paymentMethod"`
	NonFinancialRejectReason string `json:"nonFinancialRejectReason"`
	ApplicationSignedYN      string `json:"applicationSignedYn"`
	ApplicationSignedDate    string `json:"applicationSignedDate"`
	GuardianSignedYN         string `json:"guardianSignedYn"`
	PaymentID                string `json:"paymentId"`
	IncompleteReason         string `json:"incompleteReason"`
	ValidationUser           string `json:"validationUser"`
	DocumentGUID             string `json:"documentGuid"`

	ApplicantPartyID    string `json:"applicantPartyId"`
	ApplicantSurname    string `json:"applicantSurname"`
	ApplicantFirstName  string `json:"applicantFirstName"`
	ApplicantSecondName string `json:"applicantSecondName"`
	ApplicantBirthDate  string `json:"applicantBirthDate"`
	ApplicantGender     string `json:"applicantGender"`
	ApplicantBirthPlace string `json:"applicantBirthPlace"`

	AddlSurname1    string `json:"addlSurname1"`
	AddlFirstName1  string `json:"addlFirstName1"`
	AddlSecondName1 string `json:"addlSecondName1"`
	AddlSurname2    string `json:"addlSurname2"`
	AddlFirstName2  string `json:"addlFirstName2"`
	AddlSecondName2 string `json:"addlSecondName2"`
	AddlSurname3    string `json:"addlSurname3"`
	AddlFirstName3  string `json:"addlFirstName3"`
	AddlSecondName3 string `json:"addlSecondName3"`

	StreetAddress  string `json:"streetAddress"`
	City           string `json:"city"`
	Province       string `json:"province"`
	Country        string `json:"country"`
	PostalCode     string `json:"postalCode"`
	DriversLicence string `json:"driversLicence"`
	PhoneNumber    string `json:"phoneNumber"`
	EmailAddress   string `json:"emailAddress"`

	OrgPartyID         string `json:"orgPartyId"`
	OrgFacilityPartyID string `json:"orgFacilityPartyId"`
	OrgFacilityName    string `json:"orgFacilityName"`
	OrgContactPartyID  string `json:"orgContactPartyId"`
}

// MapRegistration builds the registration submission from parsed sidecar
// data and the release guid. Pure field-for-field assignment.
func MapRegistration(d metadata.DocumentData, guid string) RegistrationRequest {
	return RegistrationRequest{
		ScheduleType:             d.ScheduleType,
		JurisdictionType:         d.JurisdictionType,
		ProcessingStream:         d.ProcessingStream,
		ApplicationCategory:      d.ApplicationCategory,
		PaymentMethod:            d.PaymentMethod,
		NonFinancialRejectReason: d.NonFinancialRejectReason,
		ApplicationSignedYN:      d.ApplicationSignedYN,
		ApplicationSignedDate:    d.ApplicationSignedDate,
		GuardianSignedYN:         d.GuardianSignedYN,
		PaymentID:                d.PaymentID,
		IncompleteReason:         d.IncompleteReason,
		ValidationUser:           d.ValidationUser,
		DocumentGUID:             guid,

		ApplicantPartyID:    d.ApplicantPartyID,
		ApplicantSurname:    d.ApplicantSurname,
		ApplicantFirstName:  d.ApplicantFirstName,
		ApplicantSecondName: d.ApplicantSecondName,
		ApplicantBirthDate:  d.ApplicantBirthDate,
		ApplicantGender:     d.ApplicantGender,
		ApplicantBirthPlace: d.ApplicantBirthPlace,

		AddlSurname1:    d.AddlSurname1,
		AddlFirstName1:  d.AddlFirstName1,
		AddlSecondName1: d.AddlSecondName1,
		AddlSurname2:    d.AddlSurname2,
		AddlFirstName2:  d.AddlFirstName2,
		AddlSecondName2: d.AddlSecondName2,
		AddlSurname3:    d.AddlSurname3,
		AddlFirstName3:  d.AddlFirstName3,
		AddlSecondName3: d.AddlSecondName3,

		StreetAddress:  d.StreetAddress,
		City:           d.City,
		Province:       d.Province,
		Country:        d.Country,
		PostalCode:     d.PostalCode,
		DriversLicence: d.DriversLicence,
		PhoneNumber:    d.PhoneNumber,
		EmailAddress:   d.EmailAddress,

		OrgPartyID:         d.OrgPartyID,
		OrgFacilityPartyID: d.OrgFacilityPartyID,
		OrgFacilityName:    d.OrgFacilityName,
		OrgContactPartyID:  d.OrgContactPartyID,
	}
}
