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

// Package importsession generates the XML descriptor the imaging backend
// consumes to pick up an uploaded document. Generation is pure: the descriptor
// is computed from the work item alone.
package importsession

import (
	"encoding/xml"
	"fmt"

	"github.com/docrelay/handoff/internal/models"
)

type batchField struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:"Value,attr"`
}

type page struct {
	ImportFileName string `xml:"ImportFileName,attr"`
}

type document struct {
	Pages []page `xml:"Pages>Page"`
}

type batch struct {
	Name        string       `xml:"Name,attr"`
	ClassName   string       `xml:"BatchClassName,attr"`
	BatchFields []batchField `xml:"BatchFields>BatchField"`
	Documents   []document   `xml:"Documents>Document"`
}

type importSession struct {
	XMLName xml.Name `xml:"ImportSession"`
	Batches []batch  `xml:"Batches>Batch"`
}

// Build produces the import-session descriptor for one work item. The batch
// class tells the imaging backend which processing profile to apply.
func Build(item models.WorkItem, batchClass string) (string, error) {
	session := importSession{
		Batches: []batch{
			{
				Name:      item.TransactionID.String(),
				ClassName: batchClass,
				BatchFields: []batchField{
					{Name: "CorrelationId", Value: item.CorrelationID},
					{Name: "MailboxId", Value: item.MailboxIDBase64},
				},
				Documents: []document{
					{
						Pages: []page{
							{ImportFileName: item.FileInfo.Name},
						},
					},
				},
			},
		},
	}

	out, err := xml.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal import session: %w", err)
	}

	return xml.Header + string(out), nil
}
