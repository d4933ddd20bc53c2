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

package importsession

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/docrelay/handoff/internal/models"
)

// TestBuild verifies the descriptor carries the work item identifiers.
func TestBuild(t *testing.T) {
	txID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	item := models.WorkItem{
		TransactionID:   txID,
		CorrelationID:   "corr-9",
		FileInfo:        models.FileRef{ID: "cache-1", Name: "scan.tif"},
		MailboxIDBase64: "bWFpbGJveC0x",
	}

	out, err := Build(item, "EmailImport")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`Name="11111111-2222-3333-4444-555555555555"`,
		`BatchClassName="EmailImport"`,
		`Name="CorrelationId" Value="corr-9"`,
		`Name="MailboxId" Value="bWFpbGJveC0x"`,
		`ImportFileName="scan.tif"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("descriptor missing %q:\n%s", want, out)
		}
	}
}

// TestBuild_Deterministic verifies the descriptor is stable for the same item.
func TestBuild_Deterministic(t *testing.T) {
	item := models.WorkItem{
		TransactionID: uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		CorrelationID: "corr-9",
		FileInfo:      models.FileRef{ID: "cache-1", Name: "scan.tif"},
	}

	first, err := Build(item, "EmailImport")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Build(item, "EmailImport")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Error("descriptor differs between builds of the same work item")
	}
}
