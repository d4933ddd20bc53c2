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

import (
	"reflect"
	"testing"

	"github.com/docrelay/handoff/internal/metadata"
)

// TestMapRegistration_FieldForField verifies the mapping is an exact 1:1
// name correspondence: every sidecar field lands in the request field of the
// same name, untransformed.
func TestMapRegistration_FieldForField(t *testing.T) {
	var d metadata.DocumentData

	// Give every sidecar field a unique value derived from its name.
	dv := reflect.ValueOf(&d).Elem()
	for i := 0; i < dv.NumField(); i++ {
		dv.Field(i).SetString("v-" + dv.Type().Field(i).Name)
	}

	req := MapRegistration(d, "G1")

	rv := reflect.ValueOf(req)
	for i := 0; i < dv.NumField(); i++ {
		name := dv.Type().Field(i).Name
		target := rv.FieldByName(name)
		if !target.IsValid() {
			t.Errorf("request has no field %s", name)
			continue
		}
		if got := target.String(); got != "v-"+name {
			t.Errorf("request.%s = %q, want %q", name, got, "v-"+name)
		}
	}

	if req.DocumentGUID != "G1" {
		t.Errorf("DocumentGUID = %q, want G1", req.DocumentGUID)
	}
}

// TestMapRegistration_AbsentStaysAbsent verifies missing sidecar fields pass
// through as empty, never defaulted to a sentinel.
func TestMapRegistration_AbsentStaysAbsent(t *testing.T) {
	req := MapRegistration(metadata.DocumentData{ApplicantSurname: "Doe"}, "")

	if req.ApplicantSurname != "Doe" {
		t.Errorf("ApplicantSurname = %q, want Doe", req.ApplicantSurname)
	}

	rv := reflect.ValueOf(req)
	for i := 0; i < rv.NumField(); i++ {
		name := rv.Type().Field(i).Name
		if name == "ApplicantSurname" {
			continue
		}
		if got := rv.Field(i).String(); got != "" {
			t.Errorf("request.%s = %q, want empty", name, got)
		}
	}
}
