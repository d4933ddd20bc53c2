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

// Package models defines the data structures shared across the handoff service.
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FileRef identifies a cached email attachment by cache id and original name.
type FileRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkItem represents one inbound unit of work derived from a mailbox message
// plus its cached attachment.
//
// This struct's JSON serialisation MUST match the envelope the mailbox poller
// publishes to the work queue. A redelivered message produces a fresh WorkItem
// with the same transaction id; the struct itself is never shared across
// invocations.
type WorkItem struct {
	TransactionID   uuid.UUID `json:"transaction_id"`
	CorrelationID   string    `json:"correlation_id"`
	FileInfo        FileRef   `json:"file_info"`
	MailboxIDBase64 string    `json:"mailbox_id_base64"`
}

func (w WorkItem) String() string {
	return fmt.Sprintf("WorkItem{transaction_id=%s correlation_id=%s file=%s}",
		w.TransactionID, w.CorrelationID, w.FileInfo.ID)
}

// ReleaseNotice represents one outbound unit of work: a backend-rendered
// document is ready for retrieval from the imaging endpoint.
type ReleaseNotice struct {
	FileID         string `json:"file_id"`
	BusinessAreaCd string `json:"business_area_cd"`
}

// FileInfo describes a released document pair on the imaging endpoint.
// The derived release file names are a fixed naming convention: both are
// computed from the file id alone, differ only by extension, and are stable
// across redeliveries of the same file id.
type FileInfo struct {
	FileID     string
	Extension  string
	RemoteBase string
}

// NewFileInfo builds a FileInfo for a released document.
func NewFileInfo(fileID, extension, remoteBase string) FileInfo {
	return FileInfo{
		FileID:     fileID,
		Extension:  extension,
		RemoteBase: strings.TrimSuffix(remoteBase, "/"),
	}
}

// ImageReleaseFileName is the rendered document file name.
func (f FileInfo) ImageReleaseFileName() string {
	return f.FileID + "." + strings.ToLower(f.Extension)
}

// MetadataReleaseFileName is the XML sidecar file name accompanying the image.
func (f FileInfo) MetadataReleaseFileName() string {
	return f.FileID + ".xml"
}

// RemoteImagePath is the full remote path of the rendered document.
func (f FileInfo) RemoteImagePath() string {
	return f.RemoteBase + "/" + f.ImageReleaseFileName()
}

// RemoteMetadataPath is the full remote path of the metadata sidecar.
func (f FileInfo) RemoteMetadataPath() string {
	return f.RemoteBase + "/" + f.MetadataReleaseFileName()
}

// ReleaseState tracks a released document through the outbound pipeline.
type ReleaseState string

const (
	// StatePending — release notice received, nothing verified yet.
	StatePending ReleaseState = "pending"
	// StateReleased — the imaging endpoint confirmed the rendered document.
	StateReleased ReleaseState = "released"
	// StateArchived — downstream registration succeeded, files archived.
	StateArchived ReleaseState = "archived"
	// StateErrored — processing failed, files moved to the error location.
	StateErrored ReleaseState = "errored"
)
