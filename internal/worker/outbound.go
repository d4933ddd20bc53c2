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

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/docrelay/handoff/internal/metadata"
	"github.com/docrelay/handoff/internal/models"
	"github.com/docrelay/handoff/internal/registry"
)

// Rendered documents are always delivered as PDF plus an XML sidecar.
const imageExtension = "pdf"

// Gateway is the case-management gateway the outbound worker submits to.
type Gateway interface {
	Release(ctx context.Context, req registry.ReleaseRequest) (*registry.ReleaseResponse, error)
	Register(ctx context.Context, req registry.RegistrationRequest) (*registry.RegistrationResponse, error)
}

// ReleaseTransfer reads and relocates released file pairs on the imaging
// endpoint.
type ReleaseTransfer interface {
	Download(ctx context.Context, remotePath string) ([]byte, error)
	Rename(ctx context.Context, oldPath, newPath string) error
}

// StateRecorder persists where a released document is in the pipeline.
type StateRecorder interface {
	SetReleaseState(ctx context.Context, fileID, businessAreaCd string, state models.ReleaseState, guid, detail string) error
}

// Outbound drives one release notice through release check, metadata
// extraction, downstream registration, and the archive/error file moves.
type Outbound struct {
	gateway     Gateway
	transfer    ReleaseTransfer
	states      StateRecorder
	completed   CompletionFilter
	host        string
	releaseBase string
	archiveBase string
	errorBase   string
}

// OutboundConfig wires an outbound worker.
type OutboundConfig struct {
	Gateway     Gateway
	Transfer    ReleaseTransfer
	States      StateRecorder
	Completed   CompletionFilter
	Host        string
	ReleaseBase string
	ArchiveBase string
	ErrorBase   string
}

// NewOutbound creates the outbound pipeline worker.
func NewOutbound(cfg OutboundConfig) *Outbound {
	return &Outbound{
		gateway:     cfg.Gateway,
		transfer:    cfg.Transfer,
		states:      cfg.States,
		completed:   cfg.Completed,
		host:        cfg.Host,
		releaseBase: cfg.ReleaseBase,
		archiveBase: cfg.ArchiveBase,
		errorBase:   cfg.ErrorBase,
	}
}

// HandleMessage decodes a queued release notice and processes it. This is
// the queue consumer entry point.
func (w *Outbound) HandleMessage(ctx context.Context, body json.RawMessage) error {
	var notice models.ReleaseNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		return fmt.Errorf("decode release notice: %w", err)
	}
	return w.Handle(ctx, notice)
}

// Handle processes one release notice. A non-success release code means the
// rendered document is not available yet and the notice is dropped without
// touching the remote files. A definitive registration outcome — success or
// failure code — is terminal: the file pair is moved and the state recorded,
// no retry. Only transport errors bubble up for the consumer to retry.
func (w *Outbound) Handle(ctx context.Context, notice models.ReleaseNotice) error {
	log := slog.With(
		"file_id", notice.FileID,
		"business_area_cd", notice.BusinessAreaCd,
	)

	done, err := w.completed.Completed(ctx, "release:"+notice.FileID)
	if err != nil {
		log.Warn("completion check failed, processing anyway", "error", err)
	} else if done {
		log.Info("release notice already completed, skipping redelivery")
		return nil
	}

	info := models.NewFileInfo(notice.FileID, imageExtension, w.releaseBase)
	w.recordState(ctx, notice, models.StatePending, "", "")

	rel, err := w.gateway.Release(ctx, registry.ReleaseRequest{
		Host:     w.host,
		FileName: info.ImageReleaseFileName(),
	})
	if err != nil {
		return fmt.Errorf("release check: %w", err)
	}
	if rel.RespCode != registry.SuccessCode {
		log.Info("document not released, dropping notice",
			"resp_code", rel.RespCode,
			"resp_msg", rel.RespMsg,
		)
		return nil
	}
	w.recordState(ctx, notice, models.StateReleased, rel.GUID, "")
	log.Info("document released", "guid", rel.GUID)

	// Transport failures from here on leave the pair in place: the retry
	// must find the files where this run left them. Only a definitive
	// outcome moves the pair.
	raw, err := w.transfer.Download(ctx, info.RemoteMetadataPath())
	if err != nil {
		return fmt.Errorf("download metadata sidecar: %w", err)
	}

	meta, err := metadata.Parse(string(raw))
	if err != nil {
		w.moveToError(ctx, notice, info, err)
		return fmt.Errorf("parse metadata sidecar: %w", err)
	}

	req := registry.MapRegistration(meta.DocumentData, rel.GUID)
	resp, err := w.gateway.Register(ctx, req)
	if err != nil {
		return fmt.Errorf("submit registration: %w", err)
	}
	log.Info("registration submitted", "resp_code", resp.RespCode, "resp_msg", resp.RespMsg)

	if resp.RespCode != registry.SuccessCode {
		w.moveToError(ctx, notice, info, fmt.Errorf("registration rejected: code %d: %s", resp.RespCode, resp.RespMsg))
		return nil
	}

	if err := w.movePair(ctx, info, w.archiveBase); err != nil {
		w.recordState(ctx, notice, models.StateErrored, rel.GUID, err.Error())
		return fmt.Errorf("archive released pair: %w", err)
	}
	w.recordState(ctx, notice, models.StateArchived, rel.GUID, "")

	if err := w.completed.MarkCompleted(ctx, "release:"+notice.FileID); err != nil {
		log.Warn("failed to mark release notice completed", "error", err)
	}

	log.Info("release notice processed", "guid", rel.GUID)
	return nil
}

// moveToError relocates the released pair into the error location and
// records the errored state. The cause wins over any secondary move failure.
func (w *Outbound) moveToError(ctx context.Context, notice models.ReleaseNotice, info models.FileInfo, cause error) {
	if err := w.movePair(ctx, info, w.errorBase); err != nil {
		slog.Error("failed to move released pair to error location",
			"file_id", info.FileID,
			"error", err,
		)
	}
	w.recordState(ctx, notice, models.StateErrored, "", cause.Error())
}

// movePair renames both files of a released pair into the target base.
func (w *Outbound) movePair(ctx context.Context, info models.FileInfo, targetBase string) error {
	target := models.NewFileInfo(info.FileID, info.Extension, targetBase)
	if err := w.transfer.Rename(ctx, info.RemoteImagePath(), target.RemoteImagePath()); err != nil {
		return fmt.Errorf("move image: %w", err)
	}
	if err := w.transfer.Rename(ctx, info.RemoteMetadataPath(), target.RemoteMetadataPath()); err != nil {
		return fmt.Errorf("move metadata: %w", err)
	}
	return nil
}

func (w *Outbound) recordState(ctx context.Context, notice models.ReleaseNotice, state models.ReleaseState, guid, detail string) {
	if err := w.states.SetReleaseState(ctx, notice.FileID, notice.BusinessAreaCd, state, guid, detail); err != nil {
		slog.Error("failed to persist release state",
			"file_id", notice.FileID,
			"state", state,
			"error", err,
		)
	}
}
