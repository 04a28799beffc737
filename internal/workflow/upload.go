package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Submit validates and uploads the file at path, then starts polling the new
// document. Any previous workflow is superseded: its poll run is canceled
// before the new document is installed, so a stale tick can never touch the
// new state. A failed upload is not retried here; the caller resubmits.
func (o *Orchestrator) Submit(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", &ValidationError{Reason: "no file selected"}
	}
	f, err := os.Open(path)
	if err != nil {
		return "", &ValidationError{Reason: "cannot read file: " + err.Error()}
	}
	defer f.Close()

	name := filepath.Base(path)
	doc := &Document{Name: name, Status: StatusUploading}

	o.mu.Lock()
	o.cancelPollLocked()
	// cancelPollLocked bumps the epoch only while a run is live. A session
	// create still in flight for a document that already finished polling
	// must be invalidated here too.
	o.epoch++
	o.doc = doc
	o.session = nil
	o.sessionStarted = false
	o.mu.Unlock()

	id, err := o.svc.Upload(ctx, name, f)

	o.mu.Lock()
	if o.doc != doc {
		// Another Submit replaced us while the request was in flight; its
		// outcome wins and ours is discarded.
		o.mu.Unlock()
		if err != nil {
			return "", errors.Wrap(err, "upload")
		}
		return "", ErrSuperseded
	}
	if err != nil {
		doc.Status = StatusFailed
		o.mu.Unlock()
		o.log.Error().Err(err).Str("file", name).Msg("upload failed")
		return "", errors.Wrap(err, "upload")
	}
	doc.ID = id
	doc.Status = StatusProcessing
	doc.Progress = 0
	o.startPollingLocked(id)
	o.mu.Unlock()

	o.log.Info().Str("document", id).Str("file", name).Msg("uploaded")

	// Keep the browsing list current; best-effort.
	if _, err := o.ListDocuments(ctx); err != nil {
		o.log.Warn().Err(err).Msg("refresh document list after upload")
	}
	return id, nil
}
