package workflow

import (
	"context"

	"github.com/pkg/errors"

	"docchat/internal/api"
)

// ListDocuments fetches the user's uploaded documents and caches the result
// for browsing. The cache is refreshed after every successful upload but is
// otherwise not kept in sync with live polling.
func (o *Orchestrator) ListDocuments(ctx context.Context) ([]api.DocumentInfo, error) {
	docs, err := o.svc.Documents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}
	o.mu.Lock()
	o.docs = docs
	o.mu.Unlock()
	return docs, nil
}

// CachedDocuments returns the last fetched listing without a network call.
func (o *Orchestrator) CachedDocuments() []api.DocumentInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]api.DocumentInfo(nil), o.docs...)
}

// LoadTranscripts fetches every session and transcript recorded for one
// document. Selection is single: picking the already-selected document
// deselects it and returns nil, clearing the transcript view. This path is
// strictly read-only with respect to the live workflow.
func (o *Orchestrator) LoadTranscripts(ctx context.Context, documentID string) (*HistoryEntry, error) {
	o.mu.Lock()
	if o.selected == documentID {
		o.selected = ""
		o.mu.Unlock()
		return nil, nil
	}
	var info api.DocumentInfo
	for _, d := range o.docs {
		if d.ID == documentID {
			info = d
			break
		}
	}
	o.mu.Unlock()

	sessions, err := o.svc.Sessions(ctx, documentID)
	if err != nil {
		return nil, errors.Wrap(err, "load sessions")
	}
	entry := &HistoryEntry{Document: info}
	if entry.Document.ID == "" {
		entry.Document.ID = documentID
	}
	for _, s := range sessions {
		raw, err := o.svc.History(ctx, s.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "load transcript %s", s.ID)
		}
		entry.Transcripts = append(entry.Transcripts, Transcript{Session: s, Messages: fromTranscript(raw)})
	}

	o.mu.Lock()
	o.selected = documentID
	o.mu.Unlock()
	return entry, nil
}

// SelectedDocument returns the id currently selected in the browser, or "".
func (o *Orchestrator) SelectedDocument() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selected
}
