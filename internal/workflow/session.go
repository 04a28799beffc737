package workflow

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// StartSession opens a chat session on a processed document and records it as
// the current session. The automatic trigger at progress 100 goes through
// autoStartSession; this entry point exists for user-initiated retries after
// a failed start, while the document is still ready.
func (o *Orchestrator) StartSession(ctx context.Context, documentID string) (string, error) {
	processed, err := o.svc.Status(ctx, documentID)
	if err != nil {
		return "", errors.Wrap(err, "check document status")
	}
	if !processed {
		return "", &ValidationError{Reason: "document is not processed yet"}
	}
	id, err := o.svc.StartChat(ctx, documentID)
	if err != nil {
		return "", errors.Wrap(err, "start session")
	}
	o.mu.Lock()
	if o.doc != nil && o.doc.ID == documentID {
		o.session = &ChatSession{ID: id, DocumentID: documentID, StartedAt: time.Now()}
	}
	o.mu.Unlock()
	o.log.Info().Str("document", documentID).Str("session", id).Msg("session started")
	return id, nil
}

// autoStartSession runs once per completed processing run, spawned by the
// poller under its one-shot guard. The epoch captured at spawn time discards
// the result if a new upload superseded the run meanwhile.
func (o *Orchestrator) autoStartSession(epoch uint64, documentID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	id, err := o.svc.StartChat(ctx, documentID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if epoch != o.epoch {
		return
	}
	if err != nil {
		// The document stays ready; the user can retry via StartSession.
		o.log.Error().Err(err).Str("document", documentID).Msg("session create failed")
		o.emit(Event{Kind: EventSessionFailed, DocumentID: documentID, Err: err})
		return
	}
	o.session = &ChatSession{ID: id, DocumentID: documentID, StartedAt: time.Now()}
	o.log.Info().Str("document", documentID).Str("session", id).Msg("session started")
	o.emit(Event{Kind: EventSessionStarted, DocumentID: documentID, SessionID: id})
}
