package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"docchat/internal/api"
)

// Send posts one user message into the session and, on success, appends the
// user message and the paired system reply as a single atomic update. On
// failure nothing is appended, so the caller can keep the typed text and
// retry. Empty or whitespace-only text is rejected before any request.
func (o *Orchestrator) Send(ctx context.Context, sessionID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &ValidationError{Reason: "message is empty"}
	}
	reply, err := o.svc.Send(ctx, sessionID, text)
	if err != nil {
		return "", errors.Wrap(err, "send message")
	}
	now := time.Now()
	o.mu.Lock()
	if o.session != nil && o.session.ID == sessionID {
		o.session.Messages = append(o.session.Messages,
			Message{ID: uuid.NewString(), Sender: SenderUser, Content: text, At: now},
			Message{ID: uuid.NewString(), Sender: SenderSystem, Content: reply, At: now},
		)
	}
	o.mu.Unlock()
	return reply, nil
}

// LoadHistory fetches the stored transcript for sessionID and, when it is the
// current session, replaces the in-memory message sequence with it. Used both
// on entering a fresh session and when reopening one from the browser.
func (o *Orchestrator) LoadHistory(ctx context.Context, sessionID string) ([]Message, error) {
	raw, err := o.svc.History(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load history")
	}
	msgs := fromTranscript(raw)
	o.mu.Lock()
	if o.session != nil && o.session.ID == sessionID {
		o.session.Messages = append([]Message(nil), msgs...)
	}
	o.mu.Unlock()
	return msgs, nil
}

// Evidence asks the retrieval endpoint for passages of the document matching
// query. Read-only; exposed in chat as /sources.
func (o *Orchestrator) Evidence(ctx context.Context, documentID, query string) ([]api.Passage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Reason: "query is empty"}
	}
	passages, err := o.svc.Evidence(ctx, documentID, query)
	if err != nil {
		return nil, errors.Wrap(err, "retrieve evidence")
	}
	return passages, nil
}
