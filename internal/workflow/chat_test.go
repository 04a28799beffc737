package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"docchat/internal/api"
)

func installSession(o *Orchestrator, docID, sessionID string) {
	o.mu.Lock()
	o.doc = &Document{ID: docID, Name: "report.pdf", Status: StatusReady, Progress: 100}
	o.session = &ChatSession{ID: sessionID, DocumentID: docID, StartedAt: time.Now()}
	o.mu.Unlock()
}

func TestSendAppendsUserAndReplyAtomically(t *testing.T) {
	svc := &stubService{
		send: func(sessionID, message string) (string, error) {
			if sessionID != "sess-1" {
				t.Fatalf("unexpected session %s", sessionID)
			}
			return "the reply", nil
		},
	}
	o := newTestOrchestrator(svc)
	installSession(o, "doc-1", "sess-1")

	reply, err := o.Send(context.Background(), "sess-1", "what is chapter 2 about?")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "the reply" {
		t.Fatalf("unexpected reply %q", reply)
	}

	msgs := o.Snapshot().Session.Messages
	if len(msgs) != 2 {
		t.Fatalf("expected exactly 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != SenderUser || msgs[0].Content != "what is chapter 2 about?" {
		t.Fatalf("first message must be the user's, got %+v", msgs[0])
	}
	if msgs[1].Sender != SenderSystem || msgs[1].Content != "the reply" {
		t.Fatalf("second message must be the system reply, got %+v", msgs[1])
	}
}

func TestSendRejectsEmptyMessageLocally(t *testing.T) {
	svc := &stubService{
		send: func(string, string) (string, error) {
			t.Fatal("no request may be issued for an empty message")
			return "", nil
		},
	}
	o := newTestOrchestrator(svc)
	installSession(o, "doc-1", "sess-1")

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := o.Send(context.Background(), "sess-1", text); !IsValidation(err) {
			t.Fatalf("expected validation error for %q, got %v", text, err)
		}
	}
	if n := len(o.Snapshot().Session.Messages); n != 0 {
		t.Fatalf("message list must be unchanged, got %d entries", n)
	}
}

func TestSendFailureAppendsNothing(t *testing.T) {
	svc := &stubService{
		send: func(string, string) (string, error) { return "", errors.New("502") },
	}
	o := newTestOrchestrator(svc)
	installSession(o, "doc-1", "sess-1")

	if _, err := o.Send(context.Background(), "sess-1", "hello"); err == nil {
		t.Fatal("expected send error")
	}
	if n := len(o.Snapshot().Session.Messages); n != 0 {
		t.Fatalf("failed send must append nothing, got %d entries", n)
	}
}

func TestLoadHistoryReplacesTranscript(t *testing.T) {
	stored := []api.TranscriptMessage{
		{Sender: "user", Message: "hi", CreatedAt: time.Now().Add(-time.Hour)},
		{Sender: "system", Message: "hello", CreatedAt: time.Now().Add(-time.Hour)},
	}
	svc := &stubService{
		history: func(string) ([]api.TranscriptMessage, error) { return stored, nil },
	}
	o := newTestOrchestrator(svc)
	installSession(o, "doc-1", "sess-1")

	// Pre-existing local state is replaced, not merged.
	o.mu.Lock()
	o.session.Messages = []Message{{Sender: SenderUser, Content: "leftover"}}
	o.mu.Unlock()

	msgs, err := o.LoadHistory(context.Background(), "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	got := o.Snapshot().Session.Messages
	if len(got) != 2 || got[0].Content != "hi" || got[1].Content != "hello" {
		t.Fatalf("transcript not replaced: %+v", got)
	}
	if got[0].Sender != SenderUser || got[1].Sender != SenderSystem {
		t.Fatalf("senders mapped wrong: %+v", got)
	}
}

func TestEvidenceRejectsEmptyQuery(t *testing.T) {
	svc := &stubService{
		evidence: func(string, string) ([]api.Passage, error) {
			t.Fatal("no request may be issued for an empty query")
			return nil, nil
		},
	}
	o := newTestOrchestrator(svc)
	if _, err := o.Evidence(context.Background(), "doc-1", "  "); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
