package workflow

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docchat/internal/api"
)

// stubService lets each test script exactly the endpoints it cares about.
type stubService struct {
	upload    func(name string) (string, error)
	progress  func(documentID string) (int, error)
	status    func(documentID string) (bool, error)
	startChat func(documentID string) (string, error)
	send      func(sessionID, message string) (string, error)
	history   func(sessionID string) ([]api.TranscriptMessage, error)
	documents func() ([]api.DocumentInfo, error)
	sessions  func(documentID string) ([]api.SessionInfo, error)
	evidence  func(documentID, query string) ([]api.Passage, error)
}

func (s *stubService) Upload(_ context.Context, name string, file io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, file)
	if s.upload == nil {
		return "doc-1", nil
	}
	return s.upload(name)
}

func (s *stubService) Progress(_ context.Context, documentID string) (int, error) {
	if s.progress == nil {
		return 100, nil
	}
	return s.progress(documentID)
}

func (s *stubService) Status(_ context.Context, documentID string) (bool, error) {
	if s.status == nil {
		return true, nil
	}
	return s.status(documentID)
}

func (s *stubService) StartChat(_ context.Context, documentID string) (string, error) {
	if s.startChat == nil {
		return "sess-1", nil
	}
	return s.startChat(documentID)
}

func (s *stubService) Send(_ context.Context, sessionID, message string) (string, error) {
	if s.send == nil {
		return "ok", nil
	}
	return s.send(sessionID, message)
}

func (s *stubService) History(_ context.Context, sessionID string) ([]api.TranscriptMessage, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history(sessionID)
}

func (s *stubService) Documents(_ context.Context) ([]api.DocumentInfo, error) {
	if s.documents == nil {
		return nil, nil
	}
	return s.documents()
}

func (s *stubService) Sessions(_ context.Context, documentID string) ([]api.SessionInfo, error) {
	if s.sessions == nil {
		return nil, nil
	}
	return s.sessions(documentID)
}

func (s *stubService) Evidence(_ context.Context, documentID, query string) ([]api.Passage, error) {
	if s.evidence == nil {
		return nil, nil
	}
	return s.evidence(documentID, query)
}

var _ api.Service = (*stubService)(nil)

func tempFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// waitEvent reads events until match returns true or the timeout elapses.
// All events seen along the way are returned.
func waitEvent(t *testing.T, o *Orchestrator, match func(Event) bool) []Event {
	t.Helper()
	var seen []Event
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-o.Events():
			seen = append(seen, ev)
			if match(ev) {
				return seen
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event, saw %d events", len(seen))
		}
	}
}
