package tui

import (
	"errors"
	"strings"
	"testing"

	"docchat/internal/api"
	"docchat/internal/app"
	"docchat/internal/workflow"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := app.DefaultConfig()
	cfg.LogFile = t.TempDir() + "/test.log"
	application, err := app.NewApplication(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(application.Close)
	return New(application, "")
}

func TestFailedSendPreservesInput(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("my careful question")
	m.sending = true

	m.Update(sendResultMsg{err: errors.New("502")})

	if m.sending {
		t.Fatal("sending flag not cleared")
	}
	if m.input.Value() != "my careful question" {
		t.Fatalf("input buffer lost on failed send: %q", m.input.Value())
	}
	if !m.statusBad || !strings.Contains(m.status, "Send failed") {
		t.Fatalf("failure not surfaced: %q", m.status)
	}
}

func TestSuccessfulSendClearsInput(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("question")
	m.sending = true

	m.Update(sendResultMsg{})

	if m.input.Value() != "" {
		t.Fatalf("input not cleared after successful send: %q", m.input.Value())
	}
}

func TestSubmitChatInputWithoutSession(t *testing.T) {
	m := newTestModel(t)
	m.view = viewChat
	m.input.SetValue("hello")

	_, cmd := m.submitChatInput()
	if cmd != nil {
		t.Fatal("no command may run without a session")
	}
	if !m.statusBad {
		t.Fatalf("expected error status, got %q", m.status)
	}
}

func TestSendDisabledWhileOutstanding(t *testing.T) {
	m := newTestModel(t)
	m.view = viewChat
	m.sending = true
	m.input.SetValue("second message")

	_, cmd := m.submitChatInput()
	if cmd != nil {
		t.Fatal("send must be disabled while one is outstanding")
	}
	if m.input.Value() != "second message" {
		t.Fatal("queued text must stay in the input")
	}
}

func TestSessionStartKeepsHistoryView(t *testing.T) {
	m := newTestModel(t)
	m.view = viewHistory

	m.Update(flowEventMsg(workflow.Event{Kind: workflow.EventSessionStarted, SessionID: "s1"}))
	if m.view != viewHistory {
		t.Fatal("session start must not interrupt browsing")
	}

	m.view = viewUpload
	m.Update(flowEventMsg(workflow.Event{Kind: workflow.EventSessionStarted, SessionID: "s1"}))
	if m.view != viewChat {
		t.Fatalf("expected switch to chat from the upload view, got %d", m.view)
	}
}

func TestSupersededUploadResultIsSilent(t *testing.T) {
	m := newTestModel(t)
	m.setStatus("Processing document...", false)

	m.Update(uploadResultMsg{err: workflow.ErrSuperseded})
	if m.statusBad || m.status != "Processing document..." {
		t.Fatalf("superseded upload result must not change the status, got %q", m.status)
	}
}

func TestDocsLoadedPopulatesList(t *testing.T) {
	m := newTestModel(t)
	docs := []api.DocumentInfo{
		{ID: "1", Name: "a.pdf", Processed: true},
		{ID: "2", Name: "b.pdf"},
	}
	m.Update(docsLoadedMsg{docs: docs})

	items := m.docList.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	it := items[1].(docItem)
	if it.Description() != "unprocessed" {
		t.Fatalf("abandoned upload must show as unprocessed, got %q", it.Description())
	}
}

func TestDocItemSelectionMarker(t *testing.T) {
	items := docItems([]api.DocumentInfo{{ID: "7", Name: "x.pdf"}}, "7")
	if got := items[0].(docItem).Title(); !strings.HasPrefix(got, "▸ ") {
		t.Fatalf("selected item not marked: %q", got)
	}
}
