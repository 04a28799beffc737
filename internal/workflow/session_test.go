package workflow

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestStartSessionRequiresProcessedDocument(t *testing.T) {
	svc := &stubService{
		status: func(string) (bool, error) { return false, nil },
		startChat: func(string) (string, error) {
			t.Fatal("StartChat must not be called for an unprocessed document")
			return "", nil
		},
	}
	o := New(svc, zerolog.Nop())
	defer o.Close()

	_, err := o.StartSession(context.Background(), "doc-1")
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStartSessionInstallsCurrentSession(t *testing.T) {
	o := New(&stubService{}, zerolog.Nop())
	defer o.Close()

	ctx := context.Background()
	if _, err := o.Submit(ctx, tempFile(t)); err != nil {
		t.Fatal(err)
	}
	o.CancelPolling()

	id, err := o.StartSession(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	st := o.Snapshot()
	if st.Session == nil || st.Session.ID != id {
		t.Fatalf("session not installed: %+v", st.Session)
	}
	if st.Session.DocumentID != "doc-1" {
		t.Fatalf("session bound to wrong document: %q", st.Session.DocumentID)
	}
}
