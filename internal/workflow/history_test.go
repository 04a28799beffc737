package workflow

import (
	"context"
	"testing"
	"time"

	"docchat/internal/api"
)

func TestLoadTranscriptsTogglesSelection(t *testing.T) {
	svc := &stubService{
		sessions: func(documentID string) ([]api.SessionInfo, error) {
			return []api.SessionInfo{{ID: "s1", StartedAt: time.Now()}}, nil
		},
		history: func(sessionID string) ([]api.TranscriptMessage, error) {
			return []api.TranscriptMessage{{Sender: "user", Message: "q"}, {Sender: "system", Message: "a"}}, nil
		},
	}
	o := newTestOrchestrator(svc)

	entry, err := o.LoadTranscripts(context.Background(), "7")
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil || len(entry.Transcripts) != 1 || len(entry.Transcripts[0].Messages) != 2 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if o.SelectedDocument() != "7" {
		t.Fatalf("expected selection 7, got %q", o.SelectedDocument())
	}

	// Selecting the same document again deselects it and clears the view.
	entry, err = o.LoadTranscripts(context.Background(), "7")
	if err != nil {
		t.Fatal(err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry on deselect, got %+v", entry)
	}
	if o.SelectedDocument() != "" {
		t.Fatalf("expected empty selection, got %q", o.SelectedDocument())
	}
}

func TestLoadTranscriptsReplacesPriorSelection(t *testing.T) {
	svc := &stubService{
		sessions: func(documentID string) ([]api.SessionInfo, error) {
			return []api.SessionInfo{{ID: "s-" + documentID}}, nil
		},
	}
	o := newTestOrchestrator(svc)

	if _, err := o.LoadTranscripts(context.Background(), "7"); err != nil {
		t.Fatal(err)
	}
	entry, err := o.LoadTranscripts(context.Background(), "8")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Transcripts[0].Session.ID != "s-8" {
		t.Fatalf("expected transcripts for 8, got %+v", entry.Transcripts)
	}
	if o.SelectedDocument() != "8" {
		t.Fatalf("expected selection 8, got %q", o.SelectedDocument())
	}
}

func TestListDocumentsCachesResult(t *testing.T) {
	calls := 0
	svc := &stubService{
		documents: func() ([]api.DocumentInfo, error) {
			calls++
			return []api.DocumentInfo{{ID: "1", Name: "a.pdf", Processed: true}, {ID: "2", Name: "b.pdf"}}, nil
		},
	}
	o := newTestOrchestrator(svc)

	docs, err := o.ListDocuments(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	cached := o.CachedDocuments()
	if len(cached) != 2 || cached[1].Name != "b.pdf" {
		t.Fatalf("cache mismatch: %+v", cached)
	}
	if calls != 1 {
		t.Fatalf("CachedDocuments must not refetch, calls=%d", calls)
	}
}

func TestLoadTranscriptsUsesCachedDocumentInfo(t *testing.T) {
	svc := &stubService{
		documents: func() ([]api.DocumentInfo, error) {
			return []api.DocumentInfo{{ID: "7", Name: "thesis.pdf", Processed: true}}, nil
		},
	}
	o := newTestOrchestrator(svc)
	if _, err := o.ListDocuments(context.Background()); err != nil {
		t.Fatal(err)
	}

	entry, err := o.LoadTranscripts(context.Background(), "7")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Document.Name != "thesis.pdf" {
		t.Fatalf("expected cached document info, got %+v", entry.Document)
	}
}
