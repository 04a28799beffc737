package app

import (
	"testing"
	"time"

	"docchat/internal/workflow"
)

func TestTranscriptSaveAndLoad(t *testing.T) {
	store := NewTranscriptStore(t.TempDir())
	sess := &workflow.ChatSession{
		ID:         "sess-1",
		DocumentID: "doc-1",
		StartedAt:  time.Now(),
		Messages: []workflow.Message{
			{Sender: workflow.SenderUser, Content: "what is this paper about?", At: time.Now()},
			{Sender: workflow.SenderSystem, Content: "It covers **polling**.", At: time.Now()},
		},
	}

	path, err := store.Save("paper.pdf", sess)
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("expected a file path")
	}

	rec, err := store.Load("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.DocumentName != "paper.pdf" || rec.DocumentID != "doc-1" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(rec.Messages) != 2 || rec.Messages[0].Sender != "user" {
		t.Fatalf("messages not preserved: %+v", rec.Messages)
	}

	ids, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "sess-1" {
		t.Fatalf("unexpected listing %v", ids)
	}
}

func TestTranscriptListEmptyRoot(t *testing.T) {
	store := NewTranscriptStore(t.TempDir())
	ids, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no transcripts, got %v", ids)
	}
}
