package workflow

import (
	"time"

	"github.com/google/uuid"

	"docchat/internal/api"
)

// Status tracks a document through server-side processing.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Document is the client-side view of one uploaded file. Progress is mutated
// only by the poller and never moves backwards while a poll run is live.
type Document struct {
	ID       string
	Name     string
	Status   Status
	Progress int
}

type Sender string

const (
	SenderUser   Sender = "user"
	SenderSystem Sender = "system"
)

// Message is one entry in a session transcript. Content is markdown; rendering
// happens in the UI layer.
type Message struct {
	ID      string
	Sender  Sender
	Content string
	At      time.Time
}

// ChatSession is a conversation bound to one processed document. Messages are
// append-only.
type ChatSession struct {
	ID         string
	DocumentID string
	StartedAt  time.Time
	Messages   []Message
}

// Transcript pairs a stored session with its full message list.
type Transcript struct {
	Session  api.SessionInfo
	Messages []Message
}

// HistoryEntry is a read-only snapshot of everything recorded for one
// document, fetched on demand for browsing. It is not kept in sync with a
// live poll run.
type HistoryEntry struct {
	Document    api.DocumentInfo
	Transcripts []Transcript
}

// State is an immutable snapshot of the orchestrator for UI consumption.
type State struct {
	Document *Document
	Session  *ChatSession
}

func fromTranscript(raw []api.TranscriptMessage) []Message {
	out := make([]Message, 0, len(raw))
	for _, tm := range raw {
		sender := SenderSystem
		if tm.Sender == string(SenderUser) {
			sender = SenderUser
		}
		out = append(out, Message{
			ID:      uuid.NewString(),
			Sender:  sender,
			Content: tm.Message,
			At:      tm.CreatedAt,
		})
	}
	return out
}
