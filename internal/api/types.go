package api

import (
	"context"
	"io"
	"time"
)

// DocumentInfo is one row of the server's document listing.
type DocumentInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Processed  bool      `json:"processed"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// SessionInfo identifies one chat session bound to a document.
type SessionInfo struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
}

// TranscriptMessage is a stored message as returned by the history endpoint.
type TranscriptMessage struct {
	Sender    string    `json:"sender"` // user|system
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Passage is an evidence snippet returned by the retrieval endpoint.
type Passage struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Service is the surface the workflow layer depends on. Client implements it
// over HTTP; Mock implements it in memory for --mock runs and tests.
type Service interface {
	Upload(ctx context.Context, name string, file io.Reader) (string, error)
	Progress(ctx context.Context, documentID string) (int, error)
	Status(ctx context.Context, documentID string) (bool, error)
	StartChat(ctx context.Context, documentID string) (string, error)
	Send(ctx context.Context, sessionID, message string) (string, error)
	History(ctx context.Context, sessionID string) ([]TranscriptMessage, error)
	Documents(ctx context.Context) ([]DocumentInfo, error)
	Sessions(ctx context.Context, documentID string) ([]SessionInfo, error)
	Evidence(ctx context.Context, documentID, query string) ([]Passage, error)
}
