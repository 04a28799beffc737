package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"docchat/internal/workflow"
)

// TranscriptStore writes chat transcripts as JSON files under
// <root>/transcripts/<sessionID>.json so a conversation survives outside the
// server. Saving is always an explicit user action (/save in chat).
type TranscriptStore struct {
	Root string
}

type SavedTranscript struct {
	SessionID    string         `json:"session_id"`
	DocumentID   string         `json:"document_id"`
	DocumentName string         `json:"document_name"`
	SavedAt      time.Time      `json:"saved_at"`
	Messages     []SavedMessage `json:"messages"`
}

type SavedMessage struct {
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

func NewTranscriptStore(root string) *TranscriptStore {
	if strings.TrimSpace(root) == "" {
		root = DefaultDataRoot()
	}
	return &TranscriptStore{Root: root}
}

func (s *TranscriptStore) dir() string {
	return filepath.Join(s.Root, "transcripts")
}

func (s *TranscriptStore) path(sessionID string) string {
	return filepath.Join(s.dir(), sessionID+".json")
}

// Save writes the session's transcript and returns the file path.
func (s *TranscriptStore) Save(documentName string, sess *workflow.ChatSession) (string, error) {
	if err := os.MkdirAll(s.dir(), 0o755); err != nil {
		return "", err
	}
	rec := SavedTranscript{
		SessionID:    sess.ID,
		DocumentID:   sess.DocumentID,
		DocumentName: documentName,
		SavedAt:      time.Now(),
	}
	for _, m := range sess.Messages {
		rec.Messages = append(rec.Messages, SavedMessage{
			Sender:  string(m.Sender),
			Content: m.Content,
			At:      m.At,
		})
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	p := s.path(sess.ID)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

func (s *TranscriptStore) Load(sessionID string) (*SavedTranscript, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		return nil, err
	}
	var rec SavedTranscript
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns saved session ids, most recently saved first.
func (s *TranscriptStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	type item struct {
		id  string
		mod time.Time
	}
	var items []item
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, item{id: strings.TrimSuffix(e.Name(), ".json"), mod: info.ModTime()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].mod.After(items[j].mod) })
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.id)
	}
	return out, nil
}
