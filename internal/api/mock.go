package api

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Mock simulates the document-chat backend in process, for --mock runs and
// tests. Each Progress call advances the document by Step until 100.
type Mock struct {
	// Step is the progress gained per poll. Defaults to 25.
	Step int

	mu       sync.Mutex
	docs     map[string]*mockDoc
	sessions map[string]*mockSession
	order    []string
}

type mockDoc struct {
	info     DocumentInfo
	progress int
	sessions []string
}

type mockSession struct {
	info     SessionInfo
	docID    string
	messages []TranscriptMessage
}

func NewMock() *Mock {
	return &Mock{
		Step:     25,
		docs:     map[string]*mockDoc{},
		sessions: map[string]*mockSession{},
	}
}

func (m *Mock) Upload(_ context.Context, name string, file io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, file); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.docs[id] = &mockDoc{
		info: DocumentInfo{ID: id, Name: name, UploadedAt: time.Now()},
	}
	m.order = append(m.order, id)
	return id, nil
}

func (m *Mock) Progress(_ context.Context, documentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[documentID]
	if !ok {
		return 0, &Error{Status: 404, Message: "unknown document"}
	}
	step := m.Step
	if step <= 0 {
		step = 25
	}
	if doc.progress < 100 {
		doc.progress += step
		if doc.progress >= 100 {
			doc.progress = 100
			doc.info.Processed = true
		}
	}
	return doc.progress, nil
}

func (m *Mock) Status(_ context.Context, documentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[documentID]
	if !ok {
		return false, &Error{Status: 404, Message: "unknown document"}
	}
	return doc.info.Processed, nil
}

func (m *Mock) StartChat(_ context.Context, documentID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[documentID]
	if !ok {
		return "", &Error{Status: 404, Message: "unknown document"}
	}
	if !doc.info.Processed {
		return "", &Error{Status: 409, Message: "document not processed yet"}
	}
	id := uuid.NewString()
	m.sessions[id] = &mockSession{
		info:  SessionInfo{ID: id, StartedAt: time.Now()},
		docID: documentID,
	}
	doc.sessions = append(doc.sessions, id)
	return id, nil
}

func (m *Mock) Send(_ context.Context, sessionID, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return "", &Error{Status: 404, Message: "unknown session"}
	}
	doc := m.docs[sess.docID]
	reply := fmt.Sprintf("Based on **%s**: I looked at your question (%q) and this is a simulated answer.", doc.info.Name, strings.TrimSpace(message))
	now := time.Now()
	sess.messages = append(sess.messages,
		TranscriptMessage{Sender: "user", Message: message, CreatedAt: now},
		TranscriptMessage{Sender: "system", Message: reply, CreatedAt: now},
	)
	return reply, nil
}

func (m *Mock) History(_ context.Context, sessionID string) ([]TranscriptMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, &Error{Status: 404, Message: "unknown session"}
	}
	out := make([]TranscriptMessage, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

func (m *Mock) Documents(_ context.Context) ([]DocumentInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DocumentInfo, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.docs[id].info)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (m *Mock) Sessions(_ context.Context, documentID string) ([]SessionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[documentID]
	if !ok {
		return nil, &Error{Status: 404, Message: "unknown document"}
	}
	out := make([]SessionInfo, 0, len(doc.sessions))
	for _, id := range doc.sessions {
		out = append(out, m.sessions[id].info)
	}
	return out, nil
}

func (m *Mock) Evidence(_ context.Context, documentID, query string) ([]Passage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[documentID]
	if !ok {
		return nil, &Error{Status: 404, Message: "unknown document"}
	}
	return []Passage{
		{Page: 1, Text: fmt.Sprintf("Simulated passage from %s matching %q.", doc.info.Name, query)},
		{Page: 3, Text: "A second simulated passage."},
	}, nil
}

var _ Service = (*Mock)(nil)
