// Package workflow drives the single-user document pipeline: upload a file,
// poll its processing progress to completion, open a chat session on the
// processed document, exchange messages, and browse earlier transcripts.
//
// One Orchestrator owns the whole live workflow (current document, current
// session, poll run). All mutations go through its mutex, so every transition
// is atomic relative to observers; observers read snapshots and listen on the
// event channel. A new upload supersedes the previous workflow
// (cancel-before-replace).
package workflow

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"docchat/internal/api"
)

type EventKind int

const (
	EventProgress EventKind = iota
	EventDocumentReady
	EventSessionStarted
	EventSessionFailed
	EventPollFailed
)

// Event is pushed for poller-driven transitions, which happen outside any UI
// call. UI-driven operations (upload, send, browse) report through their
// return values instead.
type Event struct {
	Kind       EventKind
	DocumentID string
	SessionID  string
	Progress   int
	Err        error
}

type Orchestrator struct {
	svc      api.Service
	log      zerolog.Logger
	interval time.Duration
	events   chan Event

	mu             sync.Mutex
	doc            *Document
	session        *ChatSession
	docs           []api.DocumentInfo
	selected       string
	epoch          uint64
	cancelPoll     func()
	sessionStarted bool
}

type Option func(*Orchestrator)

// WithPollInterval overrides the default 1s poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.interval = d
		}
	}
}

func New(svc api.Service, log zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		svc:      svc,
		log:      log,
		interval: time.Second,
		events:   make(chan Event, 64),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Events delivers poller-driven transitions. Consumers should re-read
// Snapshot on every event; delivery is best-effort when the buffer is full.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// Snapshot returns a copy of the current workflow state, safe to read while
// the orchestrator keeps running.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	var st State
	if o.doc != nil {
		d := *o.doc
		st.Document = &d
	}
	if o.session != nil {
		s := *o.session
		s.Messages = append([]Message(nil), o.session.Messages...)
		st.Session = &s
	}
	return st
}

// Close tears the orchestrator down, stopping any live poll run. Ticks
// already in flight are discarded by the epoch guard.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelPollLocked()
}

func (o *Orchestrator) emit(ev Event) {
	select {
	case o.events <- ev:
	default:
		o.log.Warn().Int("kind", int(ev.Kind)).Msg("event buffer full, dropping")
	}
}
