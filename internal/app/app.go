// Package app wires configuration, logging, the API client, and the workflow
// orchestrator into one Application used by both the TUI and the plain flow.
package app

import (
	"github.com/rs/zerolog"

	"docchat/internal/api"
	"docchat/internal/workflow"
)

type Application struct {
	Config      Config
	Log         zerolog.Logger
	Service     api.Service
	Flow        *workflow.Orchestrator
	Transcripts *TranscriptStore

	closeLog func()
}

// NewApplication builds the full stack. With mock set (or cfg.Mock), the
// orchestrator runs against the in-process fake backend and never touches
// the network.
func NewApplication(cfg Config, mock bool) (*Application, error) {
	log, closeLog, err := NewLogger(cfg.LogFile)
	if err != nil {
		// Logging must never block the workflow; fall back to a no-op logger.
		log = zerolog.Nop()
		closeLog = func() {}
	}

	var svc api.Service
	if mock || cfg.Mock {
		svc = api.NewMock()
	} else {
		svc = api.NewClient(cfg.ServerURL, cfg.AuthToken, log)
	}

	flow := workflow.New(svc, log, workflow.WithPollInterval(cfg.PollInterval()))

	return &Application{
		Config:      cfg,
		Log:         log,
		Service:     svc,
		Flow:        flow,
		Transcripts: NewTranscriptStore(""),
		closeLog:    closeLog,
	}, nil
}

// Close stops the live workflow and releases the log file.
func (a *Application) Close() {
	a.Flow.Close()
	if a.closeLog != nil {
		a.closeLog()
	}
}
