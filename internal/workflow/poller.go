package workflow

import (
	"context"
	"time"
)

// StartPolling begins a poll run for documentID. If a run is already live it
// is canceled first, so at most one timer exists per orchestrator.
func (o *Orchestrator) StartPolling(documentID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelPollLocked()
	o.sessionStarted = false
	o.startPollingLocked(documentID)
}

// CancelPolling stops the live poll run without touching document status.
// Safe to call repeatedly or after completion.
func (o *Orchestrator) CancelPolling() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelPollLocked()
}

// startPollingLocked must be called with o.mu held.
func (o *Orchestrator) startPollingLocked(documentID string) {
	o.epoch++
	epoch := o.epoch
	ctx, cancel := context.WithCancel(context.Background())
	o.cancelPoll = cancel
	go o.poll(ctx, epoch, documentID)
}

// cancelPollLocked stops the timer and bumps the epoch so that any response
// already in flight is recognized as stale and discarded. Must be called with
// o.mu held.
func (o *Orchestrator) cancelPollLocked() {
	if o.cancelPoll == nil {
		return
	}
	o.cancelPoll()
	o.cancelPoll = nil
	o.epoch++
}

// poll is the timer loop for one run. The status request runs inline between
// ticks, so ticks never overlap even when the server is slower than the
// interval; the ticker simply drops fires while a request is outstanding.
func (o *Orchestrator) poll(ctx context.Context, epoch uint64, documentID string) {
	t := time.NewTicker(o.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		progress, err := o.svc.Progress(ctx, documentID)
		if o.applyTick(epoch, documentID, progress, err) {
			return
		}
	}
}

// applyTick folds one poll response into the workflow state. It reports true
// when the run is finished (completed, failed, or superseded).
func (o *Orchestrator) applyTick(epoch uint64, documentID string, progress int, err error) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if epoch != o.epoch {
		// Stale: the run was canceled or superseded after this request left.
		return true
	}
	doc := o.doc
	if doc == nil || doc.ID != documentID {
		return true
	}

	if err != nil {
		doc.Status = StatusFailed
		o.cancelPollLocked()
		o.log.Error().Err(err).Str("document", documentID).Msg("progress poll failed")
		o.emit(Event{Kind: EventPollFailed, DocumentID: documentID, Err: err})
		return true
	}

	if progress < doc.Progress {
		// Protocol violation from the server; keep the displayed value.
		o.log.Warn().
			Str("document", documentID).
			Int("got", progress).
			Int("have", doc.Progress).
			Msg("progress went backwards, ignoring")
		return false
	}
	if progress > 100 {
		o.log.Warn().Str("document", documentID).Int("got", progress).Msg("progress above 100, clamping")
		progress = 100
	}

	doc.Progress = progress
	o.emit(Event{Kind: EventProgress, DocumentID: documentID, Progress: progress})

	if progress < 100 {
		return false
	}

	doc.Status = StatusReady
	o.cancelPollLocked()
	if !o.sessionStarted {
		o.sessionStarted = true
		go o.autoStartSession(o.epoch, documentID)
	}
	o.emit(Event{Kind: EventDocumentReady, DocumentID: documentID})
	return true
}
