package diagnostics

import (
	"sync"
	"time"
)

// Recorder collects Events for a single pipeline run, grounded on the
// teacher's metrics.Recorder shape (a thin append wrapper) but storing to
// an in-memory slice under a mutex instead of issuing a DefraDB Create per
// call.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder builds an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends ev, stamping At if it is zero.
func (r *Recorder) Record(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// RecordStage is a convenience wrapper for the common case: a stage ran for
// d and either succeeded (nil err) or failed with err. A skipped stage is
// recorded with Record and OutcomeSkipped instead.
func (r *Recorder) RecordStage(chapter, stage string, d time.Duration, bytesWritten int64, err error) {
	ev := Event{
		Chapter:      chapter,
		Stage:        stage,
		DurationMs:   d.Milliseconds(),
		BytesWritten: bytesWritten,
		Outcome:      OutcomeSuccess,
	}
	if err != nil {
		ev.Outcome = OutcomeFailure
		ev.Error = err.Error()
	}
	r.Record(ev)
}

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
