package events

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory. Used by tests and the CLI dry runs.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Names() []Name {
	evs := r.Events()
	out := make([]Name, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Name)
	}
	return out
}
