package testutil

import (
	"fmt"
	"sync"

	"github.com/junioryono/advice"
)

// Event is one hook invocation seen by RecordingHooks.
type Event struct {
	Phase     advice.Phase
	Name      string
	State     advice.State
	Succeeded bool
	Failed    bool
	Result    any
	Err       error
}

// String renders the event as phase:name.
func (e Event) String() string {
	return fmt.Sprintf("%s:%s", e.Phase, e.Name)
}

// RecordingHooks records every hook call and can be told to fail a phase.
type RecordingHooks struct {
	mu     sync.Mutex
	events []Event

	// FailOn makes the hook for that phase return ErrHook.
	FailOn map[advice.Phase]bool
	// PanicOn makes the hook for that phase panic with ErrHook.
	PanicOn map[advice.Phase]bool
	// Propagate, when non-nil, overrides Context.Propagate in OnFailure.
	Propagate *bool
}

var _ advice.Hooks = (*RecordingHooks)(nil)

// NewRecordingHooks creates empty RecordingHooks.
func NewRecordingHooks() *RecordingHooks {
	return &RecordingHooks{
		FailOn:  make(map[advice.Phase]bool),
		PanicOn: make(map[advice.Phase]bool),
	}
}

func (h *RecordingHooks) Before(c *advice.Context) error {
	return h.record(advice.PhaseBefore, c)
}

func (h *RecordingHooks) After(c *advice.Context) error {
	return h.record(advice.PhaseAfter, c)
}

func (h *RecordingHooks) OnSuccess(c *advice.Context) error {
	return h.record(advice.PhaseOnSuccess, c)
}

func (h *RecordingHooks) OnFailure(c *advice.Context) error {
	if h.Propagate != nil {
		c.Propagate = *h.Propagate
	}
	return h.record(advice.PhaseOnFailure, c)
}

func (h *RecordingHooks) record(phase advice.Phase, c *advice.Context) error {
	h.mu.Lock()
	h.events = append(h.events, Event{
		Phase:     phase,
		Name:      c.Name,
		State:     c.State(),
		Succeeded: c.Succeeded(),
		Failed:    c.Failed(),
		Result:    c.Result(),
		Err:       c.Err,
	})
	failOn, panicOn := h.FailOn[phase], h.PanicOn[phase]
	h.mu.Unlock()

	if panicOn {
		panic(ErrHook)
	}
	if failOn {
		return ErrHook
	}
	return nil
}

// Events returns a copy of the recorded events.
func (h *RecordingHooks) Events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}

// Phases returns the recorded phases in order.
func (h *RecordingHooks) Phases() []advice.Phase {
	events := h.Events()
	out := make([]advice.Phase, len(events))
	for i, e := range events {
		out[i] = e.Phase
	}
	return out
}

// Names returns the names seen by the given phase, in order.
func (h *RecordingHooks) Names(phase advice.Phase) []string {
	var out []string
	for _, e := range h.Events() {
		if e.Phase == phase {
			out = append(out, e.Name)
		}
	}
	return out
}

// Count returns how often a phase ran.
func (h *RecordingHooks) Count(phase advice.Phase) int {
	return len(h.Names(phase))
}

// Reset clears recorded events.
func (h *RecordingHooks) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = nil
}
