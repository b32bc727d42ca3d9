package testutil

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrIntentional = errors.New("intentional error")
	ErrHook        = errors.New("hook error")
	ErrConstructor = errors.New("constructor error")
)

// Worker is a base class: its behavior lives in func fields.
type Worker struct {
	ID     string
	Calls  *CallLog
	Run    func() string
	Helper func(n int) int
	Fail   func() error
	Label  string
	secret func()
}

// NewWorker builds a Worker whose methods log their own names.
func NewWorker() *Worker {
	w := &Worker{ID: uuid.NewString(), Calls: &CallLog{}, Label: "worker"}
	w.Run = func() string {
		w.Calls.Add("Run")
		return "run:" + w.Label
	}
	w.Helper = func(n int) int {
		w.Calls.Add("Helper")
		return n * 2
	}
	w.Fail = func() error {
		w.Calls.Add("Fail")
		return ErrIntentional
	}
	w.secret = func() {}
	return w
}

// NewWorkerWithError builds a Worker or fails when fail is true.
func NewWorkerWithError(fail bool) (*Worker, error) {
	if fail {
		return nil, ErrConstructor
	}
	return NewWorker(), nil
}

// Manager embeds Worker, adding Extra and Main and overriding nothing.
type Manager struct {
	*Worker
	Extra func() string
	Main  func() (string, error)
}

// NewManager builds a Manager from the given base constructor so tests can
// pass a bound or unbound Worker constructor.
func NewManager(base func() *Worker) *Manager {
	m := &Manager{Worker: base()}
	m.Extra = func() string {
		m.Calls.Add("Extra")
		return "extra"
	}
	m.Main = func() (string, error) {
		m.Calls.Add("Main")
		return m.Run(), nil
	}
	return m
}

// Override embeds Worker and shadows Run with its own implementation.
type Override struct {
	*Worker
	Run func() string
}

// NewOverride builds an Override from the given base constructor.
func NewOverride(base func() *Worker) *Override {
	o := &Override{Worker: base()}
	o.Run = func() string {
		o.Calls.Add("Override.Run")
		return "override"
	}
	return o
}

// Runner is implemented by every fixture class built through NewRunner.
type Runner interface {
	Kind() string
}

func (w *Worker) Kind() string  { return "worker" }
func (m *Manager) Kind() string { return "manager" }

// NewRunner returns a Worker or a Manager behind an interface.
func NewRunner(kind string) Runner {
	if kind == "manager" {
		return NewManager(NewWorker)
	}
	return NewWorker()
}

// CallLog records method names in call order.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

// Add appends a call.
func (l *CallLog) Add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

// Calls returns a copy of the recorded calls.
func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

// String implements fmt.Stringer.
func (l *CallLog) String() string {
	return fmt.Sprint(l.Calls())
}
