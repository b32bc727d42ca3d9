package reflection

import (
	"fmt"
	"reflect"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Analyzer performs reflection-based analysis of function signatures.
// It caches analysis results per function type for performance.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*Signature
}

// Signature contains analyzed information about a function type.
type Signature struct {
	Type       reflect.Type
	NumIn      int
	NumOut     int
	Variadic   bool
	ErrorIndex int // Index of the trailing error return, -1 if none
	Params     []reflect.Type
	Returns    []reflect.Type
}

// HasErrorReturn reports whether the last return value is an error.
func (s *Signature) HasErrorReturn() bool {
	return s.ErrorIndex >= 0
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		cache: make(map[reflect.Type]*Signature),
	}
}

// Analyze extracts the signature of a function type.
func (a *Analyzer) Analyze(fnType reflect.Type) (*Signature, error) {
	if fnType == nil {
		return nil, fmt.Errorf("function type cannot be nil")
	}

	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("expected function, got %v", fnType.Kind())
	}

	// Check cache first
	a.mu.RLock()
	if cached, ok := a.cache[fnType]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	sig := &Signature{
		Type:       fnType,
		NumIn:      fnType.NumIn(),
		NumOut:     fnType.NumOut(),
		Variadic:   fnType.IsVariadic(),
		ErrorIndex: -1,
		Params:     make([]reflect.Type, fnType.NumIn()),
		Returns:    make([]reflect.Type, fnType.NumOut()),
	}

	for i := 0; i < sig.NumIn; i++ {
		sig.Params[i] = fnType.In(i)
	}

	for i := 0; i < sig.NumOut; i++ {
		sig.Returns[i] = fnType.Out(i)
	}

	// Only a trailing error counts as the failure slot
	if sig.NumOut > 0 && sig.Returns[sig.NumOut-1] == errType {
		sig.ErrorIndex = sig.NumOut - 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check in case another goroutine cached it
	if cached, ok := a.cache[fnType]; ok {
		return cached, nil
	}
	a.cache[fnType] = sig

	return sig, nil
}

// Clear clears the analyzer cache.
func (a *Analyzer) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = make(map[reflect.Type]*Signature)
}

// Len returns the number of cached signatures.
func (a *Analyzer) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// ZeroResults returns zero values for every return of the signature.
func (s *Signature) ZeroResults() []reflect.Value {
	out := make([]reflect.Value, s.NumOut)
	for i, t := range s.Returns {
		out[i] = reflect.Zero(t)
	}
	return out
}

// IsErrorType reports whether t is exactly the error interface.
func IsErrorType(t reflect.Type) bool {
	return t == errType
}
