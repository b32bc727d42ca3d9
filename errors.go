package advice

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that are wrapped in typed errors when returned.
// Match them with errors.Is.

var (
	// Binding errors.
	ErrNotCallable = errors.New("target is not callable")
	ErrNilTarget   = errors.New("target cannot be nil")
	ErrNotStruct   = errors.New("target is not a struct")
	ErrBadCtor     = errors.New("invalid constructor signature")

	// Discovery errors.
	ErrMemberNotFound = errors.New("member not found")
)

var (
	_ error = ConfigurationError{}
	_ error = MemberNotFoundError{}
	_ error = (*HookError)(nil)
	_ error = (*PanicError)(nil)
)

// ========================================
// Typed Errors for Rich Context
// ========================================
// Target failures are never wrapped: the caller receives the identical
// error or panic value the target produced.

// ConfigurationError reports an invalid binding, detected when the binding is made.
type ConfigurationError struct {
	Target    reflect.Type
	Operation string // "bind", "bind-class", "bind-instances", "instrument", "discover"
	Cause     error
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("advice: cannot %s %s: %v", e.Operation, formatType(e.Target), e.Cause)
}

func (e ConfigurationError) Unwrap() error {
	return e.Cause
}

// MemberNotFoundError indicates a selected member name does not exist on a type.
type MemberNotFoundError struct {
	Type reflect.Type
	Name string
}

func (e MemberNotFoundError) Error() string {
	return fmt.Sprintf("%s has no member %q", formatType(e.Type), e.Name)
}

func (e MemberNotFoundError) Is(target error) bool {
	return target == ErrMemberNotFound
}

// HookError wraps a failure returned by a hook.
// It supersedes the target's own outcome.
type HookError struct {
	Phase Phase
	Name  string // Name of the wrapped target
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook failed for %s: %v", e.Phase, e.Name, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised by a wrapped target.
// When the failure propagates, the original panic value is re-panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsConfigurationError reports whether err is a binding configuration error.
func IsConfigurationError(err error) bool {
	var ce ConfigurationError
	return errors.As(err, &ce)
}

// IsHookError reports whether err was raised by a hook rather than the target.
func IsHookError(err error) bool {
	var he *HookError
	return errors.As(err, &he)
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Func:
		return formatFunc(t)
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}

// formatFunc formats a function type without package qualifiers on named types.
func formatFunc(t reflect.Type) string {
	params := make([]string, t.NumIn())
	for i := range params {
		in := t.In(i)
		if t.IsVariadic() && i == t.NumIn()-1 {
			params[i] = "..." + formatType(in.Elem())
			continue
		}
		params[i] = formatType(in)
	}

	returns := make([]string, t.NumOut())
	for i := range returns {
		returns[i] = formatType(t.Out(i))
	}

	paramStr := strings.Join(params, ", ")
	switch len(returns) {
	case 0:
		return fmt.Sprintf("func(%s)", paramStr)
	case 1:
		return fmt.Sprintf("func(%s) %s", paramStr, returns[0])
	default:
		return fmt.Sprintf("func(%s) (%s)", paramStr, strings.Join(returns, ", "))
	}
}
