package advice

import (
	"fmt"
	"reflect"

	"github.com/junioryono/advice/internal/reflection"
)

// BindClass wraps the selected members of a class once, at declaration time.
//
// A class is a struct whose rebindable methods are exported func-typed
// fields, built by ctor. ctor must have the form func(...) *T or
// func(...) (*T, error). Member discovery runs once, now, against the
// declared type *T; the returned constructor has the type of ctor, calls
// it, and rebinds those members on every object it builds. ctor itself is
// left untouched, so objects built by it stay unwrapped.
//
// Instrumentation is shallow: a struct that embeds *T and is built from the
// bound constructor keeps the wrapped members it does not shadow, but the
// members it declares itself are not wrapped. Use BindInstances when
// members added by embedding types must be covered.
func BindClass[F any](a *Advice, ctor F, opts ...Option) (F, error) {
	var zero F
	cfg := a.config(opts)

	v := reflect.ValueOf(ctor)
	sig, objType, err := a.constructor(v, "bind-class", false)
	if err != nil {
		return zero, err
	}

	members, err := Discover(objType, cfg.selector)
	if err != nil {
		return zero, err
	}

	typeName := reflection.TypeName(objType)
	bound := reflect.MakeFunc(v.Type(), func(in []reflect.Value) []reflect.Value {
		out := callFunc(v, in, sig)
		if constructorFailed(out, sig) || out[0].IsNil() {
			return out
		}
		a.rebind(out[0], typeName, members, cfg)
		return out
	})

	cfg.logger.Debug("advice bound class",
		"type", typeName,
		"members", memberNames(members),
		"propagate", cfg.propagate,
	)

	return castFunc[F](bound, "bind-class")
}

// BindInstances wraps the selected members of every object ctor builds,
// at construction time.
//
// ctor must have the form func(...) R or func(...) (R, error), where R is
// a pointer to a struct or an interface holding one. After ctor returns,
// member discovery runs against the runtime type of the object, on every
// construction, so members promoted from embedded structs and members the
// concrete type declares or overrides are all wrapped. Each object gets
// its own wrapped closures.
//
// Discovery failures surface through ctor's error result when it has one,
// and as a panic otherwise.
func BindInstances[F any](a *Advice, ctor F, opts ...Option) (F, error) {
	var zero F
	cfg := a.config(opts)

	v := reflect.ValueOf(ctor)
	sig, _, err := a.constructor(v, "bind-instances", true)
	if err != nil {
		return zero, err
	}

	bound := reflect.MakeFunc(v.Type(), func(in []reflect.Value) []reflect.Value {
		out := callFunc(v, in, sig)
		if constructorFailed(out, sig) {
			return out
		}

		obj := out[0]
		if obj.Kind() == reflect.Interface {
			if obj.IsNil() {
				return out
			}
			obj = obj.Elem()
		}
		if obj.Kind() == reflect.Pointer && obj.IsNil() {
			return out
		}

		if err := a.instrument(obj, cfg, "bind-instances"); err != nil {
			return constructorError(sig, err)
		}
		return out
	})

	cfg.logger.Debug("advice bound instances",
		"constructor", reflection.FuncName(v),
		"selector", cfg.selector,
		"propagate", cfg.propagate,
	)

	return castFunc[F](bound, "bind-instances")
}

// Instrument rebinds the selected members of one object in place. It is
// the per-object step of BindInstances, for objects built without a bound
// constructor. obj must be a non-nil pointer to a struct.
func (a *Advice) Instrument(obj any, opts ...Option) error {
	cfg := a.config(opts)
	return a.instrument(reflect.ValueOf(obj), cfg, "instrument")
}

func (a *Advice) instrument(obj reflect.Value, cfg *bindConfig, operation string) error {
	if !obj.IsValid() {
		return ConfigurationError{Operation: operation, Cause: ErrNilTarget}
	}
	if obj.Kind() == reflect.Pointer && obj.IsNil() {
		return ConfigurationError{Target: obj.Type(), Operation: operation, Cause: ErrNilTarget}
	}
	if obj.Kind() != reflect.Pointer || obj.Elem().Kind() != reflect.Struct {
		return ConfigurationError{
			Target:    obj.Type(),
			Operation: operation,
			Cause:     fmt.Errorf("%w: need a pointer to a struct", ErrNotStruct),
		}
	}

	members, err := Discover(obj.Type(), cfg.selector)
	if err != nil {
		return err
	}

	a.rebind(obj, reflection.TypeName(obj.Type()), members, cfg)
	return nil
}

// rebind replaces each member on obj with its wrapped form.
// Members behind a nil embedded pointer and nil func fields are skipped.
func (a *Advice) rebind(obj reflect.Value, typeName string, members []Member, cfg *bindConfig) {
	for _, m := range members {
		field, ok := reflection.Field(obj, m)
		if !ok || field.IsNil() {
			cfg.logger.Debug("advice skipped member", "type", typeName, "member", m.Name)
			continue
		}

		// Copy the current value so the wrapper does not call itself
		current := reflect.ValueOf(field.Interface())

		wrapped, err := a.wrapValue(current, typeName+"."+m.Name, cfg)
		if err != nil {
			cfg.logger.Debug("advice skipped member", "type", typeName, "member", m.Name, "error", err)
			continue
		}

		field.Set(wrapped)
	}
}

// constructor validates a constructor and returns its signature and the
// declared object type.
func (a *Advice) constructor(v reflect.Value, operation string, allowInterface bool) (*reflection.Signature, reflect.Type, error) {
	if err := validateFunc(v, operation); err != nil {
		return nil, nil, err
	}

	sig, err := a.analyzer.Analyze(v.Type())
	if err != nil {
		return nil, nil, ConfigurationError{Target: v.Type(), Operation: operation, Cause: err}
	}

	switch {
	case sig.NumOut == 1 && !sig.HasErrorReturn():
	case sig.NumOut == 2 && sig.HasErrorReturn():
	default:
		return nil, nil, ConfigurationError{
			Target:    v.Type(),
			Operation: operation,
			Cause:     fmt.Errorf("%w: want func(...) R or func(...) (R, error)", ErrBadCtor),
		}
	}

	objType := sig.Returns[0]
	isStructPtr := objType.Kind() == reflect.Pointer && objType.Elem().Kind() == reflect.Struct
	if !isStructPtr && !(allowInterface && objType.Kind() == reflect.Interface) {
		return nil, nil, ConfigurationError{
			Target:    v.Type(),
			Operation: operation,
			Cause:     fmt.Errorf("%w: constructor returns %s", ErrNotStruct, formatType(objType)),
		}
	}

	return sig, objType, nil
}

func callFunc(fn reflect.Value, in []reflect.Value, sig *reflection.Signature) []reflect.Value {
	if sig.Variadic {
		return fn.CallSlice(in)
	}
	return fn.Call(in)
}

func constructorFailed(out []reflect.Value, sig *reflection.Signature) bool {
	return sig.HasErrorReturn() && !out[sig.ErrorIndex].IsNil()
}

func constructorError(sig *reflection.Signature, err error) []reflect.Value {
	if !sig.HasErrorReturn() {
		panic(err)
	}
	out := sig.ZeroResults()
	out[sig.ErrorIndex] = reflect.ValueOf(&err).Elem()
	return out
}

func castFunc[F any](v reflect.Value, operation string) (F, error) {
	typed, ok := v.Interface().(F)
	if !ok {
		var zero F
		return zero, ConfigurationError{
			Target:    v.Type(),
			Operation: operation,
			Cause:     fmt.Errorf("%w: cannot convert to %T", ErrNotCallable, zero),
		}
	}
	return typed, nil
}

func memberNames(members []Member) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return names
}
