package reflection

import (
	"reflect"
	"runtime"
	"strings"
)

// FuncName returns a short display name for a function value.
//
// Package paths are dropped, method values render as Type.Method and
// closures keep their enclosing function: "pkg.(*Service).Run-fm" becomes
// "Service.Run" and "pkg.TestX.func1" becomes "TestX.func1".
func FuncName(v reflect.Value) string {
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return "<nil>"
	}

	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return v.Type().String()
	}

	return ShortName(fn.Name())
}

// ShortName trims a fully qualified runtime symbol to Type.Method form.
func ShortName(full string) string {
	name := full
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}

	name = strings.TrimSuffix(name, "-fm")
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")

	if name == "" {
		return full
	}
	return name
}

// TypeName returns the bare name of a struct type, dereferencing pointers.
func TypeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
