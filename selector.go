package advice

import (
	"reflect"
	"slices"

	"github.com/junioryono/advice/internal/reflection"
)

// Member is a func-typed field that a class or instance binding can wrap.
type Member = reflection.Member

// Selector decides which members of a class are wrapped.
//
// With Selection set, only the named members are wrapped, in the given
// order. Otherwise every eligible member is wrapped except those named in
// Exception, in discovery order. When both are set, Selection wins.
//
// A member is eligible when it is an exported func-typed field, declared
// on the struct or promoted from an embedded struct, and not tagged
// `advice:"-"`.
type Selector struct {
	Selection []string
	Exception []string
}

// All returns a selector matching every eligible member.
func All() Selector {
	return Selector{}
}

// Selecting returns a selector restricted to the named members.
func Selecting(names ...string) Selector {
	return Selector{Selection: names}
}

// Excepting returns a selector matching every eligible member but the named ones.
func Excepting(names ...string) Selector {
	return Selector{Exception: names}
}

// IsSelection reports whether the selector runs in allow-list mode.
func (s Selector) IsSelection() bool {
	return len(s.Selection) > 0
}

// Discover resolves the members of a struct type that sel selects.
// t may be a struct type or a pointer to one.
//
// In selection mode a name that resolves to a field that is not a func,
// is unexported or is excluded by tag is skipped; a name that resolves to
// nothing yields a MemberNotFoundError.
func Discover(t reflect.Type, sel Selector) ([]Member, error) {
	if t == nil {
		return nil, ConfigurationError{Operation: "discover", Cause: ErrNilTarget}
	}

	if _, err := reflection.StructType(t); err != nil {
		return nil, ConfigurationError{Target: t, Operation: "discover", Cause: ErrNotStruct}
	}

	if sel.IsSelection() {
		return discoverSelection(t, sel.Selection)
	}

	all, err := reflection.DefaultCache.Members(t)
	if err != nil {
		return nil, ConfigurationError{Target: t, Operation: "discover", Cause: err}
	}

	members := make([]Member, 0, len(all))
	for _, m := range all {
		if slices.Contains(sel.Exception, m.Name) {
			continue
		}
		members = append(members, m)
	}

	return members, nil
}

func discoverSelection(t reflect.Type, names []string) ([]Member, error) {
	members := make([]Member, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		m, result := reflection.DefaultCache.Lookup(t, name)
		switch result {
		case reflection.Found:
			members = append(members, m)
		case reflection.NotCallable:
			continue
		default:
			return nil, MemberNotFoundError{Type: t, Name: name}
		}
	}

	return members, nil
}

// Members resolves the members of obj's runtime type that sel selects.
func Members(obj any, sel Selector) ([]Member, error) {
	if obj == nil {
		return nil, ConfigurationError{Operation: "discover", Cause: ErrNilTarget}
	}
	return Discover(reflect.TypeOf(obj), sel)
}
