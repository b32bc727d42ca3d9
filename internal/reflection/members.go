package reflection

import (
	"fmt"
	"reflect"
	"strings"
)

// TagName is the struct tag consulted during member discovery.
// A field tagged `advice:"-"` is never treated as a member.
const TagName = "advice"

// Member is a func-typed field that can be rebound on an instance.
type Member struct {
	Name  string       // Field name
	Owner reflect.Type // Struct type declaring the field
	Index []int        // Index path from the outermost struct
	Type  reflect.Type // Func type of the field
	Depth int          // Embedding depth, 0 for fields declared on the outer struct
}

// LookupResult classifies a member lookup by name.
type LookupResult int

const (
	// Found means the name resolves to an eligible func field.
	Found LookupResult = iota
	// NotCallable means the name resolves to a field that cannot be wrapped.
	NotCallable
	// Missing means the name does not resolve to any field.
	Missing
)

// StructType returns the struct type behind t, dereferencing one pointer level.
func StructType(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("type cannot be nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct or pointer to struct, got %v", t)
	}
	return t, nil
}

// Members lists every eligible member of a struct type in discovery order.
//
// Fields are visited depth by depth: the fields declared on the struct itself
// come first, in declaration order, followed by fields promoted from embedded
// structs. A name seen at a shallower depth shadows deeper fields with the same
// name, and names that are ambiguous at one depth are dropped, as the Go
// compiler does for promoted fields. An embedded struct reached by more than
// one path at the same depth makes all of its fields ambiguous.
func Members(t reflect.Type) ([]Member, error) {
	st, err := StructType(t)
	if err != nil {
		return nil, err
	}

	type level struct {
		typ   reflect.Type
		index []int
		multi bool // reached by more than one path
	}

	var members []Member
	shadowed := make(map[string]bool)
	visited := map[reflect.Type]bool{st: true}
	current := []level{{typ: st}}

	for depth := 0; len(current) > 0; depth++ {
		var next []level
		nextAt := make(map[reflect.Type]int)
		count := make(map[string]int)
		var candidates []Member

		for _, lv := range current {
			for i := 0; i < lv.typ.NumField(); i++ {
				field := lv.typ.Field(i)
				index := appendIndex(lv.index, i)

				if field.Anonymous {
					if et, ok := embeddedStruct(field.Type); ok && !visited[et] {
						if at, seen := nextAt[et]; seen {
							next[at].multi = true
						} else {
							nextAt[et] = len(next)
							next = append(next, level{typ: et, index: index, multi: lv.multi})
						}
					}
				}

				if shadowed[field.Name] {
					continue
				}
				count[field.Name]++
				if lv.multi {
					count[field.Name]++
				}

				if !isEligible(field) {
					continue
				}

				candidates = append(candidates, Member{
					Name:  field.Name,
					Owner: lv.typ,
					Index: index,
					Type:  field.Type,
					Depth: depth,
				})
			}
		}

		for _, m := range candidates {
			if count[m.Name] == 1 {
				members = append(members, m)
			}
		}

		for name := range count {
			shadowed[name] = true
		}
		for et := range nextAt {
			visited[et] = true
		}

		current = next
	}

	return members, nil
}

// Lookup resolves a single member by name using Go's promotion rules.
func Lookup(t reflect.Type, name string) (Member, LookupResult) {
	st, err := StructType(t)
	if err != nil {
		return Member{}, Missing
	}

	field, ok := st.FieldByName(name)
	if !ok {
		return Member{}, Missing
	}

	if !isEligible(field) {
		return Member{}, NotCallable
	}

	owner := st
	if len(field.Index) > 1 {
		parent := st.FieldByIndex(field.Index[:len(field.Index)-1])
		if et, ok := embeddedStruct(parent.Type); ok {
			owner = et
		}
	}

	return Member{
		Name:  field.Name,
		Owner: owner,
		Index: field.Index,
		Type:  field.Type,
		Depth: len(field.Index) - 1,
	}, Found
}

// Field returns the settable field value of a member on a struct value.
// It reports false when an embedded pointer on the path is nil or the
// field cannot be set.
func Field(v reflect.Value, m Member) (reflect.Value, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}

	f, err := v.FieldByIndexErr(m.Index)
	if err != nil || !f.CanSet() || f.Kind() != reflect.Func {
		return reflect.Value{}, false
	}

	return f, true
}

// Excluded reports whether a field carries the exclusion tag.
func Excluded(tag reflect.StructTag) bool {
	value, ok := tag.Lookup(TagName)
	if !ok {
		return false
	}
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "-" {
			return true
		}
	}
	return false
}

func isEligible(field reflect.StructField) bool {
	if !field.IsExported() || field.Anonymous {
		return false
	}
	if field.Type.Kind() != reflect.Func {
		return false
	}
	return !Excluded(field.Tag)
}

func embeddedStruct(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, t.Kind() == reflect.Struct
}

func appendIndex(prefix []int, i int) []int {
	index := make([]int, len(prefix)+1)
	copy(index, prefix)
	index[len(prefix)] = i
	return index
}
