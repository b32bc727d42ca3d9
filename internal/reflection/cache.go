package reflection

import (
	"reflect"
	"sync"
)

// MemberCache memoizes member discovery per struct type. Instance binding
// discovers members on every constructed object, so repeated types are
// resolved once.
type MemberCache struct {
	cache sync.Map // map[reflect.Type]*memberSet
}

type memberSet struct {
	members []Member
	byName  map[string]int
	err     error
}

// DefaultCache is the process-wide cache used by the advice package.
var DefaultCache = &MemberCache{}

// Members returns the eligible members of t, computing them at most once per
// distinct struct type. The returned slice is a copy and may be modified.
func (mc *MemberCache) Members(t reflect.Type) ([]Member, error) {
	set := mc.get(t)
	if set.err != nil {
		return nil, set.err
	}
	return append([]Member(nil), set.members...), nil
}

// Lookup is the cached form of the package-level Lookup. Names outside the
// eligible set fall through to an uncached lookup to classify them.
func (mc *MemberCache) Lookup(t reflect.Type, name string) (Member, LookupResult) {
	set := mc.get(t)
	if set.err == nil {
		if i, ok := set.byName[name]; ok {
			return set.members[i], Found
		}
	}
	return Lookup(t, name)
}

// Len reports how many types are cached.
func (mc *MemberCache) Len() int {
	n := 0
	mc.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Clear drops every cached entry.
func (mc *MemberCache) Clear() {
	mc.cache.Range(func(key, _ any) bool {
		mc.cache.Delete(key)
		return true
	})
}

func (mc *MemberCache) get(t reflect.Type) *memberSet {
	if t == nil {
		_, err := StructType(t)
		return &memberSet{err: err}
	}

	if cached, ok := mc.cache.Load(t); ok {
		return cached.(*memberSet)
	}

	set := &memberSet{}
	set.members, set.err = Members(t)
	if set.err == nil {
		set.byName = make(map[string]int, len(set.members))
		for i, m := range set.members {
			set.byName[m.Name] = i
		}
	}

	// Another goroutine may have stored the same type meanwhile.
	actual, _ := mc.cache.LoadOrStore(t, set)
	return actual.(*memberSet)
}
