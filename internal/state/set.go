package state

import "sort"

// An unordered set of path strings.
type Set map[string]struct{}

// Creates a set from the given items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Inserts every item into the set.
func (s Set) Insert(items ...string) {
	for _, item := range items {
		s[item] = struct{}{}
	}
}

// Whether the item is in the set.
func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// The set contents as a sorted slice, suitable for marshaling.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// Whether both sets hold the same items.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for item := range s {
		if !other.Has(item) {
			return false
		}
	}
	return true
}
