// Package types holds small generic containers.
package types

import "maps"

// Set is a hash set of comparable values.
type Set[T comparable] map[T]struct{}

// NewSet returns a set holding data.
func NewSet[T comparable](data ...T) Set[T] {
	set := make(Set[T], len(data))
	set.Add(data...)
	return set
}

// Add inserts values into the set.
func (s Set[T]) Add(values ...T) {
	for _, val := range values {
		s[val] = struct{}{}
	}
}

// Has reports whether value is a member of the set.
func (s Set[T]) Has(value T) bool {
	_, ok := s[value]
	return ok
}

// HasAny reports whether at least one of values is a member of the set.
func (s Set[T]) HasAny(values ...T) bool {
	for _, val := range values {
		if s.Has(val) {
			return true
		}
	}
	return false
}

// ToSlice returns the members in no particular order.
func (s Set[T]) ToSlice() []T {
	out := make([]T, 0, len(s))
	for val := range maps.Keys(s) {
		out = append(out, val)
	}
	return out
}
