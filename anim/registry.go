package anim

import "sort"

// Registry maps state names to states for one block type
// Mutated only while the block type is constructed, read-only afterwards
type Registry[B, T any] struct {
	states map[string]*State[B, T]
}

// NewRegistry creates an empty registry
func NewRegistry[B, T any]() *Registry[B, T] {
	return &Registry[B, T]{states: make(map[string]*State[B, T])}
}

// Add inserts s by name and returns it
// A state already registered under the same name is replaced
func (r *Registry[B, T]) Add(s *State[B, T]) *State[B, T] {
	r.states[s.Name()] = s
	return s
}

// ByName returns the state registered under name
func (r *Registry[B, T]) ByName(name string) (*State[B, T], bool) {
	s, ok := r.states[name]
	return s, ok
}

// All returns every registered state sorted by name
func (r *Registry[B, T]) All() []*State[B, T] {
	out := make([]*State[B, T], 0, len(r.states))
	for _, s := range r.states {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Len returns the number of registered states
func (r *Registry[B, T]) Len() int {
	return len(r.states)
}
