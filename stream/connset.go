package stream

import (
	"sort"
	"sync"

	"github.com/lixenwraith/cyberio/tile"
)

// ConnSet is the set of positions a node is linked with
// Safe for mutation from other buildings' updates while being read
type ConnSet struct {
	mu    sync.RWMutex
	items map[tile.Pos]struct{}
}

// NewConnSet creates an empty set
func NewConnSet() *ConnSet {
	return &ConnSet{items: make(map[tile.Pos]struct{})}
}

// Add inserts pos, returning false if already present
func (s *ConnSet) Add(pos tile.Pos) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[pos]; ok {
		return false
	}
	s.items[pos] = struct{}{}
	return true
}

// AddIfBelow inserts pos only while the set holds fewer than limit members
// Unlimited admits always; member reports presence after the call and added
// is true only when this call inserted
func (s *ConnSet) AddIfBelow(pos tile.Pos, limit int) (added, member bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[pos]; ok {
		return false, true
	}
	if limit != Unlimited && len(s.items) >= limit {
		return false, false
	}
	s.items[pos] = struct{}{}
	return true, true
}

// Remove deletes pos, returning false if absent
func (s *ConnSet) Remove(pos tile.Pos) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[pos]; !ok {
		return false
	}
	delete(s.items, pos)
	return true
}

// Contains reports membership
func (s *ConnSet) Contains(pos tile.Pos) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[pos]
	return ok
}

// Len returns the number of members
func (s *ConnSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Positions returns a sorted copy of the members
func (s *ConnSet) Positions() []tile.Pos {
	s.mu.RLock()
	out := make([]tile.Pos, 0, len(s.items))
	for p := range s.items {
		out = append(out, p)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clear removes every member
func (s *ConnSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.items)
}
