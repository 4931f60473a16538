package anim

import "github.com/lixenwraith/cyberio/render"

// Machine is the live animation state of one building
// Owned by that building; only its own update and draw calls touch it
type Machine[B, T any] struct {
	cfg     *Config[B, T]
	block   B
	build   T
	current *State[B, T]
	ticks   int
}

// Current returns the active state, nil when idle
func (m *Machine[B, T]) Current() *State[B, T] {
	return m.current
}

// CurrentName returns the active state's name, empty when idle
func (m *Machine[B, T]) CurrentName() string {
	if m.current == nil {
		return ""
	}
	return m.current.name
}

// TicksInState returns the number of updates since the last state change
func (m *Machine[B, T]) TicksInState() int {
	return m.ticks
}

// SetState switches to the named state
// Unknown names leave the machine unchanged and return false
func (m *Machine[B, T]) SetState(name string) bool {
	s, ok := m.cfg.states.ByName(name)
	if !ok {
		return false
	}
	m.switchTo(s)
	return true
}

// Reset returns the machine to the config's default state
func (m *Machine[B, T]) Reset() {
	s, _ := m.cfg.states.ByName(m.cfg.entry)
	if s == nil {
		m.current = nil
		m.ticks = 0
		return
	}
	m.switchTo(s)
	m.ticks = 0
}

// Update evaluates transitions of the current state, then runs the update of
// whichever state is current afterwards. No-op while idle
func (m *Machine[B, T]) Update() {
	if m.current == nil {
		return
	}

	if next := m.next(); next != nil {
		m.switchTo(next)
	}
	m.ticks++
	m.current.Update(m.block, m.build)
}

// Draw runs the current state's draw. No-op while idle
func (m *Machine[B, T]) Draw(c render.Canvas) {
	if m.current == nil {
		return
	}
	m.current.Draw(c, m.block, m.build)
}

// next returns the first target whose condition holds
func (m *Machine[B, T]) next() *State[B, T] {
	for _, r := range m.cfg.routes[m.current.name] {
		if s := m.try(r); s != nil {
			return s
		}
	}
	for _, r := range m.cfg.anyRoutes {
		if s := m.try(r); s != nil {
			return s
		}
	}
	return nil
}

func (m *Machine[B, T]) try(r route[B, T]) *State[B, T] {
	if r.when != nil && !r.when(m.block, m.build) {
		return nil
	}
	s, ok := m.cfg.states.ByName(r.to)
	if !ok || s == m.current {
		return nil
	}
	return s
}

func (m *Machine[B, T]) switchTo(s *State[B, T]) {
	if s == m.current {
		return
	}
	from := m.current
	m.current = s
	m.ticks = 0
	if m.cfg.hook != nil {
		m.cfg.hook(m.block, m.build, from, s)
	}
}
