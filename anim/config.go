package anim

import (
	"errors"
	"fmt"
)

// ErrUnknownState is returned when a config references an unregistered state
var ErrUnknownState = errors.New("unknown animation state")

// TransitionHook observes every state change of machines generated by a config
type TransitionHook[B, T any] func(block B, build T, from, to *State[B, T])

type route[B, T any] struct {
	to   string
	when Condition[B, T]
}

// Config is the per-block-type factory of machines
// It holds the entry state and the transition table; machines read it but never write it
type Config[B, T any] struct {
	states    *Registry[B, T]
	entry     string
	routes    map[string][]route[B, T]
	anyRoutes []route[B, T]
	hook      TransitionHook[B, T]
}

// NewConfig creates a config over an already populated registry
func NewConfig[B, T any](states *Registry[B, T]) *Config[B, T] {
	return &Config[B, T]{
		states: states,
		routes: make(map[string][]route[B, T]),
	}
}

// Default sets the state every new machine starts in
func (c *Config[B, T]) Default(name string) *Config[B, T] {
	c.entry = name
	return c
}

// From starts a transition leaving the named state
func (c *Config[B, T]) From(name string) *Edge[B, T] {
	return &Edge[B, T]{cfg: c, from: name}
}

// Any starts a transition that applies from every state
// Checked after the current state's own transitions
func (c *Config[B, T]) Any() *Edge[B, T] {
	return &Edge[B, T]{cfg: c, any: true}
}

// OnTransition installs a hook called on every state change
func (c *Config[B, T]) OnTransition(hook TransitionHook[B, T]) *Config[B, T] {
	c.hook = hook
	return c
}

// Build checks every referenced state name against the registry
func (c *Config[B, T]) Build() error {
	var errs []error
	check := func(name, role string) {
		if _, ok := c.states.ByName(name); !ok {
			errs = append(errs, fmt.Errorf("%s %q: %w", role, name, ErrUnknownState))
		}
	}

	if c.entry != "" {
		check(c.entry, "default")
	}
	for from, rs := range c.routes {
		check(from, "transition source")
		for _, r := range rs {
			check(r.to, "transition target")
		}
	}
	for _, r := range c.anyRoutes {
		check(r.to, "transition target")
	}
	return errors.Join(errs...)
}

// States returns the registry the config was built over
func (c *Config[B, T]) States() *Registry[B, T] {
	return c.states
}

// Gen creates the machine for one building, positioned on the default state
func (c *Config[B, T]) Gen(block B, build T) *Machine[B, T] {
	m := &Machine[B, T]{cfg: c, block: block, build: build}
	if s, ok := c.states.ByName(c.entry); ok {
		m.current = s
	}
	return m
}

// Edge is a transition under construction
type Edge[B, T any] struct {
	cfg  *Config[B, T]
	from string
	any  bool
	to   string
}

// To sets the target state
func (e *Edge[B, T]) To(name string) *Edge[B, T] {
	e.to = name
	return e
}

// When registers the transition; a nil condition always fires
func (e *Edge[B, T]) When(cond Condition[B, T]) *Config[B, T] {
	r := route[B, T]{to: e.to, when: cond}
	if e.any {
		e.cfg.anyRoutes = append(e.cfg.anyRoutes, r)
	} else {
		e.cfg.routes[e.from] = append(e.cfg.routes[e.from], r)
	}
	return e.cfg
}
