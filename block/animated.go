// Package block integrates anim machines into building types
//
// A block type embeds Animated and a building type embeds Building. Whether a
// block type animates is decided once, from Options at construction; a nil
// config on the block and a nil machine on each building are the only signals
// dispatch checks.
package block

import (
	"fmt"

	"github.com/lixenwraith/cyberio/anim"
)

// Options carries the startup switches a block type is built with
type Options struct {
	Animations bool
}

// Definition supplies the block-type specific parts of the state machine
// States runs first and fills the registry; Config runs second and may read it
type Definition[B, T any] struct {
	States func(r *anim.Registry[B, T])
	Config func(r *anim.Registry[B, T]) *anim.Config[B, T]
}

// Animated is the block-type side: it owns the state registry and config
type Animated[B, T any] struct {
	name   string
	owner  B
	states *anim.Registry[B, T]
	config *anim.Config[B, T]
}

// Init sets up the block type. owner is the concrete block embedding a
func (a *Animated[B, T]) Init(owner B, name string, opts Options, def Definition[B, T]) error {
	a.name = name
	a.owner = owner
	a.states = anim.NewRegistry[B, T]()
	if !opts.Animations {
		return nil
	}

	if def.States != nil {
		def.States(a.states)
	}
	if def.Config == nil {
		return nil
	}
	cfg := def.Config(a.states)
	if cfg == nil {
		return nil
	}
	if err := cfg.Build(); err != nil {
		return fmt.Errorf("block %s: %w", name, err)
	}
	a.config = cfg
	return nil
}

// Name returns the block type name
func (a *Animated[B, T]) Name() string {
	return a.name
}

// Owner returns the concrete block
func (a *Animated[B, T]) Owner() B {
	return a.owner
}

// AddState registers s, replacing any state with the same name
func (a *Animated[B, T]) AddState(s *anim.State[B, T]) *anim.State[B, T] {
	return a.states.Add(s)
}

// StateByName looks up a registered state
func (a *Animated[B, T]) StateByName(name string) (*anim.State[B, T], bool) {
	return a.states.ByName(name)
}

// AllStates returns every registered state
func (a *Animated[B, T]) AllStates() []*anim.State[B, T] {
	return a.states.All()
}

// AniConfig returns the machine factory, absent when animations are off
func (a *Animated[B, T]) AniConfig() (*anim.Config[B, T], bool) {
	return a.config, a.config != nil
}

// Animates reports whether buildings of this type get a machine
func (a *Animated[B, T]) Animates() bool {
	return a.config != nil
}
