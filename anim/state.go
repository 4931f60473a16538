// Package anim is a per-building animation state machine
//
// A block type registers named states into a Registry and describes the
// transitions between them with a Config. Each building gets its own Machine
// from Config.Gen, which dispatches the per-tick update and per-frame draw of
// exactly one current state.
//
// B is the block type and T the building type the behaviors operate on.
package anim

import "github.com/lixenwraith/cyberio/render"

// UpdateFunc runs once per simulation tick while its state is current
type UpdateFunc[B, T any] func(block B, build T)

// DrawFunc runs once per render frame while its state is current
type DrawFunc[B, T any] func(c render.Canvas, block B, build T)

// Condition decides whether a transition fires this tick
type Condition[B, T any] func(block B, build T) bool

// State is a named bundle of update and draw behavior
// Immutable once created; nil behaviors are no-ops
type State[B, T any] struct {
	name   string
	update UpdateFunc[B, T]
	draw   DrawFunc[B, T]
}

// NewState creates a state; either behavior may be nil
func NewState[B, T any](name string, update UpdateFunc[B, T], draw DrawFunc[B, T]) *State[B, T] {
	return &State[B, T]{name: name, update: update, draw: draw}
}

// Name returns the state's identity within its block type
func (s *State[B, T]) Name() string {
	return s.name
}

// Update runs the state's tick behavior
func (s *State[B, T]) Update(block B, build T) {
	if s.update != nil {
		s.update(block, build)
	}
}

// Draw runs the state's frame behavior
func (s *State[B, T]) Draw(c render.Canvas, block B, build T) {
	if s.draw != nil {
		s.draw(c, block, build)
	}
}

func (s *State[B, T]) String() string {
	return s.name
}
