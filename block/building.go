package block

import (
	"github.com/lixenwraith/cyberio/anim"
	"github.com/lixenwraith/cyberio/render"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

// FixedUpdater is optionally implemented by a building for its own tick logic
// It runs before the animation state update
type FixedUpdater interface {
	FixedUpdateTile()
}

// FixedDrawer is optionally implemented by a building for its own draw logic
// It runs before the animation state draw
type FixedDrawer interface {
	FixedDraw(c render.Canvas)
}

// Building is the per-instance side of an animated block
// T is the concrete building embedding it
type Building[B, T any] struct {
	kind    *Animated[B, T]
	self    T
	world   *world.World
	pos     tile.Pos
	team    tile.Team
	machine *anim.Machine[B, T]
}

// Create binds the building to its block type and, when the type animates,
// generates its machine
func (b *Building[B, T]) Create(kind *Animated[B, T], self T, w *world.World, pos tile.Pos, team tile.Team) {
	b.kind = kind
	b.self = self
	b.world = w
	b.pos = pos
	b.team = team
	if cfg, ok := kind.AniConfig(); ok {
		b.machine = cfg.Gen(kind.Owner(), self)
	}
}

func (b *Building[B, T]) Pos() tile.Pos {
	return b.pos
}

func (b *Building[B, T]) Team() tile.Team {
	return b.team
}

// BlockName returns the block type name
func (b *Building[B, T]) BlockName() string {
	return b.kind.Name()
}

// Block returns the concrete block type
func (b *Building[B, T]) Block() B {
	return b.kind.Owner()
}

// World returns the world the building was created in
func (b *Building[B, T]) World() *world.World {
	return b.world
}

// Machine returns the animation machine, absent when the type does not animate
func (b *Building[B, T]) Machine() (*anim.Machine[B, T], bool) {
	return b.machine, b.machine != nil
}

// AniState returns the current state name, empty when not animating or idle
func (b *Building[B, T]) AniState() string {
	if b.machine == nil {
		return ""
	}
	return b.machine.CurrentName()
}

// SetAniState forces the named state; false when not animating or unknown
func (b *Building[B, T]) SetAniState(name string) bool {
	if b.machine == nil {
		return false
	}
	return b.machine.SetState(name)
}

// UpdateTile runs the building's own tick logic, then the current state's
func (b *Building[B, T]) UpdateTile() {
	if f, ok := any(b.self).(FixedUpdater); ok {
		f.FixedUpdateTile()
	}
	if b.machine != nil {
		b.machine.Update()
	}
}

// Draw runs the building's own draw logic, then the current state's
func (b *Building[B, T]) Draw(c render.Canvas) {
	if f, ok := any(b.self).(FixedDrawer); ok {
		f.FixedDraw(c)
	}
	if b.machine != nil {
		b.machine.Draw(c)
	}
}

// OnRemoved releases the machine with the building
func (b *Building[B, T]) OnRemoved() {
	b.machine = nil
}
