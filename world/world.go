package world

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/cyberio/render"
	"github.com/lixenwraith/cyberio/status"
	"github.com/lixenwraith/cyberio/tile"
)

// ErrOccupied is returned when placing onto a tile that already holds a building
var ErrOccupied = errors.New("tile occupied")

// DefaultDelta is one tick at the reference 60 Hz rate
const DefaultDelta = 1.0

// World hosts buildings and drives their update and draw passes
// Not safe for concurrent use; the owner's loop is the only caller
type World struct {
	buildings map[tile.Pos]Building
	order     []tile.Pos
	tick      uint64
	delta     float64

	status    *status.Registry
	statTicks *atomic.Int64
	statCount *atomic.Int64
	log       *log.Logger
}

// Option configures a World
type Option func(*World)

// WithStatus shares a metrics registry
func WithStatus(r *status.Registry) Option {
	return func(w *World) { w.status = r }
}

// WithLogger sets the world logger
func WithLogger(l *log.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithDelta sets the per-tick time step
func WithDelta(d float64) Option {
	return func(w *World) { w.delta = d }
}

// New creates an empty world
func New(opts ...Option) *World {
	w := &World{
		buildings: make(map[tile.Pos]Building),
		delta:     DefaultDelta,
	}
	for _, o := range opts {
		o(w)
	}
	if w.status == nil {
		w.status = status.NewRegistry()
	}
	if w.log == nil {
		w.log = log.New(io.Discard, "", 0)
	}
	w.statTicks = w.status.Ints.Get(status.WorldTicks)
	w.statCount = w.status.Ints.Get(status.WorldBuildings)
	return w
}

// Place adds b at its position
func (w *World) Place(b Building) error {
	pos := b.Pos()
	if _, ok := w.buildings[pos]; ok {
		return fmt.Errorf("place %s at %v: %w", b.BlockName(), pos, ErrOccupied)
	}
	w.buildings[pos] = b
	w.order = append(w.order, pos)
	w.statCount.Store(int64(len(w.buildings)))
	w.log.Printf("placed %s at %v team=%v", b.BlockName(), pos, b.Team())
	return nil
}

// Remove takes the building at pos out of the world and fires its OnRemoved
func (w *World) Remove(pos tile.Pos) (Building, bool) {
	b, ok := w.buildings[pos]
	if !ok {
		return nil, false
	}
	delete(w.buildings, pos)
	for i, p := range w.order {
		if p == pos {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.statCount.Store(int64(len(w.buildings)))
	if r, ok := b.(Remover); ok {
		r.OnRemoved()
	}
	w.log.Printf("removed %s at %v", b.BlockName(), pos)
	return b, true
}

// Building returns the building at pos
func (w *World) Building(pos tile.Pos) (Building, bool) {
	b, ok := w.buildings[pos]
	return b, ok
}

// Len returns the number of placed buildings
func (w *World) Len() int {
	return len(w.buildings)
}

// Each visits buildings in placement order
func (w *World) Each(fn func(Building)) {
	for _, pos := range w.snapshotOrder() {
		if b, ok := w.buildings[pos]; ok {
			fn(b)
		}
	}
}

// EachInRange visits buildings within radius tiles of center that satisfy pred
// A nil pred accepts every building
func (w *World) EachInRange(center tile.Pos, radius float64, pred func(Building) bool, fn func(Building)) {
	w.Each(func(b Building) {
		if center.Dst(b.Pos()) > radius {
			return
		}
		if pred != nil && !pred(b) {
			return
		}
		fn(b)
	})
}

// Update runs one simulation tick, visiting every building once
func (w *World) Update() {
	w.tick++
	w.statTicks.Store(int64(w.tick))
	w.Each(func(b Building) {
		b.UpdateTile()
	})
}

// Draw runs one render pass over every building
func (w *World) Draw(c render.Canvas) {
	w.Each(func(b Building) {
		b.Draw(c)
	})
}

// Tick returns the number of completed updates
func (w *World) Tick() uint64 {
	return w.tick
}

// SetTick restores the tick counter, used when loading a snapshot
func (w *World) SetTick(t uint64) {
	w.tick = t
	w.statTicks.Store(int64(t))
}

// Delta returns the per-tick time step
func (w *World) Delta() float64 {
	return w.delta
}

// Time returns elapsed simulation time in ticks of DefaultDelta
func (w *World) Time() float64 {
	return float64(w.tick) * w.delta
}

// Status returns the metrics registry
func (w *World) Status() *status.Registry {
	return w.status
}

// Logger returns the world logger
func (w *World) Logger() *log.Logger {
	return w.log
}

// snapshotOrder copies the order so callbacks may place or remove buildings
func (w *World) snapshotOrder() []tile.Pos {
	out := make([]tile.Pos, len(w.order))
	copy(out, w.order)
	return out
}
