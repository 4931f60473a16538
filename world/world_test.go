package world

import (
	"errors"
	"testing"

	"github.com/lixenwraith/cyberio/render"
	"github.com/lixenwraith/cyberio/tile"
)

type stubBuilding struct {
	TimeScale
	pos     tile.Pos
	updates int
	draws   int
	removed bool
	onTick  func()
}

func (s *stubBuilding) Pos() tile.Pos { return s.pos }
func (s *stubBuilding) Team() tile.Team { return tile.TeamSharded }
func (s *stubBuilding) BlockName() string { return "stub" }
func (s *stubBuilding) Draw(render.Canvas) { s.draws++ }
func (s *stubBuilding) OnRemoved() { s.removed = true }
func (s *stubBuilding) UpdateTile() {
	s.updates++
	if s.onTick != nil {
		s.onTick()
	}
}

func TestPlaceRejectsOccupied(t *testing.T) {
	w := New()
	if err := w.Place(&stubBuilding{pos: tile.Pack(1, 1)}); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	err := w.Place(&stubBuilding{pos: tile.Pack(1, 1)})
	if !errors.Is(err, ErrOccupied) {
		t.Fatalf("Expected ErrOccupied, got %v", err)
	}
	if w.Len() != 1 {
		t.Errorf("Expected 1 building, got %d", w.Len())
	}
}

func TestUpdateVisitsEachOnce(t *testing.T) {
	w := New()
	a := &stubBuilding{pos: tile.Pack(0, 0)}
	b := &stubBuilding{pos: tile.Pack(1, 0)}
	_ = w.Place(a)
	_ = w.Place(b)

	w.Update()
	w.Update()
	w.Draw(nil)

	if a.updates != 2 || b.updates != 2 {
		t.Errorf("Expected 2 updates each, got %d %d", a.updates, b.updates)
	}
	if a.draws != 1 || b.draws != 1 {
		t.Errorf("Expected 1 draw each, got %d %d", a.draws, b.draws)
	}
	if w.Tick() != 2 {
		t.Errorf("Expected tick 2, got %d", w.Tick())
	}
	if got := w.Status().Ints.Get("world.ticks").Load(); got != 2 {
		t.Errorf("Expected tick metric 2, got %d", got)
	}
}

func TestRemoveDuringUpdate(t *testing.T) {
	w := New()
	victim := &stubBuilding{pos: tile.Pack(5, 5)}
	killer := &stubBuilding{pos: tile.Pack(0, 0)}
	killer.onTick = func() { w.Remove(victim.pos) }
	_ = w.Place(killer)
	_ = w.Place(victim)

	w.Update()

	if !victim.removed {
		t.Error("Expected OnRemoved to fire")
	}
	if victim.updates != 0 {
		t.Errorf("Removed building was still updated %d times", victim.updates)
	}
	if _, ok := w.Building(victim.pos); ok {
		t.Error("Expected building to be gone")
	}
}

func TestEachInRange(t *testing.T) {
	w := New()
	near := &stubBuilding{pos: tile.Pack(2, 0)}
	far := &stubBuilding{pos: tile.Pack(10, 0)}
	_ = w.Place(near)
	_ = w.Place(far)

	var hit []tile.Pos
	w.EachInRange(tile.Pack(0, 0), 3, nil, func(b Building) { hit = append(hit, b.Pos()) })
	if len(hit) != 1 || hit[0] != near.pos {
		t.Errorf("Expected only near building, got %v", hit)
	}

	hit = nil
	w.EachInRange(tile.Pack(0, 0), 20, func(b Building) bool { return b.Pos() == far.pos }, func(b Building) {
		hit = append(hit, b.Pos())
	})
	if len(hit) != 1 || hit[0] != far.pos {
		t.Errorf("Expected predicate to keep far only, got %v", hit)
	}
}

func TestTimeScale(t *testing.T) {
	var ts TimeScale
	if ts.Scale() != 1 {
		t.Fatalf("Zero TimeScale should be 1, got %v", ts.Scale())
	}

	ts.ApplyBoostOrSlow(0.8, 3)
	if ts.Scale() != 0.8 {
		t.Fatalf("Expected slowdown 0.8, got %v", ts.Scale())
	}
	// Weaker slowdown does not override
	ts.ApplyBoostOrSlow(0.9, 10)
	if ts.Scale() != 0.8 {
		t.Errorf("Weaker slowdown overrode: %v", ts.Scale())
	}

	if got := ts.Advance(1); got != 0.8 {
		t.Errorf("Expected scaled delta 0.8, got %v", got)
	}
	ts.Advance(1)
	ts.Advance(1)
	if ts.Scale() != 1 {
		t.Errorf("Expected effect to expire, got %v", ts.Scale())
	}

	ts.ApplyBoostOrSlow(2.5, 5)
	ts.ResetBoost()
	if ts.Scale() != 1 {
		t.Errorf("Expected reset to 1, got %v", ts.Scale())
	}
}
