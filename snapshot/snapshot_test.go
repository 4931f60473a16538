package snapshot

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/cyberio/blocks"
	"github.com/lixenwraith/cyberio/config"
	"github.com/lixenwraith/cyberio/liquid"
	"github.com/lixenwraith/cyberio/registry"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

type fixture struct {
	set    *blocks.Set
	lookup Lookup
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Defaults()
	cfg.Underdrive.MaxGear = 3
	cat, err := liquid.NewCatalog(cfg.Liquids)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	registry.Reset()
	t.Cleanup(registry.Reset)
	set, err := blocks.Load(cfg, blocks.Env{Liquids: cat})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return &fixture{set: set, lookup: registry.GetBlock}
}

// populate builds a projector next to a host linked with two clients
func (f *fixture) populate(t *testing.T, w *world.World) {
	t.Helper()
	ud := f.set.Underdrive.NewBuild(w, tile.Pack(4, 4), tile.TeamSharded)
	ud.Configure(2)
	for _, b := range []world.Building{
		ud,
		f.set.Host.NewBuild(w, tile.Pack(5, 4), tile.TeamSharded),
		f.set.Client.NewBuild(w, tile.Pack(9, 4), tile.TeamSharded),
		f.set.Client.NewBuild(w, tile.Pack(9, 6), tile.TeamCrux),
	} {
		if err := w.Place(b); err != nil {
			t.Fatalf("Place failed: %v", err)
		}
	}
	for _, c := range []tile.Pos{tile.Pack(9, 4), tile.Pack(9, 6)} {
		if err := blocks.LinkAt(w, tile.Pack(5, 4), c); err != nil {
			t.Fatalf("LinkAt failed: %v", err)
		}
	}
	for range 3 {
		w.Update()
	}
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	f := newFixture(t)
	src := world.New()
	f.populate(t, src)

	snap, err := Capture(src)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if len(snap.Buildings) != 4 || len(snap.Links) != 2 {
		t.Fatalf("Expected 4 buildings and 2 links, got %d and %d", len(snap.Buildings), len(snap.Links))
	}

	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	dst := world.New()
	if err := Restore(dst, decoded, f.lookup); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if dst.Tick() != src.Tick() {
		t.Errorf("Expected tick %d, got %d", src.Tick(), dst.Tick())
	}
	if dst.Len() != 4 {
		t.Fatalf("Expected 4 buildings, got %d", dst.Len())
	}

	b, _ := dst.Building(tile.Pack(4, 4))
	ud, ok := b.(*blocks.UnderdriveBuild)
	if !ok {
		t.Fatalf("Expected *UnderdriveBuild, got %T", b)
	}
	if ud.CurGear() != 2 {
		t.Errorf("Expected gear 2, got %d", ud.CurGear())
	}
	if ud.AniState() != blocks.StateSpinning {
		t.Errorf("Expected %q, got %q", blocks.StateSpinning, ud.AniState())
	}

	b, _ = dst.Building(tile.Pack(5, 4))
	host := b.(*blocks.StreamHostBuild)
	if host.ConnectedClients().Len() != 2 {
		t.Errorf("Expected 2 relinked clients, got %d", host.ConnectedClients().Len())
	}
	if host.AniState() != blocks.StateTransmitting {
		t.Errorf("Expected %q, got %q", blocks.StateTransmitting, host.AniState())
	}

	b, _ = dst.Building(tile.Pack(9, 6))
	if b.Team() != tile.TeamCrux {
		t.Errorf("Expected crux team, got %v", b.Team())
	}
	client := b.(*blocks.StreamClientBuild)
	if !client.ConnectedHosts().Contains(tile.Pack(5, 4)) {
		t.Error("Expected client to list its host again")
	}

	orig, _ := src.Building(tile.Pack(9, 4))
	got, _ := dst.Building(tile.Pack(9, 4))
	if a, b := orig.(*blocks.StreamClientBuild).Total(), got.(*blocks.StreamClientBuild).Total(); a != b {
		t.Errorf("Expected stored %v, got %v", a, b)
	}
}

func TestWriteReadFile(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	f.populate(t, w)
	snap, err := Capture(w)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "saves", "world.snap")
	if err := Write(path, snap); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if h.Version != Version || h.Tick != 3 {
		t.Errorf("Expected header {%d 3}, got %+v", Version, h)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got.Buildings) != len(snap.Buildings) {
		t.Errorf("Expected %d buildings, got %d", len(snap.Buildings), len(got.Buildings))
	}
}

func TestRestoreUnknownBlock(t *testing.T) {
	f := newFixture(t)
	snap := SnapshotV1{
		Header: Header{Version: Version, Tick: 7},
		Buildings: []BuildingV1{
			{Block: "mender", Pos: tile.Pack(0, 0)},
			{Block: blocks.StreamClientName, Pos: tile.Pack(1, 0)},
		},
	}
	w := world.New()
	err := Restore(w, snap, f.lookup)
	if err == nil {
		t.Fatal("Expected error for unknown block")
	}
	if w.Len() != 1 {
		t.Errorf("Expected known block still restored, got %d buildings", w.Len())
	}
}

func TestRestoreRejectsVersion(t *testing.T) {
	err := Restore(world.New(), SnapshotV1{Header: Header{Version: 99}}, registry.GetBlock)
	if !errors.Is(err, ErrVersion) {
		t.Errorf("Expected ErrVersion, got %v", err)
	}
}

func TestRestoreUnknownState(t *testing.T) {
	f := newFixture(t)
	snap := SnapshotV1{
		Header:    Header{Version: Version},
		Buildings: []BuildingV1{{Block: blocks.StreamHostName, Pos: tile.Pack(0, 0), State: "exploding"}},
	}
	w := world.New()
	if err := Restore(w, snap, f.lookup); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	b, _ := w.Building(tile.Pack(0, 0))
	if got := b.(*blocks.StreamHostBuild).AniState(); got != blocks.StateHostIdle {
		t.Errorf("Expected default state kept, got %q", got)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not a snapshot"))); err == nil {
		t.Error("Expected error decoding garbage")
	}
}
