package blocks

import (
	"testing"

	"github.com/lixenwraith/cyberio/config"
	"github.com/lixenwraith/cyberio/registry"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

func TestLoadRegistersBlocks(t *testing.T) {
	registry.Reset()
	t.Cleanup(registry.Reset)

	set, err := Load(config.Defaults(), testEnv(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !set.Underdrive.Animates() || !set.Host.Animates() || !set.Client.Animates() {
		t.Error("Expected every block to animate with default config")
	}

	names := registry.BlockNames()
	want := []string{StreamClientName, StreamHostName, UnderdriveName}
	if len(names) != len(want) {
		t.Fatalf("Expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, names)
		}
	}

	bt, ok := registry.GetBlock(StreamHostName)
	if !ok {
		t.Fatal("Expected stream host registered")
	}
	b := bt.Create(world.New(), tile.Pack(3, 4), tile.TeamCrux)
	if _, ok := b.(*StreamHostBuild); !ok {
		t.Errorf("Expected *StreamHostBuild, got %T", b)
	}
	if b.BlockName() != StreamHostName || b.Team() != tile.TeamCrux {
		t.Errorf("Expected %s on crux, got %s on %v", StreamHostName, b.BlockName(), b.Team())
	}
}

func TestLoadWithoutAnimations(t *testing.T) {
	registry.Reset()
	t.Cleanup(registry.Reset)

	cfg := config.Defaults()
	cfg.Animations = false
	set, err := Load(cfg, testEnv(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if set.Underdrive.Animates() || set.Host.Animates() || set.Client.Animates() {
		t.Error("Expected no block to animate")
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	registry.Reset()
	t.Cleanup(registry.Reset)

	cfg := config.Defaults()
	cfg.Underdrive.Attenuation = "quadratic"
	if _, err := Load(cfg, testEnv(t)); err == nil {
		t.Fatal("Expected error for bad attenuation")
	}
	if len(registry.BlockNames()) != 0 {
		t.Error("Expected nothing registered after a failed load")
	}
}

func TestLinkAtMissingBuildings(t *testing.T) {
	w := world.New()
	if err := LinkAt(w, tile.Pack(0, 0), tile.Pack(1, 0)); err == nil {
		t.Error("Expected error linking empty tiles")
	}
}
