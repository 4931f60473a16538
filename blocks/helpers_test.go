package blocks

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cyberio/block"
	"github.com/lixenwraith/cyberio/config"
	"github.com/lixenwraith/cyberio/liquid"
	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

var animOn = block.Options{Animations: true}

func testEnv(t *testing.T) Env {
	t.Helper()
	cat, err := liquid.NewCatalog(config.Defaults().Liquids)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return Env{Liquids: cat}
}

func mustLiquid(t *testing.T, env Env, name string) *liquid.Liquid {
	t.Helper()
	l, ok := env.Liquids.Get(name)
	if !ok {
		t.Fatalf("Liquid %q not in catalog", name)
	}
	return l
}

func mustPlace(t *testing.T, w *world.World, b world.Building) {
	t.Helper()
	if err := w.Place(b); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
}

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func at(x, y int) tile.Pos {
	return tile.Pack(x, y)
}
