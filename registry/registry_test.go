package registry

import (
	"testing"

	"github.com/lixenwraith/cyberio/tile"
	"github.com/lixenwraith/cyberio/world"
)

type namedType struct {
	name string
	tag  int
}

func (n namedType) Name() string { return n.name }
func (n namedType) Create(*world.World, tile.Pos, tile.Team) world.Building {
	return nil
}

func TestRegisterAndLookup(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	RegisterBlock(namedType{name: "b"})
	RegisterBlock(namedType{name: "a"})

	if _, ok := GetBlock("missing"); ok {
		t.Error("Expected missing block to be absent")
	}
	names := BlockNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Unexpected names %v", names)
	}
}

func TestRegisterReplaces(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	RegisterBlock(namedType{name: "x", tag: 1})
	RegisterBlock(namedType{name: "x", tag: 2})

	bt, ok := GetBlock("x")
	if !ok || bt.(namedType).tag != 2 {
		t.Errorf("Expected last registration to win, got %v", bt)
	}
}
