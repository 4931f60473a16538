package liquid

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog([]Def{
		{Name: "water", Glyph: "≈", Color: "#596ab8"},
		{Name: "cryofluid", Color: "skyblue"},
	})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	water, ok := c.Get("water")
	if !ok {
		t.Fatal("Expected water in catalog")
	}
	if water.Glyph != '≈' {
		t.Errorf("Expected glyph '≈', got %q", water.Glyph)
	}
	if water.Color != tcell.NewHexColor(0x596ab8) {
		t.Errorf("Unexpected water color %v", water.Color)
	}

	cryo, _ := c.Get("cryofluid")
	if cryo.Glyph != '~' {
		t.Errorf("Expected default glyph, got %q", cryo.Glyph)
	}
	if len(c.All()) != 2 || c.All()[0].Name != "cryofluid" {
		t.Errorf("Unexpected All(): %v", c.All())
	}
}

func TestNewCatalogRejects(t *testing.T) {
	cases := map[string][]Def{
		"empty name": {{Name: ""}},
		"duplicate":  {{Name: "oil"}, {Name: "oil"}},
		"bad color":  {{Name: "slag", Color: "not-a-color"}},
	}
	for name, defs := range cases {
		if _, err := NewCatalog(defs); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
