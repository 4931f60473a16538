package liquid

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Liquid is an opaque resource kind moved over stream links
// Compared by pointer; the catalog hands out one value per name
type Liquid struct {
	Name  string
	Glyph rune
	Color tcell.Color
}

func (l *Liquid) String() string {
	return l.Name
}

// Def is the config form of a liquid
type Def struct {
	Name  string `yaml:"name"`
	Glyph string `yaml:"glyph"`
	Color string `yaml:"color"`
}

// Catalog indexes liquids by name
type Catalog struct {
	byName map[string]*Liquid
}

// NewCatalog builds a catalog, rejecting empty and duplicate names
func NewCatalog(defs []Def) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Liquid, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return nil, errors.New("liquid: empty name")
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("liquid %s: duplicate name", d.Name)
		}
		color := tcell.GetColor(d.Color)
		if d.Color != "" && color == tcell.ColorDefault {
			return nil, fmt.Errorf("liquid %s: bad color %q", d.Name, d.Color)
		}
		glyph := '~'
		if d.Glyph != "" {
			glyph, _ = utf8.DecodeRuneInString(d.Glyph)
		}
		c.byName[d.Name] = &Liquid{Name: d.Name, Glyph: glyph, Color: color}
	}
	return c, nil
}

// Get returns the liquid named name
func (c *Catalog) Get(name string) (*Liquid, bool) {
	l, ok := c.byName[name]
	return l, ok
}

// All returns every liquid sorted by name
func (c *Catalog) All() []*Liquid {
	out := make([]*Liquid, 0, len(c.byName))
	for _, l := range c.byName {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
