package render

import (
	"sort"

	"github.com/gdamore/tcell/v2"
)

// Priority orders layers within a frame, lower draws first
type Priority int

const (
	PriorityWorld   Priority = 100
	PriorityOverlay Priority = 500
	PriorityUI      Priority = 900
)

// Layer is one draw pass over the canvas
type Layer func(c Canvas)

type layerEntry struct {
	layer    Layer
	priority Priority
	index    int
}

// Frame composes registered layers onto a tcell screen once per render tick
type Frame struct {
	screen tcell.Screen
	layers []layerEntry
}

// NewFrame creates a frame bound to screen
func NewFrame(screen tcell.Screen) *Frame {
	return &Frame{screen: screen, layers: make([]layerEntry, 0, 4)}
}

// Register adds a layer at priority; equal priorities keep registration order
func (f *Frame) Register(l Layer, p Priority) {
	f.layers = append(f.layers, layerEntry{layer: l, priority: p, index: len(f.layers)})
	sort.SliceStable(f.layers, func(i, j int) bool {
		return f.layers[i].priority < f.layers[j].priority
	})
}

// Render clears the screen, runs every layer and shows the result
func (f *Frame) Render() {
	f.screen.Fill(' ', tcell.StyleDefault.Background(RgbBackground))
	for _, e := range f.layers {
		e.layer(f.screen)
	}
	f.screen.Show()
}
