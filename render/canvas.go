package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// Canvas is the draw target handed to building and state draw functions
// tcell.Screen satisfies it, so a frame can draw straight to the terminal
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Put writes one cell, silently clipping out-of-bounds writes
func Put(c Canvas, x, y int, r rune, style tcell.Style) {
	w, h := c.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.SetContent(x, y, r, nil, style)
}

// Text writes s left to right starting at (x, y)
func Text(c Canvas, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		Put(c, x, y, r, style)
		x++
	}
}

// Line draws a straight line between two cells, endpoints excluded
func Line(c Canvas, x0, y0, x1, y1 int, r rune, style tcell.Style) {
	dx := x1 - x0
	dy := y1 - y0
	steps := max(abs(dx), abs(dy))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(float64(dx)*t))
		y := y0 + int(math.Round(float64(dy)*t))
		Put(c, x, y, r, style)
	}
}

// DashCircle draws an outline of alternating dashes around (cx, cy)
// Radius is in tiles; phase rotates the dash pattern
func DashCircle(c Canvas, cx, cy int, radius, phase float64, style tcell.Style) {
	if radius < 1 {
		return
	}
	segments := int(math.Max(8, math.Ceil(radius*2*math.Pi)))
	for i := 0; i < segments; i++ {
		if i%2 == 1 {
			continue
		}
		a := phase + 2*math.Pi*float64(i)/float64(segments)
		x := cx + int(math.Round(math.Cos(a)*radius))
		y := cy + int(math.Round(math.Sin(a)*radius))
		Put(c, x, y, '·', style)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
