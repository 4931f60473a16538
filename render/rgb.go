package render

import "github.com/gdamore/tcell/v2"

// RGB stores explicit 8-bit color channels for blending outside tcell
type RGB struct {
	R, G, B uint8
}

// ToRGB converts a tcell color; ColorDefault maps to the shared background
func ToRGB(c tcell.Color) RGB {
	if c == tcell.ColorDefault {
		c = RgbBackground
	}
	r, g, b := c.RGB()
	return RGB{uint8(r), uint8(g), uint8(b)}
}

// Color converts back to a tcell color
func (c RGB) Color() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (dst RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(dst.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(dst.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(dst.B)*inv),
	}
}

// Scale multiplies all channels by factor
func (c RGB) Scale(factor float64) RGB {
	return RGB{
		R: clamp(float64(c.R) * factor),
		G: clamp(float64(c.G) * factor),
		B: clamp(float64(c.B) * factor),
	}
}

// Fade blends fg over the background at alpha
func Fade(fg tcell.Color, alpha float64) tcell.Color {
	return ToRGB(RgbBackground).Blend(ToRGB(fg), alpha).Color()
}

// Lerp interpolates between two colors; t=0 returns a, t=1 returns b
func Lerp(a, b tcell.Color, t float64) tcell.Color {
	return ToRGB(a).Blend(ToRGB(b), t).Color()
}

func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}
