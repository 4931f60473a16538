package render

import "github.com/gdamore/tcell/v2"

var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)
	RgbLightBlue  = tcell.NewRGBColor(135, 206, 250)
	RgbPowerBar   = tcell.NewRGBColor(255, 211, 127)
	RgbHostPurple = tcell.NewRGBColor(172, 120, 255)
	RgbClientTeal = tcell.NewRGBColor(92, 214, 190)
	RgbIdleGray   = tcell.NewRGBColor(110, 110, 120)
	RgbStatusText = tcell.NewRGBColor(220, 220, 220)
)

// Styled returns the default style with fg over the shared background
func Styled(fg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg).Background(RgbBackground)
}
