package appkit

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Color is an RGBA color in the 0..1 range, the shape NSColor setters take.
type Color struct {
	Red   float64
	Green float64
	Blue  float64
	Alpha float64
}

// RGBA returns an opaque color.
func RGBA(r, g, b, a float64) Color {
	return Color{Red: r, Green: g, Blue: b, Alpha: a}
}

// FromRGBA converts a stdlib color into a Color.
func FromRGBA(c color.RGBA) Color {
	return Color{
		Red:   float64(c.R) / 255,
		Green: float64(c.G) / 255,
		Blue:  float64(c.B) / 255,
		Alpha: float64(c.A) / 255,
	}
}

// ColorNamed resolves an SVG 1.1 color name ("rebeccapurple", "steelblue").
// The second return is false for unknown names.
func ColorNamed(name string) (Color, bool) {
	c, ok := colornames.Map[name]
	if !ok {
		return Color{}, false
	}
	return FromRGBA(c), true
}

// Common colors.
var (
	Black       = Color{Alpha: 1}
	White       = Color{Red: 1, Green: 1, Blue: 1, Alpha: 1}
	Clear       = Color{}
	SystemRed   = Color{Red: 1, Alpha: 1}
	SystemGreen = Color{Green: 1, Alpha: 1}
	SystemBlue  = Color{Blue: 1, Alpha: 1}
)
