// Package draw paints cells onto a terminal. A Surface is either raw ANSI
// output (local raw mode or an SSH session) or a tcell screen.
package draw

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a 24-bit color. The zero value is the terminal default.
type Color uint32

const (
	ColorDefault Color = 0
	rgbFlag      Color = 1 << 24
)

// RGB builds a color from components.
func RGB(r, g, b uint8) Color {
	return rgbFlag | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Valid reports whether c is an explicit color rather than the default.
func (c Color) Valid() bool {
	return c&rgbFlag != 0
}

// RGB returns the components. The default color reports white.
func (c Color) RGB() (r, g, b uint8) {
	if !c.Valid() {
		return 255, 255, 255
	}
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Scale multiplies brightness by f, clamped to [0, 1].
func (c Color) Scale(f float64) Color {
	return ColorDefault.Blend(c, f)
}

// Blend moves c toward o by t in [0, 1]. The default color blends as black.
func (c Color) Blend(o Color, t float64) Color {
	t = math.Max(0, math.Min(1, t))
	var r1, g1, b1 uint8
	if c.Valid() {
		r1, g1, b1 = c.RGB()
	}
	r2, g2, b2 := o.RGB()
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return RGB(mix(r1, r2), mix(g1, g2), mix(b1, b2))
}

// Style is a cell's foreground, background and weight.
type Style struct {
	Fg   Color
	Bg   Color
	Bold bool
}

// Palette maps style names (as used by models and effects) to colors.
type Palette map[string]Color

// DefaultPalette is the street-at-night color scheme.
var DefaultPalette = Palette{
	"player":     RGB(120, 220, 255),
	"projectile": RGB(255, 240, 140),
	"target":     RGB(255, 150, 40),
	"danger":     RGB(240, 60, 60),
	"critter":    RGB(180, 255, 120),
	"pickup":     RGB(255, 215, 0),
	"street":     RGB(90, 90, 110),
	"road":       RGB(35, 35, 45),
	"scenery":    RGB(110, 100, 150),
	"score":      RGB(255, 255, 255),
	"combo":      RGB(255, 120, 220),
	"warning":    RGB(255, 200, 60),
	"hud":        RGB(200, 200, 200),
	"title":      RGB(255, 150, 40),
	"fallback":   RGB(255, 0, 255),
}

// Color looks up name, falling back to the "fallback" entry.
func (p Palette) Color(name string) Color {
	if c, ok := p[name]; ok {
		return c
	}
	return p["fallback"]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
