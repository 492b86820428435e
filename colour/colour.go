// Package colour turns band magnitudes into colours and smooths them over
// time.
package colour

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Colour is an RGB triple on a 0-255 scale. Values are not clamped, so
// intermediate sums may exceed the range.
type Colour struct {
	R, G, B float64
}

// Add returns c + o.
func (c Colour) Add(o Colour) Colour {
	return Colour{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Scale returns c with every channel multiplied by s.
func (c Colour) Scale(s float64) Colour {
	return Colour{c.R * s, c.G * s, c.B * s}
}

// Max returns the largest channel.
func (c Colour) Max() float64 {
	return math.Max(c.R, math.Max(c.G, c.B))
}

func clamp8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	return uint8(math.Min(255, v))
}

// RGB8 clamps every channel to 0-255 and truncates it.
func (c Colour) RGB8() (r, g, b uint8) {
	return clamp8(c.R), clamp8(c.G), clamp8(c.B)
}

// Colorful returns c clamped into a go-colorful colour.
func (c Colour) Colorful() colorful.Color {
	r, g, b := c.RGB8()
	return colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}
}

// Hex returns the clamped colour as #rrggbb.
func (c Colour) Hex() string {
	return c.Colorful().Hex()
}

// FromColorful converts a go-colorful colour to the 0-255 scale.
func FromColorful(c colorful.Color) Colour {
	return Colour{c.R * 255, c.G * 255, c.B * 255}
}

// Palette holds the colour of each band, repeating every Len bands.
type Palette struct {
	colours []Colour
}

// PaletteSize is the size of the default palette, one hue per band of an
// octave.
const PaletteSize = 16

// NewPalette returns a palette of the given colours.
func NewPalette(colours ...Colour) (Palette, error) {
	if len(colours) == 0 {
		return Palette{}, errors.New("palette needs at least one colour")
	}

	return Palette{colours: append([]Colour(nil), colours...)}, nil
}

// DefaultPalette returns PaletteSize saturated hues evenly spaced around the
// colour wheel, starting at red.
func DefaultPalette() Palette {
	colours := make([]Colour, PaletteSize)
	for i := range colours {
		hue := float64(i) * 360 / PaletteSize
		colours[i] = FromColorful(colorful.Hsv(hue, 1, 1))
	}

	return Palette{colours: colours}
}

// Len returns the number of colours.
func (p Palette) Len() int {
	return len(p.colours)
}

// At returns the colour of band i.
func (p Palette) At(i int) Colour {
	return p.colours[i%len(p.colours)]
}
