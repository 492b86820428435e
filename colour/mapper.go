package colour

import (
	"github.com/noriah/colours/dsp"
)

// DefaultCeiling is the largest channel value a folded colour may have.
const DefaultCeiling = 255.0

// Mapper folds a spectrum into one colour.
type Mapper struct {
	Palette Palette
	Gain    float64
	Ceiling float64 // 0 means DefaultCeiling
}

// NewMapper returns a mapper with unit gain and the default ceiling.
func NewMapper(p Palette) Mapper {
	return Mapper{
		Palette: p,
		Gain:    1,
		Ceiling: DefaultCeiling,
	}
}

// Fold sums every magnitude times its palette colour. If the brightest
// channel ends up above the ceiling, the whole colour is scaled down so the
// hue is kept.
func (m Mapper) Fold(mags []dsp.Magnitude) Colour {
	var out Colour

	if m.Palette.Len() == 0 {
		return out
	}

	for i, mag := range mags {
		out = out.Add(m.Palette.At(i).Scale(mag.Value * m.Gain))
	}

	ceiling := m.Ceiling
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	if peak := out.Max(); peak > ceiling {
		out = out.Scale(ceiling / peak)
	}

	return out
}
