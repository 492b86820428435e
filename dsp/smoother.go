package dsp

import "math"

type SmootherConfig struct {
	Bands           int     // number of values per channel
	ChannelCount    int     // number of channels
	SmoothingFactor float64 // smoothing factor, 0 to 1
}

// Smoother blends every band with its previous value. It only feeds the
// display, the colours have their own decay.
type Smoother struct {
	values       [][]float64 // old values used for smoothing
	smoothFactor float64     // smothing factor
}

func NewSmoother(cfg SmootherConfig) *Smoother {
	sm := &Smoother{
		values: make([][]float64, cfg.ChannelCount),
	}

	for idx := range sm.values {
		sm.values[idx] = make([]float64, cfg.Bands)
	}

	sm.setSmoothing(cfg.SmoothingFactor)

	return sm
}

// SmoothBin smooths value, the new value of band idx of channel ch.
func (sm *Smoother) SmoothBin(ch, idx int, value float64) float64 {
	if math.IsNaN(value) {
		value = 0.0
	}

	existing := sm.values[ch][idx]

	value *= 1.0 - sm.smoothFactor
	value += existing * sm.smoothFactor

	sm.values[ch][idx] = value

	return value
}

// Smooth writes the smoothed values of mags into dst and returns it.
func (sm *Smoother) Smooth(ch int, mags []Magnitude, dst []Magnitude) []Magnitude {
	dst = append(dst[:0], mags...)
	for idx := range dst {
		dst[idx].Value = sm.SmoothBin(ch, idx, dst[idx].Value)
	}

	return dst
}

// Fits reports whether the smoother has room for channels of bands values.
func (sm *Smoother) Fits(channels, bands int) bool {
	return len(sm.values) == channels && (channels == 0 || len(sm.values[0]) == bands)
}

// SetSmoothing sets the smoothing parameters
func (sm *Smoother) setSmoothing(factor float64) {
	if factor <= 0.0 {
		sm.smoothFactor = 0
		return
	}

	if factor > 0.9999 {
		factor = 0.9999
	}

	sf := math.Pow(10.0, (1.0-factor)*(-25.0))

	// roughly one tick at 60 fps
	sm.smoothFactor = math.Pow(sf, 0.0167)
}
