package dsp

import (
	"math"

	"github.com/noriah/colours/dsp/window"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Reference values the bank is tuned for. BaseN at ReferenceRate puts the
// lowest band at roughly 28 Hz.
const (
	ReferenceRate  = 44100.0
	ReferenceBaseN = 36221

	DefaultBandsPerOctave = 16
	DefaultOctaves        = 9
)

// BankConfig configures a filter bank. Zero fields take their defaults.
type BankConfig struct {
	SampleRate     float64
	BaseN          int // frame length of the lowest band
	Bin            float64
	BandsPerOctave int
	Octaves        int
	Window         window.Kind
	Loudness       *LoudnessCurve // nil disables loudness weighting

	// Normalize divides every magnitude by half the window sum, so a sine of
	// amplitude A at a band's frequency reads as A instead of growing with N.
	Normalize bool
}

func (cfg BankConfig) withDefaults() BankConfig {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = ReferenceRate
	}

	if cfg.BaseN == 0 {
		cfg.BaseN = int(math.Round(ReferenceBaseN * cfg.SampleRate / ReferenceRate))
	}

	if cfg.Bin == 0 {
		cfg.Bin = DefaultBin
	}

	if cfg.BandsPerOctave == 0 {
		cfg.BandsPerOctave = DefaultBandsPerOctave
	}

	if cfg.Octaves == 0 {
		cfg.Octaves = DefaultOctaves
	}

	return cfg
}

// Band is one fixed frequency of the bank.
type Band struct {
	frequency float64
	weight    float64
	scale     float64
	window    []float64 // nil for rectangular frames
	goertzel  Goertzel
}

// Frequency returns the target frequency in Hz.
func (b Band) Frequency() float64 { return b.frequency }

// N returns the frame length.
func (b Band) N() int { return b.goertzel.N() }

// Weight returns the loudness weight, 1 when weighting is off.
func (b Band) Weight() float64 { return b.weight }

// measure returns the magnitude of samples, a frame of N samples, using
// scratch (at least N long) for the windowed copy.
func (b Band) measure(samples []float32, scratch []float64) float64 {
	frame := scratch[:len(samples)]
	for i, s := range samples {
		frame[i] = float64(s)
	}

	if b.window != nil {
		floats.Mul(frame, b.window)
	}

	return b.goertzel.Magnitude(frame)
}

// Magnitude is the estimated loudness of one band.
type Magnitude struct {
	Frequency float64
	Value     float64
}

// Bank is an ordered set of constant-Q Goertzel bands. A Bank reuses an
// internal scratch buffer, so Process must not be called concurrently.
type Bank struct {
	cfg     BankConfig
	bands   []Band
	scratch []float64
}

// NewBank builds every band of cfg or fails without a partial bank.
func NewBank(cfg BankConfig) (*Bank, error) {
	cfg = cfg.withDefaults()

	switch {
	case cfg.SampleRate < 0 || math.IsNaN(cfg.SampleRate):
		return nil, errors.Errorf("invalid sample rate %v", cfg.SampleRate)
	case cfg.BaseN < 1:
		return nil, errors.Errorf("invalid base frame length %d", cfg.BaseN)
	case cfg.Bin <= 0:
		return nil, errors.Errorf("invalid bin %v", cfg.Bin)
	case cfg.BandsPerOctave < 1 || cfg.Octaves < 1:
		return nil, errors.Errorf("invalid band layout %d x %d", cfg.BandsPerOctave, cfg.Octaves)
	}

	var (
		count   = cfg.BandsPerOctave * cfg.Octaves
		base    = cfg.SampleRate / float64(cfg.BaseN) * cfg.Bin
		nyquist = cfg.SampleRate / 2
		windows = make(map[int][]float64)
		bands   = make([]Band, 0, count)
	)

	for g := 0; g < count; g++ {
		k := math.Pow(2, float64(g)/float64(cfg.BandsPerOctave))
		n := int(float64(cfg.BaseN) / k)
		f := k * base

		if n < 1 || float64(n) <= cfg.Bin {
			return nil, errors.Errorf("band %d: frame length %d too short for bin %v", g, n, cfg.Bin)
		}

		if f >= nyquist {
			return nil, errors.Errorf("band %d: %.1f Hz is not below nyquist (%.1f Hz)", g, f, nyquist)
		}

		band := Band{
			frequency: f,
			weight:    1,
			scale:     1,
			goertzel:  NewGoertzel(n, cfg.Bin),
		}

		if cfg.Loudness != nil {
			w, err := cfg.Loudness.Attenuation(f)
			if err != nil {
				return nil, errors.Wrapf(err, "band %d", g)
			}
			band.weight = w
		}

		sum := float64(n)
		if cfg.Window.Apply() {
			win, ok := windows[n]
			if !ok {
				win = window.Coefficients(cfg.Window.Function(), n)
				windows[n] = win
			}
			band.window = win
			sum = floats.Sum(win)
		}

		if cfg.Normalize {
			band.scale = 2 / sum
		}

		bands = append(bands, band)
	}

	return &Bank{
		cfg:     cfg,
		bands:   bands,
		scratch: make([]float64, bands[0].N()),
	}, nil
}

// Config returns the configuration with defaults filled in.
func (bk *Bank) Config() BankConfig { return bk.cfg }

// Bands returns the bands in ascending frequency order.
func (bk *Bank) Bands() []Band { return bk.bands }

// Len returns the number of bands.
func (bk *Bank) Len() int { return len(bk.bands) }

// MaxFrame returns the longest frame length, the smallest window that lets
// every band evaluate at least one frame.
func (bk *Bank) MaxFrame() int { return len(bk.scratch) }

// Process estimates every band over samples, the chronological contents of a
// sample window of which the last newSamples arrived since the previous call.
//
// Each band averages overlapping frames with a hop of half its frame length,
// anchored at the newest sample. Enough frames are taken to cover the new
// samples. Frames that would start before the window are skipped and a band
// without any frame reports 0.
//
// The result is written to out, which is reused if it has room for Len
// values.
func (bk *Bank) Process(samples []float32, newSamples int, out []Magnitude) []Magnitude {
	if cap(out) < len(bk.bands) {
		out = make([]Magnitude, len(bk.bands))
	}
	out = out[:len(bk.bands)]

	if newSamples < 0 {
		newSamples = 0
	}

	for i, band := range bk.bands {
		var (
			n    = band.N()
			hop  = max(n/2, 1)
			runs = newSamples/n*2 + 1
			sum  = 0.0
			done = 0
		)

		for r := 0; r < runs; r++ {
			end := len(samples) - r*hop
			start := end - n
			if start < 0 {
				break
			}

			sum += band.measure(samples[start:end], bk.scratch)
			done++
		}

		value := 0.0
		if done > 0 {
			value = sum / float64(done) * band.scale * band.weight
		}

		out[i] = Magnitude{
			Frequency: band.frequency,
			Value:     value,
		}
	}

	return out
}
