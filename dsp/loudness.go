package dsp

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"
)

// ControlPoint is one knot of a LoudnessCurve.
type ControlPoint struct {
	Frequency float64
	Gain      float64
}

// LoudnessCurve attenuates bands the ear is less sensitive to. Gains are
// interpolated linearly over log-frequency between control points.
type LoudnessCurve struct {
	logFreqs []float64
	gains    []float64
	pl       interp.PiecewiseLinear
}

// loudnessPhon is a 40 phon equal-loudness contour (ISO 226) in dB SPL.
var loudnessPhon = [...][2]float64{
	{20, 99.85}, {25, 93.94}, {31.5, 88.17}, {40, 82.63}, {50, 77.78},
	{63, 73.08}, {80, 68.48}, {100, 64.37}, {125, 60.59}, {160, 56.70},
	{200, 53.41}, {250, 50.40}, {315, 47.58}, {400, 44.98}, {500, 43.05},
	{630, 41.34}, {800, 40.06}, {1000, 40.01}, {1250, 41.82}, {1600, 42.51},
	{2000, 39.23}, {2500, 36.51}, {3150, 35.61}, {4000, 36.65}, {5000, 40.01},
	{6300, 45.83}, {8000, 51.80}, {10000, 54.28}, {12500, 51.49}, {16000, 58.0},
	{20000, 70.0},
}

// DefaultLoudness returns the 40 phon contour from 20 Hz to 20 kHz as linear
// gain relative to 1 kHz.
func DefaultLoudness() *LoudnessCurve {
	points := make([]ControlPoint, len(loudnessPhon))
	for i, p := range loudnessPhon {
		points[i] = ControlPoint{
			Frequency: p[0],
			Gain:      math.Pow(10, (40-p[1])/20),
		}
	}

	c, err := NewLoudnessCurve(points)
	if err != nil {
		panic(err)
	}

	return c
}

// NewLoudnessCurve builds a curve from at least two control points with
// strictly ascending positive frequencies.
func NewLoudnessCurve(points []ControlPoint) (*LoudnessCurve, error) {
	if len(points) < 2 {
		return nil, errors.Errorf("loudness curve needs at least 2 points, got %d", len(points))
	}

	c := &LoudnessCurve{
		logFreqs: make([]float64, len(points)),
		gains:    make([]float64, len(points)),
	}

	for i, p := range points {
		if p.Frequency <= 0 || math.IsNaN(p.Frequency) {
			return nil, errors.Errorf("loudness point %d: invalid frequency %v", i, p.Frequency)
		}

		if p.Gain < 0 || math.IsNaN(p.Gain) || math.IsInf(p.Gain, 0) {
			return nil, errors.Errorf("loudness point %d: invalid gain %v", i, p.Gain)
		}

		c.logFreqs[i] = math.Log(p.Frequency)
		c.gains[i] = p.Gain

		if i > 0 && c.logFreqs[i] <= c.logFreqs[i-1] {
			return nil, errors.Errorf("loudness point %d: frequency %v is not ascending", i, p.Frequency)
		}
	}

	if err := c.pl.Fit(c.logFreqs, c.gains); err != nil {
		return nil, errors.Wrap(err, "failed to fit loudness curve")
	}

	return c, nil
}

// Range returns the lowest and highest frequency of the curve.
func (c *LoudnessCurve) Range() (lo, hi float64) {
	return math.Exp(c.logFreqs[0]), math.Exp(c.logFreqs[len(c.logFreqs)-1])
}

// Attenuation returns the gain at f. It fails when f is outside the curve.
func (c *LoudnessCurve) Attenuation(f float64) (float64, error) {
	if f <= 0 || math.IsNaN(f) {
		return 0, errors.Errorf("invalid frequency %v", f)
	}

	x := math.Log(f)
	last := len(c.logFreqs) - 1

	// small tolerance so the exp/log round trip of Range stays inside
	const eps = 1e-12
	if x < c.logFreqs[0]-eps || x > c.logFreqs[last]+eps {
		lo, hi := c.Range()
		return 0, errors.Errorf("frequency %.2f Hz outside loudness curve [%.2f, %.2f]", f, lo, hi)
	}

	i := sort.SearchFloat64s(c.logFreqs, x)
	for _, k := range [2]int{i - 1, i} {
		if k >= 0 && k <= last && math.Abs(c.logFreqs[k]-x) <= eps {
			return c.gains[k], nil
		}
	}

	switch {
	case x <= c.logFreqs[0]:
		return c.gains[0], nil
	case x >= c.logFreqs[last]:
		return c.gains[last], nil
	}

	return c.pl.Predict(x), nil
}
