package dsp

import "math"

// DefaultBin is the DFT bin every band measures. Pinning the bin and varying
// the frame length keeps the relative bandwidth of all bands equal.
const DefaultBin = 23

// Goertzel measures the energy of a single DFT bin over frames of exactly N
// samples.
type Goertzel struct {
	n     int
	bin   float64
	coeff float64
	cos   float64
	sin   float64
}

// NewGoertzel returns an estimator for bin k of an n point frame.
func NewGoertzel(n int, k float64) Goertzel {
	w := 2 * math.Pi * k / float64(n)

	return Goertzel{
		n:     n,
		bin:   k,
		coeff: 2 * math.Cos(w),
		cos:   math.Cos(w),
		sin:   math.Sin(w),
	}
}

// N returns the frame length.
func (g Goertzel) N() int {
	return g.n
}

// Coeff returns 2cos(2πk/N).
func (g Goertzel) Coeff() float64 {
	return g.coeff
}

func (g Goertzel) run(frame []float64) (q1, q2 float64) {
	if len(frame) != g.n {
		panic("dsp: goertzel frame length mismatch")
	}

	for _, x := range frame {
		q1, q2 = g.coeff*q1-q2+x, q1
	}

	return q1, q2
}

// MagnitudeSquared returns the squared bin magnitude of frame.
func (g Goertzel) MagnitudeSquared(frame []float64) float64 {
	q1, q2 := g.run(frame)

	m := q1*q1 + q2*q2 - q1*q2*g.coeff
	if m < 0 {
		return 0
	}

	return m
}

// Magnitude returns the bin magnitude of frame. It panics if len(frame) is
// not N.
func (g Goertzel) Magnitude(frame []float64) float64 {
	return math.Sqrt(g.MagnitudeSquared(frame))
}

// Components returns the real and imaginary parts of the bin.
func (g Goertzel) Components(frame []float64) (re, im float64) {
	q1, q2 := g.run(frame)
	return q1 - q2*g.cos, q2 * g.sin
}
