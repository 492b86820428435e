// Package window provides Window Functions for singnal analysis
//
// See https://wikipedia.org/wiki/Window_function
package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Function is a function that will do window things for you
type Function func(buf []float64)

// Rectangle is just do nothing
func Rectangle(buf []float64) {
	// do nothing
}

// CosSum modifies the buffer to conform to a cosine sum window following a0
func CosSum(buf []float64, a0 float64) {
	var size = len(buf)
	var a1 = 1.0 - a0
	var coef = 2.0 * math.Pi / float64(size)
	for n := 0; n < size; n++ {
		buf[n] *= (a0 - a1*math.Cos(coef*float64(n)))
	}
}

// Hamming modifies the buffer to a Hamming window
func Hamming(buf []float64) {
	CosSum(buf, 25.0/46.0)
}

// Hann modifies the buffer to a Hann window.
//
// 0.5 - 0.5cos(2πn/N) is the same curve as sin²(πn/N).
func Hann(buf []float64) {
	CosSum(buf, 0.5)
}

// Coefficients returns the n coefficients of fn.
func Coefficients(fn Function, n int) []float64 {
	var buf = make([]float64, n)
	for i := range buf {
		buf[i] = 1
	}

	if fn != nil {
		fn(buf)
	}

	return buf
}

// Kind names a window a filter bank can apply to its frames.
type Kind int

// Window kinds
const (
	KindHann Kind = iota
	KindRectangle
	KindHamming
)

// Function returns the window function for k. Unknown kinds are rectangular.
func (k Kind) Function() Function {
	switch k {
	case KindHann:
		return Hann
	case KindHamming:
		return Hamming
	default:
		return Rectangle
	}
}

// Apply reports whether frames need to be multiplied by the window at all.
func (k Kind) Apply() bool {
	return k == KindHann || k == KindHamming
}

func (k Kind) String() string {
	switch k {
	case KindHann:
		return "hann"
	case KindRectangle:
		return "rectangle"
	case KindHamming:
		return "hamming"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a window name as printed by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "hann":
		return KindHann, nil
	case "rectangle", "rect", "none":
		return KindRectangle, nil
	case "hamming":
		return KindHamming, nil
	default:
		return KindRectangle, errors.Errorf("unknown window %q", s)
	}
}
