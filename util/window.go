package util

import (
	"math"
)

// MovingWindow keeps running statistics over the last few values it saw.
//
// Values live in a ring. The sum and the sum of squares are updated on every
// insert and removal so Stats is O(1).
type MovingWindow struct {
	ring  []float64
	first int // index of the oldest value

	length int

	sumSq  float64
	stddev float64

	sum     float64
	average float64
}

// NewMovingWindow returns a new moving window.
func NewMovingWindow(size int) *MovingWindow {
	if size < 1 {
		size = 1
	}

	return &MovingWindow{ring: make([]float64, size)}
}

func (mw *MovingWindow) calcFinal() (float64, float64) {
	if mw.length > 0 {
		mw.average = mw.sum / float64(mw.length)
	} else {
		mw.average = 0
	}

	if mw.length > 1 {
		// okay so this came from dpayne/cli-visualizer
		mw.stddev = (mw.sumSq / float64(mw.length-1)) - (mw.average * mw.average)
		mw.stddev = math.Sqrt(math.Abs(mw.stddev))
	} else {
		mw.stddev = 0
	}

	return mw.average, mw.stddev
}

// Update adds a value, evicting the oldest one when full.
func (mw *MovingWindow) Update(value float64) (float64, float64) {
	size := len(mw.ring)

	if mw.length < size {
		mw.ring[(mw.first+mw.length)%size] = value
		mw.length++
	} else {
		old := mw.ring[mw.first]
		mw.sum -= old
		mw.sumSq -= old * old

		mw.ring[mw.first] = value
		mw.first = (mw.first + 1) % size
	}

	mw.sum += value
	mw.sumSq += value * value

	return mw.calcFinal()
}

// Drop removes count of the oldest values from the window
func (mw *MovingWindow) Drop(count int) (float64, float64) {
	for count > 0 && mw.length > 0 {
		old := mw.ring[mw.first]
		mw.sum -= old
		mw.sumSq -= old * old

		mw.first = (mw.first + 1) % len(mw.ring)
		mw.length--
		count--
	}

	// just clear it so we dont have a rounding issue
	if mw.length < 1 {
		mw.sum = 0
		mw.sumSq = 0
	}

	return mw.calcFinal()
}

// Len returns how many items in the window
func (mw *MovingWindow) Len() int {
	return mw.length
}

// Cap returns max size of window
func (mw *MovingWindow) Cap() int {
	return len(mw.ring)
}

// Mean is the moving window average
func (mw *MovingWindow) Mean() float64 {
	return mw.average
}

// StdDev is the moving average std
func (mw *MovingWindow) StdDev() float64 {
	return mw.stddev
}

// Stats returns the statistics of this window
func (mw *MovingWindow) Stats() (float64, float64) {
	return mw.average, mw.stddev
}
