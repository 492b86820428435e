package util

import (
	"math"
	"testing"
)

func TestMovingWindow(t *testing.T) {
	mw := NewMovingWindow(3)

	mw.Update(1)
	mw.Update(2)
	mean, _ := mw.Update(3)

	if mean != 2 {
		t.Errorf("mean = %v, want 2", mean)
	}

	// evicts 1
	if mean, _ = mw.Update(7); mean != 4 {
		t.Errorf("mean = %v, want 4", mean)
	}

	if mw.Len() != 3 || mw.Cap() != 3 {
		t.Errorf("len/cap = %d/%d", mw.Len(), mw.Cap())
	}

	// drops 2 and 3
	if mean, sd := mw.Drop(2); mean != 7 || sd != 0 {
		t.Errorf("after drop = %v, %v, want 7, 0", mean, sd)
	}

	if mean, _ := mw.Drop(5); mean != 0 || mw.Len() != 0 {
		t.Errorf("after emptying = %v with %d values", mean, mw.Len())
	}

	mw.Update(5)
	if m, s := mw.Stats(); m != 5 || s != 0 || mw.Mean() != 5 || mw.StdDev() != 0 {
		t.Errorf("stats = %v, %v", m, s)
	}
}

func TestMovingWindowSpread(t *testing.T) {
	mw := NewMovingWindow(100)
	for i := 0; i < 100; i++ {
		mw.Update(10)
	}

	if _, sd := mw.Stats(); sd > 1.5 || math.IsNaN(sd) {
		t.Errorf("constant input has stddev %v", sd)
	}
}
