package sine

import (
	"math"
	"testing"

	"github.com/noriah/colours/input"
)

func TestGeneratorPeriod(t *testing.T) {
	// 1 kHz at 8 kHz repeats every 8 samples.
	g := NewGenerator(1000, 8000, 1)

	first := make([]input.Sample, 8)
	for i := range first {
		first[i] = g.Next()
	}

	if first[0] != 0 {
		t.Errorf("first sample = %v, want 0", first[0])
	}

	if math.Abs(float64(first[2])-1) > 1e-6 {
		t.Errorf("quarter period = %v, want 1", first[2])
	}

	for i := range first {
		if v := g.Next(); math.Abs(float64(v-first[i])) > 1e-5 {
			t.Errorf("sample %d of second period = %v, want %v", i, v, first[i])
		}
	}
}

func TestGeneratorFill(t *testing.T) {
	g := NewGenerator(440, 44100, 0.5)
	buf := make([]input.Sample, 9)

	if n := g.Fill(buf, 2); n != 8 {
		t.Fatalf("Fill = %d, want 8", n)
	}

	for f := 0; f < 4; f++ {
		if buf[2*f] != buf[2*f+1] {
			t.Errorf("frame %d differs between channels: %v", f, buf[2*f:2*f+2])
		}
	}
}

func TestBackendRejectsNyquist(t *testing.T) {
	cfg := input.SessionConfig{Device: Device(30000), FrameSize: 1, SampleSize: 64, SampleRate: 44100}
	if _, err := (Backend{}).Start(cfg); err == nil {
		t.Error("started a sine above nyquist")
	}
}

func TestDeviceString(t *testing.T) {
	if s := Device(440).String(); s != "440" {
		t.Errorf("String = %q", s)
	}

	if s := Device(27.5).String(); s != "27.5" {
		t.Errorf("String = %q", s)
	}
}
