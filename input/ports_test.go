package input

import "testing"

func TestPortsRegisterAndSeal(t *testing.T) {
	ports := NewPorts(PortsConfig{SampleSize: 256})

	left, err := ports.Register("left")
	if err != nil {
		t.Fatalf("register left: %v", err)
	}

	right, err := ports.Register("right")
	if err != nil {
		t.Fatalf("register right: %v", err)
	}

	if _, err := ports.Register("left"); err == nil {
		t.Error("registering a duplicate name succeeded")
	}

	if left.Cap() != 1024 {
		t.Errorf("capacity = %d, want 1024", left.Cap())
	}

	cb, err := ports.Seal()
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	if cb.Channels() != 2 {
		t.Errorf("callback channels = %d, want 2", cb.Channels())
	}

	if _, err := ports.Register("late"); err == nil {
		t.Error("register after seal succeeded")
	}

	if _, err := ports.Seal(); err == nil {
		t.Error("second seal succeeded")
	}

	cb.ProcessInterleaved([]Sample{1, -1, 2, -2, 3, -3, 4})

	l := left.Drain(nil)
	r := right.Drain(nil)

	if want := []Sample{1, 2, 3, 4}; !equal(l, want) {
		t.Errorf("left = %v, want %v", l, want)
	}

	if want := []Sample{-1, -2, -3}; !equal(r, want) {
		t.Errorf("right = %v, want %v", r, want)
	}

	cb.Process([][]Sample{{5, 6}, {-5, -6}, {99}})

	if l = left.Drain(l[:0]); !equal(l, []Sample{5, 6}) {
		t.Errorf("left = %v, want [5 6]", l)
	}

	if r = right.Drain(r[:0]); !equal(r, []Sample{-5, -6}) {
		t.Errorf("right = %v, want [-5 -6]", r)
	}
}

func TestPortsSealEmpty(t *testing.T) {
	if _, err := NewPorts(PortsConfig{}).Seal(); err == nil {
		t.Error("sealing without ports succeeded")
	}
}

func TestEnsureConfig(t *testing.T) {
	ports := NewPorts(PortsConfig{SampleSize: 8})
	if _, err := ports.Register("mono"); err != nil {
		t.Fatal(err)
	}

	cb, err := ports.Seal()
	if err != nil {
		t.Fatal(err)
	}

	if !EnsureConfig(SessionConfig{FrameSize: 1}, cb) {
		t.Error("mono config rejected")
	}

	if EnsureConfig(SessionConfig{FrameSize: 2}, cb) {
		t.Error("stereo config accepted for a mono callback")
	}
}

func equal(a, b []Sample) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
