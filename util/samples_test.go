package util

import "testing"

func TestSampleWindowPush(t *testing.T) {
	w := NewSampleWindow(4)

	if got := w.Snapshot(nil); len(got) != 0 {
		t.Fatalf("empty snapshot = %v", got)
	}

	for i := 1; i <= 3; i++ {
		w.Push(float32(i))
	}

	if got := w.Snapshot(nil); !equal(got, []float32{1, 2, 3}) {
		t.Errorf("snapshot = %v, want [1 2 3]", got)
	}

	for i := 4; i <= 10; i++ {
		w.Push(float32(i))
	}

	if w.Len() != 4 || w.Cap() != 4 {
		t.Errorf("len/cap = %d/%d, want 4/4", w.Len(), w.Cap())
	}

	if got := w.Snapshot(nil); !equal(got, []float32{7, 8, 9, 10}) {
		t.Errorf("snapshot = %v, want [7 8 9 10]", got)
	}
}

func TestSampleWindowWrite(t *testing.T) {
	for _, tc := range []struct {
		name   string
		writes [][]float32
		want   []float32
	}{
		{"partial", [][]float32{{1, 2}}, []float32{1, 2}},
		{"wrap", [][]float32{{1, 2, 3}, {4, 5, 6, 7}}, []float32{3, 4, 5, 6, 7}},
		{"exact", [][]float32{{1}, {2, 3, 4, 5, 6}}, []float32{2, 3, 4, 5, 6}},
		{"oversized", [][]float32{{1, 2}, {3, 4, 5, 6, 7, 8, 9, 10}}, []float32{6, 7, 8, 9, 10}},
		{"many small", [][]float32{{1, 2}, {3, 4}, {5, 6}, {7}}, []float32{3, 4, 5, 6, 7}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := NewSampleWindow(5)
			for _, s := range tc.writes {
				w.Write(s)
			}

			if got := w.Snapshot(nil); !equal(got, tc.want) {
				t.Errorf("snapshot = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSampleWindowMixed(t *testing.T) {
	a := NewSampleWindow(7)
	b := NewSampleWindow(7)

	for i := 0; i < 50; i++ {
		a.Push(float32(i))
	}

	for i := 0; i < 50; i += 3 {
		chunk := []float32{}
		for j := i; j < i+3 && j < 50; j++ {
			chunk = append(chunk, float32(j))
		}
		b.Write(chunk)
	}

	if ga, gb := a.Snapshot(nil), b.Snapshot(nil); !equal(ga, gb) {
		t.Errorf("push %v != write %v", ga, gb)
	}
}

func TestSampleWindowSnapshotReuse(t *testing.T) {
	w := NewSampleWindow(3)
	w.Write([]float32{1, 2, 3})

	dst := make([]float32, 0, 8)
	got := w.Snapshot(dst)

	if &got[0] != &dst[:1][0] {
		t.Error("snapshot did not reuse dst")
	}

	w.Reset()
	if w.Len() != 0 || len(w.Snapshot(got)) != 0 {
		t.Error("reset window is not empty")
	}
}

func equal(a, b []float32) bool {
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
