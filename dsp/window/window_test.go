package window

import (
	"math"
	"testing"
)

func TestHannCoefficients(t *testing.T) {
	for _, n := range []int{1, 2, 23, 1024, 36221} {
		coeffs := Coefficients(Hann, n)
		if len(coeffs) != n {
			t.Fatalf("len = %d, want %d", len(coeffs), n)
		}

		for i, c := range coeffs {
			s := math.Sin(math.Pi * float64(i) / float64(n))
			if want := s * s; math.Abs(c-want) > 1e-12 {
				t.Fatalf("n=%d: hann[%d] = %v, want %v", n, i, c, want)
			}
		}
	}
}

func TestRectangleCoefficients(t *testing.T) {
	for i, c := range Coefficients(KindRectangle.Function(), 16) {
		if c != 1 {
			t.Errorf("rect[%d] = %v", i, c)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, tc := range []struct {
		in    string
		want  Kind
		fails bool
	}{
		{"", KindHann, false},
		{"Hann", KindHann, false},
		{"none", KindRectangle, false},
		{"hamming", KindHamming, false},
		{"kaiser", KindRectangle, true},
	} {
		got, err := ParseKind(tc.in)
		if (err != nil) != tc.fails || got != tc.want {
			t.Errorf("ParseKind(%q) = %v, %v", tc.in, got, err)
		}
	}

	if KindHann.String() != "hann" || !KindHann.Apply() || KindRectangle.Apply() {
		t.Error("kind helpers disagree")
	}
}
