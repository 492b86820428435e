package graphic

import (
	"os"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/noriah/colours/colour"
	"github.com/noriah/colours/dsp"
)

func newTestDisplay(t *testing.T, cfg Config) (*Display, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(20, 10)

	d := NewDisplay()
	if err := d.InitScreen(screen, cfg); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { d.Close() })

	return d, screen
}

func background(screen tcell.Screen, x, y int) (int32, int32, int32) {
	_, _, style, _ := screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg.RGB()
}

func TestWriteSwatches(t *testing.T) {
	d, screen := newTestDisplay(t, Config{})

	colours := []colour.Colour{{R: 255}, {G: 300, B: -4}}
	if err := d.Write(colours, nil); err != nil {
		t.Fatal(err)
	}

	if r, g, b := background(screen, 0, 0); r != 255 || g != 0 || b != 0 {
		t.Errorf("left swatch = %d,%d,%d", r, g, b)
	}

	if r, g, b := background(screen, 19, 9); r != 0 || g != 255 || b != 0 {
		t.Errorf("right swatch = %d,%d,%d", r, g, b)
	}

	if err := d.Write(nil, nil); err == nil {
		t.Error("write without channels succeeded")
	}
}

func TestWriteSpectrum(t *testing.T) {
	d, screen := newTestDisplay(t, Config{Spectrum: true})

	mags := make([]dsp.Magnitude, 20)
	mags[0].Value = 1000

	if err := d.Write([]colour.Colour{{B: 255}}, [][]dsp.Magnitude{mags}); err != nil {
		t.Fatal(err)
	}

	// swatch above the strip
	if _, _, b := background(screen, 5, 10-StripRows-1); b != 255 {
		t.Errorf("swatch blue = %d", b)
	}

	// the loud first band fills its column
	if r, _, _, _ := screen.GetContent(0, 9); r != DisplayBar {
		t.Errorf("first band bottom = %q", r)
	}

	// a silent band stays empty
	if r, _, _, _ := screen.GetContent(10, 9); r != DisplaySpace {
		t.Errorf("silent band bottom = %q", r)
	}
}

func TestSpringEases(t *testing.T) {
	d, screen := newTestDisplay(t, Config{Spring: true, FrameRate: 60})

	target := []colour.Colour{{R: 200}}

	if err := d.Write(target, nil); err != nil {
		t.Fatal(err)
	}

	if first, _, _ := background(screen, 0, 0); first >= 200 {
		t.Fatalf("first eased red = %d, want below 200", first)
	}

	for i := 0; i < 120; i++ {
		if err := d.Write(target, nil); err != nil {
			t.Fatal(err)
		}
	}

	if r, _, _ := background(screen, 0, 0); r < 195 || r > 200 {
		t.Errorf("settled red = %d, want ~200", r)
	}
}

func TestNormalizeTerminal(t *testing.T) {
	t.Setenv("TERM", "tmux-256color")
	t.Setenv("TERMINFO", "/tmp/terminfo")

	restore, err := normalizeTerminal()
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := os.LookupEnv("TERMINFO"); ok {
		t.Error("TERMINFO still set under tmux")
	}

	restore()

	if got := os.Getenv("TERMINFO"); got != "/tmp/terminfo" {
		t.Errorf("TERMINFO = %q after restore", got)
	}
}
