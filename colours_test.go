package colours

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/noriah/colours/colour"
	"github.com/noriah/colours/dsp"

	_ "github.com/noriah/colours/input/sine"
)

type testOutput struct {
	mu     sync.Mutex
	writes int
	last   []colour.Colour
}

func (tO *testOutput) Write(colours []colour.Colour, mags [][]dsp.Magnitude) error {
	tO.mu.Lock()
	defer tO.mu.Unlock()

	tO.writes++
	tO.last = append(tO.last[:0], colours...)
	return nil
}

func TestValidate(t *testing.T) {
	for name, mod := range map[string]func(*Config){
		"rate below size":  func(c *Config) { c.SampleRate = 100 },
		"tiny size":        func(c *Config) { c.SampleSize = 2 },
		"three channels":   func(c *Config) { c.ChannelCount = 3 },
		"no channels":      func(c *Config) { c.ChannelCount = 0 },
		"huge size":        func(c *Config) { c.SampleSize, c.SampleRate = MaxSampleSize+1, 1e6 },
		"size below tick":  func(c *Config) { c.SampleSize, c.ProcessRate = 64, 10 },
		"few decay slots":  func(c *Config) { c.DecaySlots = 4 },
		"many decay slots": func(c *Config) { c.DecaySlots = 64 },
	} {
		cfg := NewZeroConfig()
		mod(&cfg)

		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: config accepted", name)
		}
	}

	cfg := NewZeroConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero config: %v", err)
	}
}

func TestChannelNames(t *testing.T) {
	if n := ChannelNames(1); len(n) != 1 || n[0] != "mono" {
		t.Errorf("mono names = %v", n)
	}

	if n := ChannelNames(2); len(n) != 2 || n[0] != "left" || n[1] != "right" {
		t.Errorf("stereo names = %v", n)
	}
}

func TestRunSine(t *testing.T) {
	for _, threaded := range []bool{false, true} {
		out := &testOutput{}

		var setup, cleanup bool

		cfg := NewZeroConfig()
		cfg.Backend = "sine"
		cfg.Device = "440"
		cfg.ChannelCount = 2
		cfg.UseThreaded = threaded
		cfg.Output = out
		cfg.SetupFunc = func() error { setup = true; return nil }
		cfg.CleanupFunc = func() error { cleanup = true; return nil }

		ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
		err := Run(&cfg, ctx)
		cancel()

		if err != nil {
			t.Fatalf("threaded=%v: %v", threaded, err)
		}

		if !setup || !cleanup {
			t.Errorf("threaded=%v: setup %v, cleanup %v", threaded, setup, cleanup)
		}

		out.mu.Lock()
		if out.writes < 10 || len(out.last) != 2 {
			t.Errorf("threaded=%v: %d writes of %v", threaded, out.writes, out.last)
		} else if out.last[0].Max() == 0 {
			t.Errorf("threaded=%v: a tone gave black", threaded)
		}
		out.mu.Unlock()
	}
}

func TestRunUnknownBackend(t *testing.T) {
	cfg := NewZeroConfig()
	cfg.Backend = "nope"

	if err := Run(&cfg, context.Background()); err == nil {
		t.Error("unknown backend accepted")
	}
}
