package main

import (
	"bytes"
	"testing"

	"github.com/noriah/colours/colour"
)

func TestRawOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewRawOutput(&buf, false)

	colours := []colour.Colour{{R: 255, G: 128.7}, {B: 400}}
	if err := out.Write(colours, nil); err != nil {
		t.Fatal(err)
	}

	if got, want := buf.String(), "255,128,  0 #ff8000    0,  0,255 #0000ff\n"; got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestRawOutputSwatch(t *testing.T) {
	var buf bytes.Buffer
	out := NewRawOutput(&buf, true)

	if err := out.Write([]colour.Colour{{R: 10, G: 20, B: 30}}, nil); err != nil {
		t.Fatal(err)
	}

	if !bytes.Contains(buf.Bytes(), []byte(" 10, 20, 30 #0a141e")) || !bytes.Contains(buf.Bytes(), []byte("      ")) {
		t.Errorf("line = %q", buf.String())
	}
}

func TestSanitize(t *testing.T) {
	cfg := newZeroConfig()
	cfg.backend = "sine"
	cfg.decaySlots = 100
	cfg.frameRate = 0

	if err := cfg.Sanitize(); err != nil {
		t.Fatal(err)
	}

	if cfg.decaySlots != colour.MaxDecaySlots || cfg.frameRate != 1 {
		t.Errorf("clamped to %d slots at %d fps", cfg.decaySlots, cfg.frameRate)
	}

	for name, mod := range map[string]func(*config){
		"channels": func(c *config) { c.channelCount = 3 },
		"window":   func(c *config) { c.window = "kaiser" },
		"policy":   func(c *config) { c.policy = "newest" },
		"output":   func(c *config) { c.output = "gui" },
		"gain":     func(c *config) { c.gain = -1 },
		"size":     func(c *config) { c.sampleSize = 2 },
	} {
		cfg := newZeroConfig()
		cfg.backend = "sine"
		mod(&cfg)

		if err := cfg.Sanitize(); err == nil {
			t.Errorf("%s: config accepted", name)
		}
	}
}
