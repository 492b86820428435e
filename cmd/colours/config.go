package main

import (
	"github.com/noriah/colours/colour"
	"github.com/noriah/colours/dsp/window"
	"github.com/noriah/colours/input"
	"github.com/pkg/errors"
)

// Output modes
const (
	OutputTerm  = "term"
	OutputPrint = "print"
)

// Config is a temporary struct to define parameters
type config struct {
	// Backend is the backend name from list-backends
	backend string
	// Device is the device name from list-devices
	device string
	// SampleRate is the rate at which samples are read
	sampleRate float64
	// SampleSize is how many samples are read at once
	sampleSize int
	// FrameRate is the number of colours to compute every second
	frameRate int
	// ChannelCount is the number of channels we want to look at
	channelCount int
	// DecaySlots is how many past colours are blended
	decaySlots int
	// Gain scales every band before it is folded into a colour
	gain float64
	// Loudness weights bands with an equal-loudness contour
	loudness bool
	// Normalize makes band values independent of frame length
	normalize bool
	// Window is the window applied to every frame
	window string
	// Policy is what is dropped when analysis falls behind
	policy string
	// Use threaded processor
	useThreaded bool
	// Output is term or print
	output string
	// Spring eases the displayed colour
	spring bool
	// Spectrum draws the bands under the swatches
	spectrum bool
	// SmoothFactor smooths the spectrum strip (0-100)
	smoothFactor float64
	// Verbose turns on debug logging
	verbose bool

	// parsed by Sanitize
	windowKind  window.Kind
	inputPolicy input.Policy
}

// NewZeroConfig returns a zero config
// it is the "default"
func newZeroConfig() config {
	return config{
		sampleRate:   44100,
		sampleSize:   1024,
		frameRate:    60,
		channelCount: 1,
		decaySlots:   colour.DefaultDecaySlots,
		gain:         1,
		window:       "hann",
		policy:       input.DropOldest.String(),
		output:       OutputTerm,
		spring:       false,
		spectrum:     true,
		smoothFactor: 50,
	}
}

// Sanitize cleans things up
func (cfg *config) Sanitize() error {
	if cfg.sampleRate < float64(cfg.sampleSize) {
		return errors.New("sample rate lower than sample size")
	}

	if cfg.sampleSize < 4 {
		return errors.New("sample size too small (4+ required)")
	}

	switch {
	case cfg.channelCount > 2:
		return errors.New("too many channels (2 max)")

	case cfg.channelCount < 1:
		return errors.New("too few channels (1 min)")
	}

	if cfg.frameRate < 1 {
		cfg.frameRate = 1
	}

	switch {
	case cfg.smoothFactor > 99.99:
		cfg.smoothFactor = 0.9999
	case cfg.smoothFactor < 0.00001:
		cfg.smoothFactor = 0
	default:
		cfg.smoothFactor /= 100.0
	}

	if cfg.gain < 0 {
		return errors.New("gain must not be negative")
	}

	if cfg.decaySlots < colour.MinDecaySlots {
		cfg.decaySlots = colour.MinDecaySlots
	} else if cfg.decaySlots > colour.MaxDecaySlots {
		cfg.decaySlots = colour.MaxDecaySlots
	}

	var err error
	if cfg.windowKind, err = window.ParseKind(cfg.window); err != nil {
		return err
	}

	var ok bool
	if cfg.inputPolicy, ok = input.ParsePolicy(cfg.policy); !ok {
		return errors.Errorf("unknown drop policy %q (oldest or incoming)", cfg.policy)
	}

	switch cfg.output {
	case OutputTerm, OutputPrint:
	default:
		return errors.Errorf("unknown output %q (term or print)", cfg.output)
	}

	if cfg.backend == "" {
		cfg.backend = input.DefaultBackend()
	}

	return nil
}
