// Package sine is a synthetic input that plays a sine wave. It is useful to
// check a setup without any audio hardware.
package sine

import (
	"context"
	"math"
	"strconv"

	"github.com/noriah/colours/input"
	"github.com/noriah/colours/input/common/timer"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("sine", Backend{})
}

// Amplitude is the peak value of the generated wave.
const Amplitude = 0.5

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

// Devices lists the A of every octave the filter bank covers.
func (b Backend) Devices() ([]input.Device, error) {
	devices := make([]input.Device, 0, 9)
	for f := 55.0; f <= 14080; f *= 2 {
		devices = append(devices, Device(f))
	}

	return devices, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return Device(440), nil
}

// ParseDevice accepts any frequency in Hz.
func (b Backend) ParseDevice(name string) (input.Device, error) {
	f, err := strconv.ParseFloat(name, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid frequency %q", name)
	}

	return Device(f), nil
}

func (b Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(Device)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	if float64(dv) <= 0 || float64(dv) >= cfg.SampleRate/2 {
		return nil, errors.Errorf("frequency %v out of range for rate %v", float64(dv), cfg.SampleRate)
	}

	return NewSession(float64(dv), cfg), nil
}

// Device is the frequency of the generated wave in Hz.
type Device float64

func (d Device) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

// Generator produces a sine wave one sample at a time.
type Generator struct {
	step  float64
	phase float64
	amp   float64
}

// NewGenerator returns a generator of frequency freq at the given rate.
func NewGenerator(freq, rate, amp float64) *Generator {
	return &Generator{
		step: 2 * math.Pi * freq / rate,
		amp:  amp,
	}
}

// Next returns the next sample.
func (g *Generator) Next() input.Sample {
	v := g.amp * math.Sin(g.phase)

	g.phase += g.step
	if g.phase >= 2*math.Pi {
		g.phase -= 2 * math.Pi
	}

	return input.Sample(v)
}

// Fill writes len(buf)/channels frames into buf, the same value on every
// channel of a frame.
func (g *Generator) Fill(buf []input.Sample, channels int) int {
	frames := len(buf) / channels
	for f := 0; f < frames; f++ {
		v := g.Next()
		for ch := 0; ch < channels; ch++ {
			buf[f*channels+ch] = v
		}
	}

	return frames * channels
}

type Session struct {
	cfg input.SessionConfig
	gen *Generator
}

func NewSession(freq float64, cfg input.SessionConfig) *Session {
	return &Session{
		cfg: cfg,
		gen: NewGenerator(freq, cfg.SampleRate, Amplitude),
	}
}

func (s *Session) Start(ctx context.Context, cb *input.Callback) error {
	if !input.EnsureConfig(s.cfg, cb) {
		return errors.New("callback does not match the session channel count")
	}

	return timer.Process(ctx, s.cfg, cb, func(buf []input.Sample) (int, error) {
		return s.gen.Fill(buf, s.cfg.FrameSize), nil
	})
}
