package colours

import (
	"context"

	"github.com/noriah/colours/colour"
	"github.com/noriah/colours/dsp"
	"github.com/noriah/colours/input"
	"github.com/noriah/colours/processor"
	"github.com/pkg/errors"
)

const (
	// MaxChannelCount is the most channels a session may read.
	MaxChannelCount = 2
	// MaxSampleSize bounds the per-read block of a session.
	MaxSampleSize = 1 << 16
)

type (
	// SetupFunc is called once everything is built, before anything runs.
	SetupFunc func() error
	// StartFunc is called with the root context and may replace it.
	StartFunc func(ctx context.Context) (context.Context, error)
	// CleanupFunc is called when Run returns, if SetupFunc succeeded.
	CleanupFunc func() error
)

type Config struct {
	// The name of the backend from the input package
	Backend string
	// The name of the device to pull data from
	Device string
	// The rate that samples are read
	SampleRate float64
	// The number of samples per read
	SampleSize int
	// The number of channels to read data from
	ChannelCount int
	// The number of times per second to process data
	ProcessRate int
	// What to drop when the analysis falls behind
	Policy input.Policy

	// Use threaded processor
	UseThreaded bool

	// Filter bank settings. SampleRate is taken from the config.
	Bank dsp.BankConfig
	// Folds band magnitudes into a colour
	Mapper colour.Mapper
	// Length of the smoothing ring
	DecaySlots int

	// Function to call when setting up the pipeline
	SetupFunc SetupFunc
	// Function to call when starting the pipeline
	StartFunc StartFunc
	// Function to call when cleaning up the pipeline
	CleanupFunc CleanupFunc
	// Where to send the colours
	Output processor.Output
}

func NewZeroConfig() Config {
	return Config{
		SampleRate:   44100,
		SampleSize:   1024,
		ChannelCount: 1,
		ProcessRate:  60,
		DecaySlots:   colour.DefaultDecaySlots,
		Mapper:       colour.NewMapper(colour.DefaultPalette()),
	}
}

func (cfg *Config) Validate() error {
	if cfg.SampleRate < float64(cfg.SampleSize) {
		return errors.New("sample rate lower than sample size")
	}

	if cfg.SampleSize < 4 {
		return errors.New("sample size too small (4+ required)")
	}

	switch {
	case cfg.ChannelCount > MaxChannelCount:
		return errors.Errorf("too many channels (%d max)", MaxChannelCount)

	case cfg.ChannelCount < 1:
		return errors.New("too few channels (1 min)")

	case cfg.SampleSize > MaxSampleSize:
		return errors.Errorf("sample size too large (%d max)", MaxSampleSize)
	}

	// each channel buffers four reads; one tick must fit
	if cfg.ProcessRate > 0 && float64(cfg.SampleSize*4) < cfg.SampleRate/float64(cfg.ProcessRate) {
		return errors.Errorf("sample size %d too small for %d ticks per second", cfg.SampleSize, cfg.ProcessRate)
	}

	if cfg.DecaySlots != 0 && (cfg.DecaySlots < colour.MinDecaySlots || cfg.DecaySlots > colour.MaxDecaySlots) {
		return errors.Errorf("decay slots must be within [%d, %d]", colour.MinDecaySlots, colour.MaxDecaySlots)
	}

	return nil
}

// ChannelNames returns the port names used for count channels.
func ChannelNames(count int) []string {
	switch count {
	case 1:
		return []string{"mono"}
	case 2:
		return []string{"left", "right"}
	}

	names := make([]string, count)
	for i := range names {
		names[i] = "in_" + string(rune('1'+i))
	}
	return names
}
