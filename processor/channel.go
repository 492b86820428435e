package processor

import (
	"github.com/noriah/colours/colour"
	"github.com/noriah/colours/dsp"
	"github.com/noriah/colours/input"
	"github.com/noriah/colours/util"
	"github.com/pkg/errors"
)

// ChannelConfig configures the analysis of one input channel.
type ChannelConfig struct {
	// Bank is used as is when set. A Bank is not safe for concurrent use, so
	// it must not be shared between channels of a threaded processor.
	Bank *dsp.Bank
	// BankConfig builds a new bank when Bank is nil.
	BankConfig dsp.BankConfig
	// WindowSize is the number of trailing samples analysed, at least one
	// second and never less than the longest band frame.
	WindowSize int
	// Mapper turns magnitudes into a colour. A zero Mapper uses the default
	// palette, and a zero Gain means 1.
	Mapper colour.Mapper
	// DecaySlots is the length of the smoothing ring, default 24.
	DecaySlots int
}

// Channel turns the samples of one input channel into a smoothed colour.
type Channel struct {
	rx     *input.Receiver
	window *util.SampleWindow
	bank   *dsp.Bank
	mapper colour.Mapper
	decay  *colour.DecayRing

	drained  []input.Sample
	snapshot []float32
	mags     []dsp.Magnitude
}

// NewChannel returns a channel processor reading from rx.
func NewChannel(rx *input.Receiver, cfg ChannelConfig) (*Channel, error) {
	if rx == nil {
		return nil, errors.New("channel has no receiver")
	}

	bank := cfg.Bank
	if bank == nil {
		var err error
		if bank, err = dsp.NewBank(cfg.BankConfig); err != nil {
			return nil, errors.Wrapf(err, "channel %s", rx.Name())
		}
	}

	size := max(cfg.WindowSize, int(bank.Config().SampleRate), bank.MaxFrame())

	slots := cfg.DecaySlots
	if slots == 0 {
		slots = colour.DefaultDecaySlots
	}

	decay, err := colour.NewDecayRing(slots)
	if err != nil {
		return nil, errors.Wrapf(err, "channel %s", rx.Name())
	}

	mapper := cfg.Mapper
	if mapper.Palette.Len() == 0 {
		mapper.Palette = colour.DefaultPalette()
	}

	if mapper.Gain == 0 {
		mapper.Gain = 1
	}

	return &Channel{
		rx:       rx,
		window:   util.NewSampleWindow(size),
		bank:     bank,
		mapper:   mapper,
		decay:    decay,
		drained:  make([]input.Sample, 0, rx.Cap()),
		snapshot: make([]float32, 0, size),
		mags:     make([]dsp.Magnitude, bank.Len()),
	}, nil
}

// Name returns the name of the input channel.
func (c *Channel) Name() string {
	return c.rx.Name()
}

// Update drains the input, analyses the window and pushes the resulting
// colour into the decay ring. It returns the number of new samples.
func (c *Channel) Update() int {
	c.drained = c.rx.Drain(c.drained[:0])
	c.window.Write(c.drained)

	c.snapshot = c.window.Snapshot(c.snapshot[:0])
	c.mags = c.bank.Process(c.snapshot, len(c.drained), c.mags)

	c.decay.Push(c.mapper.Fold(c.mags))

	return len(c.drained)
}

// Colour returns the smoothed colour.
func (c *Channel) Colour() colour.Colour {
	return c.decay.Colour()
}

// Magnitudes returns the band magnitudes of the last Update. The slice is
// overwritten by the next Update.
func (c *Channel) Magnitudes() []dsp.Magnitude {
	return c.mags
}

// Dropped returns how many samples the input lost so far.
func (c *Channel) Dropped() uint64 {
	return c.rx.Dropped()
}

// WindowSize returns the number of trailing samples analysed.
func (c *Channel) WindowSize() int {
	return c.window.Cap()
}
