package processor

import (
	"context"
	"time"

	"github.com/noriah/colours/colour"
	"github.com/noriah/colours/dsp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Output receives the colours of every channel once per tick.
type Output interface {
	Write(colours []colour.Colour, mags [][]dsp.Magnitude) error
}

type Processor interface {
	Start(ctx context.Context) context.Context
	Stop()
	// Tick updates every channel once and writes the result.
	Tick() error
	// Process ticks at the process rate until ctx is done or the output
	// fails.
	Process(ctx context.Context) error
}

type Config struct {
	ProcessRate int        // target framerate
	Channels    []*Channel // one per input channel
	Output      Output     // data output
}

// outputs holds the per-tick buffers shared by both processors.
type outputs struct {
	channels []*Channel
	out      Output

	colours []colour.Colour
	mags    [][]dsp.Magnitude
	dropped []uint64
}

func newOutputs(cfg Config) outputs {
	return outputs{
		channels: cfg.Channels,
		out:      cfg.Output,
		colours:  make([]colour.Colour, len(cfg.Channels)),
		mags:     make([][]dsp.Magnitude, len(cfg.Channels)),
		dropped:  make([]uint64, len(cfg.Channels)),
	}
}

func (o *outputs) write() error {
	for idx, ch := range o.channels {
		o.colours[idx] = ch.Colour()
		o.mags[idx] = ch.Magnitudes()

		if d := ch.Dropped(); d != o.dropped[idx] {
			log.WithFields(log.Fields{
				"channel": ch.Name(),
				"dropped": d - o.dropped[idx],
				"total":   d,
			}).Debug("processor: input overflow")
			o.dropped[idx] = d
		}
	}

	if o.out == nil {
		return nil
	}

	return o.out.Write(o.colours, o.mags)
}

// run calls tick at rate until ctx is done.
func run(ctx context.Context, rate int, tick func() error) error {
	if rate <= 0 {
		// if we do not have a framerate set, allow at most 1 second per sampling
		rate = 1
	}

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		if err := tick(); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "failed to write output")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

type processor struct {
	processRate int
	outputs
}

func New(cfg Config) *processor {
	return &processor{
		processRate: cfg.ProcessRate,
		outputs:     newOutputs(cfg),
	}
}

func (vis *processor) Start(ctx context.Context) context.Context {
	return ctx
}

func (vis *processor) Stop() {}

func (vis *processor) Tick() error {
	for _, ch := range vis.channels {
		ch.Update()
	}

	return vis.write()
}

// Process runs processing on sample sets and calls Write on the output once per tick.
func (vis *processor) Process(ctx context.Context) error {
	return run(ctx, vis.processRate, vis.Tick)
}
