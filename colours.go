// Package colours turns live audio into smoothly changing colours.
package colours

import (
	"context"
	"time"

	"github.com/noriah/colours/input"
	"github.com/noriah/colours/processor"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SessionStopTimeout is how long Run waits for the input session to return
// once processing stopped.
const SessionStopTimeout = 2 * time.Second

// Run builds the pipeline described by cfg and runs it until ctx is done or
// the input runs out.
func Run(cfg *Config, ctx context.Context) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	// INPUT SETUP

	backend, err := input.InitBackend(cfg.Backend)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessConfig := input.SessionConfig{
		FrameSize:  cfg.ChannelCount,
		SampleSize: cfg.SampleSize,
		SampleRate: cfg.SampleRate,
	}

	if sessConfig.Device, err = input.GetDevice(backend, cfg.Device); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"backend":  cfg.Backend,
		"device":   sessConfig.Device,
		"rate":     cfg.SampleRate,
		"channels": cfg.ChannelCount,
	}).Debug("input selected")

	// PROCESSOR SETUP

	ports := input.NewPorts(input.PortsConfig{
		SampleSize: cfg.SampleSize,
		Policy:     cfg.Policy,
	})

	bankConfig := cfg.Bank
	bankConfig.SampleRate = cfg.SampleRate

	channels := make([]*processor.Channel, cfg.ChannelCount)
	for idx, name := range ChannelNames(cfg.ChannelCount) {
		rx, err := ports.Register(name)
		if err != nil {
			return err
		}

		channels[idx], err = processor.NewChannel(rx, processor.ChannelConfig{
			BankConfig: bankConfig,
			Mapper:     cfg.Mapper,
			DecaySlots: cfg.DecaySlots,
		})
		if err != nil {
			return errors.Wrap(err, "failed to set up channel")
		}
	}

	callback, err := ports.Seal()
	if err != nil {
		return err
	}

	procConfig := processor.Config{
		ProcessRate: cfg.ProcessRate,
		Channels:    channels,
		Output:      cfg.Output,
	}

	var vis processor.Processor

	if cfg.UseThreaded {
		vis = processor.NewThreaded(procConfig)
	} else {
		vis = processor.New(procConfig)
	}

	audio, err := backend.Start(sessConfig)
	if err != nil {
		return errors.Wrap(err, "failed to start the input backend")
	}

	if cfg.SetupFunc != nil {
		if err := cfg.SetupFunc(); err != nil {
			return err
		}
	}

	if cfg.CleanupFunc != nil {
		defer cfg.CleanupFunc()
	}

	// Root Context
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.StartFunc != nil {
		if ctx, err = cfg.StartFunc(ctx); err != nil {
			return err
		}
	}

	ctx = vis.Start(ctx)
	defer vis.Stop()

	sessErr := make(chan error, 1)

	go func() {
		// the session owns the callback from here on
		sessErr <- audio.Start(ctx, callback)
		cancel()
	}()

	procErr := vis.Process(ctx)
	cancel()

	select {
	case err := <-sessErr:
		// any error after cancellation is the session noticing it
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return errors.Wrap(err, "failed to run input session")
		}

	case <-time.After(SessionStopTimeout):
		// a blocking read on a plain file or tty cannot be interrupted
		log.Warn("input session did not stop in time")
	}

	return procErr
}
