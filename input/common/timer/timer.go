// Package timer paces sources that can produce samples faster than real time
// (files, generators) so that they reach the callback at the sample rate.
package timer

import (
	"context"
	"io"
	"time"

	"github.com/noriah/colours/input"
	"github.com/pkg/errors"
)

// ReadFunc fills buf with interleaved samples and returns how many it wrote.
// It returns io.EOF once the source is exhausted.
type ReadFunc func(buf []input.Sample) (int, error)

// Period returns the time it takes to play one read of cfg.SampleSize frames.
func Period(cfg input.SessionConfig) time.Duration {
	return time.Duration(float64(cfg.SampleSize) / cfg.SampleRate * float64(time.Second))
}

// Process calls read once per period and pushes whatever it produced to cb.
// It returns nil when read reports io.EOF.
func Process(ctx context.Context, cfg input.SessionConfig, cb *input.Callback, read ReadFunc) error {
	if cfg.SampleRate <= 0 || cfg.SampleSize < 1 {
		return errors.New("timer needs a positive sample rate and size")
	}

	// Calculate the theoretical tick duration to satisfy the requested sampling
	// rate without falling behind.
	ticker := time.NewTicker(Period(cfg))
	defer ticker.Stop()

	buf := make([]input.Sample, cfg.SampleSize*cfg.FrameSize)

	for {
		n, err := read(buf)
		if n > 0 {
			cb.ProcessInterleaved(buf[:n])
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
