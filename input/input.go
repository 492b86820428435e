package input

import (
	"context"
	"fmt"
)

// Sample is the datatype we want from our inputs
type Sample = float32

// Device is an input device of a backend.
type Device interface {
	fmt.Stringer
}

// SessionConfig is the configuration a backend needs to open a session.
type SessionConfig struct {
	Device     Device  // device to read from
	FrameSize  int     // number of channels per frame
	SampleSize int     // number of frames per read
	SampleRate float64 // sample rate
}

// Session is a running input. Start blocks until the input ends, an error
// occurs or ctx is done. Every sample read is handed to cb.
type Session interface {
	Start(ctx context.Context, cb *Callback) error
}

// EnsureConfig checks that a callback has room for every channel of a frame.
func EnsureConfig(cfg SessionConfig, cb *Callback) bool {
	return cfg.FrameSize > 0 && cb != nil && cb.Channels() == cfg.FrameSize
}
