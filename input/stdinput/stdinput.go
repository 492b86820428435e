// Package stdinput reads interleaved float32le samples from standard input.
package stdinput

import (
	"context"
	"os"

	"github.com/noriah/colours/input"
	"github.com/noriah/colours/input/common/execread"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("stdin", StdinBackend{})
}

type StdinBackend struct{}

func (b StdinBackend) Init() error {
	return nil
}

func (b StdinBackend) Close() error {
	return nil
}

func (b StdinBackend) Devices() ([]input.Device, error) {
	return []input.Device{StdInputDevice{}}, nil
}

func (b StdinBackend) DefaultDevice() (input.Device, error) {
	return StdInputDevice{}, nil
}

func (b StdinBackend) Start(config input.SessionConfig) (input.Session, error) {
	return NewStdinSession(config), nil
}

type StdInputDevice struct{}

func (d StdInputDevice) String() string {
	return "stdin"
}

type Session struct {
	cfg input.SessionConfig
	// maligned.
	f32mode bool
}

func NewStdinSession(cfg input.SessionConfig) *Session {
	return &Session{
		cfg:     cfg,
		f32mode: true,
	}
}

func (s *Session) Start(ctx context.Context, cb *input.Callback) error {
	if !input.EnsureConfig(s.cfg, cb) {
		return errors.New("callback does not match the session channel count")
	}

	return execread.ReadFloats(ctx, os.Stdin, s.cfg, s.f32mode, cb)
}
