//go:build windows

package ffmpeg

import (
	"github.com/noriah/colours/input"
	"github.com/noriah/colours/input/common/execread"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-dshow", DShow{})
}

// DShow is the DirectShow input for FFmpeg on Windows.
type DShow struct{}

func (p DShow) Init() error {
	return nil
}

func (p DShow) Close() error {
	return nil
}

func (p DShow) Devices() ([]input.Device, error) {
	o := listDevices("dshow")

	found := parseDShowDevices(o)
	if len(found) == 0 {
		return nil, noDevicesError(o)
	}

	devices := make([]input.Device, len(found))
	for i, d := range found {
		devices[i] = d
	}

	return devices, nil
}

// DefaultDevice returns the first audio device, dshow has no default.
func (p DShow) DefaultDevice() (input.Device, error) {
	devices, err := p.Devices()
	if err != nil {
		return nil, err
	}

	return devices[0], nil
}

func (p DShow) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(DShowDevice)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	if cfg.FrameSize < 1 || cfg.FrameSize > 2 {
		return nil, errors.New("channel count not supported, mono/stereo only")
	}

	return execread.NewSession(dshowArgs(dv, cfg), false, cfg), nil
}
