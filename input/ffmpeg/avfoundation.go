//go:build darwin

package ffmpeg

import (
	"github.com/noriah/colours/input"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-avfoundation", AVFoundation{})
}

// AVFoundation is the avfoundation input for FFmpeg on macOS.
type AVFoundation struct{}

func (p AVFoundation) Init() error {
	return nil
}

func (p AVFoundation) Close() error {
	return nil
}

func (p AVFoundation) Devices() ([]input.Device, error) {
	o := listDevices("avfoundation")

	found, err := parseAVFoundationDevices(o)
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		return nil, noDevicesError(o)
	}

	devices := make([]input.Device, len(found))
	for i, d := range found {
		devices[i] = d
	}

	return devices, nil
}

func (p AVFoundation) DefaultDevice() (input.Device, error) {
	return AVFoundationDevice{-1, "default"}, nil
}

func (p AVFoundation) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(AVFoundationDevice)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}
