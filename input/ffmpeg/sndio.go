package ffmpeg

import (
	"path/filepath"

	"github.com/noriah/colours/input"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-sndio", Sndio{})
}

// Sndio is the sndio input for FFmpeg.
type Sndio struct{}

func (p Sndio) Init() error {
	return nil
}

func (p Sndio) Close() error {
	return nil
}

// Devices returns the /dev/audio* nodes. This is kernel-specific and is only
// known to work on OpenBSD.
func (p Sndio) Devices() ([]input.Device, error) {
	return sndioDevices("/dev/audio*")
}

func sndioDevices(pattern string) ([]input.Device, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to glob %s", pattern)
	}

	devices := make([]input.Device, len(paths))
	for i, path := range paths {
		devices[i] = SndioDevice(path)
	}

	return devices, nil
}

func (p Sndio) DefaultDevice() (input.Device, error) {
	return SndioDevice("/dev/audio0"), nil
}

func (p Sndio) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(SndioDevice)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}

// SndioDevice is the path of an audio device node such as /dev/audio0.
type SndioDevice string

func (d SndioDevice) InputArgs() []string {
	return []string{"-f", "sndio", "-i", string(d)}
}

func (d SndioDevice) String() string {
	return string(d)
}
