//go:build portaudio

// Package portaudio captures audio with a PortAudio stream callback. The
// callback runs on PortAudio's real-time thread and only pushes into the
// lock-free channels of an input.Callback.
//
// Build with -tags portaudio; it needs cgo and the portaudio-2.0 library.
package portaudio

import (
	"context"

	"github.com/gordonklaus/portaudio"
	"github.com/noriah/colours/input"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var GlobalBackend = &Backend{}

func init() {
	input.RegisterBackend("portaudio", GlobalBackend)
}

// Backend represents the Portaudio backend. A zero-value instance is a
// valid instance.
type Backend struct {
	devices []*portaudio.DeviceInfo
}

func (b *Backend) Init() error {
	return portaudio.Initialize()
}

func (b *Backend) Close() error {
	return portaudio.Terminate()
}

func (b *Backend) Devices() ([]input.Device, error) {
	if b.devices == nil {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, errors.Wrap(err, "failed to list devices")
		}
		b.devices = devices
	}

	var gDevices []input.Device
	for _, device := range b.devices {
		if device.MaxInputChannels > 0 {
			gDevices = append(gDevices, Device{device})
		}
	}

	return gDevices, nil
}

func (b *Backend) DefaultDevice() (input.Device, error) {
	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, errors.Wrap(err, "no default input device found")
	}

	return Device{dev}, nil
}

func (b *Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// Device represents a Portaudio device.
type Device struct {
	*portaudio.DeviceInfo
}

// String returns the device name.
func (d Device) String() string {
	return d.Name
}

// Session is an input source that pulls from Portaudio.
type Session struct {
	device *portaudio.DeviceInfo
	config input.SessionConfig
}

// NewSession checks the device against the config. The stream is opened by
// Start.
func NewSession(config input.SessionConfig) (*Session, error) {
	dv, ok := config.Device.(Device)
	if !ok {
		return nil, errors.Errorf("device is on unknown type %T", config.Device)
	}

	if dv.MaxInputChannels < config.FrameSize {
		return nil, errors.Errorf("device %q has %d input channels, need %d",
			dv.Name, dv.MaxInputChannels, config.FrameSize)
	}

	return &Session{device: dv.DeviceInfo, config: config}, nil
}

// Start opens the stream and blocks until ctx is done.
func (s *Session) Start(ctx context.Context, cb *input.Callback) error {
	if !input.EnsureConfig(s.config, cb) {
		return errors.New("callback does not match the session channel count")
	}

	param := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   s.device,
			Latency:  s.device.DefaultLowInputLatency,
			Channels: s.config.FrameSize,
		},
		SampleRate:      s.config.SampleRate,
		FramesPerBuffer: s.config.SampleSize,
	}

	// Planar buffers, one per channel.
	stream, err := portaudio.OpenStream(param, func(in [][]float32) {
		cb.Process(in)
	})
	if err != nil {
		return errors.Wrap(err, "failed to open stream")
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return errors.Wrap(err, "failed to start stream")
	}

	log.WithField("device", s.device.Name).Debug("portaudio: stream started")

	<-ctx.Done()

	if err := stream.Stop(); err != nil {
		return errors.Wrap(err, "failed to stop stream")
	}

	return ctx.Err()
}
