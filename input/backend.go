package input

import (
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
)

type Backend interface {
	// Init should do nothing if called more than once.
	Init() error
	Close() error

	Devices() ([]Device, error)
	DefaultDevice() (Device, error)
	Start(SessionConfig) (Session, error)
}

// DeviceParser is implemented by backends whose devices cannot be listed up
// front, such as files. GetDevice uses it instead of searching Devices.
type DeviceParser interface {
	ParseDevice(name string) (Device, error)
}

type NamedBackend struct {
	Name string
	Backend
}

var Backends []NamedBackend

// RegisterBackend registers a backend globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterBackend(name string, b Backend) {
	Backends = append(Backends, NamedBackend{
		Name:    name,
		Backend: b,
	})
}

// Get all installed backend names.
func GetAllBackendNames() []string {
	out := make([]string, len(Backends))
	for i, backend := range Backends {
		out[i] = backend.Name
	}
	return out
}

// DefaultBackend picks a backend that is likely to work on this system.
func DefaultBackend() string {
	return defaultBackendFor(runtime.GOOS, exec.LookPath)
}

// defaultBackendFor falls back to stdin when no registered backend fits goos.
func defaultBackendFor(goos string, lookPath func(string) (string, error)) string {
	hasTool := func(name string) bool {
		path, err := lookPath(name)
		return err == nil && path != ""
	}

	switch goos {
	case "windows":
		if HasBackend("ffmpeg-dshow") {
			return "ffmpeg-dshow"
		}

	case "darwin":
		if HasBackend("portaudio") {
			return "portaudio"
		}

		if HasBackend("ffmpeg-avfoundation") {
			return "ffmpeg-avfoundation"
		}

	case "openbsd":
		if HasBackend("ffmpeg-sndio") {
			return "ffmpeg-sndio"
		}

	case "linux":
		if hasTool("pw-cat") && HasBackend("pipewire") {
			return "pipewire"
		}

		if hasTool("parec") && HasBackend("parec") {
			return "parec"
		}

		if HasBackend("portaudio") {
			return "portaudio"
		}

		if HasBackend("ffmpeg-alsa") {
			return "ffmpeg-alsa"
		}

	default:
		if HasBackend("portaudio") {
			return "portaudio"
		}
	}

	return "stdin"
}

// FindBackend is a helper function that finds a backend. It returns nil if the
// backend is not found.
func FindBackend(name string) Backend {
	for _, backend := range Backends {
		if backend.Name == name {
			return backend.Backend
		}
	}
	return nil
}

func HasBackend(name string) bool {
	return FindBackend(name) != nil
}

func InitBackend(bknd string) (Backend, error) {
	backend := FindBackend(bknd)
	if backend == nil {
		return nil, errors.Errorf("backend not found: %q; check list-backends", bknd)
	}

	if err := backend.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize input backend")
	}

	return backend, nil
}

func GetDevice(backend Backend, device string) (Device, error) {
	if device == "" {
		def, err := backend.DefaultDevice()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default device")
		}
		return def, nil
	}

	if parser, ok := backend.(DeviceParser); ok {
		return parser.ParseDevice(device)
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get devices")
	}

	for idx := range devices {
		if devices[idx].String() == device {
			return devices[idx], nil
		}
	}

	return nil, errors.Errorf("device %q not found; check list-devices", device)
}
