package ffmpeg

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/noriah/colours/input"
)

// DShowDevice is a DirectShow audio capture device.
type DShowDevice struct {
	Name string
}

func (d DShowDevice) InputArgs() []string {
	return []string{"-i", "audio=" + d.Name}
}

func (d DShowDevice) String() string {
	return d.Name
}

// dshowArgs builds the ffmpeg command line for a DirectShow device. dshow
// takes rate and channel count as input options rather than resampling.
func dshowArgs(d DShowDevice, cfg input.SessionConfig) []string {
	args := []string{"ffmpeg", "-hide_banner", "-loglevel", "panic",
		"-f", "dshow", "-audio_buffer_size", "20",
		"-sample_rate", fmt.Sprintf("%.0f", cfg.SampleRate),
		"-channels", fmt.Sprintf("%d", cfg.FrameSize),
	}
	args = append(args, d.InputArgs()...)
	return append(args, "-f", "f64le", "-")
}

// parseDShowDevices reads the audio devices out of ffmpeg's dshow device
// listing. Lines look like `[dshow @ 0x..] "Microphone" (audio)`.
func parseDShowDevices(output []byte) []DShowDevice {
	var devices []DShowDevice

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		text := scanner.Text()

		if strings.HasPrefix(text, "[dshow") {
			if _, rest, ok := strings.Cut(text, "] "); ok {
				text = rest
			}
		}

		// alternative names follow each device and carry no kind
		if !strings.HasPrefix(text, `"`) {
			continue
		}

		name, kind, ok := strings.Cut(text[1:], `" (`)
		if !ok || !strings.HasPrefix(kind, "audio") {
			continue
		}

		devices = append(devices, DShowDevice{Name: name})
	}

	return devices
}
