// Package ffmpeg reads audio through an ffmpeg child process. Each backend
// only supplies the demuxer arguments for its platform's capture API.
package ffmpeg

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/noriah/colours/input"
	"github.com/noriah/colours/input/common/execread"
	"github.com/pkg/errors"
)

type FFmpegBackend interface {
	InputArgs() []string
}

// Args returns the ffmpeg command line that captures from b and writes raw
// float64le frames to stdout.
func Args(b FFmpegBackend, cfg input.SessionConfig) []string {
	args := []string{"ffmpeg", "-hide_banner", "-loglevel", "panic"}
	args = append(args, b.InputArgs()...)
	return append(args, outputArgs(cfg)...)
}

func outputArgs(cfg input.SessionConfig) []string {
	return []string{
		"-ar", fmt.Sprintf("%.0f", cfg.SampleRate),
		"-ac", fmt.Sprintf("%d", cfg.FrameSize),
		"-f", "f64le",
		"-",
	}
}

func NewSession(b FFmpegBackend, cfg input.SessionConfig) (*execread.Session, error) {
	if cfg.FrameSize < 1 || cfg.FrameSize > 2 {
		return nil, errors.New("channel count not supported, mono/stereo only")
	}

	return execread.NewSession(Args(b, cfg), false, cfg), nil
}

// listDevices asks ffmpeg to print the devices of a capture format. ffmpeg
// always fails after listing, so only the output matters.
func listDevices(format string) []byte {
	cmd := exec.Command(
		"ffmpeg", "-hide_banner", "-loglevel", "info",
		"-f", format, "-list_devices", "true",
		"-i", "",
	)

	o, _ := cmd.CombinedOutput()
	return o
}

func noDevicesError(output []byte) error {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	for i, line := range lines {
		lines[i] = "\t" + line
	}

	return errors.Errorf("no devices found; ffmpeg output:\n%s", strings.Join(lines, "\n"))
}
