package ffmpeg

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// AVFoundationDevice is an avfoundation audio device. Index -1 is the system
// default input.
type AVFoundationDevice struct {
	Index int
	Name  string
}

func (d AVFoundationDevice) InputArgs() []string {
	input := "none:default"
	if d.Index > -1 {
		input = fmt.Sprintf("none:%d", d.Index)
	}
	return []string{"-f", "avfoundation", "-i", input}
}

func (d AVFoundationDevice) String() string {
	return fmt.Sprintf("%d:%s", d.Index, d.Name)
}

// parseAVFoundationDevices reads the audio section of ffmpeg's avfoundation
// device listing. Video devices come first and are skipped.
func parseAVFoundationDevices(output []byte) ([]AVFoundationDevice, error) {
	var audio bool
	var devices []AVFoundationDevice

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		text := scanner.Text()

		if strings.HasPrefix(text, "[AVFoundation") {
			if _, rest, ok := strings.Cut(text, "] "); ok {
				text = rest
			}
		}

		switch {
		case text == "AVFoundation audio devices:":
			audio = true
			continue
		case !strings.HasPrefix(text, "["):
			audio = false
			continue
		case !audio:
			continue
		}

		index, name, ok := strings.Cut(text, " ")
		if !ok {
			continue
		}

		n, err := strconv.Atoi(strings.Trim(index, "[]"))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse device index %q", index)
		}

		devices = append(devices, AVFoundationDevice{Index: n, Name: name})
	}

	return devices, nil
}
