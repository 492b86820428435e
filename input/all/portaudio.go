//go:build portaudio

package all

import (
	_ "github.com/noriah/colours/input/portaudio"
)
