// Package all imports all backends implemented by the input package.
package all

import (
	_ "github.com/noriah/colours/input/ffmpeg"
	_ "github.com/noriah/colours/input/parec"
	_ "github.com/noriah/colours/input/pipewire"
	_ "github.com/noriah/colours/input/sine"
	_ "github.com/noriah/colours/input/stdinput"
	_ "github.com/noriah/colours/input/wavfile"
)
