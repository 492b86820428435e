// Package wavfile plays a PCM WAV file into the analysis pipeline at real
// time speed.
package wavfile

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/noriah/colours/input"
	"github.com/noriah/colours/input/common/timer"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func init() {
	input.RegisterBackend("wav", Backend{})
}

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

// Devices lists the WAV files in the working directory.
func (b Backend) Devices() ([]input.Device, error) {
	matches, err := filepath.Glob("*.wav")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wav files")
	}

	devices := make([]input.Device, len(matches))
	for i, m := range matches {
		devices[i] = File(m)
	}

	return devices, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return nil, errors.New("the wav backend needs a file, pass one with -d")
}

// ParseDevice accepts any path to an existing file.
func (b Backend) ParseDevice(name string) (input.Device, error) {
	if _, err := os.Stat(name); err != nil {
		return nil, errors.Wrap(err, "failed to stat wav file")
	}

	return File(name), nil
}

func (b Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(File)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(string(dv), cfg), nil
}

// File is the path of a WAV file.
type File string

func (f File) String() string {
	return string(f)
}

type Session struct {
	path string
	cfg  input.SessionConfig
}

func NewSession(path string, cfg input.SessionConfig) *Session {
	return &Session{path: path, cfg: cfg}
}

func (s *Session) Start(ctx context.Context, cb *input.Callback) error {
	if !input.EnsureConfig(s.cfg, cb) {
		return errors.New("callback does not match the session channel count")
	}

	f, err := os.Open(s.path)
	if err != nil {
		return errors.Wrap(err, "failed to open wav file")
	}
	defer f.Close()

	r, err := NewReader(f, s.cfg)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"file":     s.path,
		"channels": r.channels,
		"depth":    r.depth,
	}).Debug("wavfile: playing")

	return timer.Process(ctx, s.cfg, cb, r.Read)
}

// Reader decodes a WAV file into normalised interleaved samples with the
// channel count of the session.
type Reader struct {
	dec      *wav.Decoder
	buf      *audio.IntBuffer
	channels int
	depth    int
	scale    float32
	out      int
}

// NewReader checks the header of r against cfg.
func NewReader(r io.ReadSeeker, cfg input.SessionConfig) (*Reader, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read WAV header")
	}

	if dec.WavAudioFormat != 1 {
		return nil, errors.Errorf("unsupported WAV format %d, PCM only", dec.WavAudioFormat)
	}

	depth := int(dec.BitDepth)
	switch depth {
	case 16, 24, 32:
	default:
		return nil, errors.Errorf("unsupported bit depth %d", depth)
	}

	if float64(dec.SampleRate) != cfg.SampleRate {
		return nil, errors.Errorf("file rate %d does not match the session rate %.0f",
			dec.SampleRate, cfg.SampleRate)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, errors.New("WAV file has no channels")
	}

	return &Reader{
		dec: dec,
		buf: &audio.IntBuffer{
			Format:         dec.Format(),
			Data:           make([]int, cfg.SampleSize*channels),
			SourceBitDepth: depth,
		},
		channels: channels,
		depth:    depth,
		scale:    1 / float32(int64(1)<<(depth-1)),
		out:      cfg.FrameSize,
	}, nil
}

// Read fills buf with up to len(buf)/out frames. Missing channels repeat the
// last file channel, extra file channels are mixed into the last output one.
func (r *Reader) Read(buf []input.Sample) (int, error) {
	frames := len(buf) / r.out
	if need := frames * r.channels; len(r.buf.Data) < need {
		r.buf.Data = make([]int, need)
	}

	r.buf.Data = r.buf.Data[:frames*r.channels]

	n, err := r.dec.PCMBuffer(r.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, errors.Wrap(err, "failed to decode WAV data")
	}

	got := n / r.channels
	if got == 0 {
		return 0, io.EOF
	}

	for f := 0; f < got; f++ {
		frame := r.buf.Data[f*r.channels : (f+1)*r.channels]

		for ch := 0; ch < r.out; ch++ {
			var v input.Sample

			switch {
			case ch < r.out-1 || r.channels == r.out:
				v = input.Sample(frame[min(ch, r.channels-1)]) * r.scale

			case r.channels > r.out:
				// mix the remaining file channels down
				for _, s := range frame[ch:] {
					v += input.Sample(s) * r.scale
				}
				v /= input.Sample(r.channels - ch)

			default:
				v = input.Sample(frame[r.channels-1]) * r.scale
			}

			buf[f*r.out+ch] = v
		}
	}

	return got * r.out, nil
}
