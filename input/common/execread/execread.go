// Package execread provides a shared struct that wraps around cmd.
package execread

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"os/exec"
	"time"

	"github.com/noriah/colours/input"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Session is a session that reads floating-point audio values from a Cmd.
type Session struct {
	// OnStart is called when the session starts. Nil by default.
	OnStart func(ctx context.Context, cmd *exec.Cmd) error

	// prevents cmd.Stderr from poiting to os.Stderr. false by default.
	DisconnectedStderr bool

	argv []string
	cfg  input.SessionConfig

	f32mode bool
}

// NewSession creates a new execread session. It never returns an error.
func NewSession(argv []string, f32mode bool, cfg input.SessionConfig) *Session {
	if len(argv) < 1 {
		panic("argv has no arg0")
	}

	return &Session{
		argv:    argv,
		cfg:     cfg,
		f32mode: f32mode,
	}
}

func (s *Session) Start(ctx context.Context, cb *input.Callback) error {
	if !input.EnsureConfig(s.cfg, cb) {
		return errors.New("callback does not match the session channel count")
	}

	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)

	if !s.DisconnectedStderr {
		cmd.Stderr = os.Stderr
	}

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}
	defer o.Close()

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	log.WithField("argv", s.argv).Debug("execread: command started")

	if s.OnStart != nil {
		if err := s.OnStart(ctx, cmd); err != nil {
			return err
		}
	}

	return ReadFloats(ctx, o, s.cfg, s.f32mode, cb)
}

// deadliner is implemented by *os.File.
type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// ReadFloats reads interleaved little-endian floats from r and hands them to
// cb until r reaches EOF or ctx is done. When r supports read deadlines and
// no data arrives in time, a block of silence is pushed instead so the
// colours fade out rather than freeze. A block cut short by a deadline is
// kept and completed by the next read, so frames never lose alignment.
func ReadFloats(ctx context.Context, r io.Reader, cfg input.SessionConfig, f32mode bool, cb *input.Callback) error {
	samples := cfg.SampleSize * cfg.FrameSize

	reader := FloatReader{
		Order: binary.LittleEndian,
		F64:   !f32mode,
	}

	raw := make([]byte, samples*reader.Size())
	buf := make([]input.Sample, samples)
	silence := make([]input.Sample, samples)

	// We double this as a workaround because sampleDuration is less than the
	// actual time that ReadFull blocks for some reason, probably because the
	// process decides to discard audio when it overflows.
	sampleDuration := time.Duration(
		float64(cfg.SampleSize) / cfg.SampleRate * float64(time.Second))
	// We also keep track of whether the deadline was hit once so we can half
	// the sample duration. This smooths out the jitter.
	var readExpired bool

	// bytes of raw already filled by an interrupted read
	var filled int

	dl, useDeadline := r.(deadliner)

	for {
		if useDeadline {
			timeout := sampleDuration
			if !readExpired {
				timeout *= 6
			}

			if err := dl.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				// Not every file can have a deadline (regular files, some ttys).
				useDeadline = false
			}
		}

		n, err := io.ReadFull(r, raw[filled:])
		filled += n

		switch {
		case err == nil:
			readExpired = false
			filled = 0
			cb.ProcessInterleaved(reader.Decode(buf, raw))

		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			if filled > 0 {
				cb.ProcessInterleaved(reader.Decode(buf, raw[:filled]))
			}
			return nil

		case errors.Is(err, os.ErrDeadlineExceeded):
			readExpired = true
			if filled == 0 {
				cb.ProcessInterleaved(silence)
			}

		default:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "failed to read samples")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// FloatReader decodes raw float32 or float64 samples.
type FloatReader struct {
	Order binary.ByteOrder
	F64   bool
}

// Size returns the number of bytes per sample.
func (f FloatReader) Size() int {
	if f.F64 {
		return 8
	}
	return 4
}

// Decode decodes every whole sample in raw into dst and returns the filled
// part of dst.
func (f FloatReader) Decode(dst []input.Sample, raw []byte) []input.Sample {
	size := f.Size()
	count := len(raw) / size
	if count > len(dst) {
		count = len(dst)
	}

	for n := 0; n < count; n++ {
		b := raw[n*size:]
		if f.F64 {
			dst[n] = input.Sample(math.Float64frombits(f.Order.Uint64(b)))
		} else {
			dst[n] = math.Float32frombits(f.Order.Uint32(b))
		}
	}

	return dst[:count]
}
