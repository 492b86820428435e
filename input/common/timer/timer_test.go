package timer

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/noriah/colours/input"
	"github.com/pkg/errors"
)

func newCallback(t *testing.T) (*input.Callback, *input.Receiver) {
	t.Helper()

	ports := input.NewPorts(input.PortsConfig{SampleSize: 64})
	rx, err := ports.Register("mono")
	if err != nil {
		t.Fatal(err)
	}

	cb, err := ports.Seal()
	if err != nil {
		t.Fatal(err)
	}

	return cb, rx
}

func TestProcessUntilEOF(t *testing.T) {
	cb, rx := newCallback(t)
	cfg := input.SessionConfig{FrameSize: 1, SampleSize: 4, SampleRate: 4000}

	calls := 0
	err := Process(context.Background(), cfg, cb, func(buf []input.Sample) (int, error) {
		calls++
		if calls > 3 {
			return 0, io.EOF
		}

		for i := range buf {
			buf[i] = input.Sample(calls)
		}
		return len(buf), nil
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	got := rx.Drain(nil)
	if len(got) != 12 {
		t.Fatalf("got %d samples, want 12", len(got))
	}

	if got[0] != 1 || got[11] != 3 {
		t.Errorf("samples = %v", got)
	}
}

func TestProcessCancel(t *testing.T) {
	cb, _ := newCallback(t)
	cfg := input.SessionConfig{FrameSize: 1, SampleSize: 4, SampleRate: 40}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Process(ctx, cfg, cb, func(buf []input.Sample) (int, error) {
		return len(buf), nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Process = %v, want deadline exceeded", err)
	}
}

func TestPeriod(t *testing.T) {
	cfg := input.SessionConfig{SampleSize: 512, SampleRate: 1024}
	if got := Period(cfg); got != 500*time.Millisecond {
		t.Errorf("Period = %v, want 500ms", got)
	}
}
