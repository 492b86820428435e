package wavfile

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/noriah/colours/input"
)

func writeWAV(t *testing.T, rate, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}

	return path
}

func TestReaderStereoToMono(t *testing.T) {
	path := writeWAV(t, 8000, 2, []int{16384, 0, -16384, -16384, 32767, 32767})

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r, err := NewReader(f, input.SessionConfig{FrameSize: 1, SampleSize: 8, SampleRate: 8000})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	buf := make([]input.Sample, 8)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	want := []float64{0.25, -0.5, 32767.0 / 32768.0}
	if n != len(want) {
		t.Fatalf("read %d samples, want %d", n, len(want))
	}

	for i, w := range want {
		if math.Abs(float64(buf[i])-w) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, buf[i], w)
		}
	}

	if n, err := r.Read(buf); n != 0 || err == nil {
		t.Errorf("read past end = %d, %v", n, err)
	}
}

func TestReaderRateMismatch(t *testing.T) {
	path := writeWAV(t, 8000, 1, []int{0, 1, 2})

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := NewReader(f, input.SessionConfig{FrameSize: 1, SampleSize: 8, SampleRate: 44100}); err == nil {
		t.Error("NewReader accepted a file with a different sample rate")
	}
}

func TestSessionPlaysFile(t *testing.T) {
	data := make([]int, 1200)
	for i := range data {
		data[i] = 8192
	}

	path := writeWAV(t, 8000, 1, data)

	ports := input.NewPorts(input.PortsConfig{SampleSize: 1200})
	left, _ := ports.Register("left")
	right, _ := ports.Register("right")
	cb, err := ports.Seal()
	if err != nil {
		t.Fatal(err)
	}

	b := Backend{}
	dev, err := b.ParseDevice(path)
	if err != nil {
		t.Fatalf("ParseDevice: %v", err)
	}

	sess, err := b.Start(input.SessionConfig{Device: dev, FrameSize: 2, SampleSize: 400, SampleRate: 8000})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := sess.Start(context.Background(), cb); err != nil {
		t.Fatalf("session: %v", err)
	}

	l := left.Drain(nil)
	r := right.Drain(nil)

	if len(l) != 1200 || len(r) != 1200 {
		t.Fatalf("got %d/%d samples, want 1200 each", len(l), len(r))
	}

	if l[0] != 0.25 || r[1199] != 0.25 {
		t.Errorf("samples = %v, %v, want 0.25", l[0], r[1199])
	}
}

func TestParseDeviceMissing(t *testing.T) {
	if _, err := (Backend{}).ParseDevice(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("ParseDevice accepted a missing file")
	}
}
