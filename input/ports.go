package input

import (
	"github.com/pkg/errors"
)

// PortsConfig configures the channels created by Ports.
type PortsConfig struct {
	SampleSize int    // nominal number of samples per channel per callback
	Policy     Policy // overflow policy for every channel
}

// Ports registers named channels before audio starts flowing. Once every
// channel is registered, Seal hands all producer ends to a single Callback.
type Ports struct {
	cfg     PortsConfig
	senders []*Sender
	names   []string
	sealed  bool
}

// NewPorts returns an empty port set.
func NewPorts(cfg PortsConfig) *Ports {
	if cfg.SampleSize < 1 {
		cfg.SampleSize = 1
	}

	return &Ports{cfg: cfg}
}

// Register creates a channel called name and returns its consumer end. The
// channel holds four callbacks worth of samples.
func (p *Ports) Register(name string) (*Receiver, error) {
	if p.sealed {
		return nil, errors.Errorf("cannot register %q: ports are sealed", name)
	}

	for _, n := range p.names {
		if n == name {
			return nil, errors.Errorf("port %q already registered", name)
		}
	}

	tx, rx := NewChannel(name, p.cfg.SampleSize*4, p.cfg.Policy)

	p.senders = append(p.senders, tx)
	p.names = append(p.names, name)

	return rx, nil
}

// Seal stops registration and returns the callback that owns every producer
// end. Seal may only be called once.
func (p *Ports) Seal() (*Callback, error) {
	if p.sealed {
		return nil, errors.New("ports already sealed")
	}

	if len(p.senders) == 0 {
		return nil, errors.New("no ports registered")
	}

	p.sealed = true

	cb := &Callback{senders: p.senders}
	p.senders = nil

	return cb, nil
}

// Callback is the real-time side of a set of ports. Its methods only push
// into lock-free channels and are safe to call from an audio callback. A
// Callback must be driven by a single goroutine.
type Callback struct {
	senders []*Sender
}

// Channels returns the number of channels fed by the callback.
func (cb *Callback) Channels() int {
	return len(cb.senders)
}

// Process pushes planar buffers, one per channel. Extra buffers are ignored.
func (cb *Callback) Process(frames [][]Sample) {
	for ch, buf := range frames {
		if ch >= len(cb.senders) {
			return
		}

		tx := cb.senders[ch]
		for _, v := range buf {
			tx.TryPush(v)
		}
	}
}

// ProcessInterleaved pushes interleaved frames. A trailing partial frame is
// pushed to the channels it covers.
func (cb *Callback) ProcessInterleaved(buf []Sample) {
	n := len(cb.senders)
	for idx, v := range buf {
		cb.senders[idx%n].TryPush(v)
	}
}
