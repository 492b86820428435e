package input

import (
	"math"
	"sync/atomic"
)

// Policy decides which sample is lost when a Channel is full.
type Policy int

const (
	// DropOldest overwrites the oldest queued sample.
	DropOldest Policy = iota
	// DropIncoming discards the sample being pushed.
	DropIncoming
)

func (p Policy) String() string {
	switch p {
	case DropOldest:
		return "oldest"
	case DropIncoming:
		return "incoming"
	default:
		return "unknown"
	}
}

// ParsePolicy returns the policy named by s.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "oldest", "":
		return DropOldest, true
	case "incoming":
		return DropIncoming, true
	default:
		return DropOldest, false
	}
}

// channel is a lossy single-producer/single-consumer ring of samples.
//
// head, claim and tail only ever grow. The producer owns head and claim, the
// consumer owns tail. Slots hold float32 bits so that a slot overwritten by
// the producer while the consumer copies it is never a data race. The
// producer raises claim before touching a slot and head after it, so the
// consumer can validate a copied range against claim and throw away what
// was lapped.
type channel struct {
	slots []atomic.Uint32
	mask  uint64
	size  uint64

	policy Policy

	head  atomic.Uint64
	claim atomic.Uint64
	tail  atomic.Uint64

	// dropped by the producer under DropIncoming
	refused atomic.Uint64
}

// Sender is the producer end of a channel. It must only be used by one
// goroutine, normally the audio callback.
type Sender struct {
	ch *channel
}

// Receiver is the consumer end of a channel.
type Receiver struct {
	ch      *channel
	name    string
	overrun uint64 // lost to DropOldest, counted by the consumer
}

// NewChannel makes a channel holding at least capacity samples. The capacity
// is rounded up to a power of two.
func NewChannel(name string, capacity int, policy Policy) (*Sender, *Receiver) {
	size := nextPowerOf2(uint64(capacity))

	ch := &channel{
		slots:  make([]atomic.Uint32, size),
		mask:   size - 1,
		size:   size,
		policy: policy,
	}

	return &Sender{ch: ch}, &Receiver{ch: ch, name: name}
}

// TryPush queues a sample. It never blocks, allocates or fails; when the
// channel is full a sample is lost according to the channel policy.
func (s *Sender) TryPush(v Sample) {
	ch := s.ch
	head := ch.head.Load()

	if ch.policy == DropIncoming && head-ch.tail.Load() >= ch.size {
		ch.refused.Add(1)
		return
	}

	ch.claim.Store(head + 1)
	ch.slots[head&ch.mask].Store(math.Float32bits(v))
	ch.head.Store(head + 1)
}

// Name returns the name the channel was registered with.
func (r *Receiver) Name() string {
	return r.name
}

// Cap returns the number of samples the channel holds.
func (r *Receiver) Cap() int {
	return int(r.ch.size)
}

// Dropped returns the number of samples lost so far.
func (r *Receiver) Dropped() uint64 {
	return r.overrun + r.ch.refused.Load()
}

// Drain appends every queued sample to dst in arrival order and returns the
// extended slice. At most Cap samples are returned per call.
func (r *Receiver) Drain(dst []Sample) []Sample {
	ch := r.ch
	tail := ch.tail.Load()
	head := ch.head.Load()

	if head-tail > ch.size {
		r.overrun += head - tail - ch.size
		tail = head - ch.size
	}

	start := len(dst)
	for idx := tail; idx < head; idx++ {
		dst = append(dst, math.Float32frombits(ch.slots[idx&ch.mask].Load()))
	}

	// The producer may have lapped us while we were copying.
	if now := ch.claim.Load(); now-tail > ch.size {
		lost := now - ch.size - tail
		if lost > head-tail {
			lost = head - tail
		}

		r.overrun += lost
		dst = append(dst[:start], dst[start+int(lost):]...)
	}

	ch.tail.Store(head)

	return dst
}

func nextPowerOf2(n uint64) uint64 {
	if n < 2 {
		return 2
	}

	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32

	return n + 1
}
