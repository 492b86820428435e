package util

// SampleWindow keeps the most recent samples of one channel. Once full, every
// new sample evicts the oldest one.
type SampleWindow struct {
	buf    []float32
	head   int // index the next sample is written to
	length int
}

// NewSampleWindow returns an empty window holding at most capacity samples.
func NewSampleWindow(capacity int) *SampleWindow {
	if capacity < 1 {
		capacity = 1
	}

	return &SampleWindow{buf: make([]float32, capacity)}
}

// Push appends one sample.
func (w *SampleWindow) Push(v float32) {
	w.buf[w.head] = v

	if w.head++; w.head == len(w.buf) {
		w.head = 0
	}

	if w.length < len(w.buf) {
		w.length++
	}
}

// Write appends samples in order.
func (w *SampleWindow) Write(samples []float32) {
	size := len(w.buf)

	// only the tail can survive
	if len(samples) >= size {
		copy(w.buf, samples[len(samples)-size:])
		w.head = 0
		w.length = size
		return
	}

	n := copy(w.buf[w.head:], samples)
	if n < len(samples) {
		copy(w.buf, samples[n:])
	}

	w.head = (w.head + len(samples)) % size

	if w.length += len(samples); w.length > size {
		w.length = size
	}
}

// Snapshot copies the contents oldest-to-newest into dst, growing it if
// needed, and returns the filled slice.
func (w *SampleWindow) Snapshot(dst []float32) []float32 {
	if cap(dst) < w.length {
		dst = make([]float32, w.length)
	}

	dst = dst[:w.length]

	start := w.head - w.length
	if start < 0 {
		start += len(w.buf)
	}

	n := copy(dst, w.buf[start:min(start+w.length, len(w.buf))])
	copy(dst[n:], w.buf[:w.length-n])

	return dst
}

// Len returns how many samples are held.
func (w *SampleWindow) Len() int {
	return w.length
}

// Cap returns the maximum number of samples held.
func (w *SampleWindow) Cap() int {
	return len(w.buf)
}

// Reset empties the window.
func (w *SampleWindow) Reset() {
	w.head = 0
	w.length = 0
}
