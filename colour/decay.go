package colour

import "github.com/pkg/errors"

// Decay ring limits.
const (
	MinDecaySlots     = 16
	MaxDecaySlots     = 32
	DefaultDecaySlots = 24
)

// DecayRing keeps the last K colours and blends them with weights falling
// off quadratically with age.
type DecayRing struct {
	slots   []Colour
	weights []float64
	norm    float64
	newest  int
}

// NewDecayRing returns a ring of k black slots.
func NewDecayRing(k int) (*DecayRing, error) {
	if k < MinDecaySlots || k > MaxDecaySlots {
		return nil, errors.Errorf("decay slots must be within [%d, %d], got %d",
			MinDecaySlots, MaxDecaySlots, k)
	}

	d := &DecayRing{
		slots:   make([]Colour, k),
		weights: make([]float64, k),
		norm:    1,
	}

	for i := range d.weights {
		w := 1 - float64(i)/float64(k)
		d.weights[i] = w * w
		d.norm += w * w
	}

	return d, nil
}

// Len returns the number of slots.
func (d *DecayRing) Len() int {
	return len(d.slots)
}

// Push stores c as the newest colour, evicting the oldest.
func (d *DecayRing) Push(c Colour) {
	d.newest++
	if d.newest == len(d.slots) {
		d.newest = 0
	}

	d.slots[d.newest] = c
}

// Colour returns the weighted blend of the ring. The extra 1 in the
// denominator keeps a single loud tick from reaching full brightness.
func (d *DecayRing) Colour() Colour {
	var sum Colour

	k := len(d.slots)
	for i, w := range d.weights {
		idx := d.newest - i
		if idx < 0 {
			idx += k
		}

		sum = sum.Add(d.slots[idx].Scale(w))
	}

	return sum.Scale(1 / d.norm)
}

// Reset blacks out every slot.
func (d *DecayRing) Reset() {
	for i := range d.slots {
		d.slots[i] = Colour{}
	}
}
