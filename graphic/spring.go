package graphic

import (
	"github.com/charmbracelet/harmonica"
	"github.com/noriah/colours/colour"
)

// Spring easing defaults.
const (
	SpringFrequency = 6.0
	SpringDamping   = 1.0
)

// springField eases every channel of every swatch towards its target.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps int, frequency, damping float64) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (s *springField) resize(n int) {
	if len(s.pos) == n {
		return
	}
	s.pos = make([]float64, n)
	s.vel = make([]float64, n)
}

func (s *springField) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}

// ease moves colours in place towards their targets.
func (s *springField) ease(colours []colour.Colour) {
	s.resize(len(colours) * 3)

	for i := range colours {
		c := &colours[i]
		c.R = s.step(i*3, c.R)
		c.G = s.step(i*3+1, c.G)
		c.B = s.step(i*3+2, c.B)
	}
}
