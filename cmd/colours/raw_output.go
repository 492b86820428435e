package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/noriah/colours/colour"
	"github.com/noriah/colours/dsp"
	"github.com/noriah/colours/processor"
)

// SwatchWidth is the width of a printed swatch in cells.
const SwatchWidth = 6

// RawOutput prints one line per tick: a swatch, the channel values and the
// hex code of every channel.
type RawOutput struct {
	w        io.Writer
	swatches bool
	line     strings.Builder
}

var _ processor.Output = &RawOutput{}

// NewRawOutput returns an output printing to w. Swatches are drawn with
// lipgloss, which drops the colour when w is not a colour terminal.
func NewRawOutput(w io.Writer, swatches bool) *RawOutput {
	return &RawOutput{
		w:        w,
		swatches: swatches,
	}
}

func swatch(c colour.Colour) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Render(strings.Repeat(" ", SwatchWidth))
}

// Write prints the colours of this tick.
func (d *RawOutput) Write(colours []colour.Colour, mags [][]dsp.Magnitude) error {
	d.line.Reset()

	for idx, c := range colours {
		if idx > 0 {
			d.line.WriteString("  ")
		}

		if d.swatches {
			d.line.WriteString(swatch(c))
			d.line.WriteByte(' ')
		}

		r, g, b := c.RGB8()
		fmt.Fprintf(&d.line, "%3d,%3d,%3d %s", r, g, b, c.Hex())
	}

	d.line.WriteByte('\n')

	_, err := io.WriteString(d.w, d.line.String())
	return err
}
