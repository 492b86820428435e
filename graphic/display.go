package graphic

import (
	"context"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/noriah/colours/colour"
	"github.com/noriah/colours/dsp"
	"github.com/noriah/colours/util"
	"github.com/pkg/errors"
)

const (
	// DisplayBar is the block we use for bars
	DisplayBar rune = '█'

	// DisplaySpace is the block we use for space (if we were to print one)
	DisplaySpace rune = ' '

	// NumRunes number of runes for sub step bars
	NumRunes = 8

	// StripRows is the height of the spectrum strip
	StripRows = 4

	// Scaling Constants

	// ScalingSlowWindow in seconds
	ScalingSlowWindow = 5

	// ScalingFastWindow in seconds
	ScalingFastWindow = ScalingSlowWindow * 0.2

	// ScalingDumpPercent is how much we erase on rescale
	ScalingDumpPercent = 0.75

	// ScalingResetDeviation standard deviations from the mean before reset
	ScalingResetDeviation = 1
)

var (
	barRunes = [NumRunes]rune{
		DisplaySpace,
		'▁',
		'▂',
		'▃',
		'▄',
		'▅',
		'▆',
		'▇',
	}

	styleDefault = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Config configures a Display.
type Config struct {
	// FrameRate is the rate Write is called at
	FrameRate int
	// Spring eases the swatches instead of showing every colour as is
	Spring bool
	// Spectrum draws the band magnitudes under the swatches
	Spectrum bool
	// Palette colours the spectrum strip, default palette when empty
	Palette colour.Palette
	// Smoothing of the spectrum strip, 0 (off) to 1
	Smoothing float64
}

// Display draws one colour swatch per channel.
type Display struct {
	cfg Config

	springs springField
	eased   []colour.Colour

	smoother *dsp.Smoother
	strip    [][]dsp.Magnitude

	slowWindow *util.MovingWindow
	fastWindow *util.MovingWindow

	mu     sync.Mutex
	screen tcell.Screen

	restore func()
}

// NewDisplay returns a display that still needs Init.
func NewDisplay() *Display {
	return &Display{}
}

// Init sets up the terminal.
// Should be called before any other display method.
func (d *Display) Init(cfg Config) error {
	restore, err := normalizeTerminal()
	if err != nil {
		return errors.Wrap(err, "failed to normalize terminal")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		restore()
		return errors.Wrap(err, "failed to create screen")
	}

	if err := screen.Init(); err != nil {
		restore()
		return errors.Wrap(err, "failed to init screen")
	}

	d.restore = restore

	return d.InitScreen(screen, cfg)
}

// InitScreen sets up the display on an initialized screen.
func (d *Display) InitScreen(screen tcell.Screen, cfg Config) error {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 60
	}

	if cfg.Palette.Len() == 0 {
		cfg.Palette = colour.DefaultPalette()
	}

	screen.DisableMouse()
	screen.HideCursor()

	d.cfg = cfg
	d.screen = screen
	d.springs = newSpringField(cfg.FrameRate, SpringFrequency, SpringDamping)
	d.slowWindow = util.NewMovingWindow(ScalingSlowWindow * cfg.FrameRate)
	d.fastWindow = util.NewMovingWindow(int(ScalingFastWindow * float64(cfg.FrameRate)))

	return nil
}

// Start display is bad
func (d *Display) Start(ctx context.Context) context.Context {
	var dispCtx, dispCancel = context.WithCancel(ctx)
	go eventPoller(dispCtx, dispCancel, d)
	return dispCtx
}

// eventPoller will take events and do things with them
func eventPoller(ctx context.Context, fn context.CancelFunc, d *Display) {
	defer fn()

	for {
		// first check if we need to exit
		select {
		case <-ctx.Done():
			return
		default:
		}

		var ev = d.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q', 'Q':
					return

				case 's', 'S':
					d.mu.Lock()
					d.cfg.Spectrum = !d.cfg.Spectrum
					d.mu.Unlock()

				case 'e', 'E':
					d.mu.Lock()
					d.cfg.Spring = !d.cfg.Spring
					d.mu.Unlock()

				default:

				}

			case tcell.KeyCtrlC, tcell.KeyEscape:
				return

			default:

			}

		case *tcell.EventResize:
			d.screen.Sync()

		default:

		}
	}
}

// Stop display not work
func (d *Display) Stop() error {
	return nil
}

// Close will stop display and clean up the terminal
func (d *Display) Close() error {
	if d.screen != nil {
		d.screen.Fini()
	}

	if d.restore != nil {
		d.restore()
	}

	return nil
}

func (d *Display) updateWindow(peak float64, scale float64) float64 {
	// do some scaling if we are above 0
	if peak > 0.0 {
		d.fastWindow.Update(peak)
		var vMean, vSD = d.slowWindow.Update(peak)

		if length := d.slowWindow.Len(); length >= d.fastWindow.Cap() {

			if math.Abs(d.fastWindow.Mean()-vMean) > (ScalingResetDeviation * vSD) {
				vMean, vSD = d.slowWindow.Drop(
					int(float64(length) * ScalingDumpPercent))
			}
		}

		// value to scale by to make conditions easier to base on
		if peak/math.Max(vMean+(1.5*vSD), 1) > 1.4 {
			vMean, vSD = d.slowWindow.Drop(
				int(float64(d.slowWindow.Len()) * ScalingDumpPercent))
		}

		scale /= math.Max(vMean+(1.5*vSD), 1)
	}

	return scale
}

func tcellColour(c colour.Colour) tcell.Color {
	r, g, b := c.RGB8()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Write draws a swatch for every channel side by side, and the spectrum
// strip under them when enabled.
func (d *Display) Write(colours []colour.Colour, mags [][]dsp.Magnitude) error {
	if len(colours) < 1 {
		return errors.New("not enough channels to draw")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.eased = append(d.eased[:0], colours...)
	if d.cfg.Spring {
		d.springs.ease(d.eased)
	}

	var width, height = d.screen.Size()

	var swatchRows = height
	if d.cfg.Spectrum && height > StripRows {
		swatchRows = height - StripRows
	}

	var chWidth = width / len(d.eased)

	for xCh, c := range d.eased {
		var style = tcell.StyleDefault.Background(tcellColour(c))

		var lCol = (xCh + 1) * chWidth
		if xCh == len(d.eased)-1 {
			lCol = width
		}

		for xCol := xCh * chWidth; xCol < lCol; xCol++ {
			for xRow := 0; xRow < swatchRows; xRow++ {
				d.screen.SetContent(xCol, xRow, DisplaySpace, nil, style)
			}
		}
	}

	if swatchRows < height && len(mags) == len(d.eased) {
		d.drawStrip(mags, chWidth, swatchRows, height-swatchRows)
	}

	d.screen.Show()

	return nil
}

// drawStrip draws every channel's bands in its column range, lowest band on
// the left.
func (d *Display) drawStrip(mags [][]dsp.Magnitude, chWidth, top, rows int) {
	if d.smoother == nil || !d.smoother.Fits(len(mags), len(mags[0])) {
		d.smoother = dsp.NewSmoother(dsp.SmootherConfig{
			Bands:           len(mags[0]),
			ChannelCount:    len(mags),
			SmoothingFactor: d.cfg.Smoothing,
		})
		d.strip = make([][]dsp.Magnitude, len(mags))
	}

	for xCh := range mags {
		if len(mags[xCh]) != len(mags[0]) {
			return
		}
		d.strip[xCh] = d.smoother.Smooth(xCh, mags[xCh], d.strip[xCh])
	}
	mags = d.strip

	var peak float64
	for _, chMags := range mags {
		for _, m := range chMags {
			peak = math.Max(peak, m.Value)
		}
	}

	var scale = d.updateWindow(peak, float64(rows))

	for xCh, chMags := range mags {
		if len(chMags) == 0 {
			continue
		}

		for x := 0; x < chWidth; x++ {
			var band = x * len(chMags) / chWidth
			var style = styleDefault.Foreground(tcellColour(d.cfg.Palette.At(band)))

			var level = int(math.Min(float64(rows), chMags[band].Value*scale) * NumRunes)
			var xCol = xCh*chWidth + x

			for xRow := top + rows - 1; xRow >= top; xRow-- {
				var r = DisplaySpace
				switch {
				case level >= NumRunes:
					r = DisplayBar
				case level > 0:
					r = barRunes[level]
				}

				d.screen.SetContent(xCol, xRow, r, nil, style)
				level -= NumRunes
			}
		}
	}
}
