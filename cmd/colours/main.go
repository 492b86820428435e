package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/integrii/flaggy"
	"github.com/noriah/colours"
	"github.com/noriah/colours/colour"
	"github.com/noriah/colours/dsp"
	"github.com/noriah/colours/graphic"
	"github.com/noriah/colours/input"
	"github.com/noriah/colours/processor"
	log "github.com/sirupsen/logrus"

	_ "github.com/noriah/colours/input/all"
)

// AppName is the app name
const AppName = "colours"

// AppDesc is the app description
const AppDesc = "Turns live audio into colours, one per channel"

// AppSite is the app website
const AppSite = "https://github.com/noriah/colours"

var version = "unknown"

func main() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	cfg := newZeroConfig()

	if doFlags(&cfg) {
		return
	}

	chk(cfg.Sanitize(), "invalid config")

	if cfg.verbose {
		log.SetLevel(log.DebugLevel)
	}

	coloursCfg := colours.Config{
		Backend:      cfg.backend,
		Device:       cfg.device,
		SampleRate:   cfg.sampleRate,
		SampleSize:   cfg.sampleSize,
		ChannelCount: cfg.channelCount,
		ProcessRate:  cfg.frameRate,
		Policy:       cfg.inputPolicy,
		UseThreaded:  cfg.useThreaded,
		DecaySlots:   cfg.decaySlots,
		Bank: dsp.BankConfig{
			Window:    cfg.windowKind,
			Normalize: cfg.normalize,
		},
		Mapper: colour.Mapper{
			Palette: colour.DefaultPalette(),
			Gain:    cfg.gain,
			Ceiling: colour.DefaultCeiling,
		},
	}

	if cfg.loudness {
		coloursCfg.Bank.Loudness = dsp.DefaultLoudness()
	}

	switch cfg.output {
	case OutputPrint:
		coloursCfg.Output = NewRawOutput(os.Stdout, true)

	case OutputTerm:
		display := graphic.NewDisplay()
		setupDisplay(&coloursCfg, display, graphic.Config{
			FrameRate: cfg.frameRate,
			Spring:    cfg.spring,
			Spectrum:  cfg.spectrum,
			Palette:   coloursCfg.Mapper.Palette,
			Smoothing: cfg.smoothFactor,
		})
	}

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	chk(colours.Run(&coloursCfg, ctx), "failed to run colours")
}

func setupDisplay(cfg *colours.Config, display *graphic.Display, dispCfg graphic.Config) {
	cfg.Output = display

	cfg.SetupFunc = func() error {
		// anything logged now would land on the screen
		if !log.IsLevelEnabled(log.DebugLevel) {
			log.SetLevel(log.ErrorLevel)
		}

		return display.Init(dispCfg)
	}

	cfg.StartFunc = func(ctx context.Context) (context.Context, error) {
		return display.Start(ctx), nil
	}

	cfg.CleanupFunc = func() error {
		display.Stop()
		return display.Close()
	}
}

var _ processor.Output = (*graphic.Display)(nil)

func doFlags(cfg *config) bool {

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:                 "list-backends",
		ShortName:            "lb",
		Description:          "list all supported backends",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:                 "list-devices",
		ShortName:            "ld",
		Description:          "list all devices for a backend",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	parser.String(&cfg.backend, "b", "backend", "backend name (default picks one for this system)")
	parser.String(&cfg.device, "d", "device", "device name, file for wav, frequency for sine")
	parser.Float64(&cfg.sampleRate, "r", "rate", "sample rate")
	parser.Int(&cfg.sampleSize, "n", "samples", "samples per read")
	parser.Int(&cfg.frameRate, "f", "fps", "colours per second")
	parser.Int(&cfg.channelCount, "ch", "channels", "channel count (1 or 2)")
	parser.Int(&cfg.decaySlots, "ds", "decay", "number of blended past colours [16, 32]")
	parser.Float64(&cfg.gain, "g", "gain", "band gain before folding into a colour")
	parser.Bool(&cfg.loudness, "l", "loudness", "weight bands with an equal-loudness contour")
	parser.Bool(&cfg.normalize, "nm", "normalize", "make band values independent of their frame length")
	parser.String(&cfg.window, "w", "window", "frame window (hann, hamming, rectangle)")
	parser.String(&cfg.policy, "p", "drop", "what to drop when behind (oldest, incoming)")
	parser.Bool(&cfg.useThreaded, "t", "threaded", "use the threaded processor")
	parser.String(&cfg.output, "o", "output", "output mode (term, print)")
	parser.Bool(&cfg.spring, "e", "ease", "ease the displayed colours with a spring")
	parser.Bool(&cfg.spectrum, "s", "spectrum", "draw the bands under the colours")
	parser.Float64(&cfg.smoothFactor, "sf", "smoothing", "spectrum smooth factor (0-100)")
	parser.Bool(&cfg.verbose, "v", "verbose", "debug logging")

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listBackendsCmd.Used:
		for _, backend := range input.Backends {
			fmt.Printf("- %s\n", backend.Name)
		}

		return true

	case listDevicesCmd.Used:
		if cfg.backend == "" {
			cfg.backend = input.DefaultBackend()
		}

		backend, err := input.InitBackend(cfg.backend)
		chk(err, "failed to init backend")

		devices, err := backend.Devices()
		chk(err, "failed to get devices")

		// We don't really need the default device to be indicated.
		defaultDevice, _ := backend.DefaultDevice()

		fmt.Printf("all devices for %q backend. '*' marks default\n", cfg.backend)

		for idx := range devices {
			star := ' '
			if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
				star = '*'
			}

			fmt.Printf("- %v %c\n", devices[idx], star)
		}

		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.WithError(err).Fatal(wrap)
	}
}
