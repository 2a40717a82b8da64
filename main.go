// main.go - Command line entry point for the PSG note meter

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nAY/YM PSG note meter for 128x64 OLED panels.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("License: GPLv3 or later")
}

type runOptions struct {
	meter      MeterConfig
	outputs    []int
	serialPort string
	baud       int
	pngDir     string
	pngEvery   int
	scale      int
	loop       bool
	debug      bool
	quiet      bool
	features   bool
	filename   string
}

func parseNoteStyle(name string) (NoteStyle, error) {
	switch strings.ToLower(name) {
	case "one", "onerow", "1":
		return StyleOneRow, nil
	case "two", "tworows", "2":
		return StyleTwoRows, nil
	case "grid", "full", "fullgrid":
		return StyleFullGrid, nil
	}
	return 0, &MeterError{Operation: "style selection", Details: fmt.Sprintf("unknown note style %q", name)}
}

func parseDecayPolicy(name string) (DecayPolicy, error) {
	switch strings.ToLower(name) {
	case "linear":
		return DecayLinear, nil
	case "halving", "half":
		return DecayHalving, nil
	}
	return 0, &MeterError{Operation: "decay selection", Details: fmt.Sprintf("unknown decay policy %q", name)}
}

func parseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "bars", "vol":
		return ModeBars, nil
	case "notes":
		return ModeNotes, nil
	case "falling", "fall":
		return ModeFalling, nil
	}
	return 0, &MeterError{Operation: "mode selection", Details: fmt.Sprintf("unknown mode %q", name)}
}

func parseArgs(args []string) (runOptions, error) {
	opts := runOptions{meter: DefaultMeterConfig()}
	var style, decay, mode, outputs string

	flagSet := flag.NewFlagSet("psgmeter", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&mode, "mode", "bars", "Initial view: bars, notes or falling")
	flagSet.StringVar(&style, "style", "two", "Note style: one, two or grid")
	flagSet.StringVar(&decay, "decay", "linear", "Falling note decay: linear or halving")
	flagSet.IntVar(&opts.meter.Row, "row", opts.meter.Row, "Display page holding the meter band (1-7)")
	flagSet.StringVar(&outputs, "out", "terminal", "Comma separated outputs: window, terminal, png, serial, none")
	flagSet.StringVar(&opts.serialPort, "serial", "", "Serial port of the OLED bridge")
	flagSet.IntVar(&opts.baud, "baud", defaultBaudRate, "Serial baud rate")
	flagSet.StringVar(&opts.pngDir, "png-dir", "frames", "Directory for PNG snapshots")
	flagSet.IntVar(&opts.pngEvery, "png-every", 1, "Save every Nth frame as PNG")
	flagSet.IntVar(&opts.scale, "scale", defaultWindowScale, "Window pixel scale")
	flagSet.BoolVar(&opts.loop, "loop", false, "Restart the song when it ends")
	flagSet.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flagSet.BoolVar(&opts.quiet, "q", false, "Do not print the banner")
	flagSet.BoolVar(&opts.features, "features", false, "Print version and compiled features")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: psgmeter [-mode bars|notes|falling] [-style one|two|grid] [-decay linear|halving] [-out window,terminal,png,serial] filename")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	opts.filename = flagSet.Arg(0)
	if opts.features {
		return opts, nil
	}
	if opts.filename == "" {
		return opts, errors.New("a .ym, .ay, .vgm or .vgz file is required")
	}

	var err error
	if opts.meter.Style, err = parseNoteStyle(style); err != nil {
		return opts, err
	}
	if opts.meter.Decay, err = parseDecayPolicy(decay); err != nil {
		return opts, err
	}
	if opts.meter.Mode, err = parseMode(mode); err != nil {
		return opts, err
	}
	if err := opts.meter.validate(); err != nil {
		return opts, err
	}

	for _, name := range strings.Split(outputs, ",") {
		kind, err := parseOutput(strings.TrimSpace(name))
		if err != nil {
			return opts, err
		}
		if kind == OUTPUT_SERIAL && opts.serialPort == "" {
			return opts, &MeterError{Operation: "output selection", Details: "serial output needs -serial"}
		}
		if kind != OUTPUT_NONE {
			opts.outputs = append(opts.outputs, kind)
		}
	}
	return opts, nil
}

// openSinks builds the selected outputs. The window, when selected, is
// returned separately because it must run on the main goroutine.
func openSinks(opts runOptions, caption string) (multiSink, *WindowOutput, error) {
	var sinks multiSink
	var window *WindowOutput
	for _, kind := range opts.outputs {
		var (
			sink FrameSink
			err  error
		)
		switch kind {
		case OUTPUT_WINDOW:
			window, err = NewWindowOutput(opts.scale)
			sink = window
		case OUTPUT_TERMINAL:
			sink = NewTerminalDisplay(os.Stdout, caption)
		case OUTPUT_PNG:
			sink, err = NewPNGRecorder(opts.pngDir, opts.pngEvery, caption)
		case OUTPUT_SERIAL:
			var sd *SerialDisplay
			if sd, err = OpenSerialDisplay(opts.serialPort, opts.baud); err == nil {
				if err = sd.Reset(); err != nil {
					sd.Close()
				}
				sink = sd
			}
		}
		if err != nil {
			sinks.Close()
			return nil, nil, err
		}
		sinks = append(sinks, sink)
	}
	return sinks, window, nil
}

func songCaption(meta MusicMetadata, filename string) string {
	switch {
	case meta.Title != "" && meta.Author != "":
		return meta.Title + " - " + meta.Author
	case meta.Title != "":
		return meta.Title
	}
	return filename
}

func run(ctx context.Context, opts runOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := NewPSGEngine(PSG_CLOCK_ATARI_ST, PSG_FRAME_RATE_PAL)
	player := NewPSGPlayer(engine)
	player.SetLoop(opts.loop)
	if !isPSGExtension(opts.filename) {
		logger.Info("psg: unknown extension, detecting format from content", "file", opts.filename)
	}
	if err := player.Load(opts.filename); err != nil {
		return err
	}
	caption := songCaption(player.Metadata(), opts.filename)
	runtimeStatus.setTitle(caption, uint64(player.TotalFrames()))
	logger.Info("psg: playing", "song", caption, "duration", player.DurationText(), "mode", opts.meter.Mode)

	fb := NewOLEDFramebuffer(opts.meter.Row)
	meter, err := NewMeter(fb, opts.meter)
	if err != nil {
		return err
	}
	sinks, window, err := openSinks(opts, caption)
	if err != nil {
		return err
	}
	defer sinks.Close()

	var modeRequests <-chan Mode
	if window != nil {
		modeRequests = window.ModeRequests()
	}

	var presentErr error
	onFrame := func(frame int, samples [NumChannels]ChannelSample) {
		select {
		case mode := <-modeRequests:
			meter.SetMode(mode)
			logger.Debug("meter: mode changed", "mode", mode)
		default:
		}
		meter.Frame(samples)
		runtimeStatus.setFrame(uint64(frame+1), meter.Mode(), meter.Notes())
		runtimeStatus.setLoops(player.Loops())
		if err := sinks.Present(fb); err != nil && presentErr == nil {
			presentErr = err
			cancel()
		}
	}

	if window == nil {
		err = player.Run(ctx, onFrame)
	} else {
		done := make(chan error, 1)
		go func() {
			done <- player.Run(ctx, onFrame)
			runtimeStatus.setFinished()
		}()
		if werr := window.Run(ctx); werr != nil {
			cancel()
			<-done
			return werr
		}
		cancel()
		err = <-done
	}
	if presentErr != nil {
		return presentErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if opts.features {
		printFeatures(os.Stdout)
		return
	}
	if !opts.quiet {
		boilerPlate()
	}
	initLogger(opts.debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		logger.Error("psgmeter failed", "err", err)
		stop()
		os.Exit(1)
	}
}
