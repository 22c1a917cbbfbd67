// Command pocketboy runs a Game Boy ROM behind one of the
// installed display drivers, or headless to capture its output.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/hashicorp/go-multierror"
	"github.com/thelolagemann/pocketboy/internal/cheats"
	"github.com/thelolagemann/pocketboy/internal/gameboy"
	"github.com/thelolagemann/pocketboy/internal/joypad"
	"github.com/thelolagemann/pocketboy/internal/ppu/palette"
	"github.com/thelolagemann/pocketboy/pkg/display"
	_ "github.com/thelolagemann/pocketboy/pkg/display/sdl"
	_ "github.com/thelolagemann/pocketboy/pkg/display/web"
	"github.com/thelolagemann/pocketboy/pkg/emulator"
	"github.com/thelolagemann/pocketboy/pkg/log"
	"github.com/thelolagemann/pocketboy/pkg/platform"
	"github.com/thelolagemann/pocketboy/pkg/utils"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "pocketboy:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("pocketboy", flag.ContinueOnError)
	cfg := defaultConfig()
	flags := cfg.bind(fs)

	romFile := fs.String("rom", "", "the rom file to load")
	configFile := fs.String("config", "", "a YAML config file")
	stateFile := fs.String("state", "", "a state file to load, or latest")
	saveState := fs.Bool("save-state", false, "save a state when exiting")
	headless := fs.Int("headless", 0, "run this many frames without a display")
	screenshot := fs.String("screenshot", "", "headless: save the last frame as a BMP")
	wavFile := fs.String("wav", "", "headless: record the audio as a WAV")
	plotFile := fs.String("plot", "", "headless: plot the audio waveform as a PNG")
	display.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *romFile == "" && fs.NArg() > 0 {
		*romFile = fs.Arg(0)
	}
	if *romFile == "" {
		fs.Usage()
		return errors.New("no rom given")
	}

	if *configFile != "" {
		if err := cfg.load(*configFile); err != nil {
			return err
		}
	}
	cfg.merge(fs, flags)

	logger := log.NewWithOutput(os.Stderr, cfg.LogLevel)

	rom, err := utils.LoadFile(*romFile)
	if err != nil {
		return err
	}

	saveDir := cfg.SaveDir
	if saveDir == "" {
		saveDir = filepath.Dir(*romFile)
	}

	opts, err := machineOptions(cfg, logger)
	if err != nil {
		return err
	}
	opts = append(opts, gameboy.WithStorage(platform.NewFileStorage(*romFile, cfg.SaveDir)))

	states := emulator.NewStates(filepath.Join(saveDir, "states"), xxhash.Sum64(rom))
	if *stateFile != "" {
		var state []byte
		if *stateFile == "latest" {
			state, err = states.Latest()
		} else {
			state, err = emulator.ReadState(*stateFile)
		}
		if err != nil {
			return fmt.Errorf("loading state: %w", err)
		}
		opts = append(opts, gameboy.WithState(state))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if *headless > 0 {
		res, err := emulator.Headless{
			Frames:     *headless,
			Screenshot: *screenshot,
			Scale:      cfg.Scale,
			Audio:      *wavFile,
			Plot:       *plotFile,
			SampleRate: cfg.SampleRate,
		}.Run(ctx, rom, opts...)
		fmt.Printf("%s after %d frames, frame hash %016x, %d samples\n", res.Status, res.Frames, res.Hash, res.Samples)
		return err
	}

	driver, err := display.GetDriver(cfg.Driver)
	if err != nil {
		return err
	}
	opts = append(opts, gameboy.WithFrameSink(driver))
	if audio, ok := driver.(platform.AudioSink); ok {
		opts = append(opts, gameboy.WithAudioSink(audio))
	} else {
		opts = append(opts, gameboy.NoAudio())
	}

	g, err := gameboy.New(rom, opts...)
	if err != nil {
		return err
	}

	bindings, err := display.ParseBindings(cfg.Keys)
	if err != nil {
		return err
	}

	// the machine runs on its own goroutine, the driver keeps
	// the main thread
	events := make(chan joypad.Event, 16)
	done := make(chan error, 1)
	go func() {
		done <- g.Run(ctx, events)
		cancel()
	}()

	var result error
	if err := driver.Start(ctx, display.Config{
		Title:      strings.TrimSpace(g.Cartridge.Title()),
		Scale:      cfg.Scale,
		SampleRate: cfg.SampleRate,
		Bindings:   bindings,
	}, events); err != nil {
		result = multierror.Append(result, err)
	}
	cancel()

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		result = multierror.Append(result, err)
	}
	if err := g.Save(); err != nil {
		result = multierror.Append(result, fmt.Errorf("saving: %w", err))
	}
	if *saveState {
		path, err := states.Save(g.SaveState())
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("saving state: %w", err))
		} else {
			logger.Infof("saved state to %s", path)
		}
	}
	if err := driver.Stop(); err != nil {
		result = multierror.Append(result, err)
	}

	return result
}

// machineOptions turns cfg into the options every machine is
// built with.
func machineOptions(cfg config, logger log.Logger) ([]gameboy.Opt, error) {
	id, ok := palette.Parse(cfg.Palette)
	if !ok {
		return nil, fmt.Errorf("unknown palette %q", cfg.Palette)
	}

	opts := []gameboy.Opt{
		gameboy.WithLogger(logger),
		gameboy.Speed(cfg.Speed),
		gameboy.WithPalette(id),
		gameboy.WithSampleRate(cfg.SampleRate),
	}

	if cfg.BootROM != "" {
		boot, err := utils.LoadFile(cfg.BootROM)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gameboy.WithBootROM(boot))
	}

	if cfg.Cheats != "" {
		f, err := os.Open(cfg.Cheats)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		set, err := cheats.Parse(f)
		if err != nil {
			return nil, err
		}
		logger.Infof("loaded %d cheats from %s", len(set.Cheats), cfg.Cheats)
		opts = append(opts, gameboy.WithCheats(set))
	}

	return opts, nil
}
