package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// config holds the settings that can come from a YAML file as
// well as from flags. Flags that are set win.
type config struct {
	Driver     string            `yaml:"driver"`
	Palette    string            `yaml:"palette"`
	Keys       map[string]string `yaml:"keys"`
	SampleRate uint32            `yaml:"sample_rate"`
	Scale      int               `yaml:"scale"`
	SaveDir    string            `yaml:"save_dir"`
	Speed      float64           `yaml:"speed"`
	BootROM    string            `yaml:"boot_rom"`
	Cheats     string            `yaml:"cheats"`
	LogLevel   string            `yaml:"log_level"`
}

func defaultConfig() config {
	return config{
		Driver:     "auto",
		Palette:    "greyscale",
		SampleRate: 44100,
		Scale:      4,
		Speed:      1,
		LogLevel:   "info",
	}
}

// bind registers a flag for every config field on fs, defaulting
// to the values in c.
func (c *config) bind(fs *flag.FlagSet) *config {
	flags := *c
	flags.Keys = nil
	fs.StringVar(&flags.Driver, "driver", c.Driver, "the display driver to use, or auto")
	fs.StringVar(&flags.Palette, "palette", c.Palette, "the palette to use: greyscale, green, red or yellow")
	fs.Func("key", "bind a button to a key, as button=key (repeatable)", func(s string) error {
		button, key, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("expected button=key, got %q", s)
		}
		if flags.Keys == nil {
			flags.Keys = make(map[string]string)
		}
		flags.Keys[button] = key
		return nil
	})
	fs.Func("sample-rate", "the audio sample rate", func(s string) error {
		_, err := fmt.Sscan(s, &flags.SampleRate)
		return err
	})
	fs.IntVar(&flags.Scale, "scale", c.Scale, "the scale of the output")
	fs.StringVar(&flags.SaveDir, "save-dir", c.SaveDir, "where to keep saves, next to the ROM if empty")
	fs.Float64Var(&flags.Speed, "speed", c.Speed, "the speed to run the emulator at, 0 for unthrottled")
	fs.StringVar(&flags.BootROM, "boot", c.BootROM, "the boot rom file to load")
	fs.StringVar(&flags.Cheats, "cheats", c.Cheats, "a cheat file to load")
	fs.StringVar(&flags.LogLevel, "log-level", c.LogLevel, "the log level")
	return &flags
}

// merge copies the flags that were set on fs from flags into c.
func (c *config) merge(fs *flag.FlagSet, flags *config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			c.Driver = flags.Driver
		case "palette":
			c.Palette = flags.Palette
		case "key":
			if c.Keys == nil {
				c.Keys = make(map[string]string)
			}
			for button, key := range flags.Keys {
				c.Keys[button] = key
			}
		case "sample-rate":
			c.SampleRate = flags.SampleRate
		case "scale":
			c.Scale = flags.Scale
		case "save-dir":
			c.SaveDir = flags.SaveDir
		case "speed":
			c.Speed = flags.Speed
		case "boot":
			c.BootROM = flags.BootROM
		case "cheats":
			c.Cheats = flags.Cheats
		case "log-level":
			c.LogLevel = flags.LogLevel
		}
	})
}

// load reads the YAML file at path over c. Fields missing from
// the file keep their value.
func (c *config) load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
