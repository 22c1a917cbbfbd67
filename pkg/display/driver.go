// Package display defines the display drivers that frontends
// run the emulator behind, and the registry that lets the CLI
// pick one by name.
package display

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/thelolagemann/pocketboy/internal/joypad"
	"github.com/thelolagemann/pocketboy/pkg/platform"
)

// ErrNoDriver is returned by GetDriver when no driver with the
// requested name is installed.
var ErrNoDriver = errors.New("display: no such driver")

// Driver is the interface that wraps the basic methods for a
// display driver. DrawFrame is called from the goroutine running
// the emulator, Start from the main goroutine.
type Driver interface {
	platform.FrameSink
	// Start runs the driver until ctx is cancelled or the user
	// quits, sending button events on events.
	Start(ctx context.Context, cfg Config, events chan<- joypad.Event) error
	// Stop releases any resources held by the driver.
	Stop() error
}

// Config is passed to a Driver when it is started.
type Config struct {
	// Title is shown wherever the driver has a title.
	Title string
	// Scale is the integer scale of the output.
	Scale int
	// SampleRate is the rate of the samples passed to an
	// audio capable driver.
	SampleRate uint32
	// Bindings maps buttons to key names.
	Bindings Bindings
}

// Bindings maps each button to the name of the key that
// presses it.
type Bindings map[joypad.Button]string

// DefaultBindings are used for any button without a binding.
var DefaultBindings = Bindings{
	joypad.ButtonA:      "X",
	joypad.ButtonB:      "Z",
	joypad.ButtonSelect: "Backspace",
	joypad.ButtonStart:  "Return",
	joypad.ButtonRight:  "Right",
	joypad.ButtonLeft:   "Left",
	joypad.ButtonUp:     "Up",
	joypad.ButtonDown:   "Down",
}

var buttonNames = map[string]joypad.Button{
	"a":      joypad.ButtonA,
	"b":      joypad.ButtonB,
	"select": joypad.ButtonSelect,
	"start":  joypad.ButtonStart,
	"right":  joypad.ButtonRight,
	"left":   joypad.ButtonLeft,
	"up":     joypad.ButtonUp,
	"down":   joypad.ButtonDown,
}

// ParseBindings converts a map of button names to key names,
// such as {"start": "Return"}, into Bindings, starting from the
// defaults.
func ParseBindings(keys map[string]string) (Bindings, error) {
	b := make(Bindings, len(DefaultBindings))
	for button, key := range DefaultBindings {
		b[button] = key
	}
	for name, key := range keys {
		button, ok := buttonNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("display: unknown button %q", name)
		}
		b[button] = key
	}
	return b, nil
}

// DriverOption is a display driver option. This is used to
// configure a display driver.
type DriverOption struct {
	Name        string // name of the option
	Default     any    // default value of the option
	Value       any    // pointer to the value of the option
	Description string // description of the option
	Type        string // "int", "bool", "string", "float"
}

// InstalledDriver is a driver that has been installed. This is
// used to allow drivers to register their name.
type InstalledDriver struct {
	Name    string
	Options []DriverOption
	Driver
}

// InstalledDrivers is a list of all the installed drivers. This
// variable is exported so that it can be used by the main
// program to determine which drivers can be used. Drivers should
// call display.Install in their init() function.
var InstalledDrivers []*InstalledDriver

// GetDriver returns the driver with the given name. The name
// "auto" picks the first installed driver.
func GetDriver(name string) (Driver, error) {
	if name == "auto" && len(InstalledDrivers) > 0 {
		return InstalledDrivers[0].Driver, nil
	}
	for _, driver := range InstalledDrivers {
		if driver.Name == name {
			return driver.Driver, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNoDriver, name)
}

// Install registers a display driver with the given name.
func Install(name string, driver Driver, options []DriverOption) {
	InstalledDrivers = append(InstalledDrivers, &InstalledDriver{
		Name:    name,
		Options: options,
		Driver:  driver,
	})
}

// RegisterFlags iterates through all the display driver
// options and registers them with fs. An option shared by
// several drivers becomes a single flag setting all of them,
// other options are prefixed with the driver name.
func RegisterFlags(fs *flag.FlagSet) {
	optionCounts := make(map[string]int)
	opts := make(map[string][]DriverOption)
	prefixes := make(map[string]string)

	for _, driver := range InstalledDrivers {
		for _, opt := range driver.Options {
			// track how many times an option is used
			optionCounts[opt.Name]++
			opts[opt.Name] = append(opts[opt.Name], opt)
			prefixes[opt.Name] = driver.Name
		}
	}

	for o, count := range optionCounts {
		opt := opts[o][0]
		if count > 1 {
			multi := &multiValue{defaultValue: opt.Default}
			for _, mOpt := range opts[o] {
				multi.values = append(multi.values, mOpt.Value)
				setDefault(mOpt)
			}
			fs.Var(multi, o, opt.Description)
			continue
		}

		// this option is unique and should be prefixed
		optName := fmt.Sprintf("%s-%s", prefixes[o], opt.Name)
		switch opt.Type {
		case "string":
			fs.StringVar(opt.Value.(*string), optName, opt.Default.(string), opt.Description)
		case "bool":
			fs.BoolVar(opt.Value.(*bool), optName, opt.Default.(bool), opt.Description)
		case "int":
			fs.IntVar(opt.Value.(*int), optName, opt.Default.(int), opt.Description)
		case "float":
			fs.Float64Var(opt.Value.(*float64), optName, opt.Default.(float64), opt.Description)
		}
	}
}

func setDefault(opt DriverOption) {
	switch v := opt.Value.(type) {
	case *string:
		*v = opt.Default.(string)
	case *bool:
		*v = opt.Default.(bool)
	case *int:
		*v = opt.Default.(int)
	case *float64:
		*v = opt.Default.(float64)
	}
}

type multiValue struct {
	values       []any
	defaultValue any
}

func (m *multiValue) String() string {
	if m == nil || m.defaultValue == nil {
		return ""
	}
	return fmt.Sprint(m.defaultValue)
}

func (m *multiValue) Set(value string) error {
	// update all the pointers with the provided value
	for _, ptr := range m.values {
		switch v := ptr.(type) {
		case *string:
			*v = value
		case *bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			*v = b
		case *int:
			i, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			*v = i
		case *float64:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return err
			}
			*v = f
		default:
			return fmt.Errorf("display: unknown option type %T", ptr)
		}
	}

	return nil
}

func (m *multiValue) IsBoolFlag() bool {
	_, isBool := m.defaultValue.(bool)
	return isBool
}
