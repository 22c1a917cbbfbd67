// Package sdl provides a display driver that opens an SDL2
// window, plays audio through an SDL queue, and reads the
// keyboard.
package sdl

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/hashicorp/go-multierror"
	"github.com/thelolagemann/pocketboy/internal/apu"
	"github.com/thelolagemann/pocketboy/internal/joypad"
	"github.com/thelolagemann/pocketboy/internal/ppu"
	"github.com/thelolagemann/pocketboy/pkg/display"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	bytesPerPixel = 3
	pitch         = ppu.ScreenWidth * bytesPerPixel
	// maxQueued bounds the audio queue, so that latency stays
	// low when the emulator runs faster than real time.
	maxQueued = 8192
)

var vsync = true

func init() {
	// SDL video calls must all come from the main thread
	runtime.LockOSThread()

	display.Install("sdl", &driver{}, []display.DriverOption{
		{
			Name:        "vsync",
			Default:     true,
			Value:       &vsync,
			Description: "synchronise presentation with the display",
			Type:        "bool",
		},
	})
}

type driver struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	audio    sdl.AudioDeviceID

	mu     sync.Mutex
	frame  ppu.Frame
	dirty  bool
	keys   map[sdl.Keycode]joypad.Button
	buffer []byte
}

// DrawFrame implements platform.FrameSink.
func (d *driver) DrawFrame(frame *ppu.Frame) error {
	d.mu.Lock()
	d.frame = *frame
	d.dirty = true
	d.mu.Unlock()
	return nil
}

// PlaySamples implements platform.AudioSink.
func (d *driver) PlaySamples(samples []apu.Sample) error {
	if d.audio == 0 {
		return nil
	}
	if sdl.GetQueuedAudioSize(d.audio) > maxQueued {
		return nil // drop, we are ahead
	}

	d.buffer = d.buffer[:0]
	for _, s := range samples {
		d.buffer = append(d.buffer, s.Left, s.Right)
	}
	return sdl.QueueAudio(d.audio, d.buffer)
}

func (d *driver) Start(ctx context.Context, cfg display.Config, events chan<- joypad.Event) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl: init: %w", err)
	}
	if err := d.open(cfg); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / 120)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			switch ev := ev.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if ev.Repeat != 0 {
					continue
				}
				if ev.Keysym.Sym == sdl.K_ESCAPE {
					return nil
				}
				button, ok := d.keys[ev.Keysym.Sym]
				if !ok {
					continue
				}
				select {
				case events <- joypad.Event{Button: button, Pressed: ev.Type == sdl.KEYDOWN}:
				default:
				}
			}
		}

		if err := d.present(); err != nil {
			return err
		}
	}
}

func (d *driver) open(cfg display.Config) error {
	scale := int32(cfg.Scale)
	if scale < 1 {
		scale = 1
	}

	var err error
	d.window, err = sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		ppu.ScreenWidth*scale, ppu.ScreenHeight*scale,
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("sdl: creating window: %w", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if vsync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	if d.renderer, err = sdl.CreateRenderer(d.window, -1, flags); err != nil {
		return fmt.Errorf("sdl: creating renderer: %w", err)
	}
	if err := d.renderer.SetLogicalSize(ppu.ScreenWidth, ppu.ScreenHeight); err != nil {
		return fmt.Errorf("sdl: setting logical size: %w", err)
	}
	if d.texture, err = d.renderer.CreateTexture(sdl.PIXELFORMAT_RGB24, sdl.TEXTUREACCESS_STREAMING, ppu.ScreenWidth, ppu.ScreenHeight); err != nil {
		return fmt.Errorf("sdl: creating texture: %w", err)
	}

	d.keys = make(map[sdl.Keycode]joypad.Button)
	for button, name := range cfg.Bindings {
		key := sdl.GetKeyFromName(name)
		if key == sdl.K_UNKNOWN {
			return fmt.Errorf("sdl: unknown key %q", name)
		}
		d.keys[key] = button
	}

	rate := cfg.SampleRate
	if rate == 0 {
		rate = apu.DefaultSampleRate
	}
	spec := &sdl.AudioSpec{
		Freq:     int32(rate),
		Format:   sdl.AUDIO_U8,
		Channels: 2,
		Samples:  1024,
	}
	if d.audio, err = sdl.OpenAudioDevice("", false, spec, nil, 0); err != nil {
		// carry on without sound
		d.audio = 0
		return nil
	}
	sdl.PauseAudioDevice(d.audio, false)

	return nil
}

// present uploads the latest frame, if a new one arrived.
func (d *driver) present() error {
	d.mu.Lock()
	if !d.dirty {
		d.mu.Unlock()
		return nil
	}
	err := d.texture.Update(nil, unsafe.Pointer(&d.frame[0][0][0]), pitch)
	d.dirty = false
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("sdl: updating texture: %w", err)
	}

	if err := d.renderer.Clear(); err != nil {
		return err
	}
	if err := d.renderer.Copy(d.texture, nil, nil); err != nil {
		return err
	}
	d.renderer.Present()
	return nil
}

func (d *driver) Stop() error {
	var result error
	if d.audio != 0 {
		sdl.CloseAudioDevice(d.audio)
	}
	if d.texture != nil {
		if err := d.texture.Destroy(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if d.renderer != nil {
		if err := d.renderer.Destroy(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if d.window != nil {
		if err := d.window.Destroy(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	sdl.Quit()
	return result
}
