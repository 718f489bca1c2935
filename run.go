package stagehand

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// RunOption customizes Run beyond what Config carries.
type RunOption func(*runOptions)

type runOptions struct {
	sink   EventSink
	assets fs.FS
}

// WithEventSink installs sink on the driver before the first tick.
func WithEventSink(sink EventSink) RunOption {
	return func(o *runOptions) { o.sink = sink }
}

// WithAssets loads resources from fsys instead of Config.AssetsDir, for
// example an embed.FS.
func WithAssets(fsys fs.FS) RunOption {
	return func(o *runOptions) { o.assets = fsys }
}

// Run opens a window, loads app and drives it until the window closes or a
// state calls Context.Quit. It blocks for the lifetime of the game and must
// be called from the main goroutine.
func Run[G, S any](app App[G, S], cfg Config, opts ...RunOption) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	logger, err := NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetTPS(cfg.TPS)

	scale := deviceScale()
	surface := NewSurface(int(float64(cfg.Width)*scale), int(float64(cfg.Height)*scale))
	sound := NewSoundContext(audio.NewContext(cfg.SampleRate), cfg.SampleRate)

	var store Store = NewMemStore()
	if cfg.StoragePath != "" {
		bs, err := OpenBoltStore(cfg.StoragePath)
		if err != nil {
			return err
		}
		store = bs
	}
	defer store.Close()

	assets := o.assets
	if assets == nil {
		dir := cfg.AssetsDir
		if dir == "" {
			dir = "."
		}
		assets = os.DirFS(dir)
	}

	d, err := NewDriver(app, DriverOptions{
		Surface:     surface,
		Clock:       NewSystemClock(),
		Sound:       sound,
		Store:       store,
		StorageKey:  cfg.StorageKey,
		Resources:   NewResources(assets, surface, sound),
		RemSize:     cfg.RemSize,
		DeviceScale: deviceScale,
		Logger:      logger,
		Debug:       cfg.Debug,
	})
	if err != nil {
		return err
	}
	d.SetEventSink(o.sink)

	h := &host[G, S]{
		driver:        d,
		capture:       NewInputCapture(d.Queue(), surface),
		screenshotDir: cfg.ScreenshotDir,
		logger:        d.Logger(),
	}
	h.capture.RepeatDelay = cfg.KeyRepeatDelay
	h.capture.RepeatInterval = cfg.KeyRepeatInterval
	if cfg.ShowFPS {
		h.fps = newFPSOverlay()
	}
	if cfg.TestScript != "" {
		data, err := os.ReadFile(cfg.TestScript)
		if err != nil {
			return fmt.Errorf("stagehand: read test script: %w", err)
		}
		if h.runner, err = LoadTestScript(data); err != nil {
			return err
		}
	}

	err = ebiten.RunGame(h)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	d.Logger().Info("stopped", slog.Uint64("ticks", d.Ticks()))
	return err
}

// deviceScale returns the device pixel ratio of the current monitor.
func deviceScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		if s := m.DeviceScaleFactor(); s > 0 {
			return s
		}
	}
	return 1
}

// host adapts a Driver to ebiten.Game.
type host[G, S any] struct {
	driver  *Driver[G, S]
	capture *InputCapture
	runner  *TestRunner
	fps     *fpsOverlay

	screenshotDir string
	logger        *slog.Logger
}

func (g *host[G, S]) Update() error {
	if g.runner != nil {
		g.runner.step(g.driver)
	}
	g.capture.Poll()
	g.driver.Tick()
	g.updateOverlay()
	if g.driver.Quitting() {
		return ebiten.Termination
	}
	return nil
}

// updateOverlay advances the FPS overlay by the measured tick delta.
func (g *host[G, S]) updateOverlay() {
	if g.fps != nil {
		g.fps.update(g.driver.DeltaTime(), g.driver.Depth())
	}
}

func (g *host[G, S]) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.driver.surface.Image(), nil)
	if g.fps != nil {
		g.fps.draw(screen)
	}
	g.driver.surface.flushScreenshots(screen, g.screenshotDir, g.logger)
}

// Layout sizes the screen and the surface in device pixels.
func (g *host[G, S]) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := deviceScale()
	w := int(float64(outsideWidth) * scale)
	h := int(float64(outsideHeight) * scale)
	g.driver.surface.Resize(w, h)
	return w, h
}
