package stagehand

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoCanvas is returned by NewDriver when no drawing surface is given.
	ErrNoCanvas = errors.New("stagehand: no drawing surface")

	// ErrNoClock is returned by NewDriver when no clock is given.
	ErrNoClock = errors.New("stagehand: no clock")
)

// App is implemented by the hosting application. Load builds the long-lived
// game object and the first state from load-time resources.
type App[G, S any] interface {
	Load(res *Resources) (G, State[G, S], error)
}

// AppFunc adapts a function to the App interface.
type AppFunc[G, S any] func(res *Resources) (G, State[G, S], error)

// Load calls f(res).
func (f AppFunc[G, S]) Load(res *Resources) (G, State[G, S], error) {
	return f(res)
}

// Clock reports the host's monotonic time in seconds.
type Clock interface {
	Now() float64
}

// SystemClock measures seconds since it was created using the monotonic
// wall clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock starting at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the seconds elapsed since the clock was created.
func (c *SystemClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

// EventSink observes every event handed to the active state. Set one on the
// driver to bridge input into other systems, such as an ECS world.
type EventSink interface {
	EmitEvent(ev Event)
}

// DriverOptions carries the long-lived handles a Driver shares with states.
type DriverOptions struct {
	Surface *Surface      // required
	Clock   Clock         // required
	Sound   *SoundContext // nil means a silent context
	Store   Store         // nil means an in-memory store

	// StorageKey is the store key holding the persisted data. Default "data".
	StorageKey string

	// Resources is handed to App.Load. Nil builds one over an empty file
	// system.
	Resources *Resources

	// RemSize is the base font size in logical pixels. Default 16.
	RemSize float64

	// DeviceScale reports the current device pixel ratio. Nil means 1.
	DeviceScale func() float64

	Logger *slog.Logger
	Debug  bool
}

// Driver owns the state stack and runs the per-tick pipeline: reset the
// surface transform, dispatch queued events to the active state (or update
// it), then resolve the resulting transition chain.
//
// A Driver is single-threaded. Input producers push to Queue() and Tick runs
// on the same goroutine; nothing here blocks.
type Driver[G, S any] struct {
	stack stateStack[G, S]
	queue EventQueue
	sink  EventSink

	game       G
	storage    S
	store      Store
	storageKey string

	surface     *Surface
	sound       *SoundContext
	clock       Clock
	remSize     float64
	deviceScale func() float64

	logger *slog.Logger
	debug  bool

	last     float64
	delta    float64
	ticks    uint64
	quitting bool

	injectQueue []injectedEvent
}

// NewDriver loads the application, restores persisted storage and resolves
// the initial state's Entered chain with a zero delta time.
//
// Missing host facilities (surface, clock) are reported as errors. A panic
// from the transition chain (for example ErrEmptyStack) is not recovered.
func NewDriver[G, S any](app App[G, S], opts DriverOptions) (*Driver[G, S], error) {
	if opts.Surface == nil {
		return nil, ErrNoCanvas
	}
	if opts.Clock == nil {
		return nil, ErrNoClock
	}

	d := &Driver[G, S]{
		surface:     opts.Surface,
		clock:       opts.Clock,
		sound:       opts.Sound,
		store:       opts.Store,
		storageKey:  opts.StorageKey,
		remSize:     opts.RemSize,
		deviceScale: opts.DeviceScale,
		logger:      opts.Logger,
		debug:       opts.Debug,
	}
	if d.sound == nil {
		d.sound = NewSoundContext(nil, defaultSampleRate)
	}
	if d.store == nil {
		d.store = NewMemStore()
	}
	if d.storageKey == "" {
		d.storageKey = defaultStorageKey
	}
	if d.remSize <= 0 {
		d.remSize = defaultRemSize
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	d.logger = d.logger.With(slog.String("run", uuid.Must(uuid.NewV7()).String()))
	d.stack.debug = d.debug

	res := opts.Resources
	if res == nil {
		res = NewResources(nil, d.surface, d.sound)
	}

	game, initial, err := app.Load(res)
	if err != nil {
		return nil, fmt.Errorf("stagehand: load: %w", err)
	}
	if initial == nil {
		return nil, fmt.Errorf("stagehand: load: %w", ErrNilState)
	}
	d.game = game

	storage, err := loadStorage[S](d.store, d.storageKey)
	if err != nil && !errors.Is(err, ErrNoData) {
		d.logger.Debug("stored data unreadable, using defaults",
			slog.String("key", d.storageKey), slog.Any("error", err))
	}
	d.storage = storage

	d.stack.states = append(d.stack.states, initial)
	d.resetSurface()
	ctx := d.newContext(0)
	d.stack.resolve(initial.Entered(ctx), ctx)

	d.last = d.clock.Now()
	d.logger.Debug("driver started", slog.String("state", stateName(d.stack.top())))
	return d, nil
}

// Tick runs one full frame pipeline. The host calls it once per refresh and
// schedules the next call after it returns.
func (d *Driver[G, S]) Tick() {
	var stats tickStats
	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}

	d.feedInjected()

	d.resetSurface()

	now := d.clock.Now()
	ctx := d.newContext(now - d.last)

	next, drained := d.dispatch(ctx)

	if d.debug {
		stats.dispatchTime = time.Since(t0)
		stats.events = drained
		stats.outcome = next.Kind
		t0 = time.Now()
	}

	applied := d.stack.resolve(next, ctx)

	if d.debug {
		stats.resolveTime = time.Since(t0)
		stats.transitions = applied
		stats.depth = d.stack.depth()
		d.debugLog(stats)
		d.debugCheckDepth()
	}

	d.last = now
	d.delta = ctx.deltaTime
	d.ticks++
}

// dispatch feeds queued events newest-first to the active state until one
// returns a transition. When every event returns None the state is updated
// instead. It returns the transition to resolve and the number of events
// consumed.
func (d *Driver[G, S]) dispatch(ctx *Context[G, S]) (Transition[G, S], int) {
	active := d.stack.top()
	drained := 0
	for {
		ev, ok := d.queue.PopNewest()
		if !ok {
			return active.Update(ctx), drained
		}
		drained++
		if d.sink != nil {
			d.sink.EmitEvent(ev)
		}
		if next := active.HandleEvent(ev, ctx); !next.IsNone() {
			return next, drained
		}
	}
}

// resetSurface restores the identity transform and moves the origin to the
// centre of the surface.
func (d *Driver[G, S]) resetSurface() {
	size := d.surface.Size()
	d.surface.ResetTransform()
	d.surface.Translate(size.X/2, size.Y/2)
}

func (d *Driver[G, S]) newContext(dt float64) *Context[G, S] {
	scale := 1.0
	if d.deviceScale != nil {
		scale = d.deviceScale()
	}
	return &Context[G, S]{
		Game:      &d.game,
		d:         d,
		deltaTime: dt,
		remToPx:   d.remSize * scale,
	}
}

// Queue returns the input queue. Producers push captured events here.
func (d *Driver[G, S]) Queue() *EventQueue {
	return &d.queue
}

// Depth returns the number of states on the stack.
func (d *Driver[G, S]) Depth() int {
	return d.stack.depth()
}

// Active returns the state on top of the stack.
func (d *Driver[G, S]) Active() State[G, S] {
	return d.stack.top()
}

// Game returns the application object.
func (d *Driver[G, S]) Game() *G {
	return &d.game
}

// DeltaTime returns the measured seconds between the last two ticks.
func (d *Driver[G, S]) DeltaTime() float64 {
	return d.delta
}

// Ticks returns the number of completed ticks.
func (d *Driver[G, S]) Ticks() uint64 {
	return d.ticks
}

// Quitting reports whether a state called Context.Quit.
func (d *Driver[G, S]) Quitting() bool {
	return d.quitting
}

// SetEventSink installs an observer for dispatched events. Nil removes it.
func (d *Driver[G, S]) SetEventSink(sink EventSink) {
	d.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, per-tick timing
// is logged at debug level and entering a state that already exited panics
// with ErrStateReused. Only the most recent maxRetired exited states are
// remembered; disabling debug mode forgets them.
func (d *Driver[G, S]) SetDebugMode(enabled bool) {
	d.debug = enabled
	d.stack.debug = enabled
	if !enabled {
		d.stack.retired = nil
		d.stack.retiredOrder = nil
	}
}

// Logger returns the driver's logger.
func (d *Driver[G, S]) Logger() *slog.Logger {
	return d.logger
}
