package stagehand

import "log/slog"

// Frame is the non-generic view of a Context used by helpers that do not
// care about the game or storage types, such as the ui widgets.
type Frame interface {
	DeltaTime() float64
	RemToPx(rem float64) float64
	Surface() *Surface
	Sound() *SoundContext
}

// Context bundles the handles a State hook may use during one tick. The
// driver builds a fresh Context every tick; states must not keep it.
type Context[G, S any] struct {
	// Game is the long-lived application object returned by App.Load.
	Game *G

	d         *Driver[G, S]
	deltaTime float64
	remToPx   float64
}

var _ Frame = (*Context[struct{}, struct{}])(nil)

// DeltaTime returns the seconds elapsed since the previous tick. It is zero
// during the initial Entered resolution.
func (c *Context[G, S]) DeltaTime() float64 {
	return c.deltaTime
}

// RemToPx converts a length in rem to surface pixels. The ratio is sampled
// every tick because the device scale can change while running.
func (c *Context[G, S]) RemToPx(rem float64) float64 {
	return rem * c.remToPx
}

// Surface returns the shared drawing surface.
func (c *Context[G, S]) Surface() *Surface {
	return c.d.surface
}

// Sound returns the shared audio subsystem.
func (c *Context[G, S]) Sound() *SoundContext {
	return c.d.sound
}

// Storage returns a copy of the persisted application data.
func (c *Context[G, S]) Storage() S {
	return c.d.storage
}

// SetStorage replaces the persisted application data and writes it to the
// store immediately. The in-memory value is replaced even when the write
// fails; the write error is logged and returned.
func (c *Context[G, S]) SetStorage(v S) error {
	c.d.storage = v
	if err := saveStorage(c.d.store, c.d.storageKey, v); err != nil {
		c.d.logger.Warn("storage write failed", slog.String("key", c.d.storageKey), slog.Any("error", err))
		return err
	}
	return nil
}

// Logger returns the driver's structured logger.
func (c *Context[G, S]) Logger() *slog.Logger {
	return c.d.logger
}

// Tick returns the number of completed ticks before this one.
func (c *Context[G, S]) Tick() uint64 {
	return c.d.ticks
}

// Quit asks the host loop to stop once the current tick has finished.
func (c *Context[G, S]) Quit() {
	c.d.quitting = true
}
