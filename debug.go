package stagehand

import (
	"context"
	"log/slog"
	"time"
)

// tickStats holds per-tick timing and stack metrics. Only populated while the
// driver is in debug mode.
type tickStats struct {
	dispatchTime time.Duration
	resolveTime  time.Duration
	events       int
	transitions  int
	outcome      TransitionKind
	depth        int
}

// debugLog emits the stats of one tick at debug level.
func (d *Driver[G, S]) debugLog(stats tickStats) {
	if !d.debug || !d.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	d.logger.Debug("tick",
		slog.Uint64("tick", d.ticks),
		slog.Duration("dispatch", stats.dispatchTime),
		slog.Duration("resolve", stats.resolveTime),
		slog.Duration("total", stats.dispatchTime+stats.resolveTime),
		slog.Int("events", stats.events),
		slog.String("outcome", stats.outcome.String()),
		slog.Int("transitions", stats.transitions),
		slog.Int("depth", stats.depth),
		slog.String("active", stateName(d.stack.top())),
	)
}

// debugMaxStackDepth is the depth past which the driver warns about a
// probable push loop.
const debugMaxStackDepth = 32

func (d *Driver[G, S]) debugCheckDepth() {
	if n := d.stack.depth(); n > debugMaxStackDepth {
		d.logger.Warn("state stack unusually deep",
			slog.Int("depth", n), slog.Int("threshold", debugMaxStackDepth))
	}
}
