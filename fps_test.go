package stagehand

import "testing"

func TestFPSOverlay_RefreshesOnMeasuredTime(t *testing.T) {
	o := newFPSOverlay()
	o.update(0.016, 1)
	if o.elapsed != 0 {
		t.Fatalf("first update should refresh, elapsed = %v", o.elapsed)
	}
	o.update(0.2, 1)
	o.update(0.2, 1)
	if o.elapsed != 0.4 {
		t.Errorf("elapsed = %v, want 0.4", o.elapsed)
	}
	o.update(0.2, 1)
	if o.elapsed != 0 {
		t.Errorf("elapsed = %v after crossing half a second, want 0", o.elapsed)
	}
}

func TestHost_OverlayUsesDriverDelta(t *testing.T) {
	d, clk := newTestDriver(t, &tFuncs{})
	h := &host[testGame, testData]{driver: d, fps: newFPSOverlay()}
	h.updateOverlay()

	// Slow ticks refresh the overlay sooner than the nominal rate would.
	clk.now = 0.3
	d.Tick()
	h.updateOverlay()
	if h.fps.elapsed != 0.3 {
		t.Fatalf("elapsed = %v, want 0.3", h.fps.elapsed)
	}
	clk.now = 0.6
	d.Tick()
	h.updateOverlay()
	if h.fps.elapsed != 0 {
		t.Errorf("elapsed = %v after 0.6s of ticks, want a refresh", h.fps.elapsed)
	}
}
