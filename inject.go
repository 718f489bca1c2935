package stagehand

// injectedEvent is a synthetic event waiting to be fed to the queue. Pointer
// events carry screen (device pixel) coordinates and are mapped through the
// surface transform when fed, exactly like captured input.
type injectedEvent struct {
	ev     Event
	screen bool
}

// InjectEvent queues ev as is. Injected events are fed to the input queue one
// per tick, in the order they were injected.
func (d *Driver[G, S]) InjectEvent(ev Event) {
	d.injectQueue = append(d.injectQueue, injectedEvent{ev: ev})
}

func (d *Driver[G, S]) injectPointer(ev Event) {
	d.injectQueue = append(d.injectQueue, injectedEvent{ev: ev, screen: true})
}

// InjectPress queues a left button press at screen coordinates (x, y).
func (d *Driver[G, S]) InjectPress(x, y float64) {
	d.injectPointer(Event{Kind: EventMouseDown, Pos: Vec2{x, y}, Button: MouseButtonLeft})
}

// InjectMove queues a pointer move to (x, y) with the left button held.
func (d *Driver[G, S]) InjectMove(x, y float64) {
	d.injectPointer(Event{Kind: EventMouseMove, Pos: Vec2{x, y}, Buttons: []MouseButton{MouseButtonLeft}})
}

// InjectHover queues a pointer move to (x, y) with no button held.
func (d *Driver[G, S]) InjectHover(x, y float64) {
	d.injectPointer(Event{Kind: EventMouseMove, Pos: Vec2{x, y}})
}

// InjectRelease queues a left button release at (x, y).
func (d *Driver[G, S]) InjectRelease(x, y float64) {
	d.injectPointer(Event{Kind: EventMouseUp, Pos: Vec2{x, y}, Button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two ticks.
func (d *Driver[G, S]) InjectClick(x, y float64) {
	d.InjectPress(x, y)
	d.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves
// and a release at (toX, toY). The sequence consumes `frames` ticks; the
// minimum is 2.
func (d *Driver[G, S]) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	d.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		d.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	d.InjectRelease(toX, toY)
}

// InjectKey queues a key down followed by a key up for the key label. Code
// is derived from the label when it names a known key, otherwise zero.
func (d *Driver[G, S]) InjectKey(key string) {
	code := keyCode(key)
	d.InjectEvent(Event{Kind: EventKeyDown, Key: key, Code: code})
	d.InjectEvent(Event{Kind: EventKeyUp, Key: key, Code: code})
}

// InjectTouch queues a single-finger tap at device pixel (x, y): a touch
// start followed by a touch end with no remaining touches.
func (d *Driver[G, S]) InjectTouch(x, y float64) {
	d.InjectEvent(Event{Kind: EventTouchStart, Touches: []Vec2{{x, y}}})
	d.InjectEvent(Event{Kind: EventTouchEnd})
}

// PendingInjections returns the number of synthetic events not yet fed.
func (d *Driver[G, S]) PendingInjections() int {
	return len(d.injectQueue)
}

// feedInjected moves the oldest injected event onto the input queue.
func (d *Driver[G, S]) feedInjected() bool {
	if len(d.injectQueue) == 0 {
		return false
	}
	inj := d.injectQueue[0]
	copy(d.injectQueue, d.injectQueue[1:])
	d.injectQueue[len(d.injectQueue)-1] = injectedEvent{}
	d.injectQueue = d.injectQueue[:len(d.injectQueue)-1]

	ev := inj.ev
	if inj.screen {
		ev.Pos = d.surface.ScreenToSurface(ev.Pos.X, ev.Pos.Y)
	}
	d.queue.Push(ev)
	return true
}
