package stagehand

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Default key auto-repeat timing in ticks.
const (
	defaultKeyRepeatDelay    = 30
	defaultKeyRepeatInterval = 4
)

// ebitenButtons lists the host buttons polled each tick, indexed by their
// host code.
var ebitenButtons = [...]ebiten.MouseButton{
	ebiten.MouseButton0,
	ebiten.MouseButton1,
	ebiten.MouseButton2,
	ebiten.MouseButton3,
	ebiten.MouseButton4,
}

// InputCapture polls Ebitengine once per tick and turns state changes into
// Events on a queue. Pointer positions are mapped into surface space with
// the inverse of the surface transform; touch points stay in device pixels.
type InputCapture struct {
	queue   *EventQueue
	surface *Surface

	// RepeatDelay and RepeatInterval control synthesized key auto-repeat,
	// in ticks. A non-positive interval disables repeat.
	RepeatDelay    int
	RepeatInterval int

	cursor    Vec2
	hasCursor bool

	touchIDs []ebiten.TouchID
	touchPos map[ebiten.TouchID]Vec2
	touchBuf []ebiten.TouchID
	keyBuf   []ebiten.Key
	pressed  []ebiten.Key
}

// NewInputCapture returns a capture feeding queue.
func NewInputCapture(queue *EventQueue, surface *Surface) *InputCapture {
	return &InputCapture{
		queue:          queue,
		surface:        surface,
		RepeatDelay:    defaultKeyRepeatDelay,
		RepeatInterval: defaultKeyRepeatInterval,
		touchPos:       make(map[ebiten.TouchID]Vec2),
	}
}

// Poll pushes the events for everything that changed since the last call.
func (c *InputCapture) Poll() {
	c.pollMouse()
	c.pollTouches()
	c.pollKeys()
}

// pressedButtons returns the held buttons in bitmap order.
func pressedButtons() []MouseButton {
	var bits uint16
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		bits |= 1
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		bits |= 2
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		bits |= 4
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButton3) {
		bits |= 8
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButton4) {
		bits |= 16
	}
	return MouseButtonsFromBitmap(bits)
}

func (c *InputCapture) pollMouse() {
	mx, my := ebiten.CursorPosition()
	screen := Vec2{float64(mx), float64(my)}
	pos := c.surface.ScreenToSurface(screen.X, screen.Y)

	if !c.hasCursor || screen != c.cursor {
		if c.hasCursor {
			c.queue.Push(Event{Kind: EventMouseMove, Pos: pos, Buttons: pressedButtons()})
		}
		c.cursor = screen
		c.hasCursor = true
	}

	for code, b := range ebitenButtons {
		if !inpututil.IsMouseButtonJustPressed(b) {
			continue
		}
		if button, ok := MouseButtonFromCode(code); ok {
			c.queue.Push(Event{Kind: EventMouseDown, Pos: pos, Button: button})
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		c.queue.Push(Event{Kind: EventMouseWheel, Pos: pos, Buttons: pressedButtons(), Delta: Vec2{dx, dy}})
	}

	for code, b := range ebitenButtons {
		if !inpututil.IsMouseButtonJustReleased(b) {
			continue
		}
		if button, ok := MouseButtonFromCode(code); ok {
			c.queue.Push(Event{Kind: EventMouseUp, Pos: pos, Button: button})
		}
	}
}

// touchSnapshot returns the positions of the active touches in device
// pixels.
func (c *InputCapture) touchSnapshot() []Vec2 {
	if len(c.touchIDs) == 0 {
		return nil
	}
	pts := make([]Vec2, len(c.touchIDs))
	for i, id := range c.touchIDs {
		pts[i] = c.touchPos[id]
	}
	return pts
}

func (c *InputCapture) pollTouches() {
	c.touchIDs = ebiten.AppendTouchIDs(c.touchIDs[:0])

	moved := false
	for _, id := range c.touchIDs {
		x, y := ebiten.TouchPosition(id)
		p := Vec2{float64(x), float64(y)}
		if prev, ok := c.touchPos[id]; ok && prev != p {
			moved = true
		}
		c.touchPos[id] = p
	}

	c.touchBuf = inpututil.AppendJustReleasedTouchIDs(c.touchBuf[:0])
	for _, id := range c.touchBuf {
		delete(c.touchPos, id)
	}
	if len(c.touchBuf) > 0 {
		c.queue.Push(Event{Kind: EventTouchEnd, Touches: c.touchSnapshot()})
	}

	c.touchBuf = inpututil.AppendJustPressedTouchIDs(c.touchBuf[:0])
	if len(c.touchBuf) > 0 {
		c.queue.Push(Event{Kind: EventTouchStart, Touches: c.touchSnapshot()})
	} else if moved {
		c.queue.Push(Event{Kind: EventTouchMove, Touches: c.touchSnapshot()})
	}
}

// readMeta reads the current modifier key state.
func readMeta() KeyMeta {
	return KeyMeta{
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Meta:  ebiten.IsKeyPressed(ebiten.KeyMeta),
	}
}

func (c *InputCapture) pollKeys() {
	meta := readMeta()

	c.keyBuf = inpututil.AppendJustPressedKeys(c.keyBuf[:0])
	for _, k := range c.keyBuf {
		c.queue.Push(Event{Kind: EventKeyDown, Code: int(k), Key: keyLabel(k, meta.Shift), Meta: meta})
	}

	c.pressed = inpututil.AppendPressedKeys(c.pressed[:0])
	repeat := meta
	repeat.Repeat = true
	for _, k := range c.pressed {
		if shouldRepeat(inpututil.KeyPressDuration(k), c.RepeatDelay, c.RepeatInterval) {
			c.queue.Push(Event{Kind: EventKeyDown, Code: int(k), Key: keyLabel(k, meta.Shift), Meta: repeat})
		}
	}

	c.keyBuf = inpututil.AppendJustReleasedKeys(c.keyBuf[:0])
	for _, k := range c.keyBuf {
		c.queue.Push(Event{Kind: EventKeyUp, Code: int(k), Key: keyLabel(k, meta.Shift), Meta: meta})
	}
}

// shouldRepeat reports whether a key held for duration ticks emits a
// repeated key down this tick. The first repeat fires once duration exceeds
// delay, then every interval ticks.
func shouldRepeat(duration, delay, interval int) bool {
	if interval <= 0 || duration <= delay {
		return false
	}
	return (duration-delay)%interval == 0
}

// keyLabel returns the logical label for k: the character for printable
// letter, digit and space keys, otherwise the key name.
func keyLabel(k ebiten.Key, shift bool) string {
	switch {
	case k >= ebiten.KeyA && k <= ebiten.KeyZ:
		r := rune('a' + (k - ebiten.KeyA))
		if shift {
			r -= 'a' - 'A'
		}
		return string(r)
	case k >= ebiten.KeyDigit0 && k <= ebiten.KeyDigit9:
		return string(rune('0' + (k - ebiten.KeyDigit0)))
	case k == ebiten.KeySpace:
		return " "
	}
	return k.String()
}

var keyCodes map[string]int

// keyCode maps a key label back to its host key code, or 0.
func keyCode(label string) int {
	if keyCodes == nil {
		keyCodes = make(map[string]int)
		for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
			keyCodes[keyLabel(k, false)] = int(k)
			keyCodes[keyLabel(k, true)] = int(k)
		}
	}
	if code, ok := keyCodes[label]; ok {
		return code
	}
	return keyCodes[strings.ToLower(label)]
}
