package stagehand

import (
	"fmt"
	"strings"
)

// EventKind identifies the kind of input occurrence an Event carries.
type EventKind uint8

const (
	EventMouseDown  EventKind = iota // a pointer button was pressed (Pos, Button)
	EventMouseUp                     // a pointer button was released (Pos, Button)
	EventMouseMove                   // the pointer moved (Pos, Buttons)
	EventMouseWheel                  // the wheel turned (Pos, Buttons, Delta)
	EventTouchStart                  // a finger touched down (Touches)
	EventTouchMove                   // one or more fingers moved (Touches)
	EventTouchEnd                    // a finger lifted (Touches)
	EventKeyDown                     // a key was pressed or auto-repeated (Code, Key, Meta)
	EventKeyUp                       // a key was released (Code, Key, Meta)
)

var eventKindNames = [...]string{
	EventMouseDown:  "MouseDown",
	EventMouseUp:    "MouseUp",
	EventMouseMove:  "MouseMove",
	EventMouseWheel: "MouseWheel",
	EventTouchStart: "TouchStart",
	EventTouchMove:  "TouchMove",
	EventTouchEnd:   "TouchEnd",
	EventKeyDown:    "KeyDown",
	EventKeyUp:      "KeyUp",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	MouseButtonLeft    MouseButton = iota // primary button
	MouseButtonMiddle                     // wheel click
	MouseButtonRight                      // secondary button
	MouseButtonBack                       // browser-back side button
	MouseButtonForward                    // browser-forward side button
)

var mouseButtonNames = [...]string{"Left", "Middle", "Right", "Back", "Forward"}

func (b MouseButton) String() string {
	if int(b) < len(mouseButtonNames) {
		return mouseButtonNames[b]
	}
	return fmt.Sprintf("MouseButton(%d)", b)
}

// MouseButtonFromCode maps a host button index (as numbered by Ebitengine:
// 0 left, 1 right, 2 middle, 3 back, 4 forward) to a MouseButton. Unknown
// codes report false and the occurrence is dropped by the input layer.
func MouseButtonFromCode(code int) (MouseButton, bool) {
	switch code {
	case 0:
		return MouseButtonLeft, true
	case 1:
		return MouseButtonRight, true
	case 2:
		return MouseButtonMiddle, true
	case 3:
		return MouseButtonBack, true
	case 4:
		return MouseButtonForward, true
	default:
		return 0, false
	}
}

// MouseButtonsFromBitmap expands a pressed-button bitmap (1 left, 2 right,
// 4 middle, 8 back, 16 forward) into the list of pressed buttons.
func MouseButtonsFromBitmap(bits uint16) []MouseButton {
	var buttons []MouseButton
	if bits&1 != 0 {
		buttons = append(buttons, MouseButtonLeft)
	}
	if bits&2 != 0 {
		buttons = append(buttons, MouseButtonRight)
	}
	if bits&4 != 0 {
		buttons = append(buttons, MouseButtonMiddle)
	}
	if bits&8 != 0 {
		buttons = append(buttons, MouseButtonBack)
	}
	if bits&16 != 0 {
		buttons = append(buttons, MouseButtonForward)
	}
	return buttons
}

// KeyMeta carries the modifier state of a key event.
type KeyMeta struct {
	Repeat bool
	Alt    bool
	Shift  bool
	Ctrl   bool
	Meta   bool
}

// Event is one captured input occurrence. Only the fields documented for its
// Kind are meaningful. Events are values; slices they carry must not be
// mutated by consumers.
type Event struct {
	Kind EventKind

	// Pointer fields, in surface coordinates (centre-relative after the
	// first tick).
	Pos     Vec2
	Button  MouseButton
	Buttons []MouseButton
	Delta   Vec2

	// Touches is a snapshot of the active touch points in device pixels.
	Touches []Vec2

	// Key fields.
	Code int
	Key  string
	Meta KeyMeta
}

// IsMouse reports whether e is a pointer event.
func (e Event) IsMouse() bool {
	switch e.Kind {
	case EventMouseDown, EventMouseUp, EventMouseMove, EventMouseWheel:
		return true
	}
	return false
}

// IsKey reports whether e is a keyboard event.
func (e Event) IsKey() bool {
	return e.Kind == EventKeyDown || e.Kind == EventKeyUp
}

// IsTouch reports whether e is a touch event.
func (e Event) IsTouch() bool {
	switch e.Kind {
	case EventTouchStart, EventTouchMove, EventTouchEnd:
		return true
	}
	return false
}

func (e Event) String() string {
	switch {
	case e.IsKey():
		var mods []string
		for _, m := range []struct {
			on   bool
			name string
		}{{e.Meta.Ctrl, "ctrl"}, {e.Meta.Alt, "alt"}, {e.Meta.Shift, "shift"}, {e.Meta.Meta, "meta"}, {e.Meta.Repeat, "repeat"}} {
			if m.on {
				mods = append(mods, m.name)
			}
		}
		return fmt.Sprintf("%s{key=%q code=%d mods=[%s]}", e.Kind, e.Key, e.Code, strings.Join(mods, ","))
	case e.IsTouch():
		return fmt.Sprintf("%s{touches=%v}", e.Kind, e.Touches)
	case e.Kind == EventMouseDown || e.Kind == EventMouseUp:
		return fmt.Sprintf("%s{pos=%v button=%s}", e.Kind, e.Pos, e.Button)
	case e.Kind == EventMouseWheel:
		return fmt.Sprintf("%s{pos=%v delta=%v buttons=%v}", e.Kind, e.Pos, e.Delta, e.Buttons)
	default:
		return fmt.Sprintf("%s{pos=%v buttons=%v}", e.Kind, e.Pos, e.Buttons)
	}
}
