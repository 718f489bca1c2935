package stagehand

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tanema/gween/ease"
)

const defaultTextSize = 2.5 // rem

// Text is a line of centred text sized in rem. Pos is updated by every Draw
// so hit tests follow the last drawn position.
type Text struct {
	Pos     Vec2
	Content string
	Size    float64          // rem
	Face    *text.GoTextFace // nil uses the built-in monospace face
}

// NewText returns a text widget of the default size.
func NewText(content string) *Text {
	return &Text{Content: content, Size: defaultTextSize}
}

// WithSize sets the size in rem and returns t.
func (t *Text) WithSize(rem float64) *Text {
	t.Size = rem
	return t
}

func (t *Text) applyFont(f Frame) *Surface {
	s := f.Surface()
	if t.Face != nil {
		s.SetFont(t.Face)
	} else {
		s.SetFont(DefaultFace(s.Font().Size))
	}
	s.SetFontSize(f.RemToPx(t.Size))
	return s
}

// ComputeSize returns the rendered width of the content and a height of
// one line (the size in pixels).
func (t *Text) ComputeSize(f Frame) Vec2 {
	s := t.applyFont(f)
	return Vec2{s.MeasureText(t.Content).X, f.RemToPx(t.Size)}
}

// IsOver reports whether p, in surface coordinates, lies within the text's
// box around Pos. Edges count as inside.
func (t *Text) IsOver(p Vec2, f Frame) bool {
	size := t.ComputeSize(f)
	return p.X >= t.Pos.X-size.X/2 && p.X <= t.Pos.X+size.X/2 &&
		p.Y >= t.Pos.Y-size.Y/2 && p.Y <= t.Pos.Y+size.Y/2
}

// Draw draws the text centred on pos in color c and records pos.
func (t *Text) Draw(f Frame, pos Vec2, c Color) {
	t.Pos = pos
	s := t.applyFont(f)
	s.SetFillColor(c)
	s.FillText(t.Content, pos.X, pos.Y)
}

func (t *Text) String() string {
	return fmt.Sprintf("Text{%q at %v, %grem}", t.Content, t.Pos, t.Size)
}

// Button is a clickable Text. Feed it events with HandleEvent and draw it
// every update with Draw.
type Button struct {
	Text    *Text
	Enabled bool

	Color         Color
	HoverColor    Color
	DisabledColor Color

	ClickSound *Sound
	HoverSound *Sound

	// HoverFade is the seconds taken to blend between Color and HoverColor.
	// Zero switches instantly.
	HoverFade float64

	hovered   bool
	lastTouch Vec2
	hasTouch  bool
	hover     float64 // 0 normal, 1 hovered
	fade      *Tween
}

// NewButton returns an enabled button drawn in c in every state.
func NewButton(label string, c Color) *Button {
	return &Button{
		Text:          NewText(label),
		Enabled:       true,
		Color:         c,
		HoverColor:    c,
		DisabledColor: c,
	}
}

// WithSize sets the text size in rem and returns b.
func (b *Button) WithSize(rem float64) *Button {
	b.Text.Size = rem
	return b
}

// WithHoverColor sets the hover color and returns b.
func (b *Button) WithHoverColor(c Color) *Button {
	b.HoverColor = c
	return b
}

// WithDisabledColor sets the disabled color and returns b.
func (b *Button) WithDisabledColor(c Color) *Button {
	b.DisabledColor = c
	return b
}

// WithClickSound sets the clip played on click and returns b.
func (b *Button) WithClickSound(s *Sound) *Button {
	b.ClickSound = s
	return b
}

// WithHoverSound sets the clip played when the pointer enters and returns b.
func (b *Button) WithHoverSound(s *Sound) *Button {
	b.HoverSound = s
	return b
}

// WithHoverFade sets the hover blend duration in seconds and returns b.
func (b *Button) WithHoverFade(seconds float64) *Button {
	b.HoverFade = seconds
	return b
}

// SetLabel replaces the button text.
func (b *Button) SetLabel(label string) {
	b.Text.Content = label
}

// Hovered reports whether the pointer was over the button at the last move.
func (b *Button) Hovered() bool { return b.hovered }

func (b *Button) setHovered(over bool) {
	if over == b.hovered {
		return
	}
	b.hovered = over
	target := 0.0
	if over {
		target = 1
	}
	if b.HoverFade <= 0 {
		b.hover = target
		b.fade = nil
		return
	}
	b.fade = TweenFloat(&b.hover, target, b.HoverFade, ease.OutQuad)
}

func (b *Button) press(p Vec2, f Frame) bool {
	if !b.Text.IsOver(p, f) {
		return false
	}
	b.ClickSound.Play()
	return true
}

// HandleEvent updates hover state and reports whether ev clicked the button.
// A click is a left mouse release over the text, or the end of a
// single-finger touch whose last position was over it. Disabled buttons
// ignore every event.
func (b *Button) HandleEvent(ev Event, f Frame) bool {
	if !b.Enabled {
		return false
	}
	switch ev.Kind {
	case EventMouseMove:
		over := b.Text.IsOver(ev.Pos, f)
		if over && !b.hovered {
			b.HoverSound.Play()
		}
		b.setHovered(over)
		return false

	case EventMouseUp:
		if ev.Button != MouseButtonLeft {
			return false
		}
		return b.press(ev.Pos, f)

	case EventTouchStart, EventTouchMove:
		b.hasTouch = len(ev.Touches) > 0
		if b.hasTouch {
			b.lastTouch = ev.Touches[0]
		}
		return false

	case EventTouchEnd:
		if len(ev.Touches) > 1 {
			return false
		}
		b.setHovered(false)
		p, ok := b.lastTouch, b.hasTouch
		if len(ev.Touches) == 1 {
			p, ok = ev.Touches[0], true
		}
		if !ok {
			return false
		}
		// Touches are in device pixels.
		return b.press(f.Surface().ScreenToSurface(p.X, p.Y), f)
	}
	return false
}

// Draw advances the hover fade and draws the button centred on pos.
func (b *Button) Draw(f Frame, pos Vec2) {
	b.fade.Update(f.DeltaTime())
	c := b.DisabledColor
	if b.Enabled {
		c = b.Color.Lerp(b.HoverColor, b.hover)
	}
	b.Text.Draw(f, pos, c)
}
