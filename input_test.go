package stagehand

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestShouldRepeat(t *testing.T) {
	tests := []struct {
		duration, delay, interval int
		want                      bool
	}{
		{1, 30, 4, false},
		{30, 30, 4, false},
		{31, 30, 4, false},
		{34, 30, 4, true},
		{38, 30, 4, true},
		{39, 30, 4, false},
		{100, 30, 0, false},
		{5, 0, 1, true},
	}
	for _, tt := range tests {
		if got := shouldRepeat(tt.duration, tt.delay, tt.interval); got != tt.want {
			t.Errorf("shouldRepeat(%d, %d, %d) = %v, want %v",
				tt.duration, tt.delay, tt.interval, got, tt.want)
		}
	}
}

func TestKeyLabel(t *testing.T) {
	tests := []struct {
		key   ebiten.Key
		shift bool
		want  string
	}{
		{ebiten.KeyA, false, "a"},
		{ebiten.KeyA, true, "A"},
		{ebiten.KeyZ, false, "z"},
		{ebiten.KeyDigit0, false, "0"},
		{ebiten.KeyDigit9, true, "9"},
		{ebiten.KeySpace, false, " "},
		{ebiten.KeyEnter, false, "Enter"},
		{ebiten.KeyEscape, true, "Escape"},
		{ebiten.KeyArrowLeft, false, "ArrowLeft"},
	}
	for _, tt := range tests {
		if got := keyLabel(tt.key, tt.shift); got != tt.want {
			t.Errorf("keyLabel(%v, %v) = %q, want %q", tt.key, tt.shift, got, tt.want)
		}
	}
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		label string
		want  ebiten.Key
	}{
		{"a", ebiten.KeyA},
		{"Q", ebiten.KeyQ},
		{"7", ebiten.KeyDigit7},
		{" ", ebiten.KeySpace},
		{"Enter", ebiten.KeyEnter},
		{"ArrowUp", ebiten.KeyArrowUp},
	}
	for _, tt := range tests {
		if got := keyCode(tt.label); got != int(tt.want) {
			t.Errorf("keyCode(%q) = %d, want %d", tt.label, got, int(tt.want))
		}
	}
	if got := keyCode("NoSuchKey"); got != 0 {
		t.Errorf("unknown label code = %d, want 0", got)
	}
}

func TestNewInputCapture_Defaults(t *testing.T) {
	var q EventQueue
	c := NewInputCapture(&q, NewSurface(10, 10))
	if c.RepeatDelay != defaultKeyRepeatDelay || c.RepeatInterval != defaultKeyRepeatInterval {
		t.Errorf("repeat = %d/%d", c.RepeatDelay, c.RepeatInterval)
	}
}

func TestInputCapture_TouchSnapshotOrder(t *testing.T) {
	var q EventQueue
	c := NewInputCapture(&q, NewSurface(10, 10))
	c.touchIDs = []ebiten.TouchID{7, 3}
	c.touchPos[7] = Vec2{1, 2}
	c.touchPos[3] = Vec2{3, 4}

	got := c.touchSnapshot()
	if len(got) != 2 || got[0] != (Vec2{1, 2}) || got[1] != (Vec2{3, 4}) {
		t.Errorf("touchSnapshot = %v", got)
	}

	c.touchIDs = nil
	if c.touchSnapshot() != nil {
		t.Error("no touches should give a nil snapshot")
	}
}
