package stagehand

import (
	"encoding/json"
	"fmt"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Key    string  `json:"key,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type testScript struct {
	Steps []testStep `json:"steps"`
}

// scriptTarget is what a TestRunner drives. *Driver implements it.
type scriptTarget interface {
	InjectClick(x, y float64)
	InjectDrag(fromX, fromY, toX, toY float64, frames int)
	InjectHover(x, y float64)
	InjectKey(key string)
	InjectTouch(x, y float64)
	PendingInjections() int
	Screenshot(label string)
	requestQuit()
}

// TestRunner sequences injected input, screenshots and waits across ticks
// for automated testing against a live window.
//
// Supported actions: click (x, y), drag (fromX, fromY, toX, toY, frames),
// move (x, y; no button held), key (key), touch (x, y), wait (frames),
// screenshot (label) and quit.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

var knownActions = map[string]bool{
	"click": true, "drag": true, "move": true, "key": true, "touch": true,
	"wait": true, "screenshot": true, "quit": true,
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("stagehand: parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("stagehand: parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("stagehand: parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether every step has run.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one tick. It runs before input capture.
func (r *TestRunner) step(t scriptTarget) {
	if r.done {
		return
	}
	// Let pending injections drain before advancing.
	if t.PendingInjections() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		t.Screenshot(st.Label)
	case "click":
		t.InjectClick(st.X, st.Y)
	case "drag":
		t.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "move":
		t.InjectHover(st.X, st.Y)
	case "key":
		t.InjectKey(st.Key)
	case "touch":
		t.InjectTouch(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "quit":
		t.requestQuit()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && t.PendingInjections() == 0 {
		r.done = true
	}
}

// Screenshot queues a capture of the next presented frame.
func (d *Driver[G, S]) Screenshot(label string) {
	d.surface.Screenshot(label)
}

func (d *Driver[G, S]) requestQuit() {
	d.quitting = true
}
