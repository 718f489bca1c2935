package stagehand

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testGame struct {
	counter int
}

type testData struct {
	Best int `json:"best"`
}

type (
	tState      = State[testGame, testData]
	tCtx        = Context[testGame, testData]
	tTransition = Transition[testGame, testData]
	tFuncs      = Funcs[testGame, testData]
)

type fakeClock struct {
	now float64
}

func (c *fakeClock) Now() float64 { return c.now }

func newTestDriver(t *testing.T, initial tState) (*Driver[testGame, testData], *fakeClock) {
	t.Helper()
	clk := &fakeClock{}
	d, err := NewDriver(testApp(initial), DriverOptions{
		Surface: NewSurface(100, 80),
		Clock:   clk,
	})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	return d, clk
}

func testApp(initial tState) App[testGame, testData] {
	return AppFunc[testGame, testData](func(*Resources) (testGame, tState, error) {
		return testGame{}, initial, nil
	})
}

// recorder logs every hook call as "name.hook".
func recorder(name string, log *[]string) *tFuncs {
	return &tFuncs{
		Name: name,
		OnEntered: func(*tCtx) tTransition {
			*log = append(*log, name+".entered")
			return None[testGame, testData]()
		},
		OnEvent: func(ev Event, _ *tCtx) tTransition {
			*log = append(*log, name+".event:"+ev.Key)
			return None[testGame, testData]()
		},
		OnUpdate: func(*tCtx) tTransition {
			*log = append(*log, name+".update")
			return None[testGame, testData]()
		},
		OnExited: func(*tCtx) tTransition {
			*log = append(*log, name+".exited")
			return None[testGame, testData]()
		},
	}
}

func keyEvent(key string) Event {
	return Event{Kind: EventKeyDown, Key: key}
}

func mustPanic(t *testing.T, fn func()) (r any) {
	t.Helper()
	defer func() {
		r = recover()
		if r == nil {
			t.Fatal("expected panic")
		}
	}()
	fn()
	return nil
}

func TestNewDriver_EntersInitialState(t *testing.T) {
	var log []string
	var dt float64 = -1
	s := recorder("menu", &log)
	s.OnEntered = func(ctx *tCtx) tTransition {
		dt = ctx.DeltaTime()
		log = append(log, "menu.entered")
		return None[testGame, testData]()
	}
	d, _ := newTestDriver(t, s)

	if d.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", d.Depth())
	}
	if d.Active() != tState(s) {
		t.Error("initial state is not active")
	}
	if dt != 0 {
		t.Errorf("initial dt = %v, want 0", dt)
	}
	if diff := cmp.Diff([]string{"menu.entered"}, log); diff != "" {
		t.Errorf("hook calls (-want +got):\n%s", diff)
	}
}

func TestNewDriver_InitialEnteredChain(t *testing.T) {
	var log []string
	second := recorder("second", &log)
	first := recorder("first", &log)
	first.OnEntered = func(*tCtx) tTransition {
		log = append(log, "first.entered")
		return Push[testGame, testData](second)
	}
	d, _ := newTestDriver(t, first)

	if d.Depth() != 2 || d.Active() != tState(second) {
		t.Fatalf("Depth = %d, active = %v", d.Depth(), d.Active())
	}
	if diff := cmp.Diff([]string{"first.entered", "second.entered"}, log); diff != "" {
		t.Errorf("hook calls (-want +got):\n%s", diff)
	}
}

func TestNewDriver_MissingFacilities(t *testing.T) {
	app := testApp(&tFuncs{})
	if _, err := NewDriver(app, DriverOptions{Clock: &fakeClock{}}); !errors.Is(err, ErrNoCanvas) {
		t.Errorf("no surface: err = %v, want ErrNoCanvas", err)
	}
	if _, err := NewDriver(app, DriverOptions{Surface: NewSurface(10, 10)}); !errors.Is(err, ErrNoClock) {
		t.Errorf("no clock: err = %v, want ErrNoClock", err)
	}
}

func TestNewDriver_LoadError(t *testing.T) {
	boom := errors.New("boom")
	app := AppFunc[testGame, testData](func(*Resources) (testGame, tState, error) {
		return testGame{}, nil, boom
	})
	_, err := NewDriver(app, DriverOptions{Surface: NewSurface(10, 10), Clock: &fakeClock{}})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}

	_, err = NewDriver(testApp(nil), DriverOptions{Surface: NewSurface(10, 10), Clock: &fakeClock{}})
	if !errors.Is(err, ErrNilState) {
		t.Errorf("nil initial: err = %v, want ErrNilState", err)
	}
}

func TestTick_UpdateWithoutEvents(t *testing.T) {
	var log []string
	var dts []float64
	s := recorder("play", &log)
	s.OnUpdate = func(ctx *tCtx) tTransition {
		dts = append(dts, ctx.DeltaTime())
		return None[testGame, testData]()
	}
	d, clk := newTestDriver(t, s)

	clk.now = 0.5
	d.Tick()
	clk.now = 0.75
	d.Tick()

	if diff := cmp.Diff([]float64{0.5, 0.25}, dts); diff != "" {
		t.Errorf("delta times (-want +got):\n%s", diff)
	}
	if d.Ticks() != 2 {
		t.Errorf("Ticks = %d, want 2", d.Ticks())
	}
}

func TestTick_EventsNewestFirst(t *testing.T) {
	var log []string
	d, _ := newTestDriver(t, recorder("s", &log))
	log = nil

	d.Queue().Push(keyEvent("1"))
	d.Queue().Push(keyEvent("2"))
	d.Queue().Push(keyEvent("3"))
	d.Tick()

	want := []string{"s.event:3", "s.event:2", "s.event:1", "s.update"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("dispatch order (-want +got):\n%s", diff)
	}
	if d.Queue().Len() != 0 {
		t.Errorf("queue Len = %d, want 0", d.Queue().Len())
	}
}

func TestTick_EventTransitionStopsDispatch(t *testing.T) {
	var log []string
	next := recorder("next", &log)
	s := recorder("s", &log)
	s.OnEvent = func(ev Event, _ *tCtx) tTransition {
		log = append(log, "s.event:"+ev.Key)
		if ev.Key == "2" {
			return Push[testGame, testData](next)
		}
		return None[testGame, testData]()
	}
	d, _ := newTestDriver(t, s)
	log = nil

	d.Queue().Push(keyEvent("1"))
	d.Queue().Push(keyEvent("2"))
	d.Queue().Push(keyEvent("3"))
	d.Tick()

	want := []string{"s.event:3", "s.event:2", "next.entered"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("first tick (-want +got):\n%s", diff)
	}
	if d.Queue().Len() != 1 {
		t.Fatalf("queue Len = %d, want 1 left over", d.Queue().Len())
	}

	log = nil
	d.Tick()
	want = []string{"next.event:1", "next.update"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("second tick (-want +got):\n%s", diff)
	}
}

func TestTick_PushThenPop(t *testing.T) {
	var log []string
	overlay := recorder("overlay", &log)
	overlay.OnUpdate = func(*tCtx) tTransition {
		log = append(log, "overlay.update")
		return Pop[testGame, testData]()
	}
	base := recorder("base", &log)
	pushed := false
	base.OnUpdate = func(*tCtx) tTransition {
		log = append(log, "base.update")
		if !pushed {
			pushed = true
			return Push[testGame, testData](overlay)
		}
		return None[testGame, testData]()
	}
	d, _ := newTestDriver(t, base)
	log = nil

	d.Tick() // base pushes overlay
	if d.Depth() != 2 {
		t.Fatalf("Depth after push = %d, want 2", d.Depth())
	}
	d.Tick() // overlay pops itself
	if d.Depth() != 1 || d.Active() != tState(base) {
		t.Fatalf("Depth after pop = %d, active %v", d.Depth(), d.Active())
	}
	d.Tick()

	want := []string{
		"base.update", "overlay.entered",
		"overlay.update", "overlay.exited",
		"base.update",
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("hook calls (-want +got):\n%s", diff)
	}
}

func TestTick_SetDoesNotExit(t *testing.T) {
	var log []string
	game := recorder("game", &log)
	menu := recorder("menu", &log)
	menu.OnUpdate = func(*tCtx) tTransition {
		return Set[testGame, testData](game)
	}
	d, _ := newTestDriver(t, menu)
	log = nil

	d.Tick()
	if d.Depth() != 1 || d.Active() != tState(game) {
		t.Fatalf("Depth = %d, active %v", d.Depth(), d.Active())
	}
	if diff := cmp.Diff([]string{"game.entered"}, log); diff != "" {
		t.Errorf("hook calls (-want +got):\n%s", diff)
	}
}

func TestTick_PopLastStatePanics(t *testing.T) {
	s := &tFuncs{Name: "only", OnUpdate: func(*tCtx) tTransition { return Pop[testGame, testData]() }}
	d, _ := newTestDriver(t, s)

	r := mustPanic(t, d.Tick)
	err, ok := r.(error)
	if !ok || !errors.Is(err, ErrEmptyStack) {
		t.Errorf("panic = %v, want ErrEmptyStack", r)
	}
}

func TestTick_PopLastStateWithReplacement(t *testing.T) {
	var log []string
	replacement := recorder("replacement", &log)
	s := recorder("only", &log)
	s.OnUpdate = func(*tCtx) tTransition { return Pop[testGame, testData]() }
	s.OnExited = func(*tCtx) tTransition {
		log = append(log, "only.exited")
		return Push[testGame, testData](replacement)
	}
	d, _ := newTestDriver(t, s)
	log = nil

	d.Tick()
	if d.Depth() != 1 || d.Active() != tState(replacement) {
		t.Fatalf("Depth = %d, active %v", d.Depth(), d.Active())
	}
	if diff := cmp.Diff([]string{"only.exited", "replacement.entered"}, log); diff != "" {
		t.Errorf("hook calls (-want +got):\n%s", diff)
	}
}

func TestTick_PopChain(t *testing.T) {
	var log []string
	base := recorder("base", &log)
	mid := recorder("mid", &log)
	top := recorder("top", &log)
	top.OnUpdate = func(*tCtx) tTransition { return Pop[testGame, testData]() }
	top.OnExited = func(*tCtx) tTransition {
		log = append(log, "top.exited")
		return Pop[testGame, testData]()
	}
	d, _ := newTestDriver(t, base)
	d.stack.resolve(Push[testGame, testData](mid), d.newContext(0))
	d.stack.resolve(Push[testGame, testData](top), d.newContext(0))
	log = nil

	d.Tick()
	if d.Depth() != 1 || d.Active() != tState(base) {
		t.Fatalf("Depth = %d, active %v", d.Depth(), d.Active())
	}
	if diff := cmp.Diff([]string{"top.exited", "mid.exited"}, log); diff != "" {
		t.Errorf("hook calls (-want +got):\n%s", diff)
	}
}

func TestTick_NilStatePanics(t *testing.T) {
	s := &tFuncs{OnUpdate: func(*tCtx) tTransition { return Push[testGame, testData](nil) }}
	d, _ := newTestDriver(t, s)

	r := mustPanic(t, d.Tick)
	if err, ok := r.(error); !ok || !errors.Is(err, ErrNilState) {
		t.Errorf("panic = %v, want ErrNilState", r)
	}
}

func TestDebug_StateReusedPanics(t *testing.T) {
	overlay := &tFuncs{Name: "overlay"}
	step := 0
	base := &tFuncs{OnUpdate: func(*tCtx) tTransition {
		step++
		if step == 1 || step == 2 {
			return Push[testGame, testData](overlay)
		}
		return None[testGame, testData]()
	}}
	overlay.OnUpdate = func(*tCtx) tTransition { return Pop[testGame, testData]() }

	d, _ := newTestDriver(t, base)
	d.SetDebugMode(true)
	d.Tick() // push
	d.Tick() // pop
	r := mustPanic(t, d.Tick)
	if err, ok := r.(error); !ok || !errors.Is(err, ErrStateReused) {
		t.Errorf("panic = %v, want ErrStateReused", r)
	}
}

func TestDebug_ReuseAllowedWhenOff(t *testing.T) {
	overlay := &tFuncs{Name: "overlay"}
	overlay.OnUpdate = func(*tCtx) tTransition { return Pop[testGame, testData]() }
	base := &tFuncs{OnUpdate: func(*tCtx) tTransition { return Push[testGame, testData](overlay) }}

	d, _ := newTestDriver(t, base)
	for range 4 {
		d.Tick()
	}
	if d.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", d.Depth())
	}
}

func TestTick_DeepStack(t *testing.T) {
	const n = 100
	exits := make(map[string]int)
	var pushes, pops int

	var layer func(i int) *tFuncs
	layer = func(i int) *tFuncs {
		name := fmt.Sprintf("layer%d", i)
		return &tFuncs{
			Name: name,
			OnUpdate: func(*tCtx) tTransition {
				if pushes < n {
					pushes++
					return Push[testGame, testData](layer(pushes))
				}
				if pops < n {
					pops++
					return Pop[testGame, testData]()
				}
				return None[testGame, testData]()
			},
			OnExited: func(*tCtx) tTransition {
				exits[name]++
				return None[testGame, testData]()
			},
		}
	}

	d, _ := newTestDriver(t, layer(0))
	maxDepth := 0
	for range 2 * n {
		d.Tick()
		maxDepth = max(maxDepth, d.Depth())
	}

	if maxDepth != n+1 {
		t.Errorf("max depth = %d, want %d", maxDepth, n+1)
	}
	if d.Depth() != 1 {
		t.Errorf("final depth = %d, want 1", d.Depth())
	}
	if len(exits) != n {
		t.Errorf("%d states exited, want %d", len(exits), n)
	}
	for name, c := range exits {
		if c != 1 {
			t.Errorf("%s exited %d times", name, c)
		}
	}
	if exits["layer0"] != 0 {
		t.Error("initial state exited")
	}
}

func TestTick_ResetsTransform(t *testing.T) {
	var origins []Vec2
	s := &tFuncs{OnUpdate: func(ctx *tCtx) tTransition {
		origins = append(origins, ctx.Surface().ToDevice(Vec2{}))
		ctx.Surface().Translate(13, 7)
		ctx.Surface().Scale(2, 2)
		return None[testGame, testData]()
	}}
	d, _ := newTestDriver(t, s)
	d.Tick()
	d.Tick()

	want := []Vec2{{50, 40}, {50, 40}}
	if diff := cmp.Diff(want, origins); diff != "" {
		t.Errorf("origin per tick (-want +got):\n%s", diff)
	}
}

func TestContext_GameIsShared(t *testing.T) {
	s := &tFuncs{OnUpdate: func(ctx *tCtx) tTransition {
		ctx.Game.counter++
		return None[testGame, testData]()
	}}
	d, _ := newTestDriver(t, s)
	d.Tick()
	d.Tick()
	if d.Game().counter != 2 {
		t.Errorf("counter = %d, want 2", d.Game().counter)
	}
}

func TestContext_Quit(t *testing.T) {
	s := &tFuncs{OnUpdate: func(ctx *tCtx) tTransition {
		ctx.Quit()
		return None[testGame, testData]()
	}}
	d, _ := newTestDriver(t, s)
	if d.Quitting() {
		t.Fatal("quitting before any tick")
	}
	d.Tick()
	if !d.Quitting() {
		t.Error("Quit did not mark the driver")
	}
}

func TestContext_RemToPx(t *testing.T) {
	var px float64
	s := &tFuncs{OnUpdate: func(ctx *tCtx) tTransition {
		px = ctx.RemToPx(2)
		return None[testGame, testData]()
	}}
	clk := &fakeClock{}
	d, err := NewDriver(testApp(s), DriverOptions{
		Surface:     NewSurface(10, 10),
		Clock:       clk,
		RemSize:     10,
		DeviceScale: func() float64 { return 1.5 },
	})
	if err != nil {
		t.Fatal(err)
	}
	d.Tick()
	if px != 30 {
		t.Errorf("RemToPx(2) = %v, want 30", px)
	}
}

type recordingSink struct {
	events []Event
}

func (s *recordingSink) EmitEvent(ev Event) { s.events = append(s.events, ev) }

func TestDriver_EventSink(t *testing.T) {
	d, _ := newTestDriver(t, &tFuncs{})
	sink := &recordingSink{}
	d.SetEventSink(sink)

	d.Queue().Push(keyEvent("a"))
	d.Queue().Push(keyEvent("b"))
	d.Tick()

	if len(sink.events) != 2 || sink.events[0].Key != "b" || sink.events[1].Key != "a" {
		t.Errorf("sink saw %v", sink.events)
	}

	d.SetEventSink(nil)
	d.Queue().Push(keyEvent("c"))
	d.Tick()
	if len(sink.events) != 2 {
		t.Error("removed sink still receives events")
	}
}

func TestDriver_DeltaTime(t *testing.T) {
	d, clk := newTestDriver(t, &tFuncs{})
	if d.DeltaTime() != 0 {
		t.Errorf("DeltaTime before any tick = %v", d.DeltaTime())
	}
	clk.now = 0.25
	d.Tick()
	clk.now = 0.75
	d.Tick()
	if d.DeltaTime() != 0.5 {
		t.Errorf("DeltaTime = %v, want 0.5", d.DeltaTime())
	}
}
