// Package stagehand is a state-stack engine and frame driver for real-time
// games and apps built on [Ebitengine].
//
// An application is a stack of [State] values: a menu, the play field, a
// pause overlay pushed on top of it. Only the top state is active. Every
// tick the [Driver] hands queued input to the active state newest-first and,
// if none of it asked for a change, calls Update. Each hook returns a
// [Transition] (None, Set, Push or Pop) and the driver applies the chain of
// transitions before the tick ends.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window, captures
// input and drives the stack for you:
//
//	type game struct{ score int }
//	type saved struct{ Best int }
//
//	app := stagehand.AppFunc[game, saved](func(res *stagehand.Resources) (game, stagehand.State[game, saved], error) {
//		return game{}, &menu{}, nil
//	})
//	if err := stagehand.Run(app, stagehand.DefaultConfig()); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, build a [Driver] with [NewDriver], push input to
// [Driver.Queue] (or use [InputCapture]) and call [Driver.Tick] once per
// frame yourself.
//
// # States and transitions
//
// Embed [BaseState] to get no-op hooks, or build a state from closures with
// [Funcs]. Set replaces the top state without calling its Exited hook; Pop
// removes it and calls Exited exactly once. A Pop that would leave the stack
// empty panics with [ErrEmptyStack] unless the popped state's Exited pushes
// a replacement.
//
// # Context
//
// Hooks receive a [Context] valid for the current call. It exposes the game
// object, the delta time, the drawing [Surface], the [SoundContext], rem to
// pixel conversion and persisted storage. [Context.SetStorage] writes the
// storage value through the configured [Store] (in memory or bbolt).
//
// # Drawing
//
// [Surface] is an immediate-mode canvas over an offscreen image. The driver
// resets its transform every tick and translates the origin to the centre.
// Paths are filled with nonzero or even-odd rules and strokes support dash
// patterns.
//
// # Widgets
//
// [Text] and [Button] are small immediate-mode widgets sized in rem. Buttons
// track hover, fade between colors with [gween] tweens and play sounds.
//
// # ECS integration
//
// The ecs subpackage forwards every dispatched event into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package stagehand
