package stagehand

// State is one screen or mode of the application: a menu, the play field, a
// pause overlay. Only the state on top of the driver's stack is active; it
// alone receives events and updates.
//
// Every hook returns a Transition describing how the stack should change.
// Returning the zero Transition leaves the stack as it is. Embed BaseState to
// get no-op defaults for the hooks a state does not care about.
//
// The Context passed to a hook is valid for that call only and must not be
// retained.
type State[G, S any] interface {
	// Entered is called when the state becomes the top of the stack through
	// the initial load, Set or Push.
	Entered(ctx *Context[G, S]) Transition[G, S]

	// HandleEvent is called once per queued event while the state is active.
	HandleEvent(ev Event, ctx *Context[G, S]) Transition[G, S]

	// Update is called once per tick after every queued event returned None.
	Update(ctx *Context[G, S]) Transition[G, S]

	// Exited is called exactly once when the state is popped. The driver
	// holds no reference to the state afterwards.
	Exited(ctx *Context[G, S]) Transition[G, S]
}

// BaseState implements every State hook as a no-op. Embed it in concrete
// states and override what is needed.
type BaseState[G, S any] struct{}

func (BaseState[G, S]) Entered(*Context[G, S]) Transition[G, S] { return Transition[G, S]{} }

func (BaseState[G, S]) HandleEvent(Event, *Context[G, S]) Transition[G, S] {
	return Transition[G, S]{}
}

func (BaseState[G, S]) Update(*Context[G, S]) Transition[G, S] { return Transition[G, S]{} }

func (BaseState[G, S]) Exited(*Context[G, S]) Transition[G, S] { return Transition[G, S]{} }

// Funcs builds a State from optional callbacks. Nil callbacks behave like
// BaseState. Use a pointer (&Funcs{...}) so each value has its own identity.
type Funcs[G, S any] struct {
	Name      string
	OnEntered func(ctx *Context[G, S]) Transition[G, S]
	OnEvent   func(ev Event, ctx *Context[G, S]) Transition[G, S]
	OnUpdate  func(ctx *Context[G, S]) Transition[G, S]
	OnExited  func(ctx *Context[G, S]) Transition[G, S]
}

func (f *Funcs[G, S]) Entered(ctx *Context[G, S]) Transition[G, S] {
	if f.OnEntered == nil {
		return Transition[G, S]{}
	}
	return f.OnEntered(ctx)
}

func (f *Funcs[G, S]) HandleEvent(ev Event, ctx *Context[G, S]) Transition[G, S] {
	if f.OnEvent == nil {
		return Transition[G, S]{}
	}
	return f.OnEvent(ev, ctx)
}

func (f *Funcs[G, S]) Update(ctx *Context[G, S]) Transition[G, S] {
	if f.OnUpdate == nil {
		return Transition[G, S]{}
	}
	return f.OnUpdate(ctx)
}

func (f *Funcs[G, S]) Exited(ctx *Context[G, S]) Transition[G, S] {
	if f.OnExited == nil {
		return Transition[G, S]{}
	}
	return f.OnExited(ctx)
}

func (f *Funcs[G, S]) String() string {
	if f.Name == "" {
		return "Funcs"
	}
	return f.Name
}
