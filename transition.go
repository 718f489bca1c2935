package stagehand

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrEmptyStack is the panic value (wrapped) raised when a Pop leaves the
	// stack empty and the popped state's Exited hook does not Push a
	// replacement. It signals a bug in the states, not a runtime condition.
	ErrEmptyStack = errors.New("stagehand: popped the last state")

	// ErrNilState is raised when Set or Push carries a nil state.
	ErrNilState = errors.New("stagehand: nil state in transition")

	// ErrStateReused is raised in debug mode when a state that already exited
	// is entered again.
	ErrStateReused = errors.New("stagehand: state entered again after exit")
)

// TransitionKind enumerates the stack changes a hook may request.
type TransitionKind uint8

const (
	TransNone TransitionKind = iota // leave the stack alone
	TransSet                        // replace the top state
	TransPush                       // push a new state on top
	TransPop                        // pop the top state
)

func (k TransitionKind) String() string {
	switch k {
	case TransNone:
		return "None"
	case TransSet:
		return "Set"
	case TransPush:
		return "Push"
	case TransPop:
		return "Pop"
	default:
		return fmt.Sprintf("TransitionKind(%d)", k)
	}
}

// Transition is the outcome of a State hook. The zero value is None.
type Transition[G, S any] struct {
	Kind  TransitionKind
	State State[G, S] // target of Set and Push; nil otherwise
}

// None leaves the stack unchanged.
func None[G, S any]() Transition[G, S] {
	return Transition[G, S]{}
}

// Set replaces the top of the stack with state. The replaced state is dropped
// without an Exited call.
func Set[G, S any](state State[G, S]) Transition[G, S] {
	return Transition[G, S]{Kind: TransSet, State: state}
}

// Push places state on top of the stack. The state below stays on the stack
// but receives no calls until it is on top again.
func Push[G, S any](state State[G, S]) Transition[G, S] {
	return Transition[G, S]{Kind: TransPush, State: state}
}

// Pop removes the top of the stack and calls its Exited hook.
func Pop[G, S any]() Transition[G, S] {
	return Transition[G, S]{Kind: TransPop}
}

// IsNone reports whether t requests no change.
func (t Transition[G, S]) IsNone() bool {
	return t.Kind == TransNone
}

func (t Transition[G, S]) String() string {
	if t.State == nil {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, stateName(t.State))
}

// stateStack is the ordered set of live states; the last element is active.
type stateStack[G, S any] struct {
	states []State[G, S]

	// retired holds exited states while debug checks are on, so that entering
	// one again can be reported. retiredOrder evicts the oldest entry once
	// maxRetired are held.
	debug        bool
	retired      map[any]struct{}
	retiredOrder []any
}

// maxRetired bounds the exited states remembered in debug mode.
const maxRetired = 1024

func (st *stateStack[G, S]) top() State[G, S] {
	return st.states[len(st.states)-1]
}

func (st *stateStack[G, S]) depth() int {
	return len(st.states)
}

// resolve applies next and every transition it chains into until a hook
// returns None. It returns the number of transitions applied.
func (st *stateStack[G, S]) resolve(next Transition[G, S], ctx *Context[G, S]) int {
	applied := 0
	for !next.IsNone() {
		applied++
		switch next.Kind {
		case TransSet:
			st.checkEnter(next.State)
			st.states[len(st.states)-1] = next.State
			next = next.State.Entered(ctx)

		case TransPush:
			st.checkEnter(next.State)
			st.states = append(st.states, next.State)
			next = next.State.Entered(ctx)

		case TransPop:
			n := len(st.states)
			popped := st.states[n-1]
			st.states[n-1] = nil
			st.states = st.states[:n-1]
			st.retire(popped)

			next = popped.Exited(ctx)
			if next.Kind != TransPush && len(st.states) == 0 {
				panic(fmt.Errorf("%w: %s exited with %s", ErrEmptyStack, stateName(popped), next.Kind))
			}

		default:
			panic(fmt.Sprintf("stagehand: unknown transition kind %d", next.Kind))
		}
	}
	return applied
}

func (st *stateStack[G, S]) checkEnter(s State[G, S]) {
	if s == nil {
		panic(ErrNilState)
	}
	if !st.debug || st.retired == nil {
		return
	}
	if isPointer(s) {
		if _, ok := st.retired[s]; ok {
			panic(fmt.Errorf("%w: %s", ErrStateReused, stateName(s)))
		}
	}
}

func (st *stateStack[G, S]) retire(s State[G, S]) {
	if !st.debug {
		return
	}
	if !isPointer(s) {
		return
	}
	if st.retired == nil {
		st.retired = make(map[any]struct{})
	}
	if _, ok := st.retired[s]; ok {
		return
	}
	if len(st.retiredOrder) >= maxRetired {
		delete(st.retired, st.retiredOrder[0])
		st.retiredOrder[0] = nil
		st.retiredOrder = st.retiredOrder[1:]
	}
	st.retired[s] = struct{}{}
	st.retiredOrder = append(st.retiredOrder, s)
}

// isPointer reports whether s has pointer identity. Value states compare
// equal to any copy and cannot be tracked.
func isPointer(s any) bool {
	return reflect.ValueOf(s).Kind() == reflect.Pointer
}

// stateName returns a short label for logs and panics.
func stateName(s any) string {
	if sn, ok := s.(fmt.Stringer); ok {
		return sn.String()
	}
	return fmt.Sprintf("%T", s)
}
