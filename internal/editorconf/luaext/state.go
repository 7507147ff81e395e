package luaext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ErrStateClosed is returned when using a closed State.
var ErrStateClosed = errors.New("lua state is closed")

// DefaultTimeout bounds a single script execution.
const DefaultTimeout = 5 * time.Second

// State wraps a sandboxed Lua interpreter.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes all
// access from Go. Execution is bounded by a context deadline enforced
// through the interpreter, so a looping script fails instead of
// hanging the caller.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	closed  bool
}

// Option configures a State.
type Option func(*State)

// WithTimeout sets the per-execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *State) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewState creates a sandboxed Lua state.
func NewState(opts ...Option) *State {
	s := &State{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	s.L = L

	openSafeLibraries(L)
	removeUnsafeGlobals(L)

	return s
}

// openSafeLibraries opens only pure Lua standard libraries.
// io, os, debug, and package stay closed: no file system access, no
// system calls, no sandbox bypass, no module loading.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// removeUnsafeGlobals strips base-library globals that could evade the
// sandbox by loading code from strings or files.
func removeUnsafeGlobals(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Eval executes source and returns the script's return value.
// The script runs under the state's timeout (and any earlier deadline
// on ctx). A script returning nothing yields lua.LNil.
func (s *State) Eval(ctx context.Context, name, source string) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	execCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	s.L.SetContext(execCtx)
	defer s.L.RemoveContext()

	fn, err := s.L.Load(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("loading script %s: %w", name, err)
	}

	var value lua.LValue
	err = s.withRecovery(func() error {
		s.L.Push(fn)
		if err := s.L.PCall(0, 1, nil); err != nil {
			return err
		}
		value = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("running script %s: %w", name, err)
	}

	return value, nil
}

// Close releases the interpreter. Safe to call multiple times.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

// withRecovery executes fn, converting interpreter panics to errors.
func (s *State) withRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
