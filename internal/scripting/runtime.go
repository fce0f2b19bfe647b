// Package scripting hosts the opaque user-script hooks of the preview: the
// onClick payloads authored on interactive components. Hooks run in a goja
// JavaScript runtime behind a goja_nodejs event loop; the loop is the single
// writer, so hook execution is serialized exactly like the rest of the
// preview turn.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"
)

// DefaultSyncTimeout bounds how long a synchronous hook may run before the
// host gives up on it.
const DefaultSyncTimeout = 5 * time.Second

// Runtime wraps a goja event loop. goja.Runtime is not goroutine-safe; all
// access must go through RunOnLoop or RunOnLoopSync, and the goja.Runtime
// handed to a callback must not escape it.
type Runtime struct {
	loop     *eventloop.EventLoop
	registry *require.Registry
	timeout  time.Duration

	mu      sync.RWMutex
	started bool
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRuntime creates a Runtime with a started event loop. The provided
// context controls lifecycle: when it is canceled, the runtime stops. Call
// Close when done.
func NewRuntime(ctx context.Context) (*Runtime, error) {
	registry := require.NewRegistry()
	loop := eventloop.NewEventLoop(
		eventloop.WithRegistry(registry),
		eventloop.EnableConsole(true),
	)

	childCtx, cancel := context.WithCancel(context.Background())
	rt := &Runtime{
		loop:     loop,
		registry: registry,
		timeout:  DefaultSyncTimeout,
		ctx:      childCtx,
		cancel:   cancel,
	}

	loop.Start()
	rt.mu.Lock()
	rt.started = true
	rt.mu.Unlock()

	if ctx.Done() != nil {
		context.AfterFunc(ctx, func() {
			rt.Close()
		})
	}

	return rt, nil
}

// SetTimeout sets the timeout for RunOnLoopSync operations. Pass 0 to
// disable the timeout.
func (rt *Runtime) SetTimeout(timeout time.Duration) {
	rt.mu.Lock()
	rt.timeout = timeout
	rt.mu.Unlock()
}

// Close gracefully stops the event loop. Safe to call multiple times.
func (rt *Runtime) Close() error {
	rt.mu.Lock()
	if rt.stopped {
		rt.mu.Unlock()
		return nil
	}
	rt.stopped = true
	rt.mu.Unlock()

	// Cancel before stopping so goroutines blocked on Done unwedge first.
	rt.cancel()
	rt.loop.Stop()
	return nil
}

// Done returns a channel closed when the runtime has stopped.
func (rt *Runtime) Done() <-chan struct{} {
	return rt.ctx.Done()
}

// IsRunning reports whether the loop is started and not yet stopped.
func (rt *Runtime) IsRunning() bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.started && !rt.stopped
}

// RunOnLoop schedules fn on the event loop goroutine. It reports whether
// the function was scheduled.
func (rt *Runtime) RunOnLoop(fn func(*goja.Runtime)) bool {
	rt.mu.RLock()
	if !rt.started || rt.stopped {
		rt.mu.RUnlock()
		return false
	}
	rt.mu.RUnlock()
	return rt.loop.RunOnLoop(fn)
}

// RunOnLoopSync schedules fn on the event loop and waits for completion,
// honoring the configured timeout and runtime shutdown.
func (rt *Runtime) RunOnLoopSync(fn func(*goja.Runtime) error) error {
	rt.mu.RLock()
	if !rt.started || rt.stopped {
		rt.mu.RUnlock()
		return errors.New("event loop not running")
	}
	timeout := rt.timeout
	rt.mu.RUnlock()

	errCh := make(chan error, 1)
	ok := rt.loop.RunOnLoop(func(vm *goja.Runtime) {
		errCh <- fn(vm)
	})
	if !ok {
		return errors.New("event loop not running")
	}

	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case err := <-errCh:
			return err
		case <-rt.Done():
			return errors.New("runtime stopped before completion")
		case <-timer.C:
			return fmt.Errorf("hook timed out after %v", timeout)
		}
	}

	select {
	case err := <-errCh:
		return err
	case <-rt.Done():
		return errors.New("runtime stopped before completion")
	}
}

// SetGlobal sets a global value in the JavaScript runtime.
func (rt *Runtime) SetGlobal(name string, value any) error {
	return rt.RunOnLoopSync(func(vm *goja.Runtime) error {
		return vm.Set(name, value)
	})
}

// GetGlobal retrieves a global value, or nil when absent.
func (rt *Runtime) GetGlobal(name string) (any, error) {
	var result any
	err := rt.RunOnLoopSync(func(vm *goja.Runtime) error {
		val := vm.Get(name)
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			result = nil
			return nil
		}
		result = val.Export()
		return nil
	})
	return result, err
}
