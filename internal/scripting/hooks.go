package scripting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dop251/goja"

	"github.com/formlab/formlab/internal/document"
	"github.com/formlab/formlab/internal/runtime"
)

// Engine runs onClick hook payloads against one preview session. The hook
// sees three globals: form (variable store), cart, and nav (navigation
// bus). Hooks carry no contract on their side effects; errors and panics
// are contained and surface only as log output.
type Engine struct {
	rt   *Runtime
	sess *runtime.Session
}

// NewEngine creates a hook engine bound to sess.
func NewEngine(ctx context.Context, sess *runtime.Session) (*Engine, error) {
	rt, err := NewRuntime(ctx)
	if err != nil {
		return nil, err
	}
	e := &Engine{rt: rt, sess: sess}
	if err := e.setupGlobals(); err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to set up hook globals: %w", err)
	}
	return e, nil
}

// Close stops the underlying event loop.
func (e *Engine) Close() error {
	return e.rt.Close()
}

// SetTimeout bounds how long a single hook may run.
func (e *Engine) SetTimeout(timeout time.Duration) {
	e.rt.SetTimeout(timeout)
}

// Run executes one hook payload. The returned error reports compile or
// runtime failure; it never carries a panic out of the engine.
func (e *Engine) Run(name, source string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook %s panicked: %v", name, r)
		}
	}()

	return e.rt.RunOnLoopSync(func(vm *goja.Runtime) error {
		prg, cerr := goja.Compile(name, source, true)
		if cerr != nil {
			return fmt.Errorf("failed to compile hook %s: %w", name, cerr)
		}
		if _, rerr := vm.RunProgram(prg); rerr != nil {
			return fmt.Errorf("hook %s failed: %w", name, rerr)
		}
		return nil
	})
}

// Hook adapts the engine to the dispatcher's script-hook slot. Failures are
// logged and swallowed: a broken hook must not break the preview turn.
func (e *Engine) Hook() func(source string) {
	return func(source string) {
		if err := e.Run("onClick", source); err != nil {
			slog.Warn("[Hook] onClick failed", "error", err)
		}
	}
}

func (e *Engine) setupGlobals() error {
	store := e.sess.Store
	cart := store.Cart()
	bus := e.sess.Bus

	if err := e.rt.SetGlobal("form", map[string]any{
		"setVariable": func(name string, value any) {
			store.Set(name, value)
		},
		"getVariable": func(name string) any {
			v, _ := store.Get(name)
			return v
		},
		"clearVariable": func(name string) {
			store.Clear(name)
		},
		"pushToList": func(name string, item any) {
			store.PushToList(name, item)
		},
		"interpolate": func(text string) string {
			return store.Interpolate(text)
		},
	}); err != nil {
		return err
	}

	if err := e.rt.SetGlobal("cart", map[string]any{
		"add": func(name string, price int, qty int) {
			cart.Add(runtime.LineItem{Name: name, UnitPrice: price, Quantity: qty})
		},
		"remove": func(name string) { cart.Remove(name) },
		"clear":  func() { cart.Clear() },
		"items":  func() []runtime.LineItem { return cart.Items() },
		"total":  func() int { return cart.Total() },
		"count":  func() int { return cart.Count() },
	}); err != nil {
		return err
	}

	return e.rt.SetGlobal("nav", map[string]any{
		"openForm": func(name string, mode string) {
			bus.PublishOpen(name, document.OpenMode(mode))
		},
		"closeForm": func() { bus.PublishClose() },
	})
}
