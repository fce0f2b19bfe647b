package runtime

import (
	"log/slog"
	"sync"

	"github.com/formlab/formlab/internal/document"
)

// SignalKind distinguishes the two navigation signals.
type SignalKind int

const (
	// SignalOpenForm asks the hosting shell to open a form by display name.
	SignalOpenForm SignalKind = iota
	// SignalCloseForm asks the shell to dismiss the most recently opened
	// overlay or replacement.
	SignalCloseForm
)

// Signal is one navigation event. Form and Mode are meaningful for
// SignalOpenForm only.
type Signal struct {
	Kind SignalKind
	Form string
	Mode document.OpenMode
}

// SignalHandler receives navigation signals. Handlers run synchronously on
// the publishing goroutine.
type SignalHandler func(Signal)

// Bus is the process-wide navigation channel of a preview session. Publish
// dispatches synchronously to every handler registered at emit time, once
// each, in registration order. The core only emits signals; resolving a
// form name against the catalog is the subscriber's concern.
type Bus struct {
	mu   sync.Mutex
	subs []*subscription
	next int
}

type subscription struct {
	id      int
	handler SignalHandler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler and returns a function that removes it.
func (b *Bus) Subscribe(handler SignalHandler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &subscription{id: b.next, handler: handler}
	b.next++
	b.subs = append(b.subs, sub)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.subs {
			if b.subs[i].id == sub.id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// PublishOpen emits an open-form signal. An empty mode defaults to modal.
func (b *Bus) PublishOpen(formName string, mode document.OpenMode) {
	if mode == "" {
		mode = document.OpenModal
	}
	slog.Debug("[NavBus] open form", "form", formName, "mode", string(mode))
	b.publish(Signal{Kind: SignalOpenForm, Form: formName, Mode: mode})
}

// PublishClose emits a close-form signal.
func (b *Bus) PublishClose() {
	slog.Debug("[NavBus] close form")
	b.publish(Signal{Kind: SignalCloseForm})
}

func (b *Bus) publish(sig Signal) {
	b.mu.Lock()
	handlers := make([]SignalHandler, len(b.subs))
	for i, sub := range b.subs {
		handlers[i] = sub.handler
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(sig)
	}
}
