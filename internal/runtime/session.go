// Package runtime implements the preview-time engine of the form builder:
// the shared variable store with computed variables, {{name}} interpolation,
// the shopping-cart subsystem, the declared-action dispatcher, and the
// navigation signal bus. The surrounding editor UI and rendering layer are
// external collaborators injected through small interfaces.
package runtime

import "github.com/formlab/formlab/internal/document"

// Session is the shared runtime of one preview tree. It is created when a
// preview starts and shared across the rendered form and any modal children
// opened from it; they all see the same store, cart and bus.
type Session struct {
	Store      *Store
	Bus        *Bus
	Dispatcher *Dispatcher
}

// NewSession creates a fresh session wired to the given target resolver.
func NewSession(targets TargetResolver) *Session {
	store := NewStore()
	bus := NewBus()
	return &Session{
		Store:      store,
		Bus:        bus,
		Dispatcher: NewDispatcher(store, bus, targets),
	}
}

// LoadForm installs the form's computed-variable declarations into the
// store. Base variables and the cart survive: nested forms opened during the
// same session share one runtime.
func (s *Session) LoadForm(form *document.Form) {
	s.Store.SetComputed(form.ComputedVariables)
}
