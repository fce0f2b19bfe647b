package runtime

import (
	"sync"

	"github.com/formlab/formlab/internal/document"
)

// Store holds the user-entered and derived variables of one preview session.
// A single Store instance is shared across the whole rendered form tree,
// including modal children opened from it.
//
// The externally visible "merged" view is base ∪ computed ∪ cart-derived,
// evaluated fresh on every read; nothing derived is ever cached across
// mutations. All mutations are serialized through one mutex so the store
// keeps the synchronous-turn semantics of the original single-threaded
// design on a multi-goroutine platform.
type Store struct {
	mu       sync.Mutex
	base     map[string]any
	computed []document.ComputedVariable
	cart     *Cart
}

// Names of the two cart-derived variables, always present in the merged
// view and overriding base variables of the same name.
const (
	VarCartTotal = "cartTotal"
	VarCartCount = "cartCount"
)

// NewStore creates an empty store with an empty cart and no computed
// variable declarations.
func NewStore() *Store {
	return &Store{
		base: make(map[string]any),
		cart: NewCart(),
	}
}

// Cart returns the session cart backing the cart-derived variables.
func (s *Store) Cart() *Cart {
	return s.cart
}

// SetComputed installs the ordered computed-variable declarations. Order
// matters: later entries may reference earlier computed results, never the
// reverse. The declarations are read-only at runtime.
func (s *Store) SetComputed(defs []document.ComputedVariable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.computed = append([]document.ComputedVariable(nil), defs...)
}

// Set unconditionally overwrites the base variable. Values are not
// validated; partial authoring state is expected mid-edit.
func (s *Store) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base[name] = value
}

// Get returns the merged-view value for name. Computed and cart-derived
// values take precedence over base values of the same name.
func (s *Store) Get(name string) (any, bool) {
	v, ok := s.Snapshot()[name]
	return v, ok
}

// Clear removes name from the base variables only. Computed and
// cart-derived entries are regenerated on read, not stored, so they are
// unaffected.
func (s *Store) Clear(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.base, name)
}

// PushToList appends item to the list variable at name, coercing a missing
// or non-sequence prior value to an empty sequence first.
func (s *Store) PushToList(name string, item any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior, _ := s.base[name].([]any)
	s.base[name] = append(prior, item)
}

// Snapshot builds the merged view: base variables, then computed variables
// evaluated in declaration order (each seeing the results of earlier ones),
// then the cart-derived pair. The returned map is owned by the caller.
func (s *Store) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string]any, len(s.base)+len(s.computed)+2)
	for k, v := range s.base {
		merged[k] = v
	}

	for _, cv := range s.computed {
		if cv.Name == "" {
			continue
		}
		if v, ok := EvalExpression(cv.Expression, merged); ok {
			merged[cv.Name] = v
		}
		// Not computable: silently absent for this pass.
	}

	merged[VarCartTotal] = s.cart.Total()
	merged[VarCartCount] = s.cart.Count()
	return merged
}
