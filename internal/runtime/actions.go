package runtime

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/formlab/formlab/internal/document"
)

// SelectionTarget is the reserved addToCart target that reads the current
// selection variable's label text instead of a live component.
const SelectionTarget = "@selection"

// SelectionVariable is the store variable backing SelectionTarget. The
// rendering layer publishes the active selection label under this name.
const SelectionVariable = "selection"

// TargetHandle is a live handle to a named visual component, owned by the
// rendering layer and injected into the dispatcher through a TargetResolver.
type TargetHandle interface {
	Text() string
	SetText(string)
	SetColor(string)
	SetBackground(string)
	SetHidden(bool)
	Hidden() bool
}

// TargetResolver maps a declared component name to a live handle. A failed
// resolution is not an error: the single action is skipped and the rest of
// the list still runs.
type TargetResolver interface {
	Resolve(name string) (TargetHandle, bool)
}

// ResolverFunc adapts a function to the TargetResolver interface.
type ResolverFunc func(name string) (TargetHandle, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(name string) (TargetHandle, bool) {
	return f(name)
}

// Dispatcher executes declared action lists against one preview session:
// the shared store and cart, the navigation bus, and the rendering layer's
// target registry. All collaborators are injected; the dispatcher holds no
// ambient state and is fully testable without a rendering environment.
type Dispatcher struct {
	store   *Store
	bus     *Bus
	targets TargetResolver
	// hook optionally runs a user-authored script payload after the
	// declared actions. Its side effects carry no contract.
	hook func(source string)
}

// NewDispatcher wires a dispatcher to its session collaborators. targets
// may be nil, in which case every visual action is a no-op.
func NewDispatcher(store *Store, bus *Bus, targets TargetResolver) *Dispatcher {
	return &Dispatcher{store: store, bus: bus, targets: targets}
}

// SetScriptHook installs the opaque script-hook runner invoked by Trigger
// after the declared actions.
func (d *Dispatcher) SetScriptHook(hook func(source string)) {
	d.hook = hook
}

// Trigger runs a component's declared actions and then its onClick script
// payload, if any.
func (d *Dispatcher) Trigger(actions []document.Action, onClick string) {
	d.Run(actions)
	if onClick != "" && d.hook != nil {
		d.hook(onClick)
	}
}

// Run executes actions strictly in declaration order. A single action that
// cannot resolve its target, fails its guard, or carries an unknown kind is
// skipped; the remaining actions still execute. There is no rollback.
func (d *Dispatcher) Run(actions []document.Action) {
	for _, a := range actions {
		if a.When != "" && !evalGuard(a.When, d.store.Snapshot()) {
			continue
		}
		d.run(a)
	}
}

func (d *Dispatcher) run(a document.Action) {
	switch a.Kind {
	case document.ActionSetText:
		if h, ok := d.resolve(a.TargetName); ok {
			h.SetText(a.Value)
		}
	case document.ActionSetColor:
		if h, ok := d.resolve(a.TargetName); ok {
			h.SetColor(a.Value)
		}
	case document.ActionSetBgColor:
		if h, ok := d.resolve(a.TargetName); ok {
			h.SetBackground(a.Value)
		}
	case document.ActionHide:
		if h, ok := d.resolve(a.TargetName); ok {
			h.SetHidden(true)
		}
	case document.ActionShow:
		if h, ok := d.resolve(a.TargetName); ok {
			h.SetHidden(false)
		}
	case document.ActionToggleVisibility:
		if h, ok := d.resolve(a.TargetName); ok {
			h.SetHidden(!h.Hidden())
		}
	case document.ActionSetVariable:
		if a.TargetName != "" {
			d.store.Set(a.TargetName, a.Value)
		}
	case document.ActionAddToCart:
		d.addToCart(a)
	case document.ActionClearCart:
		d.store.Cart().Clear()
	case document.ActionOpenForm:
		d.bus.PublishOpen(a.Value, a.Mode)
	case document.ActionCloseForm:
		d.bus.PublishClose()
	default:
		slog.Warn("[Dispatch] unknown action kind skipped", "kind", string(a.Kind))
	}
}

func (d *Dispatcher) resolve(name string) (TargetHandle, bool) {
	if name == "" || d.targets == nil {
		return nil, false
	}
	h, ok := d.targets.Resolve(name)
	if !ok {
		slog.Debug("[Dispatch] target not found", "target", name)
	}
	return h, ok
}

// addToCart resolves the selection label named by the action's target,
// derives a line item from it, and merges it into the cart. The action's
// value optionally names a quantity variable; an absent or unparseable
// quantity defaults to 1.
func (d *Dispatcher) addToCart(a document.Action) {
	var label string
	if a.TargetName == SelectionTarget {
		v, ok := d.store.Get(SelectionVariable)
		if !ok {
			return
		}
		label = Stringify(v)
	} else {
		h, ok := d.resolve(a.TargetName)
		if !ok {
			return
		}
		label = h.Text()
	}

	name, price, priceLabel := ParsePricedLabel(label)
	if name == "" {
		return
	}

	qty := 1
	if a.Value != "" {
		if v, ok := d.store.Get(a.Value); ok {
			qty = ParseQuantity(v)
		}
	}

	d.store.Cart().Add(LineItem{
		Name:       name,
		UnitPrice:  price,
		PriceLabel: priceLabel,
		Quantity:   qty,
	})
}

var digitRunPattern = regexp.MustCompile(`[0-9]+`)

// ParsePricedLabel splits a "label — price" selection text into the derived
// item name, the numeric price, and the display price label. The price is
// the first run of digits in the text; no digits means price 0 and the whole
// trimmed text as the name.
func ParsePricedLabel(label string) (name string, price int, priceLabel string) {
	loc := digitRunPattern.FindStringIndex(label)
	if loc == nil {
		return strings.TrimSpace(label), 0, ""
	}
	price, _ = strconv.Atoi(label[loc[0]:loc[1]])
	name = strings.TrimRight(strings.TrimSpace(label[:loc[0]]), "-–—: ")
	priceLabel = strings.TrimSpace(label[loc[0]:])
	return name, price, priceLabel
}
