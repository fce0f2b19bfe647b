// Package shell is the headless preview host: it mounts form documents,
// owns the name→handle registry the action dispatcher mutates through,
// consumes navigation signals (one-level modal or replace, with a single
// back slot), and renders the active form as interpolated text.
package shell

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/formlab/formlab/internal/datasource"
	"github.com/formlab/formlab/internal/document"
	"github.com/formlab/formlab/internal/runtime"
)

// FormLookup resolves a display name against the available saved forms.
// Supplied by the catalog layer.
type FormLookup func(name string) (*document.Form, bool)

// Options configures a shell.
type Options struct {
	// Currency is the display suffix for priced selection labels.
	// Defaults to "₽".
	Currency string
	// Lookup resolves openForm display names. Without it every openForm
	// signal produces a not-found notice.
	Lookup FormLookup
}

// mounted is one form presented in the shell, with its live views.
type mounted struct {
	form   *document.Form
	views  []*View
	byName map[string]*View
	mode   document.OpenMode // empty for the base form
}

// Shell hosts one preview session. At most two forms are mounted at a time:
// the base form and a single modal overlay or replacement; closeForm
// returns to the base. Deeper nesting is deliberately not tracked.
type Shell struct {
	sess     *runtime.Session
	lookup   FormLookup
	currency string

	stack       []*mounted
	notice      string
	unsubscribe func()
}

// New creates a shell with a fresh runtime session.
func New(opts Options) *Shell {
	s := &Shell{
		lookup:   opts.Lookup,
		currency: opts.Currency,
	}
	if s.currency == "" {
		s.currency = "₽"
	}
	s.sess = runtime.NewSession(s)
	s.unsubscribe = s.sess.Bus.Subscribe(s.handleSignal)
	return s
}

// Session exposes the shared runtime for inspection and hook wiring.
func (s *Shell) Session() *runtime.Session {
	return s.sess
}

// Close detaches the shell from the navigation bus.
func (s *Shell) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Open mounts form as the base of the preview, dropping any overlay. The
// variable store and cart survive: they belong to the session, not the form.
func (s *Shell) Open(form *document.Form) {
	s.stack = []*mounted{s.mount(form, "")}
	s.sess.LoadForm(form)
}

// Resolve implements runtime.TargetResolver over the topmost form's views.
func (s *Shell) Resolve(name string) (runtime.TargetHandle, bool) {
	top := s.top()
	if top == nil {
		return nil, false
	}
	v, ok := top.byName[name]
	return v, ok
}

// Notice returns the last user-visible notice and clears it.
func (s *Shell) Notice() string {
	n := s.notice
	s.notice = ""
	return n
}

func (s *Shell) top() *mounted {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

func (s *Shell) mount(form *document.Form, mode document.OpenMode) *mounted {
	m := &mounted{form: form, byName: make(map[string]*View), mode: mode}
	for i := range form.Components {
		comp := &form.Components[i]
		v := newView(comp, s.currency)
		m.views = append(m.views, v)
		if comp.Name != "" {
			if _, exists := m.byName[comp.Name]; !exists {
				m.byName[comp.Name] = v
			}
		}
	}
	return m
}

func (s *Shell) handleSignal(sig runtime.Signal) {
	switch sig.Kind {
	case runtime.SignalOpenForm:
		s.openByName(sig.Form, sig.Mode)
	case runtime.SignalCloseForm:
		s.closeTop()
	}
}

func (s *Shell) openByName(name string, mode document.OpenMode) {
	if s.lookup == nil {
		s.notice = fmt.Sprintf("Form %q not found", name)
		slog.Warn("[Shell] openForm without a catalog", "form", name)
		return
	}
	form, ok := s.lookup(name)
	if !ok {
		s.notice = fmt.Sprintf("Form %q not found", name)
		slog.Warn("[Shell] form not found", "form", name)
		return
	}

	m := s.mount(form, mode)
	if len(s.stack) == 0 {
		s.stack = []*mounted{m}
	} else if len(s.stack) == 1 {
		s.stack = append(s.stack, m)
	} else {
		// One level only: a second open swaps the slot.
		s.stack[1] = m
	}
	s.sess.LoadForm(form)
}

func (s *Shell) closeTop() {
	if len(s.stack) <= 1 {
		return
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.sess.LoadForm(s.top().form)
}

// Trigger fires a named interactive component: its declared actions, then
// its onClick hook payload.
func (s *Shell) Trigger(name string) error {
	top := s.top()
	if top == nil {
		return fmt.Errorf("no form is open")
	}
	v, ok := top.byName[name]
	if !ok {
		return fmt.Errorf("no component named %q", name)
	}
	s.sess.Dispatcher.Trigger(v.comp.Actions, v.comp.OnClick)
	return nil
}

// SetInput records an input change on a named component and publishes its
// variable. Numeric text is published as a number so computed sums work.
func (s *Shell) SetInput(name, raw string) error {
	v, err := s.interactiveView(name)
	if err != nil {
		return err
	}
	v.value = raw
	if f, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64); perr == nil {
		s.sess.Store.Set(s.variableName(v.comp), f)
	} else {
		s.sess.Store.Set(s.variableName(v.comp), raw)
	}
	return nil
}

// SetChecked records a checkbox change.
func (s *Shell) SetChecked(name string, checked bool) error {
	v, err := s.interactiveView(name)
	if err != nil {
		return err
	}
	v.checked = checked
	s.sess.Store.Set(s.variableName(v.comp), checked)
	return nil
}

// Select records a selection change. Plain selects match an authored option
// string; data-selects resolve the option by value in the component's data
// source and additionally publish every extra field as <var>_<field>. The
// session-wide selection variable is updated either way so addToCart's
// sentinel target keeps working.
func (s *Shell) Select(name, value string) error {
	v, err := s.interactiveView(name)
	if err != nil {
		return err
	}
	varName := s.variableName(v.comp)

	if v.comp.Type == document.TypeDataSelect {
		src, ok := datasource.Get(v.comp.PropString("source"))
		if !ok {
			return fmt.Errorf("component %q has no data source", name)
		}
		opt, ok := src.Find(value)
		if !ok {
			return fmt.Errorf("no option %q in data source", value)
		}
		v.selected = opt
		v.hasSel = true
		s.sess.Store.Set(varName, opt.Label)
		for field, fv := range opt.Fields {
			s.sess.Store.Set(varName+"_"+field, fv)
		}
		s.sess.Store.Set(runtime.SelectionVariable, v.selectionLabel())
		return nil
	}

	for _, opt := range v.comp.PropStrings("options") {
		if opt == value {
			v.selected = datasource.Option{Value: opt, Label: opt}
			v.hasSel = true
			s.sess.Store.Set(varName, opt)
			s.sess.Store.Set(runtime.SelectionVariable, opt)
			return nil
		}
	}
	return fmt.Errorf("no option %q on component %q", value, name)
}

func (s *Shell) interactiveView(name string) (*View, error) {
	top := s.top()
	if top == nil {
		return nil, fmt.Errorf("no form is open")
	}
	v, ok := top.byName[name]
	if !ok {
		return nil, fmt.Errorf("no component named %q", name)
	}
	return v, nil
}

// variableName is the store variable an input component publishes to: its
// authored "variable" prop, falling back to the component name.
func (s *Shell) variableName(comp *document.Component) string {
	if v := comp.PropString("variable"); v != "" {
		return v
	}
	return comp.Name
}

// Render produces a text rendering of the current presentation: the base
// form, and below it any modal overlay under a separator. A replacement
// renders alone. Hidden components are skipped and every display string is
// interpolated against the merged variable view.
func (s *Shell) Render() string {
	if len(s.stack) == 0 {
		return ""
	}

	var b strings.Builder
	top := s.top()
	if top.mode == document.OpenModal {
		s.renderForm(&b, s.stack[0])
		fmt.Fprintf(&b, "--- modal: %s ---\n", top.form.Name)
	}
	s.renderForm(&b, top)
	return b.String()
}

func (s *Shell) renderForm(b *strings.Builder, m *mounted) {
	fmt.Fprintf(b, "=== %s ===\n", m.form.Name)
	for _, v := range m.views {
		if v.hidden {
			continue
		}
		line := s.renderView(v)
		if line == "" {
			continue
		}
		b.WriteString(s.sess.Store.Interpolate(line))
		b.WriteByte('\n')
	}
}

func (s *Shell) renderView(v *View) string {
	switch v.comp.Type {
	case document.TypeHeading:
		return "== " + v.text + " =="
	case document.TypeParagraph:
		return v.text
	case document.TypeTextInput, document.TypeTextarea, document.TypeNumberInput:
		return fmt.Sprintf("%s: [%s]", v.text, v.value)
	case document.TypeSelect, document.TypeDataSelect:
		sel := "..."
		if v.hasSel {
			sel = v.selectionLabel()
		}
		return fmt.Sprintf("%s: <%s>", v.text, sel)
	case document.TypeCheckbox:
		mark := " "
		if v.checked {
			mark = "x"
		}
		return fmt.Sprintf("[%s] %s", mark, v.text)
	case document.TypeButton:
		return "( " + v.text + " )"
	case document.TypeDivider:
		return "--------"
	default:
		return v.text
	}
}
