package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ComponentType identifies the kind of a form component.
type ComponentType string

const (
	TypeHeading     ComponentType = "heading"
	TypeParagraph   ComponentType = "paragraph"
	TypeTextInput   ComponentType = "text-input"
	TypeTextarea    ComponentType = "textarea"
	TypeNumberInput ComponentType = "number-input"
	TypeSelect      ComponentType = "select"
	TypeDataSelect  ComponentType = "data-select"
	TypeCheckbox    ComponentType = "checkbox"
	TypeButton      ComponentType = "button"
	TypeDivider     ComponentType = "divider"
	TypeImage       ComponentType = "image"
	TypeTable       ComponentType = "table"
)

// ActionKind is the closed set of declared-action kinds a component may carry.
type ActionKind string

const (
	ActionSetText          ActionKind = "setText"
	ActionSetColor         ActionKind = "setColor"
	ActionSetBgColor       ActionKind = "setBgColor"
	ActionHide             ActionKind = "hide"
	ActionShow             ActionKind = "show"
	ActionToggleVisibility ActionKind = "toggleVisibility"
	ActionSetVariable      ActionKind = "setVariable"
	ActionAddToCart        ActionKind = "addToCart"
	ActionClearCart        ActionKind = "clearCart"
	ActionOpenForm         ActionKind = "openForm"
	ActionCloseForm        ActionKind = "closeForm"
)

// OpenMode selects how an openForm action presents the target form.
type OpenMode string

const (
	OpenModal   OpenMode = "modal"
	OpenReplace OpenMode = "replace"
)

// Action is a persisted side-effect instruction attached to an interactive
// component. Actions are read-only at runtime and execute in declaration
// order on each trigger.
type Action struct {
	// TargetName names the component (or variable, for setVariable) the
	// action applies to. Empty for actions with no visual target.
	TargetName string `json:"targetName"`
	// Kind selects the behavior; unknown kinds are skipped at runtime.
	Kind ActionKind `json:"action"`
	// Value is an optional payload whose meaning depends on Kind.
	Value string `json:"value,omitempty"`
	// Mode applies to openForm only; empty means modal.
	Mode OpenMode `json:"openMode,omitempty"`
	// When is an optional guard expression evaluated against the merged
	// variable view; the action is skipped when it is not satisfied.
	When string `json:"when,omitempty"`
}

// ComputedVariable is a named value derived from other variables through a
// fixed-grammar expression, recalculated on every store read.
type ComputedVariable struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// Style holds the authored visual properties a runtime action can mutate.
type Style struct {
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	FontSize        string `json:"fontSize,omitempty"`
	BorderRadius    string `json:"borderRadius,omitempty"`
}

// Component is one authored form component. Props is intentionally loose:
// the property editor writes arbitrary keys per component type.
type Component struct {
	ID       string         `json:"id"`
	Type     ComponentType  `json:"type"`
	Name     string         `json:"name,omitempty"`
	Props    map[string]any `json:"props"`
	Style    *Style         `json:"style,omitempty"`
	ColSpan  int            `json:"colSpan,omitempty"`
	ColStart int            `json:"colStart,omitempty"`
	Actions  []Action       `json:"actions,omitempty"`
	// OnClick is an opaque user-authored script payload invoked after the
	// declared actions. No contract is defined on its side effects.
	OnClick string `json:"onClick,omitempty"`
}

// PropString returns a string prop, or "" when absent or of another type.
func (c *Component) PropString(key string) string {
	if c.Props == nil {
		return ""
	}
	s, _ := c.Props[key].(string)
	return s
}

// PropStrings returns a list prop coerced to strings, or nil.
func (c *Component) PropStrings(key string) []string {
	if c.Props == nil {
		return nil
	}
	raw, ok := c.Props[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Form is a complete authored form document, the unit the catalog persists
// and the preview shell renders.
type Form struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Components        []Component        `json:"components"`
	ComputedVariables []ComputedVariable `json:"computedVariables,omitempty"`
	CustomHTML        string             `json:"customHtml,omitempty"`
	CustomCSS         string             `json:"customCss,omitempty"`
	CustomJS          string             `json:"customJs,omitempty"`
	Mode              string             `json:"mode,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// NewForm creates an empty visual-mode form with a fresh identity.
func NewForm(name string) *Form {
	now := time.Now()
	return &Form{
		ID:        uuid.NewString(),
		Name:      name,
		Mode:      "visual",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Component returns the first component with the given declared name.
func (f *Form) Component(name string) (*Component, bool) {
	if name == "" {
		return nil, false
	}
	for i := range f.Components {
		if f.Components[i].Name == name {
			return &f.Components[i], true
		}
	}
	return nil, false
}

// Parse decodes a form document from its persisted JSON shape.
func Parse(data []byte) (*Form, error) {
	var f Form
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse form document: %w", err)
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return &f, nil
}

// Encode serializes the form to its persisted JSON shape.
func (f *Form) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal form document: %w", err)
	}
	return data, nil
}
