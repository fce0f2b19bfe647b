package shell

import (
	"fmt"

	"github.com/formlab/formlab/internal/datasource"
	"github.com/formlab/formlab/internal/document"
)

// View is the live visual state of one rendered component. It implements
// runtime.TargetHandle so declared actions can mutate it by name.
type View struct {
	comp     *document.Component
	currency string

	text       string
	color      string
	background string
	hidden     bool

	// input state for interactive components
	value    string
	checked  bool
	selected datasource.Option
	hasSel   bool
}

func newView(comp *document.Component, currency string) *View {
	v := &View{comp: comp, currency: currency}
	switch comp.Type {
	case document.TypeHeading, document.TypeParagraph, document.TypeButton:
		v.text = comp.PropString("text")
	default:
		v.text = comp.PropString("label")
	}
	if comp.Style != nil {
		v.color = comp.Style.Color
		v.background = comp.Style.BackgroundColor
	}
	return v
}

// Component returns the authored component backing this view.
func (v *View) Component() *document.Component { return v.comp }

// Text returns the component's current display text. For selection
// components this is the selected option's label (with its price, for
// priced options), which is what addToCart parses.
func (v *View) Text() string {
	if v.hasSel {
		return v.selectionLabel()
	}
	if v.value != "" {
		return v.value
	}
	return v.text
}

func (v *View) SetText(s string)       { v.text = s; v.value = ""; v.hasSel = false }
func (v *View) SetColor(s string)      { v.color = s }
func (v *View) SetBackground(s string) { v.background = s }
func (v *View) SetHidden(b bool)       { v.hidden = b }
func (v *View) Hidden() bool           { return v.hidden }

// selectionLabel renders the selected option as "label — price currency"
// when the option carries a price field, plain label otherwise.
func (v *View) selectionLabel() string {
	if price, ok := v.selected.Fields["price"]; ok {
		return fmt.Sprintf("%s — %v %s", v.selected.Label, price, v.currency)
	}
	return v.selected.Label
}
