package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuthoredDocument(t *testing.T) {
	data := []byte(`{
		"id": "f-1",
		"name": "Kiosk",
		"components": [
			{
				"id": "c1",
				"type": "heading",
				"props": {"text": "Order"}
			},
			{
				"id": "c2",
				"type": "data-select",
				"name": "productSelect",
				"props": {"label": "Product", "source": "products", "variable": "product"}
			},
			{
				"id": "c3",
				"type": "button",
				"name": "addBtn",
				"props": {"text": "Add"},
				"actions": [
					{"targetName": "productSelect", "action": "addToCart", "value": "qty"},
					{"targetName": "checkout", "action": "openForm", "value": "Checkout", "openMode": "modal", "when": "cartCount > 0"}
				],
				"onClick": "form.setVariable('lastAdd', cart.count());"
			}
		],
		"computedVariables": [
			{"name": "totalSum", "expression": "sum(items.price)"}
		]
	}`)

	form, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "f-1", form.ID)
	assert.Equal(t, "Kiosk", form.Name)
	require.Len(t, form.Components, 3)

	btn, ok := form.Component("addBtn")
	require.True(t, ok)
	assert.Equal(t, TypeButton, btn.Type)
	require.Len(t, btn.Actions, 2)
	assert.Equal(t, ActionAddToCart, btn.Actions[0].Kind)
	assert.Equal(t, "qty", btn.Actions[0].Value)
	assert.Equal(t, OpenModal, btn.Actions[1].Mode)
	assert.Equal(t, "cartCount > 0", btn.Actions[1].When)
	assert.NotEmpty(t, btn.OnClick)

	require.Len(t, form.ComputedVariables, 1)
	assert.Equal(t, "totalSum", form.ComputedVariables[0].Name)
	assert.Equal(t, "sum(items.price)", form.ComputedVariables[0].Expression)
}

func TestParseAssignsMissingID(t *testing.T) {
	form, err := Parse([]byte(`{"name": "Untitled", "components": []}`))
	require.NoError(t, err)
	assert.NotEmpty(t, form.ID)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"name": `)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	form := NewForm("Checkout")
	form.Components = []Component{
		{
			ID:    "c1",
			Type:  TypeParagraph,
			Name:  "summary",
			Props: map[string]any{"text": "Total: {{cartTotal}}"},
			Style: &Style{Color: "#333"},
		},
	}
	form.ComputedVariables = []ComputedVariable{{Name: "n", Expression: "count(items)"}}

	data, err := form.Encode()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, form.ID, parsed.ID)
	assert.Equal(t, "visual", parsed.Mode)
	require.Len(t, parsed.Components, 1)
	assert.Equal(t, "Total: {{cartTotal}}", parsed.Components[0].PropString("text"))
	require.NotNil(t, parsed.Components[0].Style)
	assert.Equal(t, "#333", parsed.Components[0].Style.Color)
	assert.Equal(t, form.ComputedVariables, parsed.ComputedVariables)
}

func TestComponentLookup(t *testing.T) {
	form := NewForm("F")
	form.Components = []Component{
		{ID: "a", Type: TypeButton, Name: "go"},
		{ID: "b", Type: TypeButton, Name: "go"},
		{ID: "c", Type: TypeDivider},
	}

	got, ok := form.Component("go")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID, "lookup is first-match-wins")

	if _, ok := form.Component(""); ok {
		t.Error("empty name must not match unnamed components")
	}
	if _, ok := form.Component("missing"); ok {
		t.Error("unexpected match for missing name")
	}
}

func TestPropHelpers(t *testing.T) {
	c := Component{Props: map[string]any{
		"label":   "Qty",
		"count":   3,
		"options": []any{"One", "Two", 3},
	}}

	assert.Equal(t, "Qty", c.PropString("label"))
	assert.Equal(t, "", c.PropString("count"), "non-string props read as empty")
	assert.Equal(t, "", c.PropString("missing"))
	assert.Equal(t, []string{"One", "Two"}, c.PropStrings("options"))

	var empty Component
	assert.Equal(t, "", empty.PropString("label"))
	assert.Nil(t, empty.PropStrings("options"))
}
