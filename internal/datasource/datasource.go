// Package datasource provides the builtin data sources that back
// data-select components in preview. Real deployments would feed these from
// an external catalog; the builtin set is enough to exercise every runtime
// feature, including priced items for the cart.
package datasource

// Option is one selectable entry. Fields carries extra per-item data beyond
// value/label; on selection each extra field is published to the variable
// store as <varName>_<fieldName>.
type Option struct {
	Value  string
	Label  string
	Fields map[string]any
}

// Source is a keyed collection of options.
type Source struct {
	Label   string
	Options []Option
}

var sources = map[string]Source{
	"countries": {
		Label: "Countries",
		Options: []Option{
			{Value: "ru", Label: "Russia"},
			{Value: "us", Label: "USA"},
			{Value: "de", Label: "Germany"},
			{Value: "fr", Label: "France"},
			{Value: "jp", Label: "Japan"},
			{Value: "cn", Label: "China"},
		},
	},
	"cities": {
		Label: "Cities",
		Options: []Option{
			{Value: "msk", Label: "Moscow"},
			{Value: "spb", Label: "Saint Petersburg"},
			{Value: "nsk", Label: "Novosibirsk"},
			{Value: "ekb", Label: "Yekaterinburg"},
			{Value: "kzn", Label: "Kazan"},
		},
	},
	"departments": {
		Label: "Departments",
		Options: []Option{
			{Value: "dev", Label: "Engineering"},
			{Value: "design", Label: "Design"},
			{Value: "marketing", Label: "Marketing"},
			{Value: "hr", Label: "HR"},
			{Value: "finance", Label: "Finance"},
		},
	},
	"roles": {
		Label: "Roles",
		Options: []Option{
			{Value: "admin", Label: "Administrator"},
			{Value: "editor", Label: "Editor"},
			{Value: "viewer", Label: "Viewer"},
			{Value: "moderator", Label: "Moderator"},
		},
	},
	"products": {
		Label: "Products",
		Options: []Option{
			{Value: "bread", Label: "White Bread", Fields: map[string]any{"price": 59}},
			{Value: "milk", Label: "Milk 1L", Fields: map[string]any{"price": 89}},
			{Value: "cheese", Label: "Cheese", Fields: map[string]any{"price": 349}},
			{Value: "apple", Label: "Apples 1kg", Fields: map[string]any{"price": 129}},
			{Value: "chicken", Label: "Chicken 1kg", Fields: map[string]any{"price": 289}},
			{Value: "water", Label: "Water 1.5L", Fields: map[string]any{"price": 45}},
			{Value: "pasta", Label: "Pasta 500g", Fields: map[string]any{"price": 79}},
			{Value: "butter", Label: "Butter", Fields: map[string]any{"price": 159}},
			{Value: "eggs", Label: "Eggs x10", Fields: map[string]any{"price": 119}},
			{Value: "sugar", Label: "Sugar 1kg", Fields: map[string]any{"price": 69}},
		},
	},
}

// Get returns the source registered under key.
func Get(key string) (Source, bool) {
	s, ok := sources[key]
	return s, ok
}

// Keys lists the registered source keys; order is unspecified.
func Keys() []string {
	keys := make([]string, 0, len(sources))
	for k := range sources {
		keys = append(keys, k)
	}
	return keys
}

// Find returns the option with the given value, or the zero Option.
func (s Source) Find(value string) (Option, bool) {
	for _, o := range s.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}
