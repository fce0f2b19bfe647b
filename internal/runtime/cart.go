package runtime

import (
	"strconv"
	"strings"
	"sync"
)

// LineItem is one cart line. Name is the identity key: adding an item whose
// name already exists merges by summing quantities instead of appending.
type LineItem struct {
	// Name identifies the item; equal names merge.
	Name string `json:"name"`
	// UnitPrice is in whole currency units, never negative.
	UnitPrice int `json:"price"`
	// PriceLabel is the display form (e.g. with a currency suffix); it is
	// presentation-only and takes no part in arithmetic.
	PriceLabel string `json:"priceLabel"`
	// Quantity is always at least 1.
	Quantity int `json:"qty"`
}

// Cart is the ordered line-item collection of a preview session. Items keep
// first-insertion order; the derived total is Σ(unitPrice × quantity).
type Cart struct {
	mu    sync.Mutex
	items []LineItem
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add merges item into the cart by name. A non-positive quantity is floored
// to 1 and a negative unit price to 0 before merging.
func (c *Cart) Add(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.UnitPrice < 0 {
		item.UnitPrice = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Name == item.Name {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// Remove deletes the line item with the given name, if present.
func (c *Cart) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Name == name {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns the line items in first-insertion order. The returned slice
// is a copy.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]LineItem(nil), c.items...)
}

// Total is Σ(unitPrice × quantity) over all lines.
func (c *Cart) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, it := range c.items {
		total += it.UnitPrice * it.Quantity
	}
	return total
}

// Count is the total quantity across all lines (the kiosk badge number).
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, it := range c.items {
		count += it.Quantity
	}
	return count
}

// ParseQuantity converts an authored quantity value to an integer quantity,
// truncating parseable numeric strings and falling back to 1 for anything
// unparseable or below 1.
func ParseQuantity(v any) int {
	switch q := v.(type) {
	case int:
		if q >= 1 {
			return q
		}
	case float64:
		if n := int(q); n >= 1 {
			return n
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(q), 64); err == nil {
			if n := int(f); n >= 1 {
				return n
			}
		}
	}
	return 1
}
