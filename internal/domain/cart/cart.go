package cart

import (
	"github.com/shopspring/decimal"
)

// Cart is an ordered collection of line items. Items keep insertion order;
// adding a product that is already present merges into the existing item.
type Cart struct {
	items []LineItem
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// NewFromItems creates a cart from persisted items, preserving order.
// Items that fail validation are dropped.
func NewFromItems(items []LineItem) *Cart {
	c := &Cart{items: make([]LineItem, 0, len(items))}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			continue
		}
		c.items = append(c.items, item)
	}
	return c
}

// Add merges the item into the cart: if the product is already present its
// quantity is incremented, otherwise the item is appended.
func (c *Cart) Add(item LineItem) {
	for idx := range c.items {
		if c.items[idx].ProductID == item.ProductID {
			c.items[idx].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// Remove deletes the item with the given product ID.
// Returns false if the product is not in the cart.
func (c *Cart) Remove(productID string) bool {
	for idx := range c.items {
		if c.items[idx].ProductID == productID {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity updates an item's quantity; a quantity of zero or less removes
// the item. Returns false if the product is not in the cart.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	for idx := range c.items {
		if c.items[idx].ProductID == productID {
			c.items[idx].Quantity = quantity
			return true
		}
	}
	return false
}

// Clear removes every item
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the line items in insertion order
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// ReplaceItems swaps the cart contents wholesale. Used to commit a
// recomputation batch as a single unit.
func (c *Cart) ReplaceItems(items []LineItem) {
	c.items = make([]LineItem, len(items))
	copy(c.items, items)
}

// Get returns the item for a product ID
func (c *Cart) Get(productID string) (LineItem, bool) {
	for _, item := range c.items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

// Len returns the number of distinct line items
func (c *Cart) Len() int {
	return len(c.items)
}

// ItemCount returns the total quantity across all items
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Total sums displayPrice * quantity across all items
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// VendorGroup is a cart slice belonging to one vendor
type VendorGroup struct {
	VendorID string
	Profile  string
	Items    []LineItem
	Subtotal decimal.Decimal
}

// VendorGroups partitions the cart by vendor, preserving the order in which
// vendors first appear. Items without a vendor fall into the default group.
func (c *Cart) VendorGroups() []VendorGroup {
	var order []string
	groups := make(map[string]*VendorGroup)

	for _, item := range c.items {
		vendorID := item.VendorID
		if vendorID == "" {
			vendorID = DefaultVendorID
		}
		g, ok := groups[vendorID]
		if !ok {
			g = &VendorGroup{VendorID: vendorID, Profile: item.VendorProfile, Subtotal: decimal.Zero}
			groups[vendorID] = g
			order = append(order, vendorID)
		}
		g.Items = append(g.Items, item)
		g.Subtotal = g.Subtotal.Add(item.LineTotal())
	}

	out := make([]VendorGroup, 0, len(order))
	for _, vendorID := range order {
		out = append(out, *groups[vendorID])
	}
	return out
}
