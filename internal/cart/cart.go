// Package cart builds a café order line by line.
//
// Simple products merge into one line per (product, size). Customized drinks
// always get their own line. Products from the Extras category become new
// lines linked to the newest drink that is not itself linked.
package cart

import (
	"coffebless/internal/models"
	"coffebless/internal/textkey"

	"github.com/google/uuid"
)

// Cart is an insertion-ordered list of lines. It is not safe for concurrent
// use; callers serialise access.
type Cart struct {
	items     []models.CartItem
	lastAdded *models.LastAdded
	newID     func() string
}

// Option configures a Cart.
type Option func(*Cart)

// WithIDGenerator replaces the random line id source.
func WithIDGenerator(fn func() string) Option {
	return func(c *Cart) { c.newID = fn }
}

// New returns an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{newID: uuid.NewString}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddResult describes the line touched by Add.
type AddResult struct {
	Item   models.CartItem
	Parent *models.CartItem
	Merged bool
}

// IsExtra reports whether a product belongs to the Extras category.
func IsExtra(p models.Product) bool {
	return textkey.Equal(p.CategoryID, models.ExtrasCategory)
}

// Add puts quantity units of product in the cart. Quantity is not validated.
func (c *Cart) Add(product models.Product, quantity int, size models.Size, custom *models.Customization) AddResult {
	extra := IsExtra(product)

	if !product.AllowsCustomization && !extra {
		for i := range c.items {
			it := &c.items[i]
			if it.Product.ID == product.ID && it.Size == size && it.ParentItemID == "" {
				it.Quantity += quantity
				c.lastAdded = &models.LastAdded{ProductName: product.Name}
				return AddResult{Item: *it, Merged: true}
			}
		}
	}

	item := models.CartItem{
		ID:       c.newID(),
		Product:  product.Clone(),
		Quantity: quantity,
		Size:     size,
	}
	if product.AllowsCustomization && custom != nil {
		cp := *custom
		cp.Extras = append([]string(nil), custom.Extras...)
		item.Customization = &cp
	}

	var parent *models.CartItem
	if extra {
		if p := c.latestMain(); p != nil {
			item.ParentItemID = p.ID
			cp := *p
			parent = &cp
		}
	}

	c.items = append(c.items, item)
	notice := &models.LastAdded{ProductName: product.Name}
	if parent != nil {
		notice.ParentName = parent.Product.Name
	}
	c.lastAdded = notice

	return AddResult{Item: item, Parent: parent}
}

// latestMain is the newest line that is neither an extra nor linked.
func (c *Cart) latestMain() *models.CartItem {
	for i := len(c.items) - 1; i >= 0; i-- {
		it := &c.items[i]
		if !IsExtra(it.Product) && it.ParentItemID == "" {
			return it
		}
	}
	return nil
}

// UpdateQuantity adds delta to a line, never going below zero. A line that
// reaches zero is removed together with its extras. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(itemID string, delta int) {
	for i := range c.items {
		if c.items[i].ID != itemID {
			continue
		}
		q := c.items[i].Quantity + delta
		if q < 0 {
			q = 0
		}
		c.items[i].Quantity = q
		if q == 0 {
			c.Remove(itemID)
		}
		return
	}
}

// Remove deletes a line and every line linked to it.
func (c *Cart) Remove(itemID string) {
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ID == itemID || it.ParentItemID == itemID {
			continue
		}
		kept = append(kept, it)
	}
	// clear the tail so removed lines do not linger in the backing array
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = models.CartItem{}
	}
	c.items = kept
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
	c.lastAdded = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item looks up one line.
func (c *Cart) Item(itemID string) (models.CartItem, bool) {
	for _, it := range c.items {
		if it.ID == itemID {
			return it, true
		}
	}
	return models.CartItem{}, false
}

// Len is the number of lines.
func (c *Cart) Len() int { return len(c.items) }

// TotalItems sums quantities over all lines, extras included.
func (c *Cart) TotalItems() int {
	return models.ItemCount(c.items)
}

// Total is the order total in pesos.
func (c *Cart) Total() int64 {
	return models.LinesTotal(c.items)
}

// LastAdded returns the pending "added" notice, if any.
func (c *Cart) LastAdded() *models.LastAdded {
	if c.lastAdded == nil {
		return nil
	}
	n := *c.lastAdded
	return &n
}

// DismissNotification drops the "added" notice.
func (c *Cart) DismissNotification() {
	c.lastAdded = nil
}

// Grouped splits the cart for presentation.
type Grouped struct {
	Main           []models.CartItem
	ExtrasByParent map[string][]models.CartItem
	Orphans        []models.CartItem
}

// Grouped returns main lines, extras keyed by their parent line and extras
// that never found a parent.
func (c *Cart) Grouped() Grouped {
	return Group(c.items)
}

// Group partitions lines the same way Cart.Grouped does.
func Group(items []models.CartItem) Grouped {
	g := Grouped{ExtrasByParent: map[string][]models.CartItem{}}
	for _, it := range items {
		switch {
		case it.ParentItemID != "":
			g.ExtrasByParent[it.ParentItemID] = append(g.ExtrasByParent[it.ParentItemID], it)
		case IsExtra(it.Product):
			g.Orphans = append(g.Orphans, it)
		default:
			g.Main = append(g.Main, it)
		}
	}
	return g
}

// Summary renders the cart for clients.
func (c *Cart) Summary() models.CartSummary {
	g := c.Grouped()
	return models.CartSummary{
		Items:          c.Items(),
		Main:           g.Main,
		ExtrasByParent: g.ExtrasByParent,
		Orphans:        g.Orphans,
		TotalItems:     c.TotalItems(),
		TotalPrice:     c.Total(),
		LastAdded:      c.LastAdded(),
	}
}
