// Package admin is the catalog editor behind the shared admin password.
//
// An Editor holds a draft copy of the catalog. Edits touch only the draft
// until Commit hands it to the catalog store.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"coffebless/internal/models"
	"coffebless/internal/textkey"
)

// PlaceholderName is the product created alongside a new category.
const PlaceholderName = "Nuevo Producto"

// DefaultCategories always show up in the category pickers.
var DefaultCategories = []string{"Café", "Fríos", "Chocolate", "Té"}

var (
	ErrProductNotFound = errors.New("product not found in draft")
	ErrUnknownField    = errors.New("field cannot be edited")
)

// Field names accepted by UpdateField.
const (
	FieldName        = "name"
	FieldBasePrice   = "basePrice"
	FieldLargePrice  = "largePrice"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldImage       = "image"
)

// Saver receives a committed draft. *catalog.Store satisfies it.
type Saver interface {
	SaveCategories(ctx context.Context, categories []models.Category) error
	SaveProducts(ctx context.Context, products []models.Product) error
}

// Editor is one admin's working copy of the catalog.
type Editor struct {
	mu         sync.Mutex
	products   []models.Product
	categories []models.Category
	hasChanges bool
	now        func() time.Time
	lastID     int64
	slugIDs    bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithClock replaces time.Now for generated ids.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithSlugIDs derives new product ids from their names ("Cortado Vainilla"
// becomes "cortado-vainilla") instead of custom-<millis>.
func WithSlugIDs() Option {
	return func(e *Editor) { e.slugIDs = true }
}

// NewEditor copies the catalog into a fresh draft.
func NewEditor(products []models.Product, categories []models.Category, opts ...Option) *Editor {
	e := &Editor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.load(products, categories)
	return e
}

func (e *Editor) load(products []models.Product, categories []models.Category) {
	e.products = make([]models.Product, len(products))
	for i, p := range products {
		e.products[i] = p.Clone()
	}
	e.categories = append([]models.Category(nil), categories...)
	e.hasChanges = false
}

// Products returns the draft products.
func (e *Editor) Products() []models.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Product, len(e.products))
	for i, p := range e.products {
		out[i] = p.Clone()
	}
	return out
}

// HasChanges reports unsaved edits.
func (e *Editor) HasChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasChanges
}

// newID returns custom-<millis>, bumped when two products land in the same
// millisecond.
func (e *Editor) newID() string {
	ms := e.now().UnixMilli()
	if ms <= e.lastID {
		ms = e.lastID + 1
	}
	e.lastID = ms
	return fmt.Sprintf("custom-%d", ms)
}

// UpdateField edits one field of one draft product. Prices that do not parse
// become 0; an empty large price, description or image clears it.
func (e *Editor) UpdateField(id, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	p := &e.products[idx]
	switch field {
	case FieldName:
		p.Name = value
	case FieldBasePrice:
		p.BasePrice = parsePrice(value)
	case FieldLargePrice:
		if strings.TrimSpace(value) == "" {
			p.LargePrice = nil
		} else {
			p.LargePrice = models.Int64(parsePrice(value))
		}
	case FieldDescription:
		p.Description = optional(value)
	case FieldImage:
		p.Image = optional(value)
	case FieldCategory:
		p.CategoryID = strings.TrimSpace(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	e.hasChanges = true
	return nil
}

func (e *Editor) indexOf(id string) int {
	for i := range e.products {
		if e.products[i].ID == id {
			return i
		}
	}
	return -1
}

func parsePrice(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return models.String(s)
}

// productID picks the id for a new product named name. A slug already taken
// in the draft falls back to custom-<millis>.
func (e *Editor) productID(name string) string {
	if e.slugIDs {
		if slug := textkey.Slug(name); slug != "" && e.indexOf(slug) < 0 {
			return slug
		}
	}
	return e.newID()
}

// AddProduct appends a simple product to the draft. It does nothing when the
// name is blank or the price is missing.
func (e *Editor) AddProduct(name string, price *int64, category string) (models.Product, bool) {
	name = strings.TrimSpace(name)
	if name == "" || price == nil {
		return models.Product{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if category = strings.TrimSpace(category); category == "" {
		category = DefaultCategories[0]
	}
	p := models.Product{
		ID:         e.productID(name),
		Name:       name,
		CategoryID: category,
		BasePrice:  *price,
	}
	e.products = append(e.products, p)
	e.hasChanges = true
	return p.Clone(), true
}

// AddCategory creates a category by adding a zero-price placeholder product
// to it, so it shows up before any real product is added.
func (e *Editor) AddCategory(name string) (models.Product, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Product{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	found := false
	for _, c := range e.categories {
		if c.ID == name {
			found = true
			break
		}
	}
	if !found {
		e.categories = append(e.categories, models.Category{ID: name, Name: name})
	}
	p := models.Product{ID: e.newID(), Name: PlaceholderName, CategoryID: name}
	e.products = append(e.products, p)
	e.hasChanges = true
	return p, true
}

// DeleteProduct drops a product from the draft.
func (e *Editor) DeleteProduct(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	e.products = append(e.products[:idx:idx], e.products[idx+1:]...)
	e.hasChanges = true
	return nil
}

// Categories lists the default categories, then the draft's own, then any
// only referenced by a product, without repeats.
func (e *Editor) Categories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, c := range DefaultCategories {
		add(c)
	}
	for _, c := range e.categories {
		add(c.ID)
	}
	for _, p := range e.products {
		add(p.CategoryID)
	}
	return out
}

// Pending returns what Commit would save: the draft minus untouched
// placeholders, or the whole draft when nothing else is left.
func (e *Editor) Pending() []models.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingLocked()
}

func (e *Editor) pendingLocked() []models.Product {
	valid := make([]models.Product, 0, len(e.products))
	for _, p := range e.products {
		if p.BasePrice > 0 || p.Name != PlaceholderName {
			valid = append(valid, p.Clone())
		}
	}
	if len(valid) == 0 {
		valid = valid[:0]
		for _, p := range e.products {
			valid = append(valid, p.Clone())
		}
	}
	return valid
}

// Commit saves the draft through s. On failure the draft keeps its changes.
func (e *Editor) Commit(ctx context.Context, s Saver) ([]models.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	products := e.pendingLocked()
	if len(e.categories) > 0 {
		if err := s.SaveCategories(ctx, append([]models.Category(nil), e.categories...)); err != nil {
			return nil, err
		}
	}
	if err := s.SaveProducts(ctx, products); err != nil {
		return nil, err
	}
	e.hasChanges = false
	return products, nil
}

// RemoveCategory forgets a category deleted from the live catalog so the
// next Commit does not write it back. Draft products are left alone.
func (e *Editor) RemoveCategory(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.categories[:0]
	for _, c := range e.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	e.categories = kept
}

// Reset replaces the draft with the given catalog and drops pending edits.
func (e *Editor) Reset(products []models.Product, categories []models.Category) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(products, categories)
}
