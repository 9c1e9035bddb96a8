// Package catalog holds the café's products and categories.
//
// The Store keeps the live catalog in memory and writes through to a
// Repository. A write that the repository rejects leaves the in-memory
// catalog untouched; readers never see a half-applied change.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"coffebless/internal/models"
	"coffebless/internal/textkey"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product id already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category still has products")

	// ErrNotStored is returned by a Repository asked to delete something it
	// never persisted.
	ErrNotStored = errors.New("not in storage")
)

// Repository persists the catalog. Implementations: the JSON slot in
// internal/database and the SQL tables in its sqlite and postgres packages.
type Repository interface {
	LoadCatalog(ctx context.Context) (models.Catalog, error)
	// SaveProducts overwrites the stored product list.
	SaveProducts(ctx context.Context, products []models.Product) error
	// SaveCategories upserts categories by id.
	SaveCategories(ctx context.Context, categories []models.Category) error
	DeleteCategory(ctx context.Context, id string) error
	// Reset discards everything stored.
	Reset(ctx context.Context) error
}

// Status tells the UI whether the catalog it is showing came from storage.
type Status struct {
	Source    string `json:"source"`
	LastError string `json:"last_error,omitempty"`
}

const (
	SourceStored   = "stored"
	SourceDefaults = "defaults"
)

// Store is the process-wide catalog.
type Store struct {
	repo    Repository
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time

	mu         sync.RWMutex
	products   []models.Product
	categories []models.Category
	status     Status
}

// Option configures a Store.
type Option func(*Store)

// WithTimeout bounds every repository call.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithClock replaces time.Now, used for generated product ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the catalog from repo. It never fails: when the repository
// errors or holds no products the built-in defaults are used and the error
// is kept in Status.
func Open(ctx context.Context, repo Repository, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		repo:    repo,
		logger:  logger,
		timeout: 10 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reload(ctx)
	return s
}

// Reload re-reads the repository, falling back to defaults.
func (s *Store) Reload(ctx context.Context) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cat, err := s.repo.LoadCatalog(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err != nil:
		s.logger.Error("catalog load failed, using defaults", zap.Error(err))
		s.useDefaults()
		s.status = Status{Source: SourceDefaults, LastError: err.Error()}
	case len(cat.Products) == 0:
		s.logger.Info("catalog storage empty, using defaults")
		s.useDefaults()
		s.status = Status{Source: SourceDefaults}
	default:
		s.products = cloneProducts(cat.Products)
		s.categories = cloneCategories(cat.Categories)
		if len(s.categories) == 0 {
			s.categories = DefaultCategories()
		}
		s.status = Status{Source: SourceStored}
		s.logger.Info("catalog loaded",
			zap.Int("products", len(s.products)),
			zap.Int("categories", len(s.categories)))
	}
}

func (s *Store) useDefaults() {
	s.products = DefaultProducts()
	s.categories = DefaultCategories()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Status reports where the current catalog came from.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Products returns a copy of all products.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

// Product looks up one product by id.
func (s *Store) Product(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// ProductsByCategory returns the products of one category, matched without
// regard to case or accents.
func (s *Store) ProductsByCategory(categoryID string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Product
	for _, p := range s.products {
		if textkey.Equal(p.CategoryID, categoryID) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Categories returns the stored categories sorted by order then name, plus
// any category referenced by a product but never stored.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return withDerived(s.categories, s.products)
}

// Snapshot returns products and categories read under one lock.
func (s *Store) Snapshot() models.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Catalog{
		Products:   cloneProducts(s.products),
		Categories: withDerived(s.categories, s.products),
	}
}

// SaveProducts replaces the whole product list.
func (s *Store) SaveProducts(ctx context.Context, products []models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveProductsLocked(ctx, cloneProducts(products))
}

func (s *Store) saveProductsLocked(ctx context.Context, products []models.Product) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.SaveProducts(ctx, products); err != nil {
		s.logger.Error("save products failed", zap.Error(err), zap.Int("products", len(products)))
		return fmt.Errorf("save products: %w", err)
	}
	s.products = products
	s.status = Status{Source: SourceStored}
	return nil
}

// SaveCategory upserts one category.
func (s *Store) SaveCategory(ctx context.Context, c models.Category) error {
	return s.SaveCategories(ctx, []models.Category{c})
}

// SaveCategories upserts several categories in one repository call.
func (s *Store) SaveCategories(ctx context.Context, cats []models.Category) error {
	if len(cats) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.SaveCategories(ctx, cloneCategories(cats)); err != nil {
		s.logger.Error("save categories failed", zap.Error(err))
		return fmt.Errorf("save categories: %w", err)
	}

	next := cloneCategories(s.categories)
	for _, c := range cats {
		replaced := false
		for i := range next {
			if next[i].ID == c.ID {
				next[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			next = append(next, c)
		}
	}
	s.categories = next
	return nil
}

// DeleteCategory removes a category nobody references.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if textkey.Equal(p.CategoryID, id) {
			return fmt.Errorf("%w: %s", ErrCategoryInUse, id)
		}
	}
	idx := -1
	for i, c := range s.categories {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	// Default categories live only in memory until the first save.
	if err := s.repo.DeleteCategory(ctx, id); err != nil && !errors.Is(err, ErrNotStored) {
		s.logger.Error("delete category failed", zap.String("category", id), zap.Error(err))
		return fmt.Errorf("delete category: %w", err)
	}

	next := make([]models.Category, 0, len(s.categories)-1)
	next = append(next, s.categories[:idx]...)
	next = append(next, s.categories[idx+1:]...)
	s.categories = next
	return nil
}

// NewProductID returns an id for an admin-created product.
func (s *Store) NewProductID() string {
	return fmt.Sprintf("custom-%d", s.now().UnixMilli())
}

// AddProduct appends a product. An empty id gets a generated one.
func (s *Store) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.NewProductID()
	}
	for _, existing := range s.products {
		if existing.ID == p.ID {
			return models.Product{}, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
	}
	next := append(cloneProducts(s.products), p.Clone())
	if err := s.saveProductsLocked(ctx, next); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// UpdateProduct applies a patch to one product.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneProducts(s.products)
	for i := range next {
		if next[i].ID == id {
			next[i] = patch.Apply(next[i])
			updated := next[i]
			if err := s.saveProductsLocked(ctx, next); err != nil {
				return models.Product{}, err
			}
			return updated.Clone(), nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

// DeleteProduct removes a product. Carts holding it keep their snapshot.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			next = append(next, p.Clone())
		}
	}
	if len(next) == len(s.products) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return s.saveProductsLocked(ctx, next)
}

// ResetToDefaults wipes storage and restores the built-in catalog.
func (s *Store) ResetToDefaults(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.Reset(ctx); err != nil {
		s.logger.Error("catalog reset failed", zap.Error(err))
		return fmt.Errorf("reset catalog: %w", err)
	}
	s.useDefaults()
	s.status = Status{Source: SourceDefaults}

	// Storage is empty now, which already loads as defaults; writing them
	// back is best effort.
	if err := s.repo.SaveCategories(ctx, cloneCategories(s.categories)); err != nil {
		s.logger.Warn("persist default categories failed", zap.Error(err))
		return nil
	}
	if err := s.repo.SaveProducts(ctx, cloneProducts(s.products)); err != nil {
		s.logger.Warn("persist default products failed", zap.Error(err))
		return nil
	}
	s.status = Status{Source: SourceStored}
	return nil
}

func withDerived(cats []models.Category, products []models.Product) []models.Category {
	out := cloneCategories(cats)
	known := make(map[string]bool, len(out))
	for _, c := range out {
		known[c.ID] = true
	}
	for _, p := range products {
		if p.CategoryID != "" && !known[p.CategoryID] {
			known[p.CategoryID] = true
			out = append(out, models.Category{ID: p.CategoryID, Name: p.CategoryID})
		}
	}
	SortCategories(out)
	return out
}

// SortCategories orders categories by sort order; unordered ones go last,
// by name.
func SortCategories(cats []models.Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		a, b := cats[i], cats[j]
		switch {
		case a.Order != nil && b.Order != nil:
			if *a.Order != *b.Order {
				return *a.Order < *b.Order
			}
		case a.Order != nil:
			return true
		case b.Order != nil:
			return false
		}
		return a.Name < b.Name
	})
}

func cloneProducts(in []models.Product) []models.Product {
	if in == nil {
		return nil
	}
	out := make([]models.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneCategories(in []models.Category) []models.Category {
	if in == nil {
		return nil
	}
	out := make([]models.Category, len(in))
	for i, c := range in {
		if c.Order != nil {
			c.Order = models.Int(*c.Order)
		}
		out[i] = c
	}
	return out
}
