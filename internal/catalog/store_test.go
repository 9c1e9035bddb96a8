package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"coffebless/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeRepo struct {
	catalog   models.Catalog
	loadErr   error
	saveErr   error
	deleteErr error
	resetErr  error
	resets    int
}

func (f *fakeRepo) LoadCatalog(context.Context) (models.Catalog, error) {
	if f.loadErr != nil {
		return models.Catalog{}, f.loadErr
	}
	return f.catalog, nil
}

func (f *fakeRepo) SaveProducts(_ context.Context, products []models.Product) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.catalog.Products = products
	return nil
}

func (f *fakeRepo) SaveCategories(_ context.Context, cats []models.Category) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, c := range cats {
		replaced := false
		for i := range f.catalog.Categories {
			if f.catalog.Categories[i].ID == c.ID {
				f.catalog.Categories[i] = c
				replaced = true
			}
		}
		if !replaced {
			f.catalog.Categories = append(f.catalog.Categories, c)
		}
	}
	return nil
}

func (f *fakeRepo) DeleteCategory(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.catalog.Categories[:0]
	found := false
	for _, c := range f.catalog.Categories {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	f.catalog.Categories = kept
	if !found {
		return ErrNotStored
	}
	return nil
}

func (f *fakeRepo) Reset(context.Context) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets++
	f.catalog = models.Catalog{}
	return nil
}

func storedCatalog() models.Catalog {
	return models.Catalog{
		Categories: []models.Category{
			{ID: "Pasteles", Name: "Pasteles", Order: models.Int(2)},
			{ID: "Café", Name: "Café", Order: models.Int(1)},
			{ID: "Vacía", Name: "Vacía"},
		},
		Products: []models.Product{
			{ID: "p1", Name: "Kuchen", CategoryID: "Pasteles", BasePrice: 2500},
			{ID: "p2", Name: "Cortado", CategoryID: "Café", BasePrice: 2000, LargePrice: models.Int64(2400)},
		},
	}
}

func TestOpenUsesStoredCatalog(t *testing.T) {
	s := Open(context.Background(), &fakeRepo{catalog: storedCatalog()}, nil)

	assert.Len(t, s.Products(), 2)
	assert.Equal(t, SourceStored, s.Status().Source)
	cats := s.Categories()
	require.Len(t, cats, 3)
	assert.Equal(t, "Café", cats[0].ID)
	assert.Equal(t, "Pasteles", cats[1].ID)
}

func TestOpenFallsBackWhenEmpty(t *testing.T) {
	s := Open(context.Background(), &fakeRepo{}, nil)

	assert.Equal(t, len(DefaultProducts()), len(s.Products()))
	assert.Equal(t, Status{Source: SourceDefaults}, s.Status())
}

func TestOpenFallsBackOnError(t *testing.T) {
	s := Open(context.Background(), &fakeRepo{loadErr: errBoom}, nil)

	assert.Equal(t, len(DefaultProducts()), len(s.Products()))
	assert.Equal(t, SourceDefaults, s.Status().Source)
	assert.Equal(t, "boom", s.Status().LastError)
}

func TestCategoriesIncludeDerived(t *testing.T) {
	cat := storedCatalog()
	cat.Products = append(cat.Products, models.Product{ID: "p3", Name: "Jugo", CategoryID: "Jugos", BasePrice: 3000})
	s := Open(context.Background(), &fakeRepo{catalog: cat}, nil)

	cats := s.Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, "Jugos", cats[len(cats)-2].ID)
}

func TestProductsByCategoryIgnoresAccents(t *testing.T) {
	s := Open(context.Background(), &fakeRepo{}, nil)

	teas := s.ProductsByCategory("te")
	assert.Len(t, teas, 2)
}

func TestReadsReturnCopies(t *testing.T) {
	s := Open(context.Background(), &fakeRepo{catalog: storedCatalog()}, nil)

	ps := s.Products()
	ps[0].Name = "changed"
	*ps[1].LargePrice = 1

	p, err := s.Product("p2")
	require.NoError(t, err)
	assert.Equal(t, int64(2400), *p.LargePrice)
	assert.Equal(t, "Kuchen", s.Products()[0].Name)
}

func TestSaveProductsFailureKeepsState(t *testing.T) {
	repo := &fakeRepo{catalog: storedCatalog()}
	s := Open(context.Background(), repo, nil)
	repo.saveErr = errBoom

	err := s.SaveProducts(context.Background(), []models.Product{{ID: "x", Name: "X"}})

	require.ErrorIs(t, err, errBoom)
	assert.Len(t, s.Products(), 2)
}

func TestSaveProductsReplaces(t *testing.T) {
	repo := &fakeRepo{catalog: storedCatalog()}
	s := Open(context.Background(), repo, nil)

	err := s.SaveProducts(context.Background(), []models.Product{{ID: "x", Name: "X", CategoryID: "Café"}})

	require.NoError(t, err)
	assert.Len(t, s.Products(), 1)
	assert.Len(t, repo.catalog.Products, 1)
}

func TestDeleteCategoryInUseIsRefused(t *testing.T) {
	repo := &fakeRepo{catalog: storedCatalog()}
	s := Open(context.Background(), repo, nil)

	err := s.DeleteCategory(context.Background(), "Pasteles")

	require.ErrorIs(t, err, ErrCategoryInUse)
	assert.Len(t, s.Categories(), 3)
	assert.Len(t, s.ProductsByCategory("Pasteles"), 1)
	assert.Len(t, repo.catalog.Categories, 3)
}

func TestDeleteCategory(t *testing.T) {
	repo := &fakeRepo{catalog: storedCatalog()}
	s := Open(context.Background(), repo, nil)

	require.NoError(t, s.DeleteCategory(context.Background(), "Vacía"))
	assert.Len(t, s.Categories(), 2)

	err := s.DeleteCategory(context.Background(), "Vacía")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteDefaultCategoryNeverStored(t *testing.T) {
	repo := &fakeRepo{catalog: models.Catalog{Products: []models.Product{
		{ID: "cafe-latte", Name: "Latte", CategoryID: "Café", BasePrice: 3000},
	}}}
	s := Open(context.Background(), repo, nil)
	require.Equal(t, SourceStored, s.Status().Source)

	require.NoError(t, s.DeleteCategory(context.Background(), "Bebidas"))
	for _, c := range s.Categories() {
		assert.NotEqual(t, "Bebidas", c.ID)
	}
}

func TestDeleteCategoryRepositoryErrorKeepsCategory(t *testing.T) {
	repo := &fakeRepo{catalog: storedCatalog(), deleteErr: errBoom}
	s := Open(context.Background(), repo, nil)

	err := s.DeleteCategory(context.Background(), "Vacía")
	require.ErrorIs(t, err, errBoom)
	assert.Len(t, s.Categories(), 3)
}

func TestDeleteCategoryInUseIgnoresCaseAndAccents(t *testing.T) {
	repo := &fakeRepo{catalog: models.Catalog{
		Products: []models.Product{
			{ID: "extra-shot", Name: "Extra Shot", CategoryID: "extras", BasePrice: 500},
			{ID: "te-negro", Name: "Té Negro", CategoryID: "te", BasePrice: 1400},
		},
		Categories: []models.Category{{ID: "Extras", Name: "Extras"}, {ID: "Té", Name: "Té"}},
	}}
	s := Open(context.Background(), repo, nil)

	assert.ErrorIs(t, s.DeleteCategory(context.Background(), "Extras"), ErrCategoryInUse)
	assert.ErrorIs(t, s.DeleteCategory(context.Background(), "Té"), ErrCategoryInUse)
	assert.Len(t, repo.catalog.Categories, 2)
}

func TestSaveCategoryUpserts(t *testing.T) {
	repo := &fakeRepo{catalog: storedCatalog()}
	s := Open(context.Background(), repo, nil)

	require.NoError(t, s.SaveCategory(context.Background(), models.Category{ID: "Vacía", Name: "Postres", Order: models.Int(3)}))
	require.NoError(t, s.SaveCategory(context.Background(), models.Category{ID: "Jugos", Name: "Jugos"}))

	cats := s.Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, "Postres", cats[2].Name)
}

func TestAddProductGeneratesID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	s := Open(context.Background(), &fakeRepo{catalog: storedCatalog()}, nil, WithClock(func() time.Time { return now }))

	p, err := s.AddProduct(context.Background(), models.Product{Name: "Brownie", CategoryID: "Pasteles", BasePrice: 1800})

	require.NoError(t, err)
	assert.Equal(t, "custom-1700000000000", p.ID)
	_, err = s.AddProduct(context.Background(), models.Product{ID: p.ID, Name: "Dup"})
	assert.ErrorIs(t, err, ErrDuplicateProduct)
}

func TestUpdateProduct(t *testing.T) {
	s := Open(context.Background(), &fakeRepo{catalog: storedCatalog()}, nil)

	price := int64(2700)
	p, err := s.UpdateProduct(context.Background(), "p1", models.ProductPatch{BasePrice: &price})

	require.NoError(t, err)
	assert.Equal(t, int64(2700), p.BasePrice)
	_, err = s.UpdateProduct(context.Background(), "nope", models.ProductPatch{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	s := Open(context.Background(), &fakeRepo{catalog: storedCatalog()}, nil)

	require.NoError(t, s.DeleteProduct(context.Background(), "p1"))
	_, err := s.Product("p1")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, s.DeleteProduct(context.Background(), "p1"), ErrProductNotFound)
}

func TestResetToDefaults(t *testing.T) {
	repo := &fakeRepo{catalog: storedCatalog()}
	s := Open(context.Background(), repo, nil)

	require.NoError(t, s.ResetToDefaults(context.Background()))

	assert.Equal(t, 1, repo.resets)
	assert.Len(t, s.Products(), len(DefaultProducts()))
	assert.Len(t, repo.catalog.Products, len(DefaultProducts()))
	assert.Equal(t, SourceStored, s.Status().Source)
}

func TestResetFailureKeepsState(t *testing.T) {
	repo := &fakeRepo{catalog: storedCatalog(), resetErr: errBoom}
	s := Open(context.Background(), repo, nil)

	err := s.ResetToDefaults(context.Background())

	require.ErrorIs(t, err, errBoom)
	assert.Len(t, s.Products(), 2)
}

func TestDefaultCatalogIsConsistent(t *testing.T) {
	known := map[string]bool{}
	for _, c := range DefaultCategories() {
		known[c.ID] = true
	}
	ids := map[string]bool{}
	for _, p := range DefaultProducts() {
		assert.True(t, known[p.CategoryID], p.ID)
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true
		assert.Positive(t, p.BasePrice, p.ID)
	}
}
