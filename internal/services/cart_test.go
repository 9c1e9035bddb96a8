package services

import (
	"fmt"
	"testing"
	"time"

	"coffebless/internal/catalog"
	"coffebless/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productMap map[string]models.Product

func (m productMap) Product(id string) (models.Product, error) {
	p, ok := m[id]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s", catalog.ErrProductNotFound, id)
	}
	return p, nil
}

var testProducts = productMap{
	"cafe-americano": {ID: "cafe-americano", Name: "Americano", CategoryID: "Café", BasePrice: 1500, LargePrice: models.Int64(2900)},
	"extra-shot":     {ID: "extra-shot", Name: "Extra Shot", CategoryID: "Extras", BasePrice: 500},
}

func TestCartServiceSessionsAreIndependent(t *testing.T) {
	cs := NewCartService(testProducts, nil)

	_, err := cs.AddToCart("a", AddRequest{ProductID: "cafe-americano", Quantity: 2, Size: models.SizeLarge})
	require.NoError(t, err)

	assert.Equal(t, 2, cs.GetCartCount("a"))
	assert.Equal(t, 0, cs.GetCartCount("b"))
	assert.Equal(t, int64(5800), cs.GetCart("a").TotalPrice)
}

func TestCartServiceUnknownProduct(t *testing.T) {
	cs := NewCartService(testProducts, nil)

	_, err := cs.AddToCart("a", AddRequest{ProductID: "nope", Quantity: 1})

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Empty(t, cs.Items("a"))
}

func TestCartServiceExtraLinking(t *testing.T) {
	cs := NewCartService(testProducts, nil)

	drink, err := cs.AddToCart("a", AddRequest{ProductID: "cafe-americano", Quantity: 1})
	require.NoError(t, err)
	extra, err := cs.AddToCart("a", AddRequest{ProductID: "extra-shot", Quantity: 1})
	require.NoError(t, err)

	require.NotNil(t, extra.Parent)
	assert.Equal(t, drink.Item.ID, extra.Parent.ID)

	sum := cs.GetCart("a")
	assert.Len(t, sum.Main, 1)
	assert.Len(t, sum.ExtrasByParent[drink.Item.ID], 1)
	require.NotNil(t, sum.LastAdded)
	assert.Equal(t, "Americano", sum.LastAdded.ParentName)

	cs.DismissNotification("a")
	assert.Nil(t, cs.GetCart("a").LastAdded)

	require.NoError(t, cs.RemoveFromCart("a", drink.Item.ID))
	assert.Empty(t, cs.Items("a"))
}

func TestCartServiceUnknownItem(t *testing.T) {
	cs := NewCartService(testProducts, nil)
	_, err := cs.AddToCart("a", AddRequest{ProductID: "cafe-americano", Quantity: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, cs.UpdateQuantity("a", "missing", 1), ErrItemNotFound)
	assert.ErrorIs(t, cs.RemoveFromCart("a", "missing"), ErrItemNotFound)
	assert.Equal(t, 1, cs.GetCartCount("a"))
}

func TestCartServiceUpdateAndClear(t *testing.T) {
	cs := NewCartService(testProducts, nil)
	res, err := cs.AddToCart("a", AddRequest{ProductID: "cafe-americano", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, cs.UpdateQuantity("a", res.Item.ID, 2))
	assert.Equal(t, 3, cs.GetCartCount("a"))

	cs.ClearCart("a")
	assert.Equal(t, 0, cs.GetCartCount("a"))
}

func TestCartServiceSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	cs := NewCartService(testProducts, nil,
		WithCartTTL(time.Hour),
		WithCartClock(func() time.Time { return now }),
	)

	cs.GetCart("old")
	now = now.Add(45 * time.Minute)
	cs.GetCart("fresh")
	now = now.Add(30 * time.Minute)

	assert.Equal(t, 1, cs.Sweep())
	assert.Equal(t, 1, cs.Sessions())
}
