package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineSums(t *testing.T) {
	americano := Product{ID: "cafe-americano", Name: "Americano", CategoryID: "Café", BasePrice: 1500, LargePrice: Int64(2900)}
	shot := Product{ID: "extra-shot", Name: "Extra Shot", CategoryID: ExtrasCategory, BasePrice: 500}
	items := []CartItem{
		{ID: "a", Product: americano, Quantity: 2, Size: SizeLarge},
		{ID: "b", Product: shot, Quantity: 1, ParentItemID: "a"},
	}

	assert.Equal(t, int64(2*2900+500), LinesTotal(items))
	assert.Equal(t, 3, ItemCount(items))
	assert.Equal(t, int64(0), LinesTotal(nil))
	assert.Equal(t, 0, ItemCount(nil))
}
