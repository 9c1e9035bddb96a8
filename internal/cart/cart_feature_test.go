package cart

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"coffebless/internal/models"

	"github.com/cucumber/godog"
)

type cartFeature struct {
	menu map[string]models.Product
	cart *Cart
}

func (f *cartFeature) theMenu(tbl *godog.Table) error {
	f.menu = map[string]models.Product{}
	for i, row := range tbl.Rows {
		if i == 0 {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.Value
		}
		price, err := strconv.ParseInt(cells[3], 10, 64)
		if err != nil {
			return fmt.Errorf("price of %s: %w", cells[0], err)
		}
		p := models.Product{ID: cells[0], Name: cells[1], CategoryID: cells[2], BasePrice: price}
		if cells[4] != "" {
			large, err := strconv.ParseInt(cells[4], 10, 64)
			if err != nil {
				return fmt.Errorf("large price of %s: %w", cells[0], err)
			}
			p.LargePrice = models.Int64(large)
		}
		p.AllowsCustomization = p.ID == "cafe-custom"
		f.menu[p.ID] = p
	}
	return nil
}

func (f *cartFeature) anEmptyCart() error {
	f.cart = New()
	return nil
}

func (f *cartFeature) product(id string) (models.Product, error) {
	p, ok := f.menu[id]
	if !ok {
		return models.Product{}, fmt.Errorf("%q is not on the menu", id)
	}
	return p, nil
}

// line finds the first line holding product id.
func (f *cartFeature) line(id string) (models.CartItem, error) {
	for _, it := range f.cart.Items() {
		if it.Product.ID == id {
			return it, nil
		}
	}
	return models.CartItem{}, fmt.Errorf("no line for %q", id)
}

func (f *cartFeature) iAdd(qty int, id string) error {
	return f.iAddInSize(qty, id, "")
}

func (f *cartFeature) iAddInSize(qty int, id, size string) error {
	p, err := f.product(id)
	if err != nil {
		return err
	}
	f.cart.Add(p, qty, models.Size(size), nil)
	return nil
}

func (f *cartFeature) iBuildAFor(id, name string) error {
	p, err := f.product(id)
	if err != nil {
		return err
	}
	f.cart.Add(p, 1, models.SizeNone, &models.Customization{Base: "Latte", Milk: "Avena", Syrup: "Ninguno", CustomerName: name})
	return nil
}

func (f *cartFeature) iRemove(id string) error {
	it, err := f.line(id)
	if err != nil {
		return err
	}
	f.cart.Remove(it.ID)
	return nil
}

func (f *cartFeature) iChangeBy(id string, delta int) error {
	it, err := f.line(id)
	if err != nil {
		return err
	}
	f.cart.UpdateQuantity(it.ID, delta)
	return nil
}

func (f *cartFeature) iClearTheCart() error {
	f.cart.Clear()
	return nil
}

func (f *cartFeature) theCartHasLines(n int) error {
	if got := f.cart.Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	for _, it := range f.cart.Items() {
		if it.Quantity < 0 {
			return fmt.Errorf("line %s has quantity %d", it.ID, it.Quantity)
		}
	}
	return nil
}

func (f *cartFeature) theCartHoldsItems(n int) error {
	if got := f.cart.TotalItems(); got != n {
		return fmt.Errorf("expected %d items, got %d", n, got)
	}
	return nil
}

func (f *cartFeature) theTotalIs(total int64) error {
	if got := f.cart.Total(); got != total {
		return fmt.Errorf("expected total %d, got %d", total, got)
	}
	return nil
}

func (f *cartFeature) isLinkedTo(extraID, mainID string) error {
	extra, err := f.line(extraID)
	if err != nil {
		return err
	}
	main, err := f.line(mainID)
	if err != nil {
		return err
	}
	if extra.ParentItemID != main.ID {
		return fmt.Errorf("%s is linked to %q, want %q", extraID, extra.ParentItemID, main.ID)
	}
	return nil
}

func (f *cartFeature) isAnOrphan(extraID string) error {
	extra, err := f.line(extraID)
	if err != nil {
		return err
	}
	for _, o := range f.cart.Grouped().Orphans {
		if o.ID == extra.ID {
			return nil
		}
	}
	return fmt.Errorf("%s is not an orphan", extraID)
}

func (f *cartFeature) theLastAddedProductIs(name string) error {
	la := f.cart.LastAdded()
	if la == nil || la.ProductName != name {
		return fmt.Errorf("last added is %+v, want %q", la, name)
	}
	return nil
}

func (f *cartFeature) thereIsNoNotification() error {
	if la := f.cart.LastAdded(); la != nil {
		return fmt.Errorf("unexpected notification %+v", la)
	}
	return nil
}

func InitializeCartScenario(ctx *godog.ScenarioContext) {
	f := &cartFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		f.cart = New()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the menu:$`, f.theMenu)
	ctx.Step(`^an empty cart$`, f.anEmptyCart)

	// When steps
	ctx.Step(`^I add (\d+) "([^"]*)"$`, f.iAdd)
	ctx.Step(`^I add (\d+) "([^"]*)" in size "([^"]*)"$`, f.iAddInSize)
	ctx.Step(`^I build a "([^"]*)" for "([^"]*)"$`, f.iBuildAFor)
	ctx.Step(`^I remove "([^"]*)"$`, f.iRemove)
	ctx.Step(`^I change "([^"]*)" by (-?\d+)$`, f.iChangeBy)
	ctx.Step(`^I clear the cart$`, f.iClearTheCart)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines$`, f.theCartHasLines)
	ctx.Step(`^the cart holds (\d+) items$`, f.theCartHoldsItems)
	ctx.Step(`^the total is (\d+)$`, f.theTotalIs)
	ctx.Step(`^"([^"]*)" is linked to "([^"]*)"$`, f.isLinkedTo)
	ctx.Step(`^"([^"]*)" is an orphan$`, f.isAnOrphan)
	ctx.Step(`^the last added product is "([^"]*)"$`, f.theLastAddedProductIs)
	ctx.Step(`^there is no notification$`, f.thereIsNoNotification)
}

func TestCartFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeCartScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/cart.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
