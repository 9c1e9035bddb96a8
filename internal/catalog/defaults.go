package catalog

import "coffebless/internal/models"

// DefaultVersion identifies the compiled-in catalog. Bump it when the
// defaults change so persisted slots from older versions are discarded.
const DefaultVersion = "3"

// DefaultCategories returns the built-in categories in menu order.
func DefaultCategories() []models.Category {
	names := []string{"Café", "Chocolate", "Té", "Extras", "Sandwichs", "Fríos", "Bebidas"}
	out := make([]models.Category, len(names))
	for i, n := range names {
		out[i] = models.Category{ID: n, Name: n, Order: models.Int(i + 1)}
	}
	return out
}

// DefaultProducts returns a fresh copy of the built-in menu.
func DefaultProducts() []models.Product {
	return []models.Product{
		{ID: "cafe-espresso", Name: "Espresso", CategoryID: "Café", BasePrice: 1800, Description: models.String("Shot de café")},
		{ID: "cafe-espresso-doble", Name: "Espresso Doble", CategoryID: "Café", BasePrice: 2300, Description: models.String("Doble shot de café")},
		{ID: "cafe-americano", Name: "Americano", CategoryID: "Café", BasePrice: 1500, LargePrice: models.Int64(2900), Description: models.String("Shot de café más agua")},
		{ID: "cafe-cappuccino", Name: "Cappuccino", CategoryID: "Café", BasePrice: 2800, LargePrice: models.Int64(3200), Description: models.String("Shot de café más leche texturizada")},
		{ID: "cafe-cappuccino-vainilla", Name: "Cappuccino Vainilla", CategoryID: "Café", BasePrice: 3000, LargePrice: models.Int64(3300), Description: models.String("Leche texturizada y syrup vainilla")},
		{ID: "cafe-cappuccino-nevado", Name: "Cappuccino Nevado", CategoryID: "Café", BasePrice: 3200, LargePrice: models.Int64(3500), Description: models.String("Leche texturizada y crema chantilly")},
		{ID: "cafe-latte", Name: "Latte", CategoryID: "Café", BasePrice: 3000, Description: models.String("Shot de café más leche texturizada")},
		{ID: "cafe-mocca", Name: "Mocca", CategoryID: "Café", BasePrice: 3100, LargePrice: models.Int64(3400), Description: models.String("Leche texturizada y syrup chocolate")},
		{ID: "cafe-caramel", Name: "Caramel", CategoryID: "Café", BasePrice: 3000, LargePrice: models.Int64(3300), Description: models.String("Leche texturizada y syrup caramelo")},
		{ID: "cafe-bombon", Name: "Bombom", CategoryID: "Café", BasePrice: 3000, LargePrice: models.Int64(3300), Description: models.String("Leche texturizada y leche condensada")},
		{ID: "cafe-arma-tu-cafe", Name: "Arma tu Café", CategoryID: "Café", BasePrice: 3200, LargePrice: models.Int64(3600), AllowsCustomization: true, Description: models.String("Elige base, leche, syrup y extras")},
		{ID: "choco-caliente", Name: "Chocolate Caliente", CategoryID: "Chocolate", BasePrice: 3300, LargePrice: models.Int64(3900)},
		{ID: "choco-mashmallows", Name: "Chocolate Mashmallows", CategoryID: "Chocolate", BasePrice: 3500, LargePrice: models.Int64(4100)},
		{ID: "choco-nevado", Name: "Chocolate Nevado", CategoryID: "Chocolate", BasePrice: 3500, LargePrice: models.Int64(4100)},
		{ID: "te-negro", Name: "Té Negro", CategoryID: "Té", BasePrice: 1400, LargePrice: models.Int64(1600)},
		{ID: "te-chai-latte", Name: "Té Chai Latte", CategoryID: "Té", BasePrice: 3000, LargePrice: models.Int64(3300)},
		{ID: "extra-shot", Name: "Extra Shot de Café", CategoryID: "Extras", BasePrice: 500},
		{ID: "extra-leche-vegetal", Name: "Leche Vegetal", CategoryID: "Extras", BasePrice: 500},
		{ID: "sand-queso-oregano", Name: "Queso Orégano", CategoryID: "Sandwichs", BasePrice: 2400},
		{ID: "sand-jamon-queso", Name: "Jamón Queso", CategoryID: "Sandwichs", BasePrice: 3200},
		{ID: "sand-ave-mayo", Name: "Ave Mayo", CategoryID: "Sandwichs", BasePrice: 3500},
		{ID: "sand-ave-palta-mayo", Name: "Ave Palta Mayo", CategoryID: "Sandwichs", BasePrice: 3900},
		{ID: "sand-pollo-italiano", Name: "Pollo Italiano", CategoryID: "Sandwichs", BasePrice: 4300},
		{ID: "sand-queso-fresco-tomate", Name: "Queso Fresco Tomate", CategoryID: "Sandwichs", BasePrice: 3300},
		{ID: "sand-churrasco-solo", Name: "Churrasco Solo", CategoryID: "Sandwichs", BasePrice: 3500},
		{ID: "sand-barros-luco", Name: "Barros Luco", CategoryID: "Sandwichs", BasePrice: 4500},
		{ID: "sand-churrasco-italiano", Name: "Churrasco Italiano", CategoryID: "Sandwichs", BasePrice: 5500},
		{ID: "sand-vegetariano", Name: "Vegetariano", CategoryID: "Sandwichs", BasePrice: 3200},
		{ID: "sand-napolitano", Name: "Napolitano", CategoryID: "Sandwichs", BasePrice: 3700},
		{ID: "frio-frappuccino-mocca", Name: "Frapuccino Mocca", CategoryID: "Fríos", BasePrice: 4500},
		{ID: "frio-frappuccino-caramel", Name: "Frapuccino Caramel", CategoryID: "Fríos", BasePrice: 4500},
		{ID: "frio-frappuccino-cafe", Name: "Frapuccino Solo Café", CategoryID: "Fríos", BasePrice: 4500},
		{ID: "frio-iced-latte", Name: "Iced Latte", CategoryID: "Fríos", BasePrice: 3500},
		{ID: "frio-smoothie-frutilla", Name: "Smoothie Frutilla", CategoryID: "Fríos", BasePrice: 3500},
		{ID: "frio-jugo-natural", Name: "Jugo Natural", CategoryID: "Fríos", BasePrice: 3000, Description: models.String("Variedad de sabores")},
		{ID: "frio-limonada-menta", Name: "Limonada Menta Jengibre", CategoryID: "Fríos", BasePrice: 3000},
		{ID: "beb-lata", Name: "Bebida Lata", CategoryID: "Bebidas", BasePrice: 1500},
		{ID: "beb-agua", Name: "Agua Mineral", CategoryID: "Bebidas", BasePrice: 1000},
		{ID: "beb-redbull-250", Name: "Redbull 250ml", CategoryID: "Bebidas", BasePrice: 1800},
		{ID: "beb-redbull-355", Name: "Redbull 355ml", CategoryID: "Bebidas", BasePrice: 2200},
		{ID: "beb-redbull-473", Name: "Redbull 473ml", CategoryID: "Bebidas", BasePrice: 2700},
		{ID: "beb-powerade", Name: "Powerade", CategoryID: "Bebidas", BasePrice: 1900},
	}
}
