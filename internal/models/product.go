package models

// ExtrasCategory, ürünleri kendi başına durmak yerine sepetteki son içeceğe
// bağlanan kategoridir.
const ExtrasCategory = "Extras"

// Category, menü kategorisini temsil eder
type Category struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Order *int   `json:"order,omitempty" db:"sort_order"`
}

// Product, bir menü kalemidir. Fiyatlar tam Şili pesosudur.
type Product struct {
	ID                  string  `json:"id" db:"id"`
	Name                string  `json:"name" db:"name"`
	CategoryID          string  `json:"category_id" db:"category_id"`
	BasePrice           int64   `json:"basePrice" db:"base_price"`
	LargePrice          *int64  `json:"largePrice,omitempty" db:"large_price"`
	Description         *string `json:"description,omitempty" db:"description"`
	Image               *string `json:"image,omitempty" db:"image"`
	AllowsCustomization bool    `json:"allowsCustomization" db:"allows_customization"`
}

// UnitPrice, verilen boyutta bir birimin fiyatını döndürür.
func (p Product) UnitPrice(size Size) int64 {
	if size == SizeLarge && p.LargePrice != nil {
		return *p.LargePrice
	}
	return p.BasePrice
}

// Clone, isteğe bağlı alanlarıyla birlikte p'nin kopyasını döndürür.
func (p Product) Clone() Product {
	if p.LargePrice != nil {
		p.LargePrice = Int64(*p.LargePrice)
	}
	if p.Description != nil {
		p.Description = String(*p.Description)
	}
	if p.Image != nil {
		p.Image = String(*p.Image)
	}
	return p
}

// ProductPatch, bir ürünün admin tarafından düzenlenebilen alanlarını taşır.
// Nil alanlara dokunulmaz.
type ProductPatch struct {
	Name        *string `json:"name,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	BasePrice   *int64  `json:"basePrice,omitempty"`
	LargePrice  *int64  `json:"largePrice,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// Apply, yama uygulanmış bir p kopyası döndürür.
func (pp ProductPatch) Apply(p Product) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.CategoryID != nil {
		p.CategoryID = *pp.CategoryID
	}
	if pp.BasePrice != nil {
		p.BasePrice = *pp.BasePrice
	}
	if pp.LargePrice != nil {
		v := *pp.LargePrice
		p.LargePrice = &v
	}
	if pp.Description != nil {
		v := *pp.Description
		p.Description = &v
	}
	if pp.Image != nil {
		v := *pp.Image
		p.Image = &v
	}
	return p
}

// Int64 ve String, isteğe bağlı ürün alanları için yardımcılardır.
func Int64(v int64) *int64 { return &v }

func String(v string) *string { return &v }

func Int(v int) *int { return &v }

// Catalog, sunulan tüm kategori ve ürünlerdir.
type Catalog struct {
	Version    string     `json:"version,omitempty"`
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}
