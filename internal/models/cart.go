package models

// Size, içecek için seçilen bardak boyutudur.
type Size string

const (
	SizeNone   Size = ""
	SizeMedium Size = "Mediano"
	SizeLarge  Size = "Grande"
)

// Customization, kahve oluşturucudan gelen seçimleri temsil eder
type Customization struct {
	Base         string   `json:"base,omitempty"`
	Milk         string   `json:"milk,omitempty"`
	Syrup        string   `json:"syrup,omitempty"`
	Extras       []string `json:"extras,omitempty"`
	CustomerName string   `json:"customer_name,omitempty"`
}

// CartItem, sepet öğesini temsil eder. Product, satır oluşturulduğunda alınan
// bir kopyadır; sonraki katalog düzenlemeleri ona ulaşmaz.
type CartItem struct {
	ID            string         `json:"id"`
	Product       Product        `json:"product"`
	Quantity      int            `json:"quantity"`
	Size          Size           `json:"size,omitempty"`
	Customization *Customization `json:"customization,omitempty"`
	ParentItemID  string         `json:"parent_item_id,omitempty"`
}

// LineTotal, seçilen boyuttaki birim fiyat ile adedin çarpımıdır.
func (ci CartItem) LineTotal() int64 {
	return int64(ci.Quantity) * ci.Product.UnitPrice(ci.Size)
}

// LinesTotal, satır toplamlarını peso olarak toplar.
func LinesTotal(items []CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum
}

// ItemCount, ekstralar dahil tüm satırların adetlerini toplar.
func ItemCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// LastAdded, arayüzün gösterdiği geçici "sepete eklendi" bildirimidir.
type LastAdded struct {
	ProductName string `json:"product_name"`
	ParentName  string `json:"parent_name,omitempty"`
}

// CartSummary, sepetin istemciye dönen görünümüdür
type CartSummary struct {
	Items          []CartItem            `json:"items"`
	Main           []CartItem            `json:"main"`
	ExtrasByParent map[string][]CartItem `json:"extras_by_parent"`
	Orphans        []CartItem            `json:"orphans"`
	TotalItems     int                   `json:"total_items"`
	TotalPrice     int64                 `json:"total_price"`
	LastAdded      *LastAdded            `json:"last_added,omitempty"`
}
