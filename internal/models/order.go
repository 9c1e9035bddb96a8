package models

// CheckoutForm, WhatsApp siparişi için isteğe bağlı müşteri bilgileridir
type CheckoutForm struct {
	CustomerName string `json:"customer_name" form:"customerName"`
	Notes        string `json:"notes" form:"notes"`
	SendCopy     bool   `json:"send_copy" form:"sendCopy"`
}

// Handoff, checkout'un döndürdüğü fiş ve onu kafenin WhatsApp'ına taşıyan
// bağlantıdır.
type Handoff struct {
	Text       string `json:"text"`
	URL        string `json:"url"`
	TotalItems int    `json:"total_items"`
	TotalPrice int64  `json:"total_price"`
}
