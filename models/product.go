package models

// Product mirrors the inventory API's product resource. Scalar fields are
// sent as multipart form values on create/update; the image travels as a
// file part and comes back as a URL.
type Product struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Quantity       int     `json:"quantity"`
	ProductCode    string  `json:"product_code"`
	SellingPrice   float64 `json:"selling_price"`
	PurchasedPrice float64 `json:"purchased_price"`
	SupplierName   string  `json:"supplier_name"`
	MainCategory   string  `json:"main_category"`
	SubCategory    string  `json:"sub_category"`
	DatePurchased  string  `json:"date_purchased"`
	Image          string  `json:"image,omitempty"`
}

// Gain is the per-unit margin shown on the dashboard.
func (p Product) Gain() float64 {
	return p.SellingPrice - p.PurchasedPrice
}
