package domain

// Product is a single catalog entry as returned by the products API.
// IDs are the backend's integer primary keys.
type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	ReviewCount   int      `json:"review_count"`
	ImageURL      *string  `json:"image_url,omitempty"`
	OnSale        bool     `json:"on_sale"`
}

// Discounted reports whether the product carries an original price that
// differs from the current price. Only then is the struck-through price shown.
func (p *Product) Discounted() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice != p.Price
}

// Pagination describes the page window of a product listing.
// CurrentPage and TotalPages are positive and CurrentPage <= TotalPages;
// the backend owns that invariant.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// ProductList is the products API response body. Products preserve the order
// the backend returned them in. Pagination is absent for unpaged responses.
type ProductList struct {
	Products   []Product   `json:"products"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
