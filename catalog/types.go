// Package catalog is the Go client SDK for the storefront read API. Its
// Controller keeps filter, sort, and pagination state in a shareable query
// string and mirrors the listing endpoints into local view state, so any
// front end (TUI, kiosk, test harness) renders exactly what the query string
// says.
package catalog

// FilterOption is one facet entry: an available filter value with the number
// of products carrying it and whether it is currently selected.
type FilterOption struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Checked bool   `json:"checked"`
}

// PriceRange is the server-reported price bounds for the current search.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Product is the listing view of a product.
type Product struct {
	ID            uint    `json:"ID"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	SKU           string  `json:"sku"`
	Price         float64 `json:"price"`
	CategoryID    uint    `json:"categoryId"`
	IsHit         bool    `json:"isHit"`
	InStock       bool    `json:"inStock"`
	StockQuantity int     `json:"stockQuantity"`
	MainImage     string  `json:"mainImage"`
}

// Pagination is the pagination block of the products endpoint.
type Pagination struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// FiltersResponse is the wire shape of GET /api/filters.
type FiltersResponse struct {
	Categories  []FilterOption `json:"categories"`
	BodyTypes   []FilterOption `json:"bodyTypes"`
	Resolutions []FilterOption `json:"resolutions"`
	PriceRange  PriceRange     `json:"priceRange"`
	Error       string         `json:"error,omitempty"`
}

// ProductsResponse is the wire shape of GET /api/products.
type ProductsResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
	Error      string     `json:"error,omitempty"`
}
