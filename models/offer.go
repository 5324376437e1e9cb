package models

import "time"

// Offer is a priced listing from one source, as returned by the offers
// endpoint. Snapshots are immutable on the client.
type Offer struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	LastPrice float64   `json:"last_price"`
	Currency  string    `json:"currency"`
	Source    string    `json:"source"` // dummyjson, ebay, amazon
	Seller    string    `json:"seller,omitempty"`
	Rating    *float64  `json:"rating,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination is the metadata block the offers endpoint returns with each page.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// OfferPage is one server response for a (search, filters) pair. It is
// replaced wholesale on every successful fetch.
type OfferPage struct {
	Offers     []Offer    `json:"offers"`
	Pagination Pagination `json:"pagination"`
}

// Deal is an offer augmented with deal-scoring metadata from /deals/recent.
type Deal struct {
	Offer
	MetaScore          float64   `json:"meta_score"`
	AvgPrice           float64   `json:"avg_price"`
	DiscountPercentage float64   `json:"discount_percentage"`
	SearchDate         time.Time `json:"search_date"`
}

// Sort fields accepted by the offers endpoint
const (
	SortByPrice  = "last_price"
	SortByRating = "rating"

	SortAsc  = "asc"
	SortDesc = "desc"
)
