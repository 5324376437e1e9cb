package models

import "time"

// User is the authenticated user's profile as returned by /auth/me.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// WatchlistItem is one saved offer in the user's watchlist. OfferID is
// unique per user; the server echoes the created item on add.
type WatchlistItem struct {
	ID              int64     `json:"id"`
	OfferID         int64     `json:"offer_id"`
	ProductTitle    string    `json:"product_title"`
	ProductURL      string    `json:"product_url"`
	ProductImageURL string    `json:"product_image_url,omitempty"`
	CurrentPrice    *float64  `json:"current_price,omitempty"`
	Source          string    `json:"source,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
