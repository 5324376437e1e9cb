package models

import "time"

// PricePoint is one historical price sample for an offer.
type PricePoint struct {
	ID        int64     `json:"id"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	FetchedAt time.Time `json:"fetched_at"`
}
