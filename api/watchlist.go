package api

import (
	"context"
	"fmt"
	"net/http"

	"bestprice_client/models"
)

type watchlistAddRequest struct {
	OfferID         int64  `json:"offer_id"`
	ProductTitle    string `json:"product_title"`
	ProductURL      string `json:"product_url"`
	ProductImageURL string `json:"product_image_url,omitempty"`
}

// Watchlist returns all saved offers for the current user.
func (c *Client) Watchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	if err := c.doJSON(ctx, http.MethodGet, "/user/watchlist", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddWatchlist saves an offer and returns the created entry as the server
// recorded it.
func (c *Client) AddWatchlist(ctx context.Context, offer *models.Offer) (*models.WatchlistItem, error) {
	var item models.WatchlistItem
	err := c.doJSON(ctx, http.MethodPost, "/user/watchlist", nil, watchlistAddRequest{
		OfferID:         offer.ID,
		ProductTitle:    offer.Title,
		ProductURL:      offer.URL,
		ProductImageURL: offer.ImageURL,
	}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveWatchlist deletes a saved offer by its offer id.
func (c *Client) RemoveWatchlist(ctx context.Context, offerID int64) error {
	path := fmt.Sprintf("/user/watchlist/%d", offerID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
