package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"bestprice_client/models"
)

type searchRequest struct {
	Query string `json:"query"`
}

// CreateSearch submits a product query and returns the server-assigned
// search record.
func (c *Client) CreateSearch(ctx context.Context, query string) (*models.Search, error) {
	var search models.Search
	err := c.doJSON(ctx, http.MethodPost, "/search", nil, searchRequest{Query: query}, &search)
	if err != nil {
		return nil, err
	}
	return &search, nil
}

// OffersParams are the query parameters of the offers endpoint. Optional
// filters are sent only when non-empty, matching the server contract.
type OffersParams struct {
	SearchID  int64
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	MinPrice  string
	MaxPrice  string
	Source    string
	MinRating string
}

// Offers fetches one page of offers for a search.
func (c *Client) Offers(ctx context.Context, params OffersParams) (*models.OfferPage, error) {
	query := url.Values{}
	query.Set("search_id", strconv.FormatInt(params.SearchID, 10))
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("page_size", strconv.Itoa(params.PageSize))
	query.Set("sort_by", params.SortBy)
	query.Set("sort_order", params.SortOrder)

	if params.MinPrice != "" {
		query.Set("min_price", params.MinPrice)
	}
	if params.MaxPrice != "" {
		query.Set("max_price", params.MaxPrice)
	}
	if params.Source != "" {
		query.Set("source", params.Source)
	}
	if params.MinRating != "" {
		query.Set("min_rating", params.MinRating)
	}

	var page models.OfferPage
	if err := c.doJSON(ctx, http.MethodGet, "/offers", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PriceHistory returns the sampled price points for one offer, in the
// order the server stores them.
func (c *Client) PriceHistory(ctx context.Context, offerID int64) ([]models.PricePoint, error) {
	var points []models.PricePoint
	path := fmt.Sprintf("/offers/price/%d", offerID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// RecentDeals returns the latest detected deals. The endpoint is public.
func (c *Client) RecentDeals(ctx context.Context) ([]models.Deal, error) {
	var deals []models.Deal
	if err := c.doJSON(ctx, http.MethodGet, "/deals/recent", nil, nil, &deals); err != nil {
		return nil, err
	}
	return deals, nil
}
