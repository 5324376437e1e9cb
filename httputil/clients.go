package httputil

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"bestprice_client/config"
)

// Client wraps the HTTP client used for all backend calls with a polite
// client-side rate limiter, so bursts of user interactions cannot hammer
// the offers service.
type Client struct {
	HTTP    *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg *config.APIConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 10),
	}
}

// Wait blocks until the rate limiter admits another request or ctx is done.
func (c *Client) Wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// Do applies the rate limit and executes the request.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.Wait(req.Context()); err != nil {
		return nil, err
	}
	return c.HTTP.Do(req)
}
