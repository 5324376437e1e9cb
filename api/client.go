package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"bestprice_client/httputil"
)

// TokenSource supplies the current bearer token. An empty return means the
// request goes out unauthenticated and the server decides whether to 401.
type TokenSource func() string

// Client is a typed client for the BestPRICE backend API.
type Client struct {
	baseURL  string
	http     *httputil.Client
	token    TokenSource
	clientID string
}

func NewClient(baseURL string, hc *httputil.Client, token TokenSource) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     hc,
		token:    token,
		clientID: uuid.NewString(),
	}
}

// Error is a non-success API response. Detail is the human-readable message
// extracted from the server's error body.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// errorBody matches the backend's error envelope. Detail is either a plain
// string or a list of field errors with a msg each.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// parseDetail extracts a message from an error response body. A list of
// field errors is joined into one message.
func parseDetail(body []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return fallback
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil && s != "" {
		return s
	}

	var fields []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(eb.Detail, &fields); err == nil && len(fields) > 0 {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			if f.Msg != "" {
				msgs = append(msgs, f.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, ", ")
		}
	}

	return fallback
}

// doJSON performs one API call. A non-2xx status is returned as *Error; the
// response body (when out is non-nil) is decoded into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Id", c.clientID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return &Error{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(respBody, http.StatusText(resp.StatusCode)),
		}
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
