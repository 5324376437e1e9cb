package api

import (
	"context"
	"net/http"

	"bestprice_client/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the payload of a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	var token TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, loginRequest{
		Username: username,
		Password: password,
	}, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Register creates a new account. Registration does not authenticate; the
// caller logs in afterwards to obtain a token.
func (c *Client) Register(ctx context.Context, username, email, password, fullName string) (*models.User, error) {
	var user models.User
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, registerRequest{
		Username: username,
		Email:    email,
		Password: password,
		FullName: fullName,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the profile for the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
