package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Session describes a successful login.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var s Session
	in := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &s); err != nil {
		return nil, err
	}
	c.SetToken(s.Token)
	return &s, nil
}

// Logout revokes the current token. The local token is dropped even when the
// server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

// ChangePassword changes the logged-in user's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	in := map[string]string{"current_password": current, "new_password": next}
	if err := c.do(ctx, http.MethodPut, "/api/auth/password", in, nil); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	return nil
}
