package gateway

import (
	"context"
	"fmt"

	"github.com/erazemk/cruisedesk/internal/model"
)

// Login starts a backend session. The session cookie arrives through the
// context's Cookies.
func (c *Client) Login(ctx context.Context, creds model.Credentials) error {
	if _, err := c.Post(ctx, RouteAuth+"/login", creds); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	return nil
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.Post(ctx, RouteAuth+"/logout", struct{}{}); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// Check returns the identity of the current backend session, or nil when
// the backend answers without one.
func (c *Client) Check(ctx context.Context) (*model.AuthUser, error) {
	user, err := GetResult[*model.AuthUser](ctx, c, RouteAuth+"/check", nil)
	if err != nil {
		return nil, fmt.Errorf("checking session: %w", err)
	}
	return user, nil
}

// Register creates a backend account.
func (c *Client) Register(ctx context.Context, reg model.Registration) error {
	if _, err := c.Post(ctx, RouteAuth+"/register", reg); err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	return nil
}
