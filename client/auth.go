package client

import "context"

type credentials struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"full_name,omitempty"`
	OrgType        string `json:"org_type,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

type authResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// SignIn exchanges credentials for a session and resolves it in one
// step.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Profile, error) {
	var resp authResponse
	err := c.do(ctx, "POST", "/auth/login", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.adoptAuth(&resp)
	return &resp.Profile, nil
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, email, password string) (*Profile, error) {
	var resp authResponse
	err := c.do(ctx, "POST", "/auth/register", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.adoptAuth(&resp)
	return &resp.Profile, nil
}

func (c *Client) adoptAuth(resp *authResponse) {
	c.setToken(resp.Token)
	profile := resp.Profile
	c.mu.Lock()
	c.state = StateAuthenticatedWithProfile
	c.profile = &profile
	c.mu.Unlock()
}

// Products lists the active catalog, optionally filtered by category.
func (c *Client) Products(ctx context.Context, category string) ([]Product, error) {
	path := "/products/"
	if category != "" {
		path += "?category=" + category
	}
	var products []Product
	if err := c.do(ctx, "GET", path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}
