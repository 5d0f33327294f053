// Package client is the storefront's session and commerce coordinator.
// It resolves who is signed in, gates navigation by role, and drives
// the cart, quotation and checkout lifecycle against the REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultLocalBaseURL      = "http://localhost:8080/api"
	defaultProductionBaseURL = "https://api.rbpanchal.com/api"

	defaultTimeout        = 15 * time.Second
	profileResolveTimeout = 4 * time.Second
)

// Config controls base URL resolution and the uniform request timeout.
// An explicit BaseURL wins; otherwise Production selects between the
// localhost and production defaults.
type Config struct {
	BaseURL    string
	Production bool
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client owns the bearer token and the resolved session. Everything
// else is stateless request plumbing; cart, address and order data are
// refetched rather than cached.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// token is process-wide mutable state read by every request, so
	// reads and writes go through an atomic value.
	token atomic.Value

	mu      sync.RWMutex
	state   State
	profile *Profile
}

// APIError carries a non-2xx response with the server's message
// verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL:    resolveBaseURL(cfg),
		httpClient: httpClient,
		state:      StateUnresolved,
	}
	c.token.Store("")
	return c
}

// resolveBaseURL applies the fallback chain: explicit override, then
// the environment default. The /api suffix is normalized on so callers
// can pass a bare host.
func resolveBaseURL(cfg Config) string {
	base := cfg.BaseURL
	if base == "" {
		if cfg.Production {
			base = defaultProductionBaseURL
		} else {
			base = defaultLocalBaseURL
		}
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	return base
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the current bearer token, empty when anonymous.
func (c *Client) Token() string {
	return c.token.Load().(string)
}

func (c *Client) setToken(token string) {
	c.token.Store(token)
}

// do runs one JSON round trip. The bearer token, when present, is
// attached to every request; a 401 tears the session down before the
// error is returned.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unexpected response shape for %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.teardown()
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	return raw, nil
}

// teardown clears the token and flips the session to Anonymous. After
// this, requests carry no Authorization header until a new sign-in.
func (c *Client) teardown() {
	c.setToken("")
	c.mu.Lock()
	c.state = StateAnonymous
	c.profile = nil
	c.mu.Unlock()
}

func errorMessage(raw []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
