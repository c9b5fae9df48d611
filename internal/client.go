package internal

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

// DefaultAPIVersion is used when a client is constructed without an
// explicit service API version.
const DefaultAPIVersion = "v1"

// Client talks to a single AIMS-backed service. All calls are signed and
// dispatched through the owning session; the service base URL is resolved
// once from the endpoint directory and cached. One parametrized type covers
// every service instead of a generated type per service.
type Client struct {
	service string
	version string
	session *Session

	mu      sync.Mutex
	baseURL string
}

// ClientOption configures client construction.
type ClientOption func(*Client)

// WithVersion overrides the service API version segment (default "v1").
func WithVersion(version string) ClientOption {
	return func(c *Client) {
		c.version = version
	}
}

// WithBaseURL bypasses the endpoint directory lookup entirely.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// NewClient binds a service client to the given session.
func NewClient(service string, session *Session, opts ...ClientOption) *Client {
	c := &Client{
		service: service,
		version: DefaultAPIVersion,
		session: session,
	}
	for _, fn := range opts {
		fn(c)
	}
	log.Debugf("Created client for service '%s' (%s)", c.service, c.version)
	return c
}

// Service returns the service name this client is bound to.
func (c *Client) Service() string {
	return c.service
}

// Version returns the service API version segment.
func (c *Client) Version() string {
	return c.version
}

// BaseURL resolves the service base URL through the endpoint directory and
// caches it for the lifetime of the client.
func (c *Client) BaseURL(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.baseURL != "" {
		return c.baseURL, nil
	}
	resolved, err := c.session.GetURL(ctx, c.service, "")
	if err != nil {
		return "", err
	}
	c.baseURL = resolved
	return c.baseURL, nil
}

// URL builds a fully qualified request URL for a path below the service
// API root: {base}/{service}/{version}/{path}.
func (c *Client) URL(ctx context.Context, path string) (string, error) {
	base, err := c.BaseURL(ctx)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + "/" + c.service + "/" + c.version + path, nil
}

// Do signs the session and dispatches a request against the service.
// Unlike Session.Request alone, it guarantees the session is authenticated
// before the call goes out.
func (c *Client) Do(ctx context.Context, method, path string, opts ...RequestOption) (*http.Response, error) {
	u, err := c.URL(ctx, path)
	if err != nil {
		return nil, err
	}
	// Session.Request never authenticates on its own, so force the lazy
	// transition here before dispatching.
	if err := c.session.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}
	return c.session.Request(ctx, method, u, opts...)
}

// Get issues a GET request against the service.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, opts...)
}

// Post issues a POST request against the service.
func (c *Client) Post(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, opts...)
}

// Put issues a PUT request against the service.
func (c *Client) Put(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodPut, path, opts...)
}

// Delete issues a DELETE request against the service.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodDelete, path, opts...)
}
