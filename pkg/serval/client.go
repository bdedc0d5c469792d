package serval

import (
	"errors"
	"net/http"

	"github.com/servalproject/serval-sdk-go/internal/httpx"
	"github.com/servalproject/serval-sdk-go/pkg/keyring"
	"github.com/servalproject/serval-sdk-go/pkg/meshmb"
	"github.com/servalproject/serval-sdk-go/pkg/meshms"
	"github.com/servalproject/serval-sdk-go/pkg/rhizome"
	"github.com/servalproject/serval-sdk-go/pkg/route"
)

// Client aggregates every service binding over one authenticated
// connection.
type Client struct {
	Keyring *keyring.Client
	Rhizome *rhizome.Client
	MeshMS  *meshms.Client
	MeshMB  *meshmb.Client
	Route   *route.Client
}

// New constructs a Client from the given configuration. Extra httpx options
// are applied after the credentials, so they can override retry behaviour
// or the underlying http.Client.
func New(cfg Config, opts ...httpx.Option) (*Client, error) {
	all := append([]httpx.Option{httpx.WithBasicAuth(cfg.User, cfg.Password)}, opts...)
	httpClient, err := httpx.NewClient(cfg.BaseURL(), all...)
	if err != nil {
		return nil, err
	}
	return &Client{
		Keyring: keyring.NewWithHTTPClient(httpClient),
		Rhizome: rhizome.NewWithHTTPClient(httpClient),
		MeshMS:  meshms.NewWithHTTPClient(httpClient),
		MeshMB:  meshmb.NewWithHTTPClient(httpClient),
		Route:   route.NewWithHTTPClient(httpClient),
	}, nil
}

// NewFromEnv builds a Client from SERVAL_API_* environment variables.
func NewFromEnv(opts ...httpx.Option) (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// IsUnauthorized reports whether err came from the daemon rejecting the
// configured credentials, regardless of which service produced it.
func IsUnauthorized(err error) bool {
	return httpx.StatusCodeOf(err) == http.StatusUnauthorized ||
		errors.Is(err, keyring.ErrUnauthorized) ||
		errors.Is(err, meshms.ErrUnauthorized) ||
		errors.Is(err, meshmb.ErrUnauthorized) ||
		errors.Is(err, route.ErrUnauthorized)
}

// IsNotFound reports whether err is the daemon answering 404 for a request
// the service package did not translate to its own sentinel.
func IsNotFound(err error) bool {
	return httpx.StatusCodeOf(err) == http.StatusNotFound
}
