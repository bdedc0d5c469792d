package keyring

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/servalproject/serval-sdk-go/internal/httpx"
	"github.com/servalproject/serval-sdk-go/internal/servalapi"
)

// Client provides access to the keyring endpoints of the daemon.
type Client struct {
	backend Backend
}

// New constructs a Client bound to the provided base URL.
func New(baseURL string, opts ...httpx.Option) (*Client, error) {
	cl, err := httpx.NewClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return NewWithHTTPClient(cl), nil
}

// NewWithHTTPClient wraps an existing httpx.Client.
func NewWithHTTPClient(httpClient *httpx.Client) *Client {
	return &Client{backend: &httpBackend{client: httpClient}}
}

// NewWithBackend allows callers to supply a custom backend (e.g., fakes).
func NewWithBackend(b Backend) *Client {
	return &Client{backend: b}
}

// Identities lists all currently unlocked identities. A non-empty pin
// unlocks matching identities before the lookup.
func (c *Client) Identities(ctx context.Context, pin string) ([]Identity, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("keyring: client is nil")
	}
	data, err := c.backend.Identities(ctx, pin)
	if err != nil {
		return nil, translate(err, "")
	}
	identities, err := servalapi.UnmarshalTable[Identity](data)
	if err != nil {
		return nil, fmt.Errorf("keyring: decode identities: %w", err)
	}
	return identities, nil
}

// Identity fetches the details of a single identity.
func (c *Client) Identity(ctx context.Context, sid, pin string) (*Identity, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("keyring: client is nil")
	}
	if sid == "" {
		return nil, fmt.Errorf("%w: sid is required", ErrInvalidRequest)
	}
	data, err := c.backend.Identity(ctx, sid, pin)
	if err != nil {
		return nil, translate(err, sid)
	}
	return decodeIdentity(data)
}

// Add creates a new identity with a random SID.
func (c *Client) Add(ctx context.Context, req AddRequest) (*Identity, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("keyring: client is nil")
	}
	if err := validateFields(req.PIN, req.DID, req.Name); err != nil {
		return nil, err
	}
	data, err := c.backend.Add(ctx, req.PIN, req.DID, req.Name)
	if err != nil {
		return nil, translate(err, "")
	}
	return decodeIdentity(data)
}

// Remove deletes an identity and returns its last known state.
func (c *Client) Remove(ctx context.Context, sid, pin string) (*Identity, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("keyring: client is nil")
	}
	if sid == "" {
		return nil, fmt.Errorf("%w: sid is required", ErrInvalidRequest)
	}
	data, err := c.backend.Remove(ctx, sid, pin)
	if err != nil {
		return nil, translate(err, sid)
	}
	return decodeIdentity(data)
}

// Update sets or resets the DID and name of an unlocked identity. The
// daemon resets every field omitted from the set request, so nil fields are
// resolved to their current values first and re-sent.
func (c *Client) Update(ctx context.Context, sid string, req UpdateRequest) (*Identity, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("keyring: client is nil")
	}
	if sid == "" {
		return nil, fmt.Errorf("%w: sid is required", ErrInvalidRequest)
	}
	if req.DID == nil || req.Name == nil {
		current, err := c.Identity(ctx, sid, req.PIN)
		if err != nil {
			return nil, err
		}
		if req.DID == nil {
			req.DID = &current.DID
		}
		if req.Name == nil {
			req.Name = &current.Name
		}
	}
	if err := validateFields(req.PIN, *req.DID, *req.Name); err != nil {
		return nil, err
	}
	data, err := c.backend.Update(ctx, sid, req.PIN, *req.DID, *req.Name)
	if err != nil {
		return nil, translate(err, sid)
	}
	return decodeIdentity(data)
}

// Lock always fails with ErrEndpointNotImplemented. The daemon documents
// GET /restful/keyring/SID/lock but never implemented it; identities only
// lock when the daemon restarts or their PIN cache expires.
func (c *Client) Lock(ctx context.Context, sid string) (*Identity, error) {
	return nil, fmt.Errorf("%w: GET /restful/keyring/SID/lock", ErrEndpointNotImplemented)
}

// GetOrCreate returns the first n unlocked identities, creating new ones if
// fewer exist.
func (c *Client) GetOrCreate(ctx context.Context, n int) ([]Identity, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n may not be negative", ErrInvalidRequest)
	}
	identities, err := c.Identities(ctx, "")
	if err != nil {
		return nil, err
	}
	for len(identities) < n {
		created, err := c.Add(ctx, AddRequest{})
		if err != nil {
			return nil, err
		}
		identities = append(identities, *created)
	}
	return identities[:n], nil
}

// DefaultIdentity returns the first unlocked identity, creating one if none
// exist.
func (c *Client) DefaultIdentity(ctx context.Context) (*Identity, error) {
	identities, err := c.GetOrCreate(ctx, 1)
	if err != nil {
		return nil, err
	}
	return &identities[0], nil
}

func decodeIdentity(data []byte) (*Identity, error) {
	var id Identity
	if err := servalapi.UnwrapObject(data, "identity", &id); err != nil {
		return nil, fmt.Errorf("keyring: %w", err)
	}
	return &id, nil
}

func translate(err error, sid string) error {
	switch httpx.StatusCodeOf(err) {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		if sid != "" {
			return fmt.Errorf("%w: %s", ErrIdentityNotFound, sid)
		}
		return ErrIdentityNotFound
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return err
}

// Backend performs the raw keyring requests. The HTTP implementation talks
// to a live daemon; tests and embedders may substitute their own.
type Backend interface {
	Identities(ctx context.Context, pin string) ([]byte, error)
	Identity(ctx context.Context, sid, pin string) ([]byte, error)
	Add(ctx context.Context, pin, did, name string) ([]byte, error)
	Remove(ctx context.Context, sid, pin string) ([]byte, error)
	Update(ctx context.Context, sid, pin, did, name string) ([]byte, error)
}

type httpBackend struct {
	client *httpx.Client
}

func (b *httpBackend) Identities(ctx context.Context, pin string) ([]byte, error) {
	q := url.Values{}
	if pin != "" {
		q.Set("pin", pin)
	}
	return b.do(ctx, http.MethodGet, "/restful/keyring/identities.json", q)
}

func (b *httpBackend) Identity(ctx context.Context, sid, pin string) ([]byte, error) {
	q := url.Values{}
	if pin != "" {
		q.Set("pin", pin)
	}
	return b.do(ctx, http.MethodGet, "/restful/keyring/"+sid, q)
}

func (b *httpBackend) Add(ctx context.Context, pin, did, name string) ([]byte, error) {
	q := url.Values{}
	if pin != "" {
		q.Set("pin", pin)
	}
	if did != "" {
		q.Set("did", did)
	}
	if name != "" {
		q.Set("name", name)
	}
	return b.do(ctx, http.MethodPost, "/restful/keyring/add", q)
}

func (b *httpBackend) Remove(ctx context.Context, sid, pin string) ([]byte, error) {
	q := url.Values{}
	if pin != "" {
		q.Set("pin", pin)
	}
	return b.do(ctx, http.MethodDelete, "/restful/keyring/"+sid, q)
}

// Update uses the set endpoint. An omitted parameter resets the matching
// field in the keyring, so only empty values are omitted.
func (b *httpBackend) Update(ctx context.Context, sid, pin, did, name string) ([]byte, error) {
	q := url.Values{}
	if pin != "" {
		q.Set("pin", pin)
	}
	if did != "" {
		q.Set("did", did)
	}
	if name != "" {
		q.Set("name", name)
	}
	return b.do(ctx, http.MethodGet, "/restful/keyring/"+sid+"/set", q)
}

func (b *httpBackend) do(ctx context.Context, method, path string, q url.Values) ([]byte, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("keyring: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: method,
		Path:   path,
		Query:  q,
	})
	if err != nil {
		return nil, err
	}
	return httpx.ReadAllAndClose(resp.Body)
}
