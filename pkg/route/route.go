// Package route inspects the daemon's view of the mesh: every known
// identity and how (or whether) it is currently reachable.
package route

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/servalproject/serval-sdk-go/internal/httpx"
	"github.com/servalproject/serval-sdk-go/internal/servalapi"
)

// Peer is one entry of the routing table. Identities that are known but
// currently unreachable appear with every reachable flag false.
type Peer struct {
	SID                string `json:"sid"`
	DID                string `json:"did"`
	Name               string `json:"name"`
	IsSelf             bool   `json:"is_self"`
	HopCount           int    `json:"hop_count"`
	ReachableBroadcast bool   `json:"reachable_broadcast"`
	ReachableUnicast   bool   `json:"reachable_unicast"`
	ReachableIndirect  bool   `json:"reachable_indirect"`
	Interface          string `json:"interface"`
	FirstHop           string `json:"first_hop"`
	PenultimateHop     string `json:"penultimate_hop"`
}

// Reachable reports whether any path to the peer exists right now.
func (p Peer) Reachable() bool {
	return p.ReachableBroadcast || p.ReachableUnicast || p.ReachableIndirect
}

// ErrUnauthorized is returned when the daemon rejects the credentials.
var ErrUnauthorized = errors.New("route: unauthorized")

// Client provides access to the route endpoints of the daemon.
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

// Peers returns the full routing table, self included.
func (c *Client) Peers(ctx context.Context) ([]Peer, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("route: client is nil")
	}
	data, err := c.backend.All(ctx)
	if err != nil {
		if httpx.StatusCodeOf(err) == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}
	peers, err := servalapi.UnmarshalTable[Peer](data)
	if err != nil {
		return nil, fmt.Errorf("route: decode routing table: %w", err)
	}
	return peers, nil
}

// Neighbours returns only the peers with a live path, excluding self.
func (c *Client) Neighbours(ctx context.Context) ([]Peer, error) {
	peers, err := c.Peers(ctx)
	if err != nil {
		return nil, err
	}
	out := peers[:0:0]
	for _, p := range peers {
		if !p.IsSelf && p.Reachable() {
			out = append(out, p)
		}
	}
	return out, nil
}

// Backend performs the raw route requests.
type Backend interface {
	All(ctx context.Context) ([]byte, error)
}

type httpBackend struct {
	client *httpx.Client
}

func (b *httpBackend) All(ctx context.Context) ([]byte, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("route: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodGet,
		Path:   "/restful/route/all.json",
	})
	if err != nil {
		return nil, err
	}
	return httpx.ReadAllAndClose(resp.Body)
}
