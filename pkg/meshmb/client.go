package meshmb

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/samber/lo"

	"github.com/servalproject/serval-sdk-go/internal/httpx"
	"github.com/servalproject/serval-sdk-go/internal/servalapi"
)

// Client provides access to the MeshMB endpoints of the daemon.
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

// Send appends a message to the identity's own broadcast feed.
func (c *Client) Send(ctx context.Context, id, text string) error {
	if c == nil || c.backend == nil {
		return fmt.Errorf("meshmb: client is nil")
	}
	if text == "" {
		return ErrEmptyMessage
	}
	if err := c.backend.SendMessage(ctx, id, text); err != nil {
		return translate(err, id)
	}
	return nil
}

// Messages returns the history of a feed, newest first.
func (c *Client) Messages(ctx context.Context, feedID string) ([]BroadcastMessage, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("meshmb: client is nil")
	}
	data, err := c.backend.MessageList(ctx, feedID)
	if err != nil {
		return nil, translate(err, feedID)
	}
	msgs, err := servalapi.UnmarshalTable[BroadcastMessage](data)
	if err != nil {
		return nil, fmt.Errorf("meshmb: decode message list: %w", err)
	}
	return msgs, nil
}

// Follow subscribes the identity to a feed.
func (c *Client) Follow(ctx context.Context, id, feedID string) error {
	if c == nil || c.backend == nil {
		return fmt.Errorf("meshmb: client is nil")
	}
	if err := c.backend.Follow(ctx, id, feedID); err != nil {
		return translate(err, id)
	}
	return nil
}

// Unfollow unsubscribes the identity from a feed.
func (c *Client) Unfollow(ctx context.Context, id, feedID string) error {
	if c == nil || c.backend == nil {
		return fmt.Errorf("meshmb: client is nil")
	}
	if err := c.backend.Ignore(ctx, id, feedID); err != nil {
		return translate(err, id)
	}
	return nil
}

// Feeds lists every feed the identity follows.
func (c *Client) Feeds(ctx context.Context, id string) ([]Feed, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("meshmb: client is nil")
	}
	data, err := c.backend.FeedList(ctx, id)
	if err != nil {
		return nil, translate(err, id)
	}
	feeds, err := servalapi.UnmarshalTable[Feed](data)
	if err != nil {
		return nil, fmt.Errorf("meshmb: decode feed list: %w", err)
	}
	return feeds, nil
}

// Feed returns one followed feed by its ID.
func (c *Client) Feed(ctx context.Context, id, feedID string) (*Feed, error) {
	feeds, err := c.Feeds(ctx, id)
	if err != nil {
		return nil, err
	}
	feed, ok := lo.Find(feeds, func(f Feed) bool { return f.ID == feedID })
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFeedNotFound, feedID)
	}
	return &feed, nil
}

// Activity returns the merged timeline of every feed the identity follows,
// newest first.
func (c *Client) Activity(ctx context.Context, id string) ([]ActivityEntry, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("meshmb: client is nil")
	}
	data, err := c.backend.Activity(ctx, id)
	if err != nil {
		return nil, translate(err, id)
	}
	entries, err := servalapi.UnmarshalTable[ActivityEntry](data)
	if err != nil {
		return nil, fmt.Errorf("meshmb: decode activity: %w", err)
	}
	return entries, nil
}

func translate(err error, id string) error {
	switch httpx.StatusCodeOf(err) {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
	}
	return err
}

// Backend performs the raw MeshMB requests.
type Backend interface {
	SendMessage(ctx context.Context, id, text string) error
	MessageList(ctx context.Context, feedID string) ([]byte, error)
	Follow(ctx context.Context, id, feedID string) error
	Ignore(ctx context.Context, id, feedID string) error
	FeedList(ctx context.Context, id string) ([]byte, error)
	Activity(ctx context.Context, id string) ([]byte, error)
}

type httpBackend struct {
	client *httpx.Client
}

func (b *httpBackend) SendMessage(ctx context.Context, id, text string) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("meshmb: http backend not configured")
	}
	body, contentType, err := httpx.FormBody([]httpx.FormField{{
		Name:        "message",
		Filename:    "message1",
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte(text),
	}})
	if err != nil {
		return err
	}
	return b.post(ctx, "/restful/meshmb/"+id+"/sendmessage", contentType, body)
}

func (b *httpBackend) MessageList(ctx context.Context, feedID string) ([]byte, error) {
	return b.get(ctx, "/restful/meshmb/"+feedID+"/messagelist.json")
}

func (b *httpBackend) Follow(ctx context.Context, id, feedID string) error {
	return b.post(ctx, "/restful/meshmb/"+id+"/follow/"+feedID, "", nil)
}

func (b *httpBackend) Ignore(ctx context.Context, id, feedID string) error {
	return b.post(ctx, "/restful/meshmb/"+id+"/ignore/"+feedID, "", nil)
}

func (b *httpBackend) FeedList(ctx context.Context, id string) ([]byte, error) {
	return b.get(ctx, "/restful/meshmb/"+id+"/feedlist.json")
}

func (b *httpBackend) Activity(ctx context.Context, id string) ([]byte, error) {
	return b.get(ctx, "/restful/meshmb/"+id+"/activity.json")
}

func (b *httpBackend) get(ctx context.Context, path string) ([]byte, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("meshmb: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodGet,
		Path:   path,
	})
	if err != nil {
		return nil, err
	}
	return httpx.ReadAllAndClose(resp.Body)
}

func (b *httpBackend) post(ctx context.Context, path, contentType string, body io.Reader) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("meshmb: http backend not configured")
	}
	req := &httpx.Request{
		Method: http.MethodPost,
		Path:   path,
	}
	if body != nil {
		req.Body = body
		req.Header = http.Header{"Content-Type": []string{contentType}}
	}
	resp, err := b.client.Do(ctx, req)
	if err != nil {
		return err
	}
	_, err = httpx.ReadAllAndClose(resp.Body)
	return err
}
