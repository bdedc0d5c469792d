package meshms

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/samber/lo"

	"github.com/servalproject/serval-sdk-go/internal/httpx"
	"github.com/servalproject/serval-sdk-go/internal/servalapi"
)

// Client provides access to the MeshMS endpoints of the daemon.
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

// Conversations lists every message thread of the identity.
func (c *Client) Conversations(ctx context.Context, sid string) ([]Conversation, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("meshms: client is nil")
	}
	data, err := c.backend.ConversationList(ctx, sid)
	if err != nil {
		return nil, translate(err, sid)
	}
	convs, err := servalapi.UnmarshalTable[Conversation](data)
	if err != nil {
		return nil, fmt.Errorf("meshms: decode conversation list: %w", err)
	}
	return convs, nil
}

// Conversation returns the thread between the identity and one peer, or
// ErrConversationNotFound when no messages have been exchanged yet.
func (c *Client) Conversation(ctx context.Context, sid, peer string) (*Conversation, error) {
	convs, err := c.Conversations(ctx, sid)
	if err != nil {
		return nil, err
	}
	conv, ok := lo.Find(convs, func(cv Conversation) bool { return cv.TheirSID == peer })
	if !ok {
		return nil, fmt.Errorf("%w: %s with %s", ErrConversationNotFound, sid, peer)
	}
	return &conv, nil
}

// Messages returns the full history between sender and recipient, newest
// first, including ACK entries for delivery confirmations.
func (c *Client) Messages(ctx context.Context, sender, recipient string) ([]Message, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("meshms: client is nil")
	}
	data, err := c.backend.MessageList(ctx, sender, recipient)
	if err != nil {
		return nil, translate(err, sender)
	}
	msgs, err := servalapi.UnmarshalTable[Message](data)
	if err != nil {
		return nil, fmt.Errorf("meshms: decode message list: %w", err)
	}
	return msgs, nil
}

// Texts returns only the sent and received text entries of a history,
// dropping ACK rows.
func (c *Client) Texts(ctx context.Context, sender, recipient string) ([]Message, error) {
	msgs, err := c.Messages(ctx, sender, recipient)
	if err != nil {
		return nil, err
	}
	return lo.Filter(msgs, func(m Message, _ int) bool {
		return m.Type == TypeSent || m.Type == TypeReceived
	}), nil
}

// MessagesNewSince streams messages arriving after the given token. Rows are
// collected until the caller's context ends or the daemon closes the stream;
// cancellation returns the rows read so far.
func (c *Client) MessagesNewSince(ctx context.Context, sender, recipient, token string) ([]Message, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("meshms: client is nil")
	}
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidToken)
	}
	stream, err := c.backend.MessageListNewSince(ctx, sender, recipient, token)
	if err != nil {
		if httpx.StatusCodeOf(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrInvalidToken, token)
		}
		return nil, translate(err, sender)
	}
	defer stream.Close()
	msgs, err := servalapi.DrainTable[Message](ctx, stream)
	if err != nil {
		return nil, fmt.Errorf("meshms: %w", err)
	}
	return msgs, nil
}

// Send delivers a text message from sender to recipient.
func (c *Client) Send(ctx context.Context, sender, recipient, text string) error {
	if c == nil || c.backend == nil {
		return fmt.Errorf("meshms: client is nil")
	}
	if text == "" {
		return ErrEmptyMessage
	}
	if err := c.backend.SendMessage(ctx, sender, recipient, text); err != nil {
		return translate(err, sender)
	}
	return nil
}

func translate(err error, sid string) error {
	switch httpx.StatusCodeOf(err) {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrIdentityNotFound, sid)
	// The daemon answers 419 when a ply is damaged beyond repair.
	case 419:
		return fmt.Errorf("%w: %v", ErrProtocolFault, err)
	}
	return err
}

// Backend performs the raw MeshMS requests.
type Backend interface {
	ConversationList(ctx context.Context, sid string) ([]byte, error)
	MessageList(ctx context.Context, sender, recipient string) ([]byte, error)
	MessageListNewSince(ctx context.Context, sender, recipient, token string) (io.ReadCloser, error)
	SendMessage(ctx context.Context, sender, recipient, text string) error
}

type httpBackend struct {
	client *httpx.Client
}

func (b *httpBackend) ConversationList(ctx context.Context, sid string) ([]byte, error) {
	return b.get(ctx, "/restful/meshms/"+sid+"/conversationlist.json")
}

func (b *httpBackend) MessageList(ctx context.Context, sender, recipient string) ([]byte, error) {
	return b.get(ctx, "/restful/meshms/"+sender+"/"+recipient+"/messagelist.json")
}

func (b *httpBackend) MessageListNewSince(ctx context.Context, sender, recipient, token string) (io.ReadCloser, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("meshms: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method:       http.MethodGet,
		Path:         "/restful/meshms/" + sender + "/" + recipient + "/newsince/" + token + "/messagelist.json",
		DisableRetry: true,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (b *httpBackend) SendMessage(ctx context.Context, sender, recipient, text string) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("meshms: http backend not configured")
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
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPost,
		Path:   "/restful/meshms/" + sender + "/" + recipient + "/sendmessage",
		Header: http.Header{"Content-Type": []string{contentType}},
		Body:   body,
	})
	if err != nil {
		return err
	}
	_, err = httpx.ReadAllAndClose(resp.Body)
	return err
}

func (b *httpBackend) get(ctx context.Context, path string) ([]byte, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("meshms: http backend not configured")
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
