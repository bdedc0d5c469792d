package rhizome

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/servalproject/serval-sdk-go/internal/httpx"
	"github.com/servalproject/serval-sdk-go/internal/servalapi"
)

// Client provides access to the Rhizome endpoints of the daemon.
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

// Bundles lists every bundle in the store. Payloads are not included and
// must be fetched separately.
func (c *Client) Bundles(ctx context.Context) ([]BundleInfo, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("rhizome: client is nil")
	}
	data, err := c.backend.BundleList(ctx)
	if err != nil {
		return nil, err
	}
	bundles, err := servalapi.UnmarshalTable[BundleInfo](data)
	if err != nil {
		return nil, fmt.Errorf("rhizome: decode bundle list: %w", err)
	}
	return bundles, nil
}

// BundlesNewSince streams bundles added after the given list token. Rows are
// collected until the caller's context ends or the daemon closes the stream;
// cancellation returns the rows read so far.
func (c *Client) BundlesNewSince(ctx context.Context, token string) ([]BundleInfo, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("rhizome: client is nil")
	}
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidToken)
	}
	stream, err := c.backend.BundleListNewSince(ctx, token)
	if err != nil {
		if httpx.StatusCodeOf(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrInvalidToken, token)
		}
		return nil, err
	}
	defer stream.Close()
	bundles, err := servalapi.DrainTable[BundleInfo](ctx, stream)
	if err != nil {
		return nil, fmt.Errorf("rhizome: %w", err)
	}
	return bundles, nil
}

// Manifest fetches the signed manifest of a bundle.
func (c *Client) Manifest(ctx context.Context, bid string) (*Manifest, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("rhizome: client is nil")
	}
	data, err := c.backend.Manifest(ctx, bid)
	if err != nil {
		if httpx.StatusCodeOf(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrBundleNotFound, bid)
		}
		return nil, err
	}
	var m Manifest
	if err := m.UnmarshalText(data); err != nil {
		return nil, err
	}
	return &m, nil
}

// Raw fetches the stored payload of a bundle. Encrypted payloads are
// returned as ciphertext.
func (c *Client) Raw(ctx context.Context, bid string) ([]byte, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("rhizome: client is nil")
	}
	data, err := c.backend.Raw(ctx, bid)
	if err != nil {
		if httpx.StatusCodeOf(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrPayloadNotFound, bid)
		}
		return nil, err
	}
	return data, nil
}

// Decrypted fetches the payload of a bundle, decrypting it when the daemon
// holds the key.
func (c *Client) Decrypted(ctx context.Context, bid string) ([]byte, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("rhizome: client is nil")
	}
	data, err := c.backend.Decrypted(ctx, bid)
	if err != nil {
		switch httpx.StatusCodeOf(err) {
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrPayloadNotFound, bid)
		// 419 is the daemon's "cannot decrypt" answer.
		case 419:
			return nil, fmt.Errorf("%w: %s", ErrDecryptionFailed, bid)
		}
		return nil, err
	}
	return data, nil
}

// Insert adds a new bundle or updates an existing one. Journals must use
// Append. When the daemon detects a duplicate, the result carries the
// existing bundle's manifest and the returned error is ErrDuplicateBundle.
func (c *Client) Insert(ctx context.Context, req InsertRequest) (*InsertResult, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("rhizome: client is nil")
	}
	if req.Manifest.IsJournal() {
		return nil, ErrIsJournal
	}
	return c.submit(ctx, req, false)
}

// Append appends payload to a journal bundle. The manifest must carry a
// tail field and the payload must be non-empty.
func (c *Client) Append(ctx context.Context, req InsertRequest) (*InsertResult, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("rhizome: client is nil")
	}
	if !req.Manifest.IsJournal() {
		return nil, ErrNotJournal
	}
	if len(req.Payload) == 0 {
		return nil, ErrEmptyPayload
	}
	return c.submit(ctx, req, true)
}

func (c *Client) submit(ctx context.Context, req InsertRequest, journal bool) (*InsertResult, error) {
	manifestText, err := req.Manifest.MarshalText()
	if err != nil {
		return nil, err
	}
	params := InsertParams{
		BundleID:     req.BundleID,
		BundleAuthor: req.BundleAuthor,
		BundleSecret: req.BundleSecret,
		ManifestText: manifestText,
		Payload:      req.Payload,
		Journal:      journal,
	}
	body, header, err := c.backend.Insert(ctx, params)
	if err != nil {
		var httpErr *httpx.HTTPError
		if errors.As(err, &httpErr) {
			return nil, insertErrorFrom(httpErr)
		}
		return nil, err
	}

	result := &InsertResult{}
	decodeResultHeaders(header, result)
	if err := result.Manifest.UnmarshalText(body); err != nil {
		return nil, err
	}
	if result.BundleStatus == BundleStatusDuplicate {
		return result, fmt.Errorf("%w: %s", ErrDuplicateBundle, result.Manifest.ID)
	}
	return result, nil
}

func decodeResultHeaders(h http.Header, result *InsertResult) {
	if v, err := strconv.Atoi(h.Get("Serval-Rhizome-Result-Bundle-Status-Code")); err == nil {
		result.BundleStatus = BundleStatus(v)
	}
	result.BundleStatusMessage = h.Get("Serval-Rhizome-Result-Bundle-Status-Message")
	if v, err := strconv.Atoi(h.Get("Serval-Rhizome-Result-Payload-Status-Code")); err == nil {
		result.PayloadStatus = PayloadStatus(v)
	}
	result.PayloadStatusMessage = h.Get("Serval-Rhizome-Result-Payload-Status-Message")
}

func insertErrorFrom(httpErr *httpx.HTTPError) error {
	insErr := &InsertError{HTTPStatus: httpErr.StatusCode}
	var result InsertResult
	decodeResultHeaders(httpErr.Header, &result)
	insErr.BundleStatus = result.BundleStatus
	insErr.BundleStatusMessage = result.BundleStatusMessage
	insErr.PayloadStatus = result.PayloadStatus
	insErr.PayloadStatusMessage = result.PayloadStatusMessage
	return insErr
}

// InsertParams is the wire-level form of an insert or append handed to the
// backend. Field order matters to the daemon: bundle-id, bundle-author and
// bundle-secret must precede the manifest part.
type InsertParams struct {
	BundleID     string
	BundleAuthor string
	BundleSecret string
	ManifestText []byte
	Payload      []byte
	Journal      bool
}

// Backend performs the raw rhizome requests.
type Backend interface {
	BundleList(ctx context.Context) ([]byte, error)
	BundleListNewSince(ctx context.Context, token string) (io.ReadCloser, error)
	Manifest(ctx context.Context, bid string) ([]byte, error)
	Raw(ctx context.Context, bid string) ([]byte, error)
	Decrypted(ctx context.Context, bid string) ([]byte, error)
	Insert(ctx context.Context, params InsertParams) ([]byte, http.Header, error)
}

type httpBackend struct {
	client *httpx.Client
}

func (b *httpBackend) BundleList(ctx context.Context) ([]byte, error) {
	return b.get(ctx, "/restful/rhizome/bundlelist.json")
}

func (b *httpBackend) BundleListNewSince(ctx context.Context, token string) (io.ReadCloser, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("rhizome: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method:       http.MethodGet,
		Path:         "/restful/rhizome/newsince/" + token + "/bundlelist.json",
		DisableRetry: true,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (b *httpBackend) Manifest(ctx context.Context, bid string) ([]byte, error) {
	return b.get(ctx, "/restful/rhizome/"+bid+".rhm")
}

func (b *httpBackend) Raw(ctx context.Context, bid string) ([]byte, error) {
	return b.get(ctx, "/restful/rhizome/"+bid+"/raw.bin")
}

func (b *httpBackend) Decrypted(ctx context.Context, bid string) ([]byte, error) {
	return b.get(ctx, "/restful/rhizome/"+bid+"/decrypted.bin")
}

func (b *httpBackend) Insert(ctx context.Context, params InsertParams) ([]byte, http.Header, error) {
	if b == nil || b.client == nil {
		return nil, nil, fmt.Errorf("rhizome: http backend not configured")
	}

	fields := make([]httpx.FormField, 0, 5)
	if params.BundleID != "" {
		fields = append(fields, httpx.FormField{Name: "bundle-id", Value: params.BundleID})
	}
	if params.BundleAuthor != "" {
		fields = append(fields, httpx.FormField{Name: "bundle-author", Value: params.BundleAuthor})
	}
	if params.BundleSecret != "" {
		fields = append(fields, httpx.FormField{Name: "bundle-secret", Value: params.BundleSecret})
	}
	fields = append(fields, httpx.FormField{
		Name:        "manifest",
		Filename:    "manifest1",
		ContentType: `rhizome/manifest;format="text+binarysig"`,
		Data:        params.ManifestText,
	})
	fields = append(fields, httpx.FormField{
		Name:     "payload",
		Filename: "file1",
		Data:     params.Payload,
	})

	body, contentType, err := httpx.FormBody(fields)
	if err != nil {
		return nil, nil, err
	}

	path := "/restful/rhizome/insert"
	if params.Journal {
		path = "/restful/rhizome/append"
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPost,
		Path:   path,
		Header: http.Header{"Content-Type": []string{contentType}},
		Body:   body,
	})
	if err != nil {
		return nil, nil, err
	}
	data, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return data, resp.Header, nil
}

func (b *httpBackend) get(ctx context.Context, path string) ([]byte, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("rhizome: http backend not configured")
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
