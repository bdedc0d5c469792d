package httpx_test

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/servalproject/serval-sdk-go/internal/httpx"
)

func TestClientSendsBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	var gotOK bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := httpx.NewClient(srv.URL, httpx.WithBasicAuth("sdk", "secret"))
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &httpx.Request{
		Method: http.MethodGet,
		Path:   "/restful/keyring/identities.json",
	})
	require.NoError(t, err)
	resp.Body.Close()

	require.True(t, gotOK)
	require.Equal(t, "sdk", gotUser)
	require.Equal(t, "secret", gotPass)
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := httpx.NewClient(srv.URL, httpx.WithRetryPolicy(httpx.RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}))
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &httpx.Request{Method: http.MethodGet, Path: "/"})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Serval-Rhizome-Result-Bundle-Status-Code", "4")
		http.Error(w, "bad manifest", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := httpx.NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), &httpx.Request{Method: http.MethodGet, Path: "/"})
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, http.StatusNotFound, httpx.StatusCodeOf(err))

	var httpErr *httpx.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, "4", httpErr.Header.Get("Serval-Rhizome-Result-Bundle-Status-Code"))
	require.Contains(t, string(httpErr.Body), "bad manifest")
}

func TestClientReplaysBodyOnRetry(t *testing.T) {
	var calls atomic.Int32
	bodies := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := make([]byte, 64)
		n, _ := r.Body.Read(data)
		bodies <- string(data[:n])
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := httpx.NewClient(srv.URL, httpx.WithRetryPolicy(httpx.RetryPolicy{
		MaxRetries: 1,
		BaseDelay:  time.Millisecond,
		MaxDelay:   time.Millisecond,
	}))
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &httpx.Request{
		Method: http.MethodPost,
		Path:   "/",
		Body:   strings.NewReader("payload"),
	})
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "payload", <-bodies)
	require.Equal(t, "payload", <-bodies)
}

func TestStatusCodeOfNonHTTPError(t *testing.T) {
	require.Equal(t, 0, httpx.StatusCodeOf(context.Canceled))
	require.Equal(t, 0, httpx.StatusCodeOf(nil))
}

func TestFormBodyPreservesFieldOrder(t *testing.T) {
	body, contentType, err := httpx.FormBody([]httpx.FormField{
		{Name: "bundle-id", Value: "AAAA"},
		{Name: "bundle-secret", Value: "BBBB"},
		{Name: "manifest", Filename: "manifest1", ContentType: `rhizome/manifest;format="text+binarysig"`, Data: []byte("id=AAAA\n")},
		{Name: "payload", Filename: "file1", Data: []byte("hello")},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))

	boundary := strings.TrimPrefix(contentType, "multipart/form-data; boundary=")
	mr := multipart.NewReader(body, boundary)

	part, err := mr.NextPart()
	require.NoError(t, err)
	require.Equal(t, "bundle-id", part.FormName())

	part, err = mr.NextPart()
	require.NoError(t, err)
	require.Equal(t, "bundle-secret", part.FormName())

	part, err = mr.NextPart()
	require.NoError(t, err)
	require.Equal(t, "manifest", part.FormName())
	require.Equal(t, "manifest1", part.FileName())
	require.Equal(t, `rhizome/manifest;format="text+binarysig"`, part.Header.Get("Content-Type"))

	part, err = mr.NextPart()
	require.NoError(t, err)
	require.Equal(t, "payload", part.FormName())
	require.Equal(t, "file1", part.FileName())
}
