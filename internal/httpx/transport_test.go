package httpx

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// The default client must not carry a whole-request timeout: newsince
// endpoints stream rows over a held-open connection for as long as the
// caller wants, and http.Client.Timeout covers body reads too.
func TestDefaultClientHasNoGlobalTimeout(t *testing.T) {
	c, err := NewClient("http://localhost:4110")
	require.NoError(t, err)

	require.Zero(t, c.httpClient.Timeout)

	transport, ok := c.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	require.Equal(t, 10*time.Second, transport.ResponseHeaderTimeout)
}

func TestWithHTTPClientOverridesTransport(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}
	c, err := NewClient("http://localhost:4110", WithHTTPClient(custom))
	require.NoError(t, err)
	require.Same(t, custom, c.httpClient)
}
