package keyring_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/servalproject/serval-sdk-go/internal/httpx"
	"github.com/servalproject/serval-sdk-go/pkg/keyring"
)

const (
	sidAlice = "EEBF3AC19E7EE58722A0F6D4A4D5894A72F5C71030C3399FE75808DCF6C6254B"
	sidBob   = "FEC2791A0B4E0F6D4A4D5894A72F5C71030C3399FE75808DCF6C6254BEE58722"
)

func identityJSON(sid, did, name string) string {
	return fmt.Sprintf(`{"identity":{"sid":%q,"identity":"F00F","did":%q,"name":%q}}`, sid, did, name)
}

func newFakeDaemon(t *testing.T) (*keyring.Client, *url.Values) {
	t.Helper()
	lastQuery := &url.Values{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*lastQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/restful/keyring/identities.json":
			fmt.Fprintf(w, `{"header":["sid","identity","did","name"],"rows":[[%q,"F00F","555001","alice"]]}`, sidAlice)
		case r.Method == http.MethodPost && r.URL.Path == "/restful/keyring/add":
			fmt.Fprint(w, identityJSON(sidBob, r.URL.Query().Get("did"), r.URL.Query().Get("name")))
		case r.Method == http.MethodGet && r.URL.Path == "/restful/keyring/"+sidAlice:
			fmt.Fprint(w, identityJSON(sidAlice, "555001", "alice"))
		case r.Method == http.MethodGet && r.URL.Path == "/restful/keyring/"+sidAlice+"/set":
			fmt.Fprint(w, identityJSON(sidAlice, r.URL.Query().Get("did"), r.URL.Query().Get("name")))
		case r.Method == http.MethodDelete && r.URL.Path == "/restful/keyring/"+sidAlice:
			fmt.Fprint(w, identityJSON(sidAlice, "555001", "alice"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := keyring.New(srv.URL)
	require.NoError(t, err)
	return client, lastQuery
}

func TestIdentities(t *testing.T) {
	client, lastQuery := newFakeDaemon(t)

	ids, err := client.Identities(context.Background(), "1234")
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.Equal(t, sidAlice, ids[0].SID)
	require.Equal(t, "alice", ids[0].Name)
	require.Equal(t, "1234", lastQuery.Get("pin"))
}

func TestAdd(t *testing.T) {
	client, lastQuery := newFakeDaemon(t)

	id, err := client.Add(context.Background(), keyring.AddRequest{DID: "555002", Name: "bob"})
	require.NoError(t, err)
	require.Equal(t, sidBob, id.SID)
	require.Equal(t, "555002", id.DID)
	require.Equal(t, "555002", lastQuery.Get("did"))
	require.Equal(t, "bob", lastQuery.Get("name"))
	require.False(t, lastQuery.Has("pin"))
}

func TestAddRejectsBadDID(t *testing.T) {
	client, _ := newFakeDaemon(t)

	_, err := client.Add(context.Background(), keyring.AddRequest{DID: "12ab"})
	require.ErrorIs(t, err, keyring.ErrInvalidRequest)
}

func TestUpdatePreservesUntouchedFields(t *testing.T) {
	client, lastQuery := newFakeDaemon(t)

	// The daemon resets omitted fields, so changing only the DID must
	// re-send the current name.
	did := "555999"
	id, err := client.Update(context.Background(), sidAlice, keyring.UpdateRequest{DID: &did})
	require.NoError(t, err)
	require.Equal(t, "555999", lastQuery.Get("did"))
	require.Equal(t, "alice", lastQuery.Get("name"))
	require.Equal(t, "alice", id.Name)
}

func TestUpdateResetsWithEmptyString(t *testing.T) {
	client, lastQuery := newFakeDaemon(t)

	// A pointer to the empty string omits the parameter, which makes the
	// daemon reset the field; the current DID is still re-sent.
	empty := ""
	id, err := client.Update(context.Background(), sidAlice, keyring.UpdateRequest{Name: &empty})
	require.NoError(t, err)
	require.False(t, lastQuery.Has("name"))
	require.Equal(t, "555001", lastQuery.Get("did"))
	require.Empty(t, id.Name)
}

func TestRemove(t *testing.T) {
	client, _ := newFakeDaemon(t)

	id, err := client.Remove(context.Background(), sidAlice, "")
	require.NoError(t, err)
	require.Equal(t, sidAlice, id.SID)
}

func TestLockNotImplemented(t *testing.T) {
	client, _ := newFakeDaemon(t)

	_, err := client.Lock(context.Background(), sidAlice)
	require.ErrorIs(t, err, keyring.ErrEndpointNotImplemented)
}

func TestIdentityNotFound(t *testing.T) {
	client, _ := newFakeDaemon(t)

	_, err := client.Identity(context.Background(), sidBob, "")
	require.ErrorIs(t, err, keyring.ErrIdentityNotFound)
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Basic authentication is required", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := keyring.New(srv.URL, httpx.WithBasicAuth("sdk", "wrong"))
	require.NoError(t, err)

	_, err = client.Identities(context.Background(), "")
	require.ErrorIs(t, err, keyring.ErrUnauthorized)
}

func TestGetOrCreate(t *testing.T) {
	client, _ := newFakeDaemon(t)

	ids, err := client.GetOrCreate(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Equal(t, sidAlice, ids[0].SID)
	require.Equal(t, sidBob, ids[1].SID)
}

func TestDefaultIdentity(t *testing.T) {
	client, _ := newFakeDaemon(t)

	id, err := client.DefaultIdentity(context.Background())
	require.NoError(t, err)
	require.Equal(t, sidAlice, id.SID)
}
