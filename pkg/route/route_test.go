package route_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/servalproject/serval-sdk-go/pkg/route"
)

const routingDoc = `{
 "header":["sid","did","name","is_self","hop_count","reachable_broadcast","reachable_unicast","reachable_indirect","interface","first_hop","penultimate_hop"],
 "rows":[
  ["AA11","555001","me",true,0,false,false,false,null,null,null],
  ["BB22",null,null,false,1,true,true,false,"wlan0",null,null],
  ["CC33",null,null,false,2,false,false,true,null,"BB22",null],
  ["DD44",null,null,false,0,false,false,false,null,null,null]
 ]
}`

func newRouteClient(t *testing.T) *route.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/restful/route/all.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, routingDoc)
	}))
	t.Cleanup(srv.Close)

	client, err := route.New(srv.URL)
	require.NoError(t, err)
	return client
}

func TestPeers(t *testing.T) {
	client := newRouteClient(t)

	peers, err := client.Peers(context.Background())
	require.NoError(t, err)
	require.Len(t, peers, 4)

	require.True(t, peers[0].IsSelf)
	require.Equal(t, "me", peers[0].Name)

	require.True(t, peers[1].Reachable())
	require.Equal(t, "wlan0", peers[1].Interface)
	require.Equal(t, 1, peers[1].HopCount)

	require.True(t, peers[2].ReachableIndirect)
	require.Equal(t, "BB22", peers[2].FirstHop)

	require.False(t, peers[3].Reachable())
}

func TestNeighbours(t *testing.T) {
	client := newRouteClient(t)

	peers, err := client.Neighbours(context.Background())
	require.NoError(t, err)
	require.Len(t, peers, 2)
	for _, p := range peers {
		require.False(t, p.IsSelf)
		require.True(t, p.Reachable())
	}
}

func TestPeersUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Basic authentication is required", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := route.New(srv.URL)
	require.NoError(t, err)

	_, err = client.Peers(context.Background())
	require.ErrorIs(t, err, route.ErrUnauthorized)
}
