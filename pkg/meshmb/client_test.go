package meshmb_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/servalproject/serval-sdk-go/pkg/meshmb"
)

const (
	feedMine  = "1111111111111111111111111111111111111111111111111111111111111111"
	feedOther = "2222222222222222222222222222222222222222222222222222222222222222"
)

func TestSendAndFollow(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/restful/meshmb/"+feedMine+"/sendmessage" {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			file, header, err := r.FormFile("message")
			require.NoError(t, err)
			defer file.Close()
			require.Equal(t, "message1", header.Filename)
			text, err := io.ReadAll(file)
			require.NoError(t, err)
			require.Equal(t, "broadcast test", string(text))
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := meshmb.New(srv.URL)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.Send(ctx, feedMine, "broadcast test"))
	require.NoError(t, client.Follow(ctx, feedMine, feedOther))
	require.NoError(t, client.Unfollow(ctx, feedMine, feedOther))
	require.ErrorIs(t, client.Send(ctx, feedMine, ""), meshmb.ErrEmptyMessage)

	require.Equal(t, []string{
		"/restful/meshmb/" + feedMine + "/sendmessage",
		"/restful/meshmb/" + feedMine + "/follow/" + feedOther,
		"/restful/meshmb/" + feedMine + "/ignore/" + feedOther,
	}, paths)
}

func TestMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/restful/meshmb/"+feedOther+"/messagelist.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
 "header":["offset","token","text","timestamp"],
 "rows":[
  [24,"tok2","second post",1700000200],
  [12,"tok1","first post",1700000100]
 ]
}`)
	}))
	defer srv.Close()

	client, err := meshmb.New(srv.URL)
	require.NoError(t, err)

	msgs, err := client.Messages(context.Background(), feedOther)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "second post", msgs[0].Text)
	require.Equal(t, int64(12), msgs[1].Offset)
}

func TestFeeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/restful/meshmb/"+feedMine+"/feedlist.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
 "header":["id","author","blocked","name","timestamp","last_message"],
 "rows":[
  ["`+feedOther+`","AA11",false,"weather reports",1700000100,"storm warning"]
 ]
}`)
	}))
	defer srv.Close()

	client, err := meshmb.New(srv.URL)
	require.NoError(t, err)

	feeds, err := client.Feeds(context.Background(), feedMine)
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	require.Equal(t, "weather reports", feeds[0].Name)
	require.False(t, feeds[0].Blocked)

	feed, err := client.Feed(context.Background(), feedMine, feedOther)
	require.NoError(t, err)
	require.Equal(t, "storm warning", feed.LastMessage)

	_, err = client.Feed(context.Background(), feedMine, "9999")
	require.ErrorIs(t, err, meshmb.ErrFeedNotFound)
}

func TestActivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/restful/meshmb/"+feedMine+"/activity.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
 "header":[".token","ack_offset","id","author","name","timestamp","message"],
 "rows":[
  ["tok9",36,"`+feedOther+`","AA11","weather reports",1700000300,"all clear"]
 ]
}`)
	}))
	defer srv.Close()

	client, err := meshmb.New(srv.URL)
	require.NoError(t, err)

	entries, err := client.Activity(context.Background(), feedMine)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "tok9", entries[0].Token)
	require.Equal(t, "all clear", entries[0].Text)
	require.Equal(t, "weather reports", entries[0].Name)
}

func TestUnknownIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	client, err := meshmb.New(srv.URL)
	require.NoError(t, err)

	_, err = client.Feeds(context.Background(), feedMine)
	require.ErrorIs(t, err, meshmb.ErrIdentityNotFound)
}
