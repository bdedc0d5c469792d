package meshmb

import "errors"

// BroadcastMessage is one entry of a feed.
type BroadcastMessage struct {
	Offset    int64  `json:"offset"`
	Token     string `json:"token"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Feed describes a followed feed.
type Feed struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Blocked     bool   `json:"blocked"`
	Name        string `json:"name"`
	Timestamp   int64  `json:"timestamp"`
	LastMessage string `json:"last_message"`
}

// ActivityEntry is one message of the merged timeline across every feed an
// identity follows.
type ActivityEntry struct {
	Token     string `json:".token"`
	AckOffset int64  `json:"ack_offset"`
	ID        string `json:"id"`
	Author    string `json:"author"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
	Text      string `json:"message"`
}

var (
	// ErrIdentityNotFound is returned when a signing ID is not known.
	ErrIdentityNotFound = errors.New("meshmb: identity not found")
	// ErrFeedNotFound is returned by Feed when the identity does not follow
	// the requested feed.
	ErrFeedNotFound = errors.New("meshmb: feed not found")
	// ErrUnauthorized is returned when the daemon rejects the credentials.
	ErrUnauthorized = errors.New("meshmb: unauthorized")
	// ErrEmptyMessage is returned by Send for an empty message body.
	ErrEmptyMessage = errors.New("meshmb: empty message")
)
