package meshms

import "errors"

// Message direction markers as they appear in the "type" column.
const (
	TypeSent     = ">"
	TypeReceived = "<"
	TypeAck      = "ACK"
)

// Conversation summarises one message thread of an identity.
type Conversation struct {
	ID          int64  `json:"_id"`
	MySID       string `json:"my_sid"`
	TheirSID    string `json:"their_sid"`
	Read        bool   `json:"read"`
	LastMessage int64  `json:"last_message"`
	ReadOffset  int64  `json:"read_offset"`
}

// Message is a single entry of a conversation history. Offset is the
// position of the message in its sender's ply; Token resumes a newsince
// stream from just after this message.
type Message struct {
	Type      string `json:"type"`
	MySID     string `json:"my_sid"`
	TheirSID  string `json:"their_sid"`
	Offset    int64  `json:"offset"`
	Token     string `json:"token"`
	Text      string `json:"text"`
	Delivered bool   `json:"delivered"`
	Read      bool   `json:"read"`
	Timestamp int64  `json:"timestamp"`
	AckOffset int64  `json:"ack_offset"`
}

// IsSent reports whether the local identity authored the message.
func (m Message) IsSent() bool { return m.Type == TypeSent }

// IsReceived reports whether the remote identity authored the message.
func (m Message) IsReceived() bool { return m.Type == TypeReceived }

var (
	// ErrIdentityNotFound is returned when a SID is not in the keyring.
	ErrIdentityNotFound = errors.New("meshms: identity not found")
	// ErrConversationNotFound is returned when an identity has no thread
	// with the requested peer.
	ErrConversationNotFound = errors.New("meshms: conversation not found")
	// ErrInvalidToken is returned when a newsince token is not recognised.
	ErrInvalidToken = errors.New("meshms: invalid token")
	// ErrProtocolFault is returned when the daemon reports a broken ply.
	ErrProtocolFault = errors.New("meshms: protocol fault")
	// ErrUnauthorized is returned when the daemon rejects the credentials.
	ErrUnauthorized = errors.New("meshms: unauthorized")
	// ErrEmptyMessage is returned by Send for an empty message body.
	ErrEmptyMessage = errors.New("meshms: empty message")
)
