package meshms

import "github.com/samber/lo"

// Sent returns the messages the local identity authored.
func Sent(msgs []Message) []Message {
	return lo.Filter(msgs, func(m Message, _ int) bool { return m.IsSent() })
}

// Received returns the messages the remote identity authored.
func Received(msgs []Message) []Message {
	return lo.Filter(msgs, func(m Message, _ int) bool { return m.IsReceived() })
}

// Unread returns the received messages not yet marked read.
func Unread(msgs []Message) []Message {
	return lo.Filter(msgs, func(m Message, _ int) bool { return m.IsReceived() && !m.Read })
}
