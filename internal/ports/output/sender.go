package output

import "context"

// MessageSender delivers a text message to a chat destination (channel id).
type MessageSender interface {
	Send(ctx context.Context, destination, body string) error
}
