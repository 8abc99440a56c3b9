package mail

import "context"

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
}

// Sender is the outbound mail port. Implemented by the Gmail adapter and by
// an in-memory recorder for tests.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
