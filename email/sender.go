package email

import "context"

// Message is one outbound email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Sender delivers messages. The core treats delivery as given; adapters live
// in subpackages.
type Sender interface {
	Send(ctx context.Context, message Message) error
}
