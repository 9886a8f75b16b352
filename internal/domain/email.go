package domain

import "context"

// Email is a single outbound message with plain text and HTML bodies.
type Email struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers an Email. A nil error means the provider accepted it.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}
