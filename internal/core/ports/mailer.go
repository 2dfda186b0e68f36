package ports

import "context"

// MailMessage is a single outbound email.
type MailMessage struct {
	To      string
	Subject string
	HTML    string
}

// Mailer performs synchronous delivery of one message.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailOutbox accepts messages for asynchronous delivery. Enqueue must not
// block the caller beyond buffering; reset and registration flows run on
// the request path.
type MailOutbox interface {
	Enqueue(msg MailMessage)
}
