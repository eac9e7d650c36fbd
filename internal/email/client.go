package email

import "context"

// Client dispatches a plain-text message to one recipient
type Client interface {
	Send(ctx context.Context, to, subject, body string) error
}
