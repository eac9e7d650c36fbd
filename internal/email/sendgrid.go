package email

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridClient implements Client on the SendGrid v3 API
type SendGridClient struct {
	apiKey   string
	from     string
	fromName string
	send     func(ctx context.Context, msg *mail.SGMailV3) (*rest.Response, error)
}

func NewSendGridClient(apiKey, from, fromName string) *SendGridClient {
	c := &SendGridClient{apiKey: apiKey, from: from, fromName: fromName}
	c.send = func(ctx context.Context, msg *mail.SGMailV3) (*rest.Response, error) {
		return sendgrid.NewSendClient(c.apiKey).SendWithContext(ctx, msg)
	}
	return c
}

func (c *SendGridClient) Send(ctx context.Context, to, subject, body string) error {
	if c.apiKey == "" {
		return errors.New("sendgrid api key is empty")
	}
	if c.from == "" {
		return errors.New("from address is empty")
	}
	if to == "" {
		return ErrNoRecipient
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(c.fromName, c.from),
		subject,
		mail.NewEmail("", to),
		body,
		// Bodies carry customer-entered text such as the shipping address
		"<pre>"+html.EscapeString(body)+"</pre>",
	)

	response, err := c.send(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		log.Printf("[Email] sendgrid error status=%d, body=%s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid send failed: status=%d", response.StatusCode)
	}

	log.Printf("[Email] mail sent via sendgrid: status=%d to=%s subject=%q", response.StatusCode, to, subject)
	return nil
}
