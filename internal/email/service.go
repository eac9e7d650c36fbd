package email

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

var ErrNoRecipient = errors.New("recipient address is empty")

// SMTPClient handles email sending via SMTP
type SMTPClient struct {
	host     string
	port     string
	from     string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPClient creates a new SMTP client
func NewSMTPClient(host, port, from string) *SMTPClient {
	return &SMTPClient{
		host:     host,
		port:     port,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

func (c *SMTPClient) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(c.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", c.host, c.port)
	if err := c.sendMail(addr, nil, c.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	log.Printf("[Email] mail sent via smtp to=%s subject=%q", to, subject)
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	// normalise line endings for the wire
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\n", "\r\n")
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)
	return []byte(msg)
}
