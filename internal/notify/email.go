package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailNotifier struct {
	from   string
	sender mailSender
}

func NewEmailNotifier(host string, port int, user, pass, from string) *EmailNotifier {
	return &EmailNotifier{
		from:   from,
		sender: gomail.NewDialer(host, port, user, pass),
	}
}

// Notify skips recipients without an email address.
func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	if msg.Recipient.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", msg.Recipient.Email)
	m.SetHeader("Subject", msg.Title)
	m.SetBody("text/plain", msg.Body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.Recipient.Email, err)
	}
	return nil
}
