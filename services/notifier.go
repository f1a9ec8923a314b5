package services

import (
	"context"
	"fmt"
	"html"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ShareNotice describes a share the invited user should hear about.
type ShareNotice struct {
	RecipientEmail string
	RecipientName  string
	ListName       string
	Permission     string
}

type Notifier interface {
	NotifyShare(ctx context.Context, n ShareNotice) error
}

// NewNotifier returns a SendGrid notifier when an API key is configured and a
// log-only notifier otherwise.
func NewNotifier(apiKey, from string) Notifier {
	if apiKey == "" {
		return LogNotifier{}
	}
	return NewSendGridNotifier(apiKey, from)
}

type LogNotifier struct{}

func (LogNotifier) NotifyShare(_ context.Context, n ShareNotice) error {
	log.Info().
		Str("recipient", n.RecipientEmail).
		Str("list", n.ListName).
		Str("permission", n.Permission).
		Msg("share notification (mail disabled)")
	return nil
}

type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridNotifier(apiKey, from string) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Shopping List", from),
	}
}

func (s *SendGridNotifier) NotifyShare(_ context.Context, n ShareNotice) error {
	subject, plain, body := shareMessage(n)
	to := mail.NewEmail(n.RecipientName, n.RecipientEmail)
	msg := mail.NewSingleEmail(s.from, subject, to, plain, body)

	resp, err := s.client.Send(msg)
	if err != nil {
		return fmt.Errorf("send share mail: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send share mail: sendgrid status %d", resp.StatusCode)
	}
	return nil
}

func shareMessage(n ShareNotice) (subject, plain, body string) {
	access := "view"
	if n.Permission == "edit" {
		access = "view and edit"
	}
	subject = fmt.Sprintf("A shopping list was shared with you: %s", n.ListName)
	plain = fmt.Sprintf("Hi %s, you can now %s the shopping list %q.", n.RecipientName, access, n.ListName)
	body = fmt.Sprintf("<p>Hi %s,</p><p>You can now %s the shopping list <strong>%s</strong>.</p>",
		html.EscapeString(n.RecipientName), access, html.EscapeString(n.ListName))
	return subject, plain, body
}
