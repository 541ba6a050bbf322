package resendsender

import (
	"context"

	"github.com/lexo-ch/lexo-forms-sub000/email"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
)

var _ email.Sender = (*Sender)(nil)

// Sender delivers email through the Resend API.
type Sender struct {
	client *resend.Client
}

func NewSender(apiKey string) *Sender {
	return &Sender{client: resend.NewClient(apiKey)}
}

func (s *Sender) Send(ctx context.Context, message email.Message) error {
	request := &resend.SendEmailRequest{
		From:    message.From,
		To:      message.To,
		Subject: message.Subject,
		Html:    message.HTML,
		Text:    message.Text,
		ReplyTo: message.ReplyTo,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, request); err != nil {
		return errors.Wrap(err, "[Sender.Send] resend")
	}
	return nil
}
