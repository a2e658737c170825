package email

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESSender delivers mail through AWS SESv2. It satisfies the sender
// interface the mailer consumes.
type SESSender struct {
	client    *sesv2.Client
	fromEmail string
}

func NewSESSender(cfg aws.Config, fromEmail string) *SESSender {
	return &SESSender{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
	}
}

func (s *SESSender) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	return err
}

// LogSender writes outgoing mail to the process log. Used when SES is not
// configured, e.g. in development.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("[email] to=%s subject=%q body=%q", to, subject, body)
	return nil
}
