// Package mailer sends contact-form notification emails over AWS SES,
// consuming contact events from the message queue.
package mailer

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"cv-insight/internal/config"
	"cv-insight/internal/storage"
)

// EmailSender delivers a contact notification. Satisfied by SESSender; tests
// substitute a recorder.
type EmailSender interface {
	SendContactNotification(ctx context.Context, event storage.ContactEvent) error
}

// SESSender sends mail through AWS SESv2.
type SESSender struct {
	client *sesv2.Client
	sender string
	to     string
}

// NewSESSender builds the SES client. Static credentials from config take
// precedence; otherwise the default AWS credential chain applies.
func NewSESSender(ctx context.Context, cfg config.MailConfig) (*SESSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESSender{
		client: sesv2.NewFromConfig(awsCfg),
		sender: cfg.Sender,
		to:     cfg.ContactTo,
	}, nil
}

// SendContactNotification emails the configured inbox about a contact-form
// submission.
func (s *SESSender) SendContactNotification(ctx context.Context, event storage.ContactEvent) error {
	subject := buildContactSubject(event)
	htmlBody := buildContactHTML(event)
	textBody := buildContactText(event)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &s.sender,
		Destination: &types.Destination{
			ToAddresses: []string{s.to},
		},
		ReplyToAddresses: []string{event.Email},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}

func buildContactSubject(event storage.ContactEvent) string {
	if event.Subject != "" {
		return fmt.Sprintf("[Contact] %s", event.Subject)
	}
	return fmt.Sprintf("[Contact] Message from %s", event.Name)
}

func buildContactText(event storage.ContactEvent) string {
	return fmt.Sprintf("New contact form message\n\nFrom: %s <%s>\nSubject: %s\nReceived: %s\n\n%s\n",
		event.Name, event.Email, event.Subject, event.CreatedAt.Format("2006-01-02 15:04:05 MST"), event.Body)
}

func buildContactHTML(event storage.ContactEvent) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">New contact form message</h2>
  <p><strong>From:</strong> %s &lt;%s&gt;</p>
  <p><strong>Subject:</strong> %s</p>
  <p><strong>Received:</strong> %s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="white-space: pre-wrap;">%s</p>
</body>
</html>`,
		html.EscapeString(event.Name),
		html.EscapeString(event.Email),
		html.EscapeString(event.Subject),
		event.CreatedAt.Format("2006-01-02 15:04:05 MST"),
		html.EscapeString(event.Body))
}
