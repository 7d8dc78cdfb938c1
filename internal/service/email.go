package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, nickname string) error {
	profileURL := fmt.Sprintf("%s/user/%s", s.appURL, nickname)
	subject, body := welcomeEmailTemplate(nickname, profileURL, s.appName)

	return s.send(ctx, "welcome", []string{email}, subject, body)
}

// SendErrorReport mails an unhandled server error to the administrators.
func (s *EmailService) SendErrorReport(ctx context.Context, to []string, report ErrorReport) error {
	if len(to) == 0 {
		return nil
	}
	subject, body := errorReportEmailTemplate(report, s.appName)

	return s.send(ctx, "error_report", to, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind string, to []string, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      to,
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
