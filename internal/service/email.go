package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

var ErrEmailNotConfigured = errors.New("email service not configured (missing RESEND_API_KEY)")

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

// NewEmailService sends through Resend. In development emails are only logged.
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

func (s *EmailService) SendMagicLinkEmail(ctx context.Context, email, token string) error {
	magicURL := fmt.Sprintf("%s/auth/magic-link/%s", s.appURL, token)
	subject, body := magicLinkEmailTemplate(magicURL, s.appName)
	return s.send(ctx, "magic_link", email, subject, body, magicURL)
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	dashboardURL := fmt.Sprintf("%s/app/dashboard", s.appURL)
	subject, body := welcomeEmailTemplate(name, dashboardURL, s.appName)
	return s.send(ctx, "welcome", email, subject, body, dashboardURL)
}

// SendForgotPasswordEmail carries a one-time sign-in link that also removes the forgotten password.
func (s *EmailService) SendForgotPasswordEmail(ctx context.Context, email, token string) error {
	signInURL := fmt.Sprintf("%s/auth/forgot-password/%s", s.appURL, token)
	subject, body := forgotPasswordEmailTemplate(signInURL, s.appName)
	return s.send(ctx, "forgot_password", email, subject, body, signInURL)
}

func (s *EmailService) SendEmailChangeVerification(ctx context.Context, newEmail, token, name string) error {
	verifyURL := fmt.Sprintf("%s/auth/verify-email-change/%s", s.appURL, token)
	subject, body := emailChangeVerificationTemplate(name, verifyURL, s.appName)
	return s.send(ctx, "email_change_verification", newEmail, subject, body, verifyURL)
}

// SendEmailChangeNotification warns the current address that a change was requested.
func (s *EmailService) SendEmailChangeNotification(ctx context.Context, oldEmail, newEmail, name string) error {
	subject, body := emailChangeNotificationTemplate(name, newEmail, s.appName)
	return s.send(ctx, "email_change_notification", oldEmail, subject, body, "")
}

func (s *EmailService) SendAccountDeletedEmail(ctx context.Context, email, name string) error {
	subject, body := accountDeletedEmailTemplate(name, s.appName)
	return s.send(ctx, "account_deleted", email, subject, body, "")
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body, url string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject, "url", url)
		return nil
	}

	if s.client == nil {
		return ErrEmailNotConfigured
	}

	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return err
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
