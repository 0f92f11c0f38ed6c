package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// EmailService delivers transactional mail through the Mailgun HTTP API.
// Only the password-reset flow uses it.
type EmailService struct {
	apiKey     string
	domain     string
	fromEmail  string
	httpClient *http.Client
}

func NewEmailService(apiKey, domain, fromEmail string) *EmailService {
	return &EmailService{
		apiKey:     apiKey,
		domain:     domain,
		fromEmail:  fromEmail,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *EmailService) SendOTPEmail(ctx context.Context, to, name, otp string) error {
	subject := "Your password reset code"
	text := fmt.Sprintf("Hi %s,\n\nYour password reset code is: %s\n\nIt expires in 10 minutes. If you did not request a reset, you can ignore this email.", name, otp)
	html := fmt.Sprintf(`
		<h2>Password Reset</h2>
		<p>Hi %s,</p>
		<p>Your password reset code is: <strong>%s</strong></p>
		<p>It expires in 10 minutes. If you did not request a reset, you can ignore this email.</p>
	`, name, otp)

	return s.send(ctx, to, subject, text, html)
}

func (s *EmailService) send(ctx context.Context, to, subject, text, html string) error {
	if s.apiKey == "" || s.domain == "" {
		return fmt.Errorf("email service not configured")
	}

	form := url.Values{}
	form.Set("from", s.fromEmail)
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("text", text)
	form.Set("html", html)

	endpoint := fmt.Sprintf("https://api.mailgun.net/v3/%s/messages", s.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.SetBasicAuth("api", s.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	return nil
}
