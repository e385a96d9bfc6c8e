package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/kendall-kelly/renovation-quotes-api/config"
)

// EmailService is the notification collaborator
type EmailService interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

var emailServiceInstance EmailService

// InitEmailService picks the email backend for cfg. Without an API key
// (development and test) emails are only logged.
func InitEmailService(cfg *config.Config) EmailService {
	if cfg.EmailAPIKey == "" {
		emailServiceInstance = &LogEmailService{}
	} else {
		emailServiceInstance = NewHTTPEmailService(cfg)
	}
	return emailServiceInstance
}

// GetEmailService returns the initialized email service instance
func GetEmailService() EmailService {
	return emailServiceInstance
}

// SetEmailService sets the email service instance (primarily for testing)
func SetEmailService(service EmailService) {
	emailServiceInstance = service
}

// HTTPEmailService sends email through a Resend-compatible HTTP API
type HTTPEmailService struct {
	endpoint   string
	apiKey     string
	from       string
	httpClient *http.Client
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendEmailError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// NewHTTPEmailService creates a new HTTP email service instance
func NewHTTPEmailService(cfg *config.Config) *HTTPEmailService {
	return &HTTPEmailService{
		endpoint: cfg.EmailAPIURL,
		apiKey:   cfg.EmailAPIKey,
		from:     cfg.EmailFrom,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendEmail delivers a single HTML email. It does not retry.
func (s *HTTPEmailService) SendEmail(ctx context.Context, to, subject, html string) error {
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	payload, err := json.Marshal(sendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call email API: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("warning: failed to close email API response: %v", closeErr)
		}
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr sendEmailError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, string(body))
}

// LogEmailService only logs outgoing email
type LogEmailService struct{}

// SendEmail logs the email and reports success
func (LogEmailService) SendEmail(ctx context.Context, to, subject, html string) error {
	log.Printf("Email (not sent, no EMAIL_API_KEY) to=%s subject=%q", to, subject)
	return nil
}
