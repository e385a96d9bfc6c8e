package services

import (
	"context"
	"fmt"
	"sync"
)

// SentEmail is an email captured by MockEmailService
type SentEmail struct {
	To      string
	Subject string
	HTML    string
}

// MockEmailService is a mock implementation of EmailService for testing
type MockEmailService struct {
	mu   sync.Mutex
	sent []SentEmail

	// FailFor makes delivery to these addresses fail
	FailFor map[string]error
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{FailFor: make(map[string]error)}
}

// SetAsMockForTesting sets this mock as the global email service instance for testing
func (m *MockEmailService) SetAsMockForTesting() {
	SetEmailService(m)
}

// SendEmail records the email, or fails when the recipient is in FailFor
func (m *MockEmailService) SendEmail(ctx context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.FailFor[to]; ok {
		if err == nil {
			err = fmt.Errorf("mock delivery failure for %s", to)
		}
		return err
	}

	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, HTML: html})
	return nil
}

// Sent returns all delivered emails (for testing assertions)
func (m *MockEmailService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	sent := make([]SentEmail, len(m.sent))
	copy(sent, m.sent)
	return sent
}

// SentTo returns the emails delivered to one address
func (m *MockEmailService) SentTo(to string) []SentEmail {
	var matched []SentEmail
	for _, email := range m.Sent() {
		if email.To == to {
			matched = append(matched, email)
		}
	}
	return matched
}

// Clear forgets all delivered emails
func (m *MockEmailService) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}
