package mocks

import (
	"context"
	"sync"

	"github.com/ShujaShah/starte/domain"
)

// MockMailer implements domain.Mailer interface for testing.
// Delivered messages are recorded unless SendFunc overrides delivery.
type MockMailer struct {
	SendFunc func(ctx context.Context, mail domain.Mail) error

	mu   sync.Mutex
	sent []domain.Mail
}

// NewMockMailer creates a new MockMailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// Send delivers a message
func (m *MockMailer) Send(ctx context.Context, mail domain.Mail) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, mail); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return nil
}

// Sent returns the delivered messages (test helper)
func (m *MockMailer) Sent() []domain.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Mail(nil), m.sent...)
}

// Last returns the most recently delivered message (test helper)
func (m *MockMailer) Last() (domain.Mail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return domain.Mail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// Compile-time interface compliance verification
var _ domain.Mailer = (*MockMailer)(nil)
