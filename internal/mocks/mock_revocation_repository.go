package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/ShujaShah/starte/domain"
)

// MockRevocationRepository implements domain.RevocationRepository interface for testing.
// Without overrides it keeps revoked ids in memory.
type MockRevocationRepository struct {
	RevokeFunc    func(ctx context.Context, tokenID string, until time.Time) error
	IsRevokedFunc func(ctx context.Context, tokenID string) (bool, error)

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMockRevocationRepository creates a new MockRevocationRepository
func NewMockRevocationRepository() *MockRevocationRepository {
	return &MockRevocationRepository{revoked: make(map[string]time.Time)}
}

// Revoke marks a token id as revoked
func (m *MockRevocationRepository) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, tokenID, until)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = until
	return nil
}

// IsRevoked reports whether a token id was revoked
func (m *MockRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, tokenID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

// Revoked returns the recorded ids and their expiry (test helper)
func (m *MockRevocationRepository) Revoked() map[string]time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]time.Time, len(m.revoked))
	for k, v := range m.revoked {
		out[k] = v
	}
	return out
}

// Compile-time interface compliance verification
var _ domain.RevocationRepository = (*MockRevocationRepository)(nil)
