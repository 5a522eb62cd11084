package mocks

import (
	"strings"
	"sync/atomic"

	"github.com/ShujaShah/starte/domain"
)

// mockHashPrefix marks secrets hashed by MockPasswordService so tests can tell
// a stored hash from a plaintext secret.
const mockHashPrefix = "$mock$"

// MockHash returns the hash MockPasswordService produces for password by default
func MockHash(password string) string { return mockHashPrefix + password }

// MockPasswordService implements domain.PasswordService interface for testing.
// By default Hash is deterministic and Verify accepts only MockHash output.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool

	hashCalls atomic.Int64
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash hashes a secret
func (m *MockPasswordService) Hash(password string) (string, error) {
	m.hashCalls.Add(1)
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return MockHash(password), nil
}

// Verify compares a secret with a stored hash
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	// A plaintext value in the store never verifies
	if !strings.HasPrefix(hashedPassword, mockHashPrefix) {
		return false
	}
	return hashedPassword == MockHash(password)
}

// HashCalls reports how many times Hash ran (test helper)
func (m *MockPasswordService) HashCalls() int64 { return m.hashCalls.Load() }

// Compile-time interface compliance verification
var _ domain.PasswordService = (*MockPasswordService)(nil)
