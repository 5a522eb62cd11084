package mocks

import (
	"fmt"
	"strings"
	"time"

	"github.com/ShujaShah/starte/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueActivationTokenFunc  func(reg domain.PendingRegistration, code string, ttl time.Duration) (string, error)
	IssueSessionTokenFunc     func(userID string, role domain.Role, kind domain.TokenKind, ttl time.Duration) (string, error)
	VerifyActivationTokenFunc func(token string) (*domain.ActivationClaims, error)
	VerifySessionTokenFunc    func(token string, kind domain.TokenKind) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// IssueActivationToken returns a mock activation token
func (m *MockTokenService) IssueActivationToken(reg domain.PendingRegistration, code string, ttl time.Duration) (string, error) {
	if m.IssueActivationTokenFunc != nil {
		return m.IssueActivationTokenFunc(reg, code, ttl)
	}
	// Default behavior: return a mock activation token
	return fmt.Sprintf("activation_token_%s_%s", reg.Email, code), nil
}

// IssueSessionToken returns a mock session token in the form <kind>_token_<userID>_<role>
func (m *MockTokenService) IssueSessionToken(userID string, role domain.Role, kind domain.TokenKind, ttl time.Duration) (string, error) {
	if m.IssueSessionTokenFunc != nil {
		return m.IssueSessionTokenFunc(userID, role, kind, ttl)
	}
	return fmt.Sprintf("%s_token_%s_%s", kind, userID, role), nil
}

// VerifyActivationToken validates an activation token and returns claims
func (m *MockTokenService) VerifyActivationToken(token string) (*domain.ActivationClaims, error) {
	if m.VerifyActivationTokenFunc != nil {
		return m.VerifyActivationTokenFunc(token)
	}
	// Default behavior: reject anything but the default token format
	rest, ok := strings.CutPrefix(token, "activation_token_")
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	idx := strings.LastIndex(rest, "_")
	if idx < 0 {
		return nil, domain.ErrTokenMalformed
	}
	return &domain.ActivationClaims{
		Registration:   domain.PendingRegistration{Email: rest[:idx], Name: "Mock User", PasswordHash: "hashed", Role: domain.RoleUser},
		Code:           rest[idx+1:],
		ExpirationTime: time.Now().Add(10 * time.Minute).Unix(),
		TokenID:        "activation-jti",
	}, nil
}

// VerifySessionToken validates a session token and returns claims
func (m *MockTokenService) VerifySessionToken(token string, kind domain.TokenKind) (*domain.TokenClaims, error) {
	if m.VerifySessionTokenFunc != nil {
		return m.VerifySessionTokenFunc(token, kind)
	}
	// Default behavior: parse tokens produced by IssueSessionToken
	rest, ok := strings.CutPrefix(token, string(kind)+"_token_")
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	idx := strings.LastIndex(rest, "_")
	if idx < 0 {
		return nil, domain.ErrTokenMalformed
	}
	now := time.Now()
	return &domain.TokenClaims{
		UserID:    rest[:idx],
		Role:      domain.Role(rest[idx+1:]),
		Kind:      kind,
		TokenID:   string(kind) + "-jti-" + rest[:idx],
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	}, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
