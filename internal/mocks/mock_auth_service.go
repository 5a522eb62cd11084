package mocks

import (
	"context"
	"time"

	"github.com/ShujaShah/starte/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc         func(ctx context.Context, input domain.RegistrationInput) (*domain.ActivationChallenge, error)
	VerifyActivationFunc func(ctx context.Context, token, code string) (*domain.AuthResult, error)
	LoginFunc            func(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error)
	RefreshFunc          func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc           func(ctx context.Context, authToken, refreshToken string) error
	GetUserProfileFunc   func(ctx context.Context, userID string) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// mockUser builds the user returned by default behaviors
func mockUser(id, email string) *domain.User {
	return &domain.User{
		ID:           id,
		Email:        email,
		Name:         "Mock User",
		PasswordHash: MockHash("password"),
		Role:         domain.RoleUser,
		IsVerified:   true,
		Courses:      []domain.CourseRef{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// Register starts a registration
func (m *MockAuthService) Register(ctx context.Context, input domain.RegistrationInput) (*domain.ActivationChallenge, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, input)
	}
	return &domain.ActivationChallenge{
		Token:     "activation_token_" + input.Email + "_1234",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}, nil
}

// VerifyActivation completes a registration
func (m *MockAuthService) VerifyActivation(ctx context.Context, token, code string) (*domain.AuthResult, error) {
	if m.VerifyActivationFunc != nil {
		return m.VerifyActivationFunc(ctx, token, code)
	}
	return &domain.AuthResult{
		User:         mockUser("11111111-1111-1111-1111-111111111111", "mock@example.com"),
		AuthToken:    "auth_token_mock",
		RefreshToken: "refresh_token_mock",
	}, nil
}

// Login authenticates a user and returns auth result
func (m *MockAuthService) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, input)
	}
	// Default behavior: return successful auth result
	return &domain.AuthResult{
		User:         mockUser("11111111-1111-1111-1111-111111111111", input.Email),
		AuthToken:    "auth_token_mock",
		RefreshToken: "refresh_token_mock",
	}, nil
}

// Refresh issues a new auth token
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return &domain.AuthResult{
		User:         mockUser("11111111-1111-1111-1111-111111111111", "mock@example.com"),
		AuthToken:    "auth_token_refreshed",
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes the presented tokens
func (m *MockAuthService) Logout(ctx context.Context, authToken, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, authToken, refreshToken)
	}
	if authToken == "" && refreshToken == "" {
		return domain.ErrUnauthorized
	}
	return nil
}

// GetUserProfile returns the user with the given id
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return mockUser(userID, "mock@example.com"), nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
