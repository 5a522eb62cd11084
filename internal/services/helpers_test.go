package services

import (
	"context"
	"testing"
	"time"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/metrics"
	"github.com/ShujaShah/starte/internal/mocks"
)

// authDeps groups the collaborators of the auth service under test
type authDeps struct {
	userRepo    *mocks.MockUserRepository
	revocations *mocks.MockRevocationRepository
	passwordSvc *mocks.MockPasswordService
	tokenSvc    *mocks.MockTokenService
	codes       *mocks.MockCodeGenerator
	mailer      *mocks.MockMailer
	auditor     *mocks.MockAuditLogger
	metrics     *metrics.Metrics
}

func newAuthDeps() *authDeps {
	return &authDeps{
		userRepo:    mocks.NewMockUserRepository(),
		revocations: mocks.NewMockRevocationRepository(),
		passwordSvc: mocks.NewMockPasswordService(),
		tokenSvc:    mocks.NewMockTokenService(),
		codes:       mocks.NewMockCodeGenerator(),
		mailer:      mocks.NewMockMailer(),
		auditor:     mocks.NewMockAuditLogger(),
		metrics:     metrics.New(),
	}
}

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T, deps *authDeps, cfg AuthConfig) *AuthServiceImpl {
	t.Helper()

	svc := NewAuthService(
		deps.userRepo,
		deps.revocations,
		deps.passwordSvc,
		deps.tokenSvc,
		deps.codes,
		deps.mailer,
		deps.auditor,
		deps.metrics,
		cfg,
	)
	return svc.(*AuthServiceImpl)
}

// createValidUser creates a valid user entity for testing
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:           "6f1c1f0e-3a55-4c52-9a3e-1d2b3c4d5e6f",
		Email:        "test@example.com",
		Name:         "Test User",
		PasswordHash: mocks.MockHash("password123"),
		Role:         domain.RoleUser,
		IsVerified:   true,
		Courses:      []domain.CourseRef{},
		CreatedAt:    time.Now().Add(-24 * time.Hour), // Created yesterday
		UpdatedAt:    time.Now().Add(-1 * time.Hour),  // Updated 1 hour ago
	}
}

// createAdminUser creates an admin user entity for testing
func createAdminUser(t *testing.T) *domain.User {
	t.Helper()

	user := createValidUser(t)
	user.ID = "0a9b8c7d-6e5f-4a3b-2c1d-0e9f8a7b6c5d"
	user.Email = "admin@example.com"
	user.Role = domain.RoleAdmin
	return user
}

// validRegistration returns the example registration payload
func validRegistration() domain.RegistrationInput {
	return domain.RegistrationInput{
		Email:    "a@b.com",
		Name:     "Abe",
		Password: "secret1",
	}
}

// activationClaims returns claims as the token service would decode them
func activationClaims(code string, expiresIn time.Duration) *domain.ActivationClaims {
	return &domain.ActivationClaims{
		Registration: domain.PendingRegistration{
			Email:        "a@b.com",
			Name:         "Abe",
			PasswordHash: mocks.MockHash("secret1"),
			Role:         domain.RoleInstructor,
		},
		Code:           code,
		ExpirationTime: time.Now().Add(expiresIn).Unix(),
		TokenID:        "act-jti",
	}
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
