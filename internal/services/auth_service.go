package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/metrics"
)

const activationEmailTemplate = "activation-email"

// AuthConfig carries the lifetimes and switches of the account flows
type AuthConfig struct {
	ActivationTTL time.Duration
	AuthTTL       time.Duration
	RefreshTTL    time.Duration
	// ExposeCode returns the activation code in the registration response.
	ExposeCode       bool
	AllowAdminSignup bool
}

// DefaultAuthConfig returns the stock lifetimes: 600s activation, 3d auth, 90d refresh
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		ActivationTTL: 600 * time.Second,
		AuthTTL:       72 * time.Hour,
		RefreshTTL:    90 * 24 * time.Hour,
	}
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	revocations domain.RevocationRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	codes       domain.CodeGenerator
	mailer      domain.Mailer
	auditor     domain.AuditLogger
	metrics     *metrics.Metrics
	config      AuthConfig
	now         func() time.Time
}

// NewAuthService creates a new auth service. revocations, auditor and m may be nil.
func NewAuthService(
	userRepo domain.UserRepository,
	revocations domain.RevocationRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	codes domain.CodeGenerator,
	mailer domain.Mailer,
	auditor domain.AuditLogger,
	m *metrics.Metrics,
	config AuthConfig,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		revocations: revocations,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		codes:       codes,
		mailer:      mailer,
		auditor:     auditor,
		metrics:     m,
		config:      config,
		now:         time.Now,
	}
}

// Register implements domain.AuthService.
// Nothing is persisted: the pending registration travels inside the activation token.
func (s *AuthServiceImpl) Register(ctx context.Context, input domain.RegistrationInput) (*domain.ActivationChallenge, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		s.metrics.Registration(metrics.OutcomeInvalid)
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidUserData, err)
	}
	if input.Role == domain.RoleAdmin && !s.config.AllowAdminSignup {
		s.metrics.Registration(metrics.OutcomeInvalid)
		return nil, domain.ErrRoleNotAllowed
	}

	// Check if user already exists
	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		s.metrics.Registration(metrics.OutcomeDuplicate)
		return nil, domain.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := s.passwordSvc.Hash(input.Password)
	if err != nil {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.codes.Generate()
	if err != nil {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, err
	}

	reg := domain.PendingRegistration{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashed,
		Role:         input.Role,
	}
	token, err := s.tokenSvc.IssueActivationToken(reg, code, s.config.ActivationTTL)
	if err != nil {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to issue activation token: %w", err)
	}

	mail := domain.Mail{
		To:       reg.Email,
		Subject:  "Activate your account",
		Template: activationEmailTemplate,
		Data: map[string]any{
			"Name":             reg.Name,
			"ActivationCode":   code,
			"ExpiresInMinutes": int(s.config.ActivationTTL.Minutes()),
		},
	}
	if err := s.mailer.Send(ctx, mail); err != nil {
		s.metrics.Registration(metrics.OutcomeDelivery)
		s.audit(ctx, domain.NewAuditEvent(domain.ActivationEmailFailedEvent, "").WithEmail(reg.Email).WithError(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}

	s.metrics.Registration(metrics.OutcomeSuccess)
	s.audit(ctx, domain.NewAuditEvent(domain.RegistrationRequestedEvent, "").
		WithEmail(reg.Email).
		WithMetadata("role", string(reg.Role)))

	challenge := &domain.ActivationChallenge{
		Token:     token,
		ExpiresAt: s.now().Add(s.config.ActivationTTL),
	}
	if s.config.ExposeCode {
		challenge.Code = code
	}
	return challenge, nil
}

// VerifyActivation implements domain.AuthService
func (s *AuthServiceImpl) VerifyActivation(ctx context.Context, token, code string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.VerifyActivationToken(token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, s.activationFailed(ctx, "", metrics.OutcomeExpired, domain.ErrActivationExpired)
		}
		return nil, s.activationFailed(ctx, "", metrics.OutcomeInvalid, err)
	}
	email := claims.Registration.Email

	if subtle.ConstantTimeCompare([]byte(claims.Code), []byte(code)) != 1 {
		return nil, s.activationFailed(ctx, email, metrics.OutcomeInvalid, domain.ErrActivationCodeInvalid)
	}

	// The jwt exp claim has already been checked; the embedded timestamp is checked as well.
	if claims.ExpirationTime < s.now().Unix() {
		return nil, s.activationFailed(ctx, email, metrics.OutcomeExpired, domain.ErrActivationExpired)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, s.activationFailed(ctx, email, metrics.OutcomeDuplicate, domain.ErrUserAlreadyExists)
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		s.metrics.Activation(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         claims.Registration.Name,
		PasswordHash: claims.Registration.PasswordHash,
		Role:         claims.Registration.Role,
		IsVerified:   true,
		Courses:      []domain.CourseRef{},
	}
	if !user.Role.Valid() {
		user.Role = domain.RoleUser
	}

	// A concurrent activation for the same email loses at the unique index.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, s.activationFailed(ctx, email, metrics.OutcomeDuplicate, domain.ErrUserAlreadyExists)
		}
		s.metrics.Activation(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	result, err := s.issueSession(user)
	if err != nil {
		s.metrics.Activation(metrics.OutcomeError)
		return nil, err
	}

	s.metrics.Activation(metrics.OutcomeSuccess)
	s.audit(ctx, domain.NewAuditEvent(domain.UserActivatedEvent, user.ID).WithEmail(user.Email))
	return result, nil
}

// Login implements domain.AuthService.
// An unknown email wraps ErrUserNotFound so callers can tell it from a wrong password.
func (s *AuthServiceImpl) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error) {
	input.Email = domain.NormalizeEmail(input.Email)
	if err := input.Validate(); err != nil {
		s.metrics.Login(metrics.OutcomeInvalid)
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidUserData, err)
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.Login(metrics.OutcomeInvalid)
			s.audit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, "").WithEmail(input.Email).WithError(err))
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		s.metrics.Login(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.passwordSvc.Verify(user.PasswordHash, input.Password) {
		s.metrics.Login(metrics.OutcomeInvalid)
		s.audit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).WithEmail(user.Email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issueSession(user)
	if err != nil {
		s.metrics.Login(metrics.OutcomeError)
		return nil, err
	}

	s.metrics.Login(metrics.OutcomeSuccess)
	s.audit(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(user.Email))
	return result, nil
}

// Refresh implements domain.AuthService. Only a new auth token is minted; the
// refresh token is returned unchanged.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.VerifySessionToken(refreshToken, domain.TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevoked(ctx, claims.TokenID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	authToken, err := s.tokenSvc.IssueSessionToken(user.ID, user.Role, domain.TokenKindAuth, s.config.AuthTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate auth token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AuthToken:    authToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout implements domain.AuthService. Tokens that still verify are revoked
// until their own expiry; unverifiable ones are ignored.
func (s *AuthServiceImpl) Logout(ctx context.Context, authToken, refreshToken string) error {
	if authToken == "" && refreshToken == "" {
		return domain.ErrUnauthorized
	}

	var userID string
	tokens := []struct {
		raw  string
		kind domain.TokenKind
	}{
		{authToken, domain.TokenKindAuth},
		{refreshToken, domain.TokenKindRefresh},
	}
	for _, tok := range tokens {
		if tok.raw == "" {
			continue
		}
		claims, err := s.tokenSvc.VerifySessionToken(tok.raw, tok.kind)
		if err != nil {
			continue
		}
		userID = claims.UserID
		if s.revocations == nil {
			continue
		}
		if err := s.revocations.Revoke(ctx, claims.TokenID, time.Unix(claims.ExpiresAt, 0)); err != nil {
			return fmt.Errorf("failed to revoke %s token: %w", tok.kind, err)
		}
	}

	s.audit(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, userID))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthServiceImpl) issueSession(user *domain.User) (*domain.AuthResult, error) {
	authToken, err := s.tokenSvc.IssueSessionToken(user.ID, user.Role, domain.TokenKindAuth, s.config.AuthTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate auth token: %w", err)
	}

	refreshToken, err := s.tokenSvc.IssueSessionToken(user.ID, user.Role, domain.TokenKindRefresh, s.config.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AuthToken:    authToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthServiceImpl) checkRevoked(ctx context.Context, tokenID string) error {
	if s.revocations == nil {
		return nil
	}
	revoked, err := s.revocations.IsRevoked(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return domain.ErrTokenRevoked
	}
	return nil
}

func (s *AuthServiceImpl) activationFailed(ctx context.Context, email, outcome string, err error) error {
	s.metrics.Activation(outcome)
	s.audit(ctx, domain.NewAuditEvent(domain.UserActivationFailureEvent, "").WithEmail(email).WithError(err))
	return err
}

func (s *AuthServiceImpl) audit(ctx context.Context, event *domain.AuditEvent) {
	if s.auditor == nil {
		return
	}
	s.auditor.LogEvent(ctx, event.WithClientContext(domain.ClientContextFrom(ctx)))
}
