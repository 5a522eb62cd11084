package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

// RevocationRepository records session tokens invalidated before their expiry
type RevocationRepository interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService defines account activation and session business logic
type AuthService interface {
	Register(ctx context.Context, input RegistrationInput) (*ActivationChallenge, error)
	VerifyActivation(ctx context.Context, token, code string) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, authToken, refreshToken string) error
	GetUserProfile(ctx context.Context, userID string) (*User, error)
}

// UserService defines profile management operations
type UserService interface {
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, int64, error)
	Update(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
	ChangeRole(ctx context.Context, id string, role Role) (*User, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService creates and verifies signed, time-limited tokens
type TokenService interface {
	IssueActivationToken(reg PendingRegistration, code string, ttl time.Duration) (string, error)
	IssueSessionToken(userID string, role Role, kind TokenKind, ttl time.Duration) (string, error)
	VerifyActivationToken(token string) (*ActivationClaims, error)
	VerifySessionToken(token string, kind TokenKind) (*TokenClaims, error)
}

// CodeGenerator produces one-time activation codes
type CodeGenerator interface {
	Generate() (string, error)
}

// Mail is a templated outbound message
type Mail struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Mailer delivers templated email
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() ([][]string, error)
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}
