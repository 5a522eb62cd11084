package domain

import "time"

// Role is the authorization role carried by a user and by its session tokens
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleInstructor Role = "instructor"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleInstructor:
		return true
	}
	return false
}

// Avatar references an uploaded profile image
type Avatar struct {
	PublicID string `json:"public_id,omitempty"`
	URL      string `json:"url,omitempty"`
}

// CourseRef references a course the user is enrolled in
type CourseRef struct {
	CourseID string `json:"courseId"`
}

// User represents a user in the system
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	PasswordHash string      `json:"-"`
	Avatar       *Avatar     `json:"avatar,omitempty"`
	Role         Role        `json:"role"`
	IsVerified   bool        `json:"isVerified"`
	Courses      []CourseRef `json:"courses"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// PendingRegistration is a registration waiting for its activation code.
// It is never persisted; it only travels inside an activation token.
type PendingRegistration struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password"`
	Role         Role   `json:"role"`
}

// ActivationChallenge is what the client receives after a registration request
type ActivationChallenge struct {
	Token     string
	Code      string
	ExpiresAt time.Time
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User         *User
	AuthToken    string
	RefreshToken string
}

// TokenKind distinguishes the two session token variants
type TokenKind string

const (
	TokenKindAuth    TokenKind = "auth"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims represents verified session token claims
type TokenClaims struct {
	UserID    string    `json:"_id"`
	Role      Role      `json:"role"`
	Kind      TokenKind `json:"typ"`
	TokenID   string    `json:"jti"`
	IssuedAt  int64     `json:"iat"`
	ExpiresAt int64     `json:"exp"`
}

// ActivationClaims represents verified activation token claims
type ActivationClaims struct {
	Registration   PendingRegistration
	Code           string
	ExpirationTime int64
	TokenID        string
}

// ProfileUpdate carries the mutable profile fields
type ProfileUpdate struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *Avatar `json:"avatar,omitempty"`
}
