package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ShujaShah/starte/domain"
)

// sessionClaims is the signed payload of auth and refresh tokens
type sessionClaims struct {
	UserID string           `json:"_id"`
	Role   domain.Role      `json:"role"`
	Kind   domain.TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// activationClaims is the signed payload of an activation token.
// ExpirationTime duplicates exp and is checked separately by the activation flow.
type activationClaims struct {
	User           domain.PendingRegistration `json:"user"`
	ActivationCode string                     `json:"activationCode"`
	ExpirationTime int64                      `json:"expirationTime"`
	jwt.RegisteredClaims
}

// JWTServiceImpl implements domain.TokenService with HS256
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

// JWTOption configures a JWTServiceImpl
type JWTOption func(*JWTServiceImpl)

// WithClock overrides the time source used for issuing and verifying tokens
func WithClock(now func() time.Time) JWTOption {
	return func(j *JWTServiceImpl) { j.now = now }
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer string, opts ...JWTOption) *JWTServiceImpl {
	j := &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

var _ domain.TokenService = (*JWTServiceImpl)(nil)

func (j *JWTServiceImpl) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := j.now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    j.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (j *JWTServiceImpl) sign(claims jwt.Claims) (string, error) {
	if len(j.secretKey) == 0 {
		return "", errors.New("jwt: signing key is not configured")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
}

// IssueActivationToken implements domain.TokenService
func (j *JWTServiceImpl) IssueActivationToken(reg domain.PendingRegistration, code string, ttl time.Duration) (string, error) {
	rc := j.registered(ttl)
	return j.sign(&activationClaims{
		User:             reg,
		ActivationCode:   code,
		ExpirationTime:   rc.ExpiresAt.Unix(),
		RegisteredClaims: rc,
	})
}

// IssueSessionToken implements domain.TokenService
func (j *JWTServiceImpl) IssueSessionToken(userID string, role domain.Role, kind domain.TokenKind, ttl time.Duration) (string, error) {
	return j.sign(&sessionClaims{
		UserID:           userID,
		Role:             role,
		Kind:             kind,
		RegisteredClaims: j.registered(ttl),
	})
}

// VerifyActivationToken implements domain.TokenService
func (j *JWTServiceImpl) VerifyActivationToken(tokenString string) (*domain.ActivationClaims, error) {
	var claims activationClaims
	if err := j.verify(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.ActivationCode == "" || claims.User.Email == "" {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.ActivationClaims{
		Registration:   claims.User,
		Code:           claims.ActivationCode,
		ExpirationTime: claims.ExpirationTime,
		TokenID:        claims.ID,
	}, nil
}

// VerifySessionToken implements domain.TokenService
func (j *JWTServiceImpl) VerifySessionToken(tokenString string, kind domain.TokenKind) (*domain.TokenClaims, error) {
	var claims sessionClaims
	if err := j.verify(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.Kind != kind || claims.UserID == "" {
		return nil, domain.ErrTokenInvalid
	}

	tc := &domain.TokenClaims{
		UserID:  claims.UserID,
		Role:    claims.Role,
		Kind:    claims.Kind,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return tc, nil
}

// verify is the single signature/expiry check shared by both token families
func (j *JWTServiceImpl) verify(tokenString string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenSignatureInvalid
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignatureInvalid
	default:
		return domain.ErrTokenInvalid
	}
}
