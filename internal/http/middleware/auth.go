package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/metrics"
)

// Context keys set by the authorization middleware
const (
	ContextUser     = "user"
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// AuthTokenCookie and RefreshTokenCookie name the session cookies
const (
	AuthTokenCookie    = "auth_token"
	RefreshTokenCookie = "refresh_token"
)

// AuthMW wraps the token service and user store for middleware
type AuthMW struct {
	tokenSvc    domain.TokenService
	userRepo    domain.UserRepository
	revocations domain.RevocationRepository
	auditor     domain.AuditLogger
	metrics     *metrics.Metrics
	log         *slog.Logger
}

// NewAuthMW creates new auth middleware wrapper. revocations, auditor and m may be nil.
func NewAuthMW(
	tokenSvc domain.TokenService,
	userRepo domain.UserRepository,
	revocations domain.RevocationRepository,
	auditor domain.AuditLogger,
	m *metrics.Metrics,
	log *slog.Logger,
) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		userRepo:    userRepo,
		revocations: revocations,
		auditor:     auditor,
		metrics:     m,
		log:         log,
	}
}

// CurrentUser returns the user resolved by RequireAuth
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}

// CurrentRole returns the role attached by RequireAuth or RequireRole
func CurrentRole(c *gin.Context) domain.Role {
	v, _ := c.Get(ContextUserRole)
	r, _ := v.(domain.Role)
	return r
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}
