package middleware

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/ShujaShah/starte/domain"
)

// RequireAuth verifies the auth_token cookie and re-fetches the user it names.
// The live user and its current role are attached to the context.
func (mw *AuthMW) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AuthTokenCookie)
		if err != nil || token == "" {
			mw.metrics.Rejection("missing_token")
			abortWithError(c, http.StatusUnauthorized, "You are not logged in")
			return
		}

		claims, err := mw.tokenSvc.VerifySessionToken(token, domain.TokenKindAuth)
		if err != nil {
			mw.metrics.Rejection("invalid_token")
			abortWithError(c, http.StatusBadRequest, "Auth token is not valid")
			return
		}

		if !mw.checkRevocation(c, claims) {
			return
		}

		user, err := mw.userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidID) {
				mw.metrics.Rejection("user_not_found")
				abortWithError(c, http.StatusUnauthorized, "User not found")
				return
			}
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Next()
	}
}

// RequireRole verifies the auth_token cookie and authorizes on the role claim
// alone. The user store is not consulted, so a role changed after the token
// was issued is not seen until the token is replaced.
func (mw *AuthMW) RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AuthTokenCookie)
		if err != nil || token == "" {
			mw.metrics.Rejection("missing_token")
			abortWithError(c, http.StatusUnauthorized, "Access denied...Please login")
			return
		}

		claims, err := mw.tokenSvc.VerifySessionToken(token, domain.TokenKindAuth)
		if err != nil {
			mw.metrics.Rejection("invalid_token")
			abortWithError(c, http.StatusBadRequest, "Invalid Token")
			return
		}

		if !mw.checkRevocation(c, claims) {
			return
		}

		if !slices.Contains(roles, claims.Role) {
			mw.metrics.Rejection("insufficient_role")
			if mw.auditor != nil {
				mw.auditor.LogEvent(c.Request.Context(), domain.NewAuditEvent(domain.AccessDeniedEvent, claims.UserID).
					WithError(domain.ErrInsufficientRole).
					WithMetadata("role", string(claims.Role)).
					WithMetadata("path", c.FullPath()).
					WithClientContext(domain.ClientContextFrom(c.Request.Context())))
			}
			abortWithError(c, http.StatusForbidden, "You are not authorized to perform this action...")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// checkRevocation aborts the request when the token was revoked at logout.
// It reports whether processing may continue.
func (mw *AuthMW) checkRevocation(c *gin.Context, claims *domain.TokenClaims) bool {
	if mw.revocations == nil {
		return true
	}
	revoked, err := mw.revocations.IsRevoked(c.Request.Context(), claims.TokenID)
	if err != nil {
		mw.log.ErrorContext(c.Request.Context(), "revocation lookup failed", "error", err)
		c.Error(err)
		c.Abort()
		return false
	}
	if revoked {
		mw.metrics.Rejection("revoked_token")
		abortWithError(c, http.StatusUnauthorized, "Session has been revoked")
		return false
	}
	return true
}
