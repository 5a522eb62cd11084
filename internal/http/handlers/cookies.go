package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ShujaShah/starte/internal/http/middleware"
)

// CookieConfig controls the session cookies attached to auth responses
type CookieConfig struct {
	Domain        string
	Secure        bool
	AuthMaxAge    time.Duration
	RefreshMaxAge time.Duration
}

// DefaultCookieConfig returns a 24h auth cookie and a 365d refresh cookie
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		Secure:        true,
		AuthMaxAge:    24 * time.Hour,
		RefreshMaxAge: 365 * 24 * time.Hour,
	}
}

func (cfg CookieConfig) set(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", cfg.Domain, cfg.Secure, true)
}

// setSessionCookies attaches both session tokens
func (cfg CookieConfig) setSessionCookies(c *gin.Context, authToken, refreshToken string) {
	cfg.set(c, middleware.AuthTokenCookie, authToken, cfg.AuthMaxAge)
	cfg.set(c, middleware.RefreshTokenCookie, refreshToken, cfg.RefreshMaxAge)
}

// clearSessionCookies expires both session cookies
func (cfg CookieConfig) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AuthTokenCookie, "", -1, "/", cfg.Domain, cfg.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", cfg.Domain, cfg.Secure, true)
}
