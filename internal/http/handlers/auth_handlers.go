package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/http/middleware"
)

// AuthHandlers handles registration, activation and session HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
	cookies CookieConfig
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, cookies CookieConfig) *AuthHandlers {
	return &AuthHandlers{
		authSvc: authSvc,
		cookies: cookies,
	}
}

// VerifyCodeRequest represents an activation request
type VerifyCodeRequest struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

// Register handles user registration. No session is started until the
// activation code is confirmed.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req domain.RegistrationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(domain.NewValidationError("Invalid user data", err))
		return
	}

	challenge, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			c.Error(domain.NewValidationError("User already exists", err))
		case errors.Is(err, domain.ErrRoleNotAllowed):
			c.Error(domain.NewValidationError("Invalid user data", err))
		default:
			c.Error(err)
		}
		return
	}

	resp := gin.H{
		"success": true,
		"token":   challenge.Token,
	}
	if challenge.Code != "" {
		resp["activationCode"] = challenge.Code
	}
	c.JSON(http.StatusCreated, resp)
}

// VerifyCode redeems an activation token and code, creating the user
func (h *AuthHandlers) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(domain.NewValidationError("Invalid activation token", err))
		return
	}

	result, err := h.authSvc.VerifyActivation(c.Request.Context(), req.ActivationToken, req.ActivationCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrActivationCodeInvalid):
			c.Error(domain.NewValidationError("Code is not valid...", err))
		case errors.Is(err, domain.ErrActivationExpired):
			c.Error(domain.NewValidationError("Activation token has expired", err))
		case errors.Is(err, domain.ErrUserAlreadyExists):
			c.Error(domain.NewConflictError("User with that email already exists", err))
		case errors.Is(err, domain.ErrTokenMalformed),
			errors.Is(err, domain.ErrTokenSignatureInvalid),
			errors.Is(err, domain.ErrTokenInvalid):
			c.Error(domain.NewValidationError("Invalid activation token", err))
		default:
			c.Error(err)
		}
		return
	}

	h.cookies.setSessionCookies(c, result.AuthToken, result.RefreshToken)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.User,
	})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req domain.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(domain.NewValidationError("Invalid user data", err))
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.Error(domain.NewValidationError("Invalid Email or Password", err))
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.Error(domain.NewValidationError("Email or Password Incorrect", err))
		default:
			c.Error(err)
		}
		return
	}

	h.cookies.setSessionCookies(c, result.AuthToken, result.RefreshToken)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.User,
		"token":   result.AuthToken,
	})
}

// Refresh issues a new auth cookie from the refresh cookie
func (h *AuthHandlers) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		c.Error(domain.NewAuthError(http.StatusUnauthorized, "You are not logged in", domain.ErrUnauthorized))
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenRevoked):
			c.Error(domain.NewAuthError(http.StatusUnauthorized, "Session has been revoked", err))
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidID):
			c.Error(domain.NewAuthError(http.StatusUnauthorized, "User not found", err))
		case errors.Is(err, domain.ErrTokenExpired),
			errors.Is(err, domain.ErrTokenMalformed),
			errors.Is(err, domain.ErrTokenSignatureInvalid),
			errors.Is(err, domain.ErrTokenInvalid):
			c.Error(domain.NewAuthError(http.StatusBadRequest, "Refresh token is not valid", err))
		default:
			c.Error(err)
		}
		return
	}

	h.cookies.set(c, middleware.AuthTokenCookie, result.AuthToken, h.cookies.AuthMaxAge)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   result.AuthToken,
	})
}

// Me returns the user resolved by RequireAuth
func (h *AuthHandlers) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Error(domain.NewAuthError(http.StatusUnauthorized, "You are not logged in", domain.ErrUnauthorized))
		return
	}

	// Re-read so that the response reflects the stored record
	user, err := h.authSvc.GetUserProfile(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.Error(domain.NewNotFoundError("User not found", err))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// Logout clears both session cookies and revokes the tokens they carried
func (h *AuthHandlers) Logout(c *gin.Context) {
	authToken, _ := c.Cookie(middleware.AuthTokenCookie)
	refreshToken, _ := c.Cookie(middleware.RefreshTokenCookie)
	h.cookies.clearSessionCookies(c)

	if err := h.authSvc.Logout(c.Request.Context(), authToken, refreshToken); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.Error(domain.NewAuthError(http.StatusUnauthorized, "You are not logged in", err))
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "logged out successfully",
	})
}
