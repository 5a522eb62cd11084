package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/ShujaShah/starte/domain"
)

// Classify maps a raw error into the response taxonomy. It does not mutate err.
func Classify(err error) *domain.AppError {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrInvalidUserData), errors.Is(err, domain.ErrRoleNotAllowed):
		return domain.NewValidationError("Invalid user data", err)
	case errors.Is(err, domain.ErrInvalidID):
		return domain.NewValidationError("Resource not found. Invalid id", err)
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return domain.NewConflictError("Duplicate email entered", err)
	case errors.Is(err, domain.ErrUserNotFound):
		return domain.NewNotFoundError("User not found", err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return domain.NewValidationError("Email or Password Incorrect", err)
	case errors.Is(err, domain.ErrActivationCodeInvalid):
		return domain.NewValidationError("Invalid activation code", err)
	case errors.Is(err, domain.ErrActivationExpired):
		return domain.NewValidationError("Activation token has expired", err)
	case errors.Is(err, domain.ErrTokenExpired):
		return domain.NewAuthError(http.StatusUnauthorized, "Your token has expired. Please login again.", err)
	case errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenSignatureInvalid),
		errors.Is(err, domain.ErrTokenInvalid):
		return domain.NewAuthError(http.StatusUnauthorized, "Invalid token! Please login again.", err)
	case errors.Is(err, domain.ErrTokenRevoked):
		return domain.NewAuthError(http.StatusUnauthorized, "Session has been revoked", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return domain.NewAuthError(http.StatusUnauthorized, "You are not logged in", err)
	case errors.Is(err, domain.ErrInsufficientRole):
		return domain.NewAuthError(http.StatusForbidden, "You are not authorized to perform this action...", err)
	case errors.Is(err, domain.ErrDeliveryFailed):
		return domain.NewDeliveryError("Failed to send activation email", err)
	}

	// Store and token errors that escaped translation at their origin
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NewNotFoundError("Resource not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return domain.NewConflictError("Duplicate email entered", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.NewAuthError(http.StatusUnauthorized, "Your token has expired. Please login again.", err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return domain.NewAuthError(http.StatusUnauthorized, "Invalid token! Please login again.", err)
	case isUUIDParseError(err):
		return domain.NewValidationError("Resource not found. Invalid id", err)
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return domain.NewValidationError("Invalid user data", err)
	}
	return domain.NewUnclassifiedError(err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isUUIDParseError walks the chain for google/uuid parse failures, which
// carry no sentinel apart from the length error type.
func isUUIDParseError(err error) bool {
	if err == nil {
		return false
	}
	if uuid.IsInvalidLengthError(err) {
		return true
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "invalid UUID") ||
		strings.HasPrefix(msg, "invalid urn prefix") ||
		strings.HasPrefix(msg, "invalid bracketed UUID") {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return isUUIDParseError(u.Unwrap())
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if isUUIDParseError(e) {
				return true
			}
		}
	}
	return false
}

// ErrorResponse renders a classified error in the shared error shape
func ErrorResponse(appErr *domain.AppError, devMode bool) gin.H {
	body := gin.H{"success": false, "error": appErr.Message}

	var verrs validation.Errors
	if errors.As(appErr.Err, &verrs) {
		body["details"] = verrs
	}
	if devMode && !appErr.Operational() && appErr.Err != nil {
		body["detail"] = appErr.Err.Error()
	}
	return body
}

// ErrorHandler renders the last error attached with c.Error when no response
// has been written yet. Unclassified errors are logged in full and reported
// to the client with a generic message outside development mode.
func ErrorHandler(devMode bool, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr := Classify(err)
		if !appErr.Operational() {
			log.ErrorContext(c.Request.Context(), "unhandled error",
				"error", err,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(appErr.Status, ErrorResponse(appErr, devMode))
	}
}
