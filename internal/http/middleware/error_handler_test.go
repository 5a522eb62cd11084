package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/logging"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    domain.ErrorKind
		wantStatus  int
		wantMessage string
	}{
		{"validation errors", validation.Errors{"email": errors.New("must be a valid email address")}, domain.KindValidation, 400, "Invalid user data"},
		{"wrapped invalid data", fmt.Errorf("%w: %w", domain.ErrInvalidUserData, errors.New("name too short")), domain.KindValidation, 400, "Invalid user data"},
		{"cast error", fmt.Errorf("%w: abc", domain.ErrInvalidID), domain.KindValidation, 400, "Resource not found. Invalid id"},
		{"duplicate key", domain.ErrUserAlreadyExists, domain.KindConflict, 409, "Duplicate email entered"},
		{"not found", domain.ErrUserNotFound, domain.KindNotFound, 404, "User not found"},
		{"malformed token", domain.ErrTokenMalformed, domain.KindAuth, 401, "Invalid token! Please login again."},
		{"bad signature", domain.ErrTokenSignatureInvalid, domain.KindAuth, 401, "Invalid token! Please login again."},
		{"expired token", domain.ErrTokenExpired, domain.KindAuth, 401, "Your token has expired. Please login again."},
		{"revoked token", domain.ErrTokenRevoked, domain.KindAuth, 401, "Session has been revoked"},
		{"forbidden", domain.ErrInsufficientRole, domain.KindAuth, 403, "You are not authorized to perform this action..."},
		{"delivery", fmt.Errorf("%w: smtp down", domain.ErrDeliveryFailed), domain.KindDelivery, 500, "Failed to send activation email"},
		{"activation code", domain.ErrActivationCodeInvalid, domain.KindValidation, 400, "Invalid activation code"},
		{"gorm record not found", gorm.ErrRecordNotFound, domain.KindNotFound, 404, "Resource not found"},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, domain.KindConflict, 409, "Duplicate email entered"},
		{"postgres unique violation", fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"}), domain.KindConflict, 409, "Duplicate email entered"},
		{"jwt expired", fmt.Errorf("verify: %w", jwt.ErrTokenExpired), domain.KindAuth, 401, "Your token has expired. Please login again."},
		{"jwt malformed", fmt.Errorf("verify: %w", jwt.ErrTokenMalformed), domain.KindAuth, 401, "Invalid token! Please login again."},
		{"uuid length", uuidErr("nope"), domain.KindValidation, 400, "Resource not found. Invalid id"},
		{"uuid format", fmt.Errorf("lookup: %w", uuidErr("zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz")), domain.KindValidation, 400, "Resource not found. Invalid id"},
		{"unknown", errors.New("boom"), domain.KindUnclassified, 500, "Something went very wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.err, got.Err)
		})
	}
}

func uuidErr(s string) error {
	_, err := uuid.Parse(s)
	return err
}

func TestClassify_PassesThroughAppError(t *testing.T) {
	appErr := domain.NewConflictError("User with that email already exists", domain.ErrUserAlreadyExists)
	assert.Same(t, appErr, Classify(fmt.Errorf("wrapped: %w", appErr)))
}

func errorRouter(devMode bool, log *slog.Logger, err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler(devMode, log))
	router.GET("/fail", func(c *gin.Context) { c.Error(err) })
	return router
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		devMode    bool
		err        error
		wantStatus int
		wantDetail bool
		wantLogged bool
	}{
		{"operational error", false, domain.ErrUserAlreadyExists, http.StatusConflict, false, false},
		{"unclassified in production", false, errors.New("pq: connection reset"), http.StatusInternalServerError, false, true},
		{"unclassified in development", true, errors.New("pq: connection reset"), http.StatusInternalServerError, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			router := errorRouter(tt.devMode, logging.New(&logs, "production", "debug"), tt.err)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			_, hasDetail := body["detail"]
			assert.Equal(t, tt.wantDetail, hasDetail)
			assert.Equal(t, tt.wantLogged, bytes.Contains(logs.Bytes(), []byte("unhandled error")))
		})
	}
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	err := fmt.Errorf("%w: %w", domain.ErrInvalidUserData, validation.Errors{
		"email": errors.New("must be a valid email address"),
	})
	router := errorRouter(false, logging.Discard(), err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid user data","details":{"email":"must be a valid email address"}}`, w.Body.String())
}

func TestErrorHandler_KeepsWrittenResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler(false, logging.Discard()))
	router.GET("/fail", func(c *gin.Context) {
		c.Error(domain.ErrInsufficientRole)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Access Denied"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Access Denied"}`, w.Body.String())
}
