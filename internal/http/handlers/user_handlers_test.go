package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShujaShah/starte/domain"
	"github.com/ShujaShah/starte/internal/mocks"
)

const existingID = "22222222-2222-2222-2222-222222222222"

func userRouter(svc *mocks.MockUserService) *gin.Engine {
	h := NewUserHandlers(svc)
	r := newTestRouter()
	r.GET("/users/all", h.List)
	r.GET("/users/:id", h.Get)
	r.PATCH("/users/:id", h.Update)
	r.DELETE("/users/:id", h.Delete)
	r.PATCH("/admin/users/:id/role", h.ChangeRole)
	return r
}

func storedUser(id string) *domain.User {
	return &domain.User{ID: id, Email: "abe@example.com", Name: "Abe", Role: domain.RoleUser, Courses: []domain.CourseRef{}}
}

func lookup(id string) (*domain.User, error) {
	if id == existingID {
		return storedUser(id), nil
	}
	if id == "not-a-uuid" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, id)
	}
	return nil, domain.ErrUserNotFound
}

func TestUserHandlers_Get(t *testing.T) {
	svc := mocks.NewMockUserService()
	svc.GetFunc = func(ctx context.Context, id string) (*domain.User, error) { return lookup(id) }
	r := userRouter(svc)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
		expectedError  string
	}{
		{"existing", existingID, http.StatusCreated, ""},
		{"unknown", "33333333-3333-3333-3333-333333333333", http.StatusBadRequest, "user not found"},
		{"malformed id", "not-a-uuid", http.StatusBadRequest, "user not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, "/users/"+tt.id, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
				return
			}
			data := body["data"].(map[string]any)
			assert.Equal(t, existingID, data["id"])
		})
	}
}

func TestUserHandlers_List(t *testing.T) {
	svc := mocks.NewMockUserService()
	svc.ListFunc = func(ctx context.Context) ([]*domain.User, int64, error) {
		return []*domain.User{storedUser(existingID), storedUser("44444444-4444-4444-4444-444444444444")}, 2, nil
	}

	w := doJSON(t, userRouter(svc), http.MethodGet, "/users/all", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["data"], 2)
}

func TestUserHandlers_Update(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           any
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "updates name and email",
			id:             existingID,
			body:           gin.H{"name": "Abraham", "email": "abraham@example.com"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unknown id",
			id:             "33333333-3333-3333-3333-333333333333",
			body:           gin.H{"name": "Abraham", "email": "abraham@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "No user with the given id found",
		},
		{
			name:           "invalid body",
			id:             existingID,
			body:           gin.H{"name": "A", "email": "nope"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid user data",
		},
		{
			name:           "email taken",
			id:             existingID,
			body:           gin.H{"name": "Abraham", "email": "taken@example.com"},
			expectedStatus: http.StatusConflict,
			expectedError:  "Duplicate email entered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockUserService()
			svc.UpdateFunc = func(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
				if err := update.Validate(); err != nil {
					return nil, fmt.Errorf("%w: %w", domain.ErrInvalidUserData, err)
				}
				if update.Email == "taken@example.com" {
					return nil, domain.ErrUserAlreadyExists
				}
				user, err := lookup(id)
				if err != nil {
					return nil, err
				}
				user.Name, user.Email = update.Name, update.Email
				return user, nil
			}

			w := doJSON(t, userRouter(svc), http.MethodPatch, "/users/"+tt.id, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
				return
			}
			user := body["user"].(map[string]any)
			assert.Equal(t, "Abraham", user["name"])
			assert.Equal(t, "abraham@example.com", user["email"])
		})
	}
}

func TestUserHandlers_InvalidBodyCarriesDetails(t *testing.T) {
	svc := mocks.NewMockUserService()
	svc.UpdateFunc = func(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidUserData, update.Validate())
	}

	w := doJSON(t, userRouter(svc), http.MethodPatch, "/users/"+existingID, gin.H{"name": "Abraham", "email": "nope"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	details, ok := decode(t, w)["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "email")
}

func TestUserHandlers_Delete(t *testing.T) {
	svc := mocks.NewMockUserService()
	svc.DeleteFunc = func(ctx context.Context, id string) error {
		_, err := lookup(id)
		return err
	}
	r := userRouter(svc)

	w := doJSON(t, r, http.MethodDelete, "/users/"+existingID, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user successfully deleted", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodDelete, "/users/33333333-3333-3333-3333-333333333333", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user with the given id does not exist", decode(t, w)["error"])
}

func TestUserHandlers_ChangeRole(t *testing.T) {
	svc := mocks.NewMockUserService()
	svc.ChangeRoleFunc = func(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
		if !role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidUserData, role)
		}
		user, err := lookup(id)
		if err != nil {
			return nil, err
		}
		user.Role = role
		return user, nil
	}
	r := userRouter(svc)

	w := doJSON(t, r, http.MethodPatch, "/admin/users/"+existingID+"/role", ChangeRoleRequest{Role: domain.RoleInstructor})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "instructor", decode(t, w)["user"].(map[string]any)["role"])

	w = doJSON(t, r, http.MethodPatch, "/admin/users/"+existingID+"/role", ChangeRoleRequest{Role: "root"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid user data", decode(t, w)["error"])
}
