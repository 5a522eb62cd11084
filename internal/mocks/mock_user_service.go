package mocks

import (
	"context"

	"github.com/ShujaShah/starte/domain"
)

// MockUserService implements domain.UserService interface for testing
type MockUserService struct {
	GetFunc        func(ctx context.Context, id string) (*domain.User, error)
	ListFunc       func(ctx context.Context) ([]*domain.User, int64, error)
	UpdateFunc     func(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	DeleteFunc     func(ctx context.Context, id string) error
	ChangeRoleFunc func(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}

// NewMockUserService creates a new MockUserService with default behaviors
func NewMockUserService() *MockUserService {
	return &MockUserService{}
}

// Get returns a user
func (m *MockUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return mockUser(id, "mock@example.com"), nil
}

// List returns every user and the total count
func (m *MockUserService) List(ctx context.Context) ([]*domain.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*domain.User{}, 0, nil
}

// Update changes a profile
func (m *MockUserService) Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, update)
	}
	user := mockUser(id, update.Email)
	user.Name = update.Name
	user.Avatar = update.Avatar
	return user, nil
}

// Delete removes a user
func (m *MockUserService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// ChangeRole sets a user's role
func (m *MockUserService) ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if m.ChangeRoleFunc != nil {
		return m.ChangeRoleFunc(ctx, id, role)
	}
	user := mockUser(id, "mock@example.com")
	user.Role = role
	return user, nil
}

// Compile-time interface compliance verification
var _ domain.UserService = (*MockUserService)(nil)
