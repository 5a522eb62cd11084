package services

import (
	"context"
	"fmt"

	"github.com/ShujaShah/starte/domain"
)

// UserServiceImpl implements domain.UserService
type UserServiceImpl struct {
	userRepo domain.UserRepository
	auditor  domain.AuditLogger
}

// NewUserService creates a new profile service
func NewUserService(userRepo domain.UserRepository, auditor domain.AuditLogger) domain.UserService {
	return &UserServiceImpl{userRepo: userRepo, auditor: auditor}
}

// Get implements domain.UserService
func (s *UserServiceImpl) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// List implements domain.UserService
func (s *UserServiceImpl) List(ctx context.Context) ([]*domain.User, int64, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

// Update implements domain.UserService. Name and email are replaced; the avatar
// only when one is supplied.
func (s *UserServiceImpl) Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	update.Email = domain.NormalizeEmail(update.Email)
	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidUserData, err)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = update.Name
	user.Email = update.Email
	if update.Avatar != nil {
		user.Avatar = update.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete implements domain.UserService
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}

// ChangeRole implements domain.UserService. This is the only path that alters a role.
func (s *UserServiceImpl) ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidUserData, role)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := user.Role
	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.auditor != nil {
		s.auditor.LogEvent(ctx, domain.NewAuditEvent(domain.RoleChangedEvent, user.ID).
			WithEmail(user.Email).
			WithMetadata("from", string(previous)).
			WithMetadata("to", string(role)).
			WithClientContext(domain.ClientContextFrom(ctx)))
	}
	return user, nil
}
