package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/repository"
	apperrors "github.com/spec-kit/shop-service/pkg/util/errorutil"
)

// UserUpdateInput carries optional profile changes. Nil fields are left untouched.
type UserUpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Roles     []string
}

// UserService manages account lifecycle for already authenticated callers.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

// ListActive returns every active account.
func (s *UserService) ListActive(ctx context.Context) ([]domain.User, error) {
	return s.users.ListActive(ctx)
}

// Get returns one account by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// Deactivate marks the account inactive.
func (s *UserService) Deactivate(ctx context.Context, user *domain.User) error {
	if !user.Active {
		return apperrors.NewBadRequest("account is already deactivated")
	}
	now := time.Now().UTC()
	user.Active = false
	user.DeletedAt = &now
	return s.users.Update(ctx, user)
}

// Reactivate restores an inactive account.
func (s *UserService) Reactivate(ctx context.Context, user *domain.User) error {
	if user.Active {
		return apperrors.NewBadRequest("account is already active")
	}
	user.Active = true
	user.DeletedAt = nil
	return s.users.Update(ctx, user)
}

// Delete removes the caller's account. Admin accounts cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, user *domain.User) error {
	if user.HasRole(domain.RoleAdmin) {
		return apperrors.NewForbidden("admin accounts cannot be deleted")
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", user.ID))
	return nil
}

// Update applies profile changes to the target account. Callers may edit themselves;
// admins may edit anyone and are the only ones allowed to change roles.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id string, input UserUpdateInput) (*domain.User, error) {
	isAdmin := actor.HasRole(domain.RoleAdmin)
	if actor.ID != id && !isAdmin {
		return nil, apperrors.NewForbidden("you are not permitted to perform this action")
	}

	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewValidationError("invalid email address", nil)
		}
		if email != target.Email {
			if _, err := s.users.GetByEmail(ctx, email); err == nil {
				return nil, apperrors.NewConflict("email already in use", nil)
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
			target.Email = email
			target.Verified = false
		}
	}
	if input.FirstName != nil {
		target.FirstName = input.FirstName
	}
	if input.LastName != nil {
		target.LastName = input.LastName
	}
	if input.Roles != nil {
		if !isAdmin {
			return nil, apperrors.NewForbidden("only admins can change roles")
		}
		roles, err := domain.ParseRoles(input.Roles)
		if err != nil || len(roles) == 0 {
			return nil, apperrors.NewValidationError("invalid roles", map[string]any{"roles": input.Roles})
		}
		target.Roles = roles
	}

	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}
