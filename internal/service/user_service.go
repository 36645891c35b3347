package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/learning-portal/internal/auth"
	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/events"
	"github.com/spec-kit/learning-portal/internal/repository"
	apperrors "github.com/spec-kit/learning-portal/pkg/util"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// UserService implements account administration. Every method re-checks the
// actor's role, so it stays safe when called from outside a guarded route.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// UserListFilters define listing parameters.
type UserListFilters struct {
	Role   *domain.UserRole
	Active *bool
	Limit  int
	Offset int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, dispatcher: dispatcher, logger: logger}
}

// List returns a page of accounts.
func (s *UserService) List(ctx context.Context, actor *domain.User, filters UserListFilters) ([]domain.User, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if filters.Role != nil && !filters.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"field": "role"})
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultListLimit
	}
	if filters.Limit > maxListLimit {
		filters.Limit = maxListLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	users, err := s.users.List(ctx, repository.UserFilter{
		Role:   filters.Role,
		Active: filters.Active,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

// SetRole changes an account's role. Admins cannot demote themselves.
func (s *UserService) SetRole(ctx context.Context, actor *domain.User, id string, role domain.UserRole) (*domain.User, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"field": "role"})
	}
	if id == actor.ID && role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("admins cannot remove their own admin role", nil)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	if user.Role == role {
		return user, nil
	}

	oldRole := user.Role
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapRepoError(err, "user")
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventRoleChanged, user.ID, events.ActorFor(actor),
		events.RoleChangedPayload{OldRole: oldRole, NewRole: role}))
	return user, nil
}

// SetStatus enables or soft-disables an account. A disabled account can no
// longer log in, and its outstanding tokens stop resolving.
func (s *UserService) SetStatus(ctx context.Context, actor *domain.User, id string, active bool) (*domain.User, error) {
	if err := auth.Authorize(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if id == actor.ID && !active {
		return nil, apperrors.NewValidationError("admins cannot disable their own account", nil)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	if user.IsActive == active {
		return user, nil
	}

	user.IsActive = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapRepoError(err, "user")
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventStatusChanged, user.ID, events.ActorFor(actor),
		events.StatusChangedPayload{Active: active}))
	return user, nil
}
