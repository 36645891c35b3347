package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/learning-portal/internal/auth"
	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/events"
	"github.com/spec-kit/learning-portal/internal/observability"
	"github.com/spec-kit/learning-portal/internal/repository"
	apperrors "github.com/spec-kit/learning-portal/pkg/util"
)

const tokenTypeBearer = "Bearer"

// Login failure reasons. They reach the audit log and never the client.
const (
	loginUnknownUser   = "unknown_user"
	loginWrongPassword = "wrong_password"
	loginInactiveUser  = "inactive_user"
)

// AuthService coordinates registration, login and self-service account flows.
type AuthService struct {
	users      repository.UserRepository
	hasher     *auth.Hasher
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates the collaborators of AuthService.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Hasher     *auth.Hasher
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput carries the self-registration form.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

// ProfileInput carries profile changes. Nil fields are left untouched.
type ProfileInput struct {
	FullName *string
	Email    *string
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		hasher:     deps.Hasher,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Login verifies the username/password pair and issues a session. Unknown
// users, wrong passwords and disabled accounts all yield the same
// INVALID_CREDENTIALS error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, domain.Session, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Session{}, apperrors.NewInternalError(err)
		}
		s.hasher.VerifyDummy(ctx, password)
		return nil, domain.Session{}, s.loginFailed(ctx, username, loginUnknownUser)
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return nil, domain.Session{}, s.loginFailed(ctx, username, loginWrongPassword)
	}
	if !user.IsActive {
		return nil, domain.Session{}, s.loginFailed(ctx, username, loginInactiveUser)
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, domain.Session{}, err
	}
	observability.LoginsTotal.WithLabelValues("success").Inc()
	s.publish(ctx, events.New(events.EventLoginSucceeded, user.ID, events.ActorFor(user), nil))
	return user, session, nil
}

func (s *AuthService) loginFailed(ctx context.Context, username, reason string) error {
	observability.LoginsTotal.WithLabelValues("failure").Inc()
	s.publish(ctx, events.New(events.EventLoginFailed, "", events.Actor{Username: username},
		events.LoginFailedPayload{Username: username, Reason: reason}))
	return apperrors.NewInvalidCredentials()
}

// Register creates a USER account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, domain.Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)

	for _, err := range []error{
		validateUsername(in.Username),
		validateEmail(in.Email),
		validateFullName(in.FullName),
		validatePassword("password", in.Password),
	} {
		if err != nil {
			return nil, domain.Session{}, err
		}
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, domain.Session{}, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Session{}, apperrors.NewConflict("username or email already registered", nil)
		}
		return nil, domain.Session{}, apperrors.NewInternalError(err)
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, domain.Session{}, err
	}
	s.publish(ctx, events.New(events.EventUserRegistered, user.ID, events.ActorFor(user), nil))
	return user, session, nil
}

// UpdateProfile changes the caller's full name and/or email.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *domain.User, in ProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if err := validateFullName(name); err != nil {
			return nil, err
		}
		user.FullName = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new digest.
// Sessions issued earlier stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.User, currentPassword, newPassword string) error {
	if err := validatePassword("new_password", newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return mapRepoError(err, "user")
	}
	if !s.hasher.Verify(ctx, currentPassword, user.PasswordHash) {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return mapRepoError(err, "user")
	}

	s.publish(ctx, events.New(events.EventPasswordChanged, user.ID, events.ActorFor(user), nil))
	return nil
}

func (s *AuthService) issue(user *domain.User) (domain.Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return domain.Session{}, apperrors.NewInternalError(err)
	}
	return domain.Session{Token: token, TokenType: tokenTypeBearer, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func mapRepoError(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, nil)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict(resource+" already exists", nil)
	}
	return apperrors.MapError(err)
}
