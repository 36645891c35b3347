package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/learning-portal/internal/auth"
	"github.com/spec-kit/learning-portal/internal/config"
	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/events"
	"github.com/spec-kit/learning-portal/internal/repository"
	"github.com/spec-kit/learning-portal/internal/worker"
)

type testEnv struct {
	users       *repository.MemoryUserRepository
	departments *repository.MemoryDepartmentRepository
	hasher      *auth.Hasher
	tokens      *auth.TokenManager
	dispatcher  events.Dispatcher
	published   []events.Event
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:       repository.NewMemoryUserRepository(),
		departments: repository.NewMemoryDepartmentRepository(),
		hasher:      auth.NewHasher(bcrypt.MinCost, worker.NewPool(2)),
		tokens:      auth.NewTokenManager("test-secret", 30, "test"),
		dispatcher:  events.NewInMemoryDispatcher(),
	}
	record := func(_ context.Context, e events.Event) error {
		env.published = append(env.published, e)
		return nil
	}
	for _, et := range []events.EventType{
		events.EventUserRegistered,
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventRoleChanged,
		events.EventStatusChanged,
		events.EventPasswordChanged,
		events.EventBootstrapAdminCreated,
	} {
		env.dispatcher.Subscribe(et, record)
	}
	return env
}

func (e *testEnv) authService() *AuthService {
	return NewAuthService(AuthDependencies{
		UserRepo:   e.users,
		Hasher:     e.hasher,
		Tokens:     e.tokens,
		Dispatcher: e.dispatcher,
		Logger:     zap.NewNop(),
	})
}

func (e *testEnv) bootstrapper() *Bootstrapper {
	return NewBootstrapper(config.BootstrapConfig{
		Enabled:       true,
		AdminUsername: "admin",
		AdminPassword: "admin123",
		AdminEmail:    "admin@sqct.edu.vn",
		AdminFullName: "Quản trị viên",
	}, BootstrapDependencies{
		UserRepo:       e.users,
		DepartmentRepo: e.departments,
		Hasher:         e.hasher,
		Dispatcher:     e.dispatcher,
	})
}

func (e *testEnv) createUser(t *testing.T, username string, role domain.UserRole, password string) *domain.User {
	t.Helper()
	hash, err := e.hasher.Hash(context.Background(), password)
	require.NoError(t, err)
	user := &domain.User{
		Username:     username,
		Email:        username + "@sqct.edu.vn",
		FullName:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) eventTypes() []events.EventType {
	types := make([]events.EventType, 0, len(e.published))
	for _, ev := range e.published {
		types = append(types, ev.Type)
	}
	return types
}
