package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/persistence"
	"github.com/spec-kit/learning-portal/internal/repository"
)

// setupPostgres starts a PostgreSQL container and applies migrations.
// Tests are skipped when Docker is not available.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("portal_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))
	return pool
}

func TestPostgresUserRepository(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := repository.NewUserRepository(pool)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	alice := repository.NewTestUser("alice", domain.RoleUser)
	require.NoError(t, repo.Create(ctx, alice))
	require.NotEmpty(t, alice.ID)

	dup := repository.NewTestUser("alice", domain.RoleUser)
	dup.Email = "another@example.edu"
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicate)

	sameEmail := repository.NewTestUser("bob", domain.RoleUser)
	sameEmail.Email = "ALICE@example.edu"
	assert.ErrorIs(t, repo.Create(ctx, sameEmail), repository.ErrDuplicate)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.True(t, got.IsActive)

	got.Role = domain.RoleAdmin
	got.IsActive = false
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, reloaded.Role)
	assert.False(t, reloaded.IsActive)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Create(ctx, repository.NewTestUser("bob", domain.RoleUser)))
	role := domain.RoleUser
	users, err := repo.List(ctx, repository.UserFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	counts, err := repo.CountByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.RoleAdmin])
	assert.Equal(t, 1, counts[domain.RoleUser])

	active, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, active)
}

func TestPostgresDepartmentRepository(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	repo := repository.NewDepartmentRepository(pool)

	for _, code := range []string{"K10", "K2", "K1"} {
		require.NoError(t, repo.Create(ctx, &domain.Department{Code: code, Name: "Khoa " + code}))
	}
	assert.ErrorIs(t, repo.Create(ctx, &domain.Department{Code: "K1", Name: "dup"}), repository.ErrDuplicate)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "K1", list[0].Code)
	assert.Equal(t, "K10", list[2].Code)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	dept, err := repo.GetByCode(ctx, "K2")
	require.NoError(t, err)
	assert.Equal(t, "Khoa K2", dept.Name)
}
