package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/learning-portal/internal/domain"
)

func newTestUser(username string, role domain.UserRole) *domain.User {
	return &domain.User{
		Username:     username,
		FullName:     "User " + username,
		Email:        username + "@example.edu",
		PasswordHash: "$2a$04$placeholder",
		Role:         role,
		IsActive:     true,
	}
}

func TestMemoryUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := newTestUser("alice", domain.RoleUser)
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.edu")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserRepository_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, newTestUser("alice", domain.RoleUser)))

	sameName := newTestUser("alice", domain.RoleUser)
	sameName.Email = "other@example.edu"
	assert.ErrorIs(t, repo.Create(ctx, sameName), ErrDuplicate)

	sameEmail := newTestUser("bob", domain.RoleUser)
	sameEmail.Email = "Alice@Example.edu"
	assert.ErrorIs(t, repo.Create(ctx, sameEmail), ErrDuplicate)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryUserRepository_UpdateKeepsUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := newTestUser("alice", domain.RoleUser)
	require.NoError(t, repo.Create(ctx, user))

	changed := *user
	changed.Username = "mallory"
	changed.Role = domain.RoleAdmin
	require.NoError(t, repo.Update(ctx, &changed))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, domain.RoleAdmin, stored.Role)

	ghost := newTestUser("ghost", domain.RoleUser)
	ghost.ID = "does-not-exist"
	assert.ErrorIs(t, repo.Update(ctx, ghost), ErrNotFound)
}

func TestMemoryUserRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, newTestUser("admin", domain.RoleAdmin)))
	require.NoError(t, repo.Create(ctx, newTestUser("bob", domain.RoleUser)))
	disabled := newTestUser("carol", domain.RoleUser)
	disabled.IsActive = false
	require.NoError(t, repo.Create(ctx, disabled))

	all, err := repo.List(ctx, UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	role := domain.RoleUser
	active := true
	filtered, err := repo.List(ctx, UserFilter{Role: &role, Active: &active})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "bob", filtered[0].Username)

	page, err := repo.List(ctx, UserFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	empty, err := repo.List(ctx, UserFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)

	counts, err := repo.CountByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.RoleAdmin])
	assert.Equal(t, 2, counts[domain.RoleUser])

	activeCount, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, activeCount)
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := newTestUser("alice", domain.RoleUser)
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	got.Role = domain.RoleAdmin

	again, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, again.Role)
}

func TestMemoryDepartmentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDepartmentRepository()

	for _, code := range []string{"K10", "K2", "K1"} {
		require.NoError(t, repo.Create(ctx, &domain.Department{Code: code, Name: "Khoa " + code}))
	}
	assert.ErrorIs(t, repo.Create(ctx, &domain.Department{Code: "K1", Name: "dup"}), ErrDuplicate)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"K1", "K2", "K10"}, []string{list[0].Code, list[1].Code, list[2].Code})

	dept, err := repo.GetByCode(ctx, "K2")
	require.NoError(t, err)
	assert.Equal(t, "Khoa K2", dept.Name)

	_, err = repo.GetByCode(ctx, "K99")
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
