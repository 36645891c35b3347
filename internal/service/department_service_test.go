package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/learning-portal/internal/domain"
)

func TestDashboardService_Stats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.bootstrapper().Run(ctx)
	require.NoError(t, err)
	disabled := env.createUser(t, "alice", domain.RoleUser, "secret-1")
	disabled.IsActive = false
	require.NoError(t, env.users.Update(ctx, disabled))

	stats, err := NewDashboardService(env.users, env.departments).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveUsers)
	assert.Equal(t, 1, stats.UsersByRole[domain.RoleAdmin])
	assert.Equal(t, 1, stats.UsersByRole[domain.RoleUser])
	assert.Equal(t, 14, stats.Departments)
}

func TestDepartmentService_List(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.bootstrapper().Run(context.Background())
	require.NoError(t, err)

	departments, err := NewDepartmentService(env.departments).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, departments, 14)
}
