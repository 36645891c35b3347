package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/events"
)

func TestAuditService_LogsEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, zap.New(core)).RegisterHandlers()
	ctx := context.Background()

	admin := &domain.User{ID: "admin-id", Username: "admin"}
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventRoleChanged, "user-id", events.ActorFor(admin),
		events.RoleChangedPayload{OldRole: domain.RoleUser, NewRole: domain.RoleAdmin})))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventLoginFailed, "", events.Actor{Username: "ghost"},
		events.LoginFailedPayload{Username: "ghost", Reason: "unknown_user"})))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "role_changed", entries[0].Message)
	assert.Equal(t, "audit", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.Equal(t, "user-id", fields["subject_id"])
	assert.Equal(t, "admin-id", fields["actor_id"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "ghost", entries[1].ContextMap()["actor"])
}

func TestAuditService_LoginFlowIsAudited(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	env := newTestEnv(t)
	NewAuditService(env.dispatcher, zap.New(core)).RegisterHandlers()
	env.createUser(t, "alice", domain.RoleUser, "secret-1")

	_, _, err := env.authService().Login(context.Background(), "alice", "secret-1")
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("login_succeeded").Len())
}
