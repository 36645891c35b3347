package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/learning-portal/internal/domain"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.Subscribe(EventLoginSucceeded, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), New(EventLoginSucceeded, "u1", Actor{}, nil)))
	require.NoError(t, d.Publish(context.Background(), New(EventLoginFailed, "", Actor{}, nil)))

	assert.Equal(t, []EventType{EventLoginSucceeded}, got)
}

func TestDispatcher_RunsAllHandlersOnError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	calls := 0
	d.Subscribe(EventRoleChanged, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventRoleChanged, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), New(EventRoleChanged, "u1", Actor{}, nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestActorFor(t *testing.T) {
	assert.Nil(t, ActorFor(nil).UserID)

	actor := ActorFor(&domain.User{ID: "u1", Username: "admin"})
	require.NotNil(t, actor.UserID)
	assert.Equal(t, "u1", *actor.UserID)
	assert.Equal(t, "admin", actor.Username)
}

func TestNew_StampsEvent(t *testing.T) {
	e := New(EventPasswordChanged, "u1", Actor{}, nil)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "u1", e.SubjectID)
}
