package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/learning-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered        EventType = "user_registered"
	EventLoginSucceeded        EventType = "login_succeeded"
	EventLoginFailed           EventType = "login_failed"
	EventRoleChanged           EventType = "role_changed"
	EventStatusChanged         EventType = "status_changed"
	EventPasswordChanged       EventType = "password_changed"
	EventBootstrapAdminCreated EventType = "bootstrap_admin_created"
)

// Actor identifies who triggered an event. UserID is nil for anonymous or
// system actions.
type Actor struct {
	UserID   *string `json:"user_id,omitempty"`
	Username string  `json:"username,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New stamps an event with an ID and the current time.
func New(eventType EventType, subjectID string, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ActorFor builds an Actor from user. A nil user yields the system actor.
func ActorFor(user *domain.User) Actor {
	if user == nil {
		return Actor{}
	}
	id := user.ID
	return Actor{UserID: &id, Username: user.Username}
}

// LoginFailedPayload payload. Reason is internal only and never sent to clients.
type LoginFailedPayload struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// RoleChangedPayload payload.
type RoleChangedPayload struct {
	OldRole domain.UserRole `json:"old_role"`
	NewRole domain.UserRole `json:"new_role"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	Active bool `json:"active"`
}
