package entity

import "time"

// UserEventType names a user lifecycle transition.
type UserEventType string

const (
	UserEventRegistered UserEventType = "user.registered"
	UserEventDeleted    UserEventType = "user.deleted"
)

// UserEvent is published after a user record is written or removed.
type UserEvent struct {
	ID         string        `json:"id"`
	Type       UserEventType `json:"type"`
	Login      string        `json:"login"`
	OccurredAt time.Time     `json:"occurred_at"`
	RequestID  string        `json:"request_id,omitempty"`
}
