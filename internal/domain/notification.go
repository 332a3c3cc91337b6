package domain

import (
	"context"
	"time"
)

// NotificationEvent is the payload handed to the Notifier when derived
// state improves. The engine decides whether to notify; delivery is fully
// delegated to the Notifier implementation.
type NotificationEvent struct {
	ID        string            `json:"id"` // ULID
	UserID    string            `json:"user_id"`
	Type      string            `json:"type"` // NotifyPersonalRecord or NotifyAchievement
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Notifier delivers notification events to a user's devices
type Notifier interface {
	Notify(ctx context.Context, user *User, event *NotificationEvent) error
}
