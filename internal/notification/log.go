package notification

import (
	"context"
	"log"

	"github.com/mkhalidi/liftpulse/internal/domain"
)

// LogNotifier prints events instead of pushing them. Used when Firebase
// credentials are not configured (local development, tests).
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, user *domain.User, event *domain.NotificationEvent) error {
	log.Printf("notification [%s] to user %s: %s - %s", event.Type, user.ID, event.Title, event.Body)
	return nil
}
