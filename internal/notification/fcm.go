package notification

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/mkhalidi/liftpulse/internal/domain"
)

// FCMNotifier delivers notification events as FCM push messages to every
// device token registered on the user.
type FCMNotifier struct {
	client *messaging.Client
}

func NewFCMNotifier(app *firebase.App) (*FCMNotifier, error) {
	client, err := app.Messaging(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FCM client: %w", err)
	}
	return &FCMNotifier{
		client: client,
	}, nil
}

// Notify fans the event out to the user's devices. One dead token does not
// stop delivery to the others.
func (n *FCMNotifier) Notify(ctx context.Context, user *domain.User, event *domain.NotificationEvent) error {
	if len(user.DeviceTokens) == 0 {
		return nil
	}

	data := map[string]string{
		"event_id": event.ID,
		"type":     event.Type,
	}
	for k, v := range event.Data {
		data[k] = v
	}

	var lastErr error
	for _, token := range user.DeviceTokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: event.Title,
				Body:  event.Body,
			},
			Data: data,
		}
		if _, err := n.client.Send(ctx, msg); err != nil {
			log.Printf("Warning: FCM send failed for user %s: %v", user.ID, err)
			lastErr = err
		}
	}
	return lastErr
}
