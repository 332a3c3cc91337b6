package domain

import (
	"context"
	"time"
)

// Notification preference types
const (
	NotifyPersonalRecord = "personal_record"
	NotifyAchievement    = "achievement"
)

// User carries the engine-owned aggregate counters alongside identity.
// CurrentStreak/LongestStreak/LastWorkoutAt are rewritten by the streak
// tracker; TotalVolume is incrementally maintained by the set write path.
type User struct {
	ID                string          `bson:"_id,omitempty" json:"id"`
	Email             string          `bson:"email" json:"email"`
	Name              string          `bson:"name" json:"name"`
	DefaultRestTime   int             `bson:"default_rest_time" json:"default_rest_time"` // seconds
	CurrentStreak     int             `bson:"current_streak" json:"current_streak"`
	LongestStreak     int             `bson:"longest_streak" json:"longest_streak"`
	LastWorkoutAt     *time.Time      `bson:"last_workout_at,omitempty" json:"last_workout_at,omitempty"`
	TotalVolume       float64         `bson:"total_volume" json:"total_volume"` // lifetime kg, sum(weight*reps)
	DeviceTokens      []string        `bson:"device_tokens,omitempty" json:"-"`
	NotificationPrefs map[string]bool `bson:"notification_prefs" json:"notification_prefs"`
	CreatedAt         time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `bson:"updated_at" json:"updated_at"`
}

// IsNotificationEnabled checks whether the user opted in to a notification type
func (u *User) IsNotificationEnabled(prefType string) bool {
	return u.NotificationPrefs[prefType]
}

// UserRepository defines operations for managing users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// UpdateStreak rewrites all three streak fields in a single update so
	// concurrent callers never observe a half-applied transition.
	UpdateStreak(ctx context.Context, userID string, currentStreak, longestStreak int, lastWorkoutAt time.Time) error
	// IncrementTotalVolume applies a signed delta to the lifetime volume counter
	IncrementTotalVolume(ctx context.Context, userID string, delta float64) error
	SetNotificationPref(ctx context.Context, userID string, prefType string, enabled bool) error
	AddDeviceToken(ctx context.Context, userID string, token string) error
}
