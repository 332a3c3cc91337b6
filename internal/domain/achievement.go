package domain

import (
	"context"
	"time"
)

// Achievement criterion types
const (
	AchievementCount        = "count"         // lifetime workout count
	AchievementWeightRecord = "weight_record" // lifetime max single-set weight
	AchievementVolumeTotal  = "volume_total"  // lifetime total volume
	AchievementStreak       = "streak"        // longest run of consecutive workout days
)

// Achievement is an immutable catalog entry. The engine never mutates the
// catalog; it only evaluates definitions against a stats snapshot.
type Achievement struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Slug        string    `json:"slug" bson:"slug"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Icon        string    `json:"icon" bson:"icon"`
	Type        string    `json:"type" bson:"type"`
	Threshold   float64   `json:"threshold" bson:"threshold"`
	Category    string    `json:"category" bson:"category"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// UnlockedBy evaluates the achievement criterion against a stats snapshot.
// Unrecognized types fail closed: they never unlock.
func (a *Achievement) UnlockedBy(stats *UserStats) bool {
	if stats == nil {
		return false
	}
	switch a.Type {
	case AchievementCount:
		return float64(stats.WorkoutCount) >= a.Threshold
	case AchievementWeightRecord:
		return stats.MaxSetWeight >= a.Threshold
	case AchievementVolumeTotal:
		return stats.TotalVolume >= a.Threshold
	case AchievementStreak:
		return float64(stats.MaxConsecutiveDays()) >= a.Threshold
	default:
		return false
	}
}

// UserAchievement joins a user to an unlocked achievement. Rows are
// append-only: once unlocked, never re-evaluated or revoked.
type UserAchievement struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	UserID        string    `json:"user_id" bson:"user_id"`
	AchievementID string    `json:"achievement_id" bson:"achievement_id"`
	AchievedAt    time.Time `json:"achieved_at" bson:"achieved_at"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// AchievementWithStatus decorates a catalog entry with the caller's unlock state
type AchievementWithStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
}

// AchievementRepository handles the read-only achievements catalog
type AchievementRepository interface {
	// Upsert creates or updates a catalog entry by slug (seeding only)
	Upsert(ctx context.Context, achievement *Achievement) error
	GetAll(ctx context.Context) ([]*Achievement, error)
	// GetAllExcept retrieves catalog entries whose IDs are not in the given set
	GetAllExcept(ctx context.Context, excludeIDs []string) ([]*Achievement, error)
}

// UserAchievementRepository handles the append-only user_achievements join
type UserAchievementRepository interface {
	// AchievementIDs lists the achievement IDs the user has unlocked
	AchievementIDs(ctx context.Context, userID string) ([]string, error)
	// Unlock inserts the join row. Returns false without error when the row
	// already exists, so racing syncs cannot double-fire.
	Unlock(ctx context.Context, userID, achievementID string, achievedAt time.Time) (bool, error)
	GetByUser(ctx context.Context, userID string) ([]*UserAchievement, error)
}
