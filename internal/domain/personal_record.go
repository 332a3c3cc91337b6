package domain

import (
	"context"
	"time"
)

// Personal record metric types
const (
	MetricMaxWeight    = "max_weight"     // heaviest single-set weight
	MetricMax1RM       = "max_1rm"        // highest Epley-estimated one-rep max
	MetricMaxVolumeSet = "max_volume_set" // highest weight*reps in one set
)

// PersonalRecord tracks a user's best for one exercise along one metric.
// At most one row exists per (user, exercise, metric); the value only moves
// up: a new set overwrites the record iff it is strictly greater.
type PersonalRecord struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	UserID         string    `json:"user_id" bson:"user_id"`
	ExerciseID     string    `json:"exercise_id" bson:"exercise_id"`
	Metric         string    `json:"metric" bson:"metric"`
	Value          float64   `json:"value" bson:"value"`
	SecondaryValue *float64  `json:"secondary_value,omitempty" bson:"secondary_value,omitempty"` // context, e.g. reps for max_weight
	WorkoutID      string    `json:"workout_id" bson:"workout_id"`
	SetID          string    `json:"set_id" bson:"set_id"`
	AchievedAt     time.Time `json:"achieved_at" bson:"achieved_at"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// PersonalRecordRepository handles the personal_records collection
type PersonalRecordRepository interface {
	// GetByUserAndExercise fetches all of a user's records for one exercise
	// in a single query, keyed by metric type.
	GetByUserAndExercise(ctx context.Context, userID, exerciseID string) (map[string]*PersonalRecord, error)
	// Save upserts a record on its (user, exercise, metric) key
	Save(ctx context.Context, pr *PersonalRecord) error
	GetByUser(ctx context.Context, userID string) ([]*PersonalRecord, error)
	// MaxValue returns the highest record value across all exercises for one
	// metric, 0 if the user holds no records of that metric.
	MaxValue(ctx context.Context, userID, metric string) (float64, error)
}
