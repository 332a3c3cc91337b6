package domain

import (
	"context"
	"errors"
	"time"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// Workout is one training session. A workout with no EndedAt is still in
// progress; it already counts toward streaks and PRs (the trigger points
// fire on save, not only on completion).
type Workout struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	UserID    string     `json:"user_id" bson:"user_id"`
	Name      string     `json:"name" bson:"name"`
	StartedAt time.Time  `json:"started_at" bson:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
	Volume    float64    `json:"volume" bson:"volume"` // denormalized sum(weight*reps) of its sets
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// InProgress reports whether the session has not been closed yet
func (w *Workout) InProgress() bool {
	return w.EndedAt == nil
}

// WorkoutRepository handles the workouts collection
type WorkoutRepository interface {
	Create(ctx context.Context, workout *Workout) error
	GetByID(ctx context.Context, id string) (*Workout, error)
	// GetByUser retrieves workouts sorted by start time descending
	GetByUser(ctx context.Context, userID string, limit int) ([]*Workout, error)
	// LatestByUser returns the most recent workout by start time, or nil if none
	LatestByUser(ctx context.Context, userID string) (*Workout, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// WorkoutDates returns the distinct calendar dates ("2006-01-02", UTC) with
	// at least one workout started since the given time, newest first.
	WorkoutDates(ctx context.Context, userID string, since time.Time) ([]string, error)
	Finish(ctx context.Context, id string, endedAt time.Time) error
	IncrementVolume(ctx context.Context, id string, delta float64) error
	Delete(ctx context.Context, id string) error
}
