package domain

import (
	"context"
	"time"
)

// Set is one completed (or planned) unit of work within a workout. Weight
// and reps are optional: bodyweight, cardio and timed work legitimately
// leave them zero, and every consumer must skip what it cannot score.
type Set struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	ClientID        string    `json:"client_id,omitempty" bson:"client_id,omitempty"` // frontend ULID for dual-identity
	WorkoutID       string    `json:"workout_id" bson:"workout_id"`
	UserID          string    `json:"user_id" bson:"user_id"`
	ExerciseID      string    `json:"exercise_id" bson:"exercise_id"`
	SetIndex        int       `json:"set_index" bson:"set_index"` // 1-based index for display
	Weight          float64   `json:"weight" bson:"weight"`
	Reps            int       `json:"reps" bson:"reps"`
	DurationSeconds int       `json:"duration_seconds,omitempty" bson:"duration_seconds,omitempty"`
	DistanceMeters  float64   `json:"distance_meters,omitempty" bson:"distance_meters,omitempty"`
	IsWarmup        bool      `json:"is_warmup" bson:"is_warmup"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// Volume returns weight*reps for the set, 0 when either input is missing
func (s *Set) Volume() float64 {
	if s.Weight <= 0 || s.Reps <= 0 {
		return 0
	}
	return s.Weight * float64(s.Reps)
}

// SetRepository handles the sets collection
type SetRepository interface {
	Create(ctx context.Context, set *Set) error
	GetByID(ctx context.Context, id string) (*Set, error)
	GetByClientID(ctx context.Context, clientID string) (*Set, error)
	GetByWorkoutID(ctx context.Context, workoutID string) ([]*Set, error)
	Update(ctx context.Context, set *Set) error
	Delete(ctx context.Context, id string) error

	// MaxWeightForExercise returns the heaviest single-set weight the user
	// ever recorded for an exercise, 0 if none.
	MaxWeightForExercise(ctx context.Context, userID, exerciseID string) (float64, error)
	// MaxWorkoutVolume returns the highest single-workout volume for one
	// exercise (sum of weight*reps of that exercise's sets within one
	// workout), 0 if none.
	MaxWorkoutVolume(ctx context.Context, userID, exerciseID string) (float64, error)
	// TotalVolume returns the lifetime sum of weight*reps across all the
	// user's sets.
	TotalVolume(ctx context.Context, userID string) (float64, error)
}
