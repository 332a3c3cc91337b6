package domain

import (
	"context"
	"time"
)

// Goal types
const (
	GoalWeight      = "weight"      // max single-set weight on a linked exercise
	GoalFrequency   = "frequency"   // lifetime workout count
	GoalVolume      = "volume"      // max single-workout volume of a linked exercise
	GoalMeasurement = "measurement" // latest value of a body measurement kind
)

// Goal is user input except for CurrentValue and CompletedAt, which the
// progress tracker rewrites on every sync. CompletedAt is a live reflection
// of the criterion, not a ratchet: it is cleared again if progress regresses.
type Goal struct {
	ID              string     `json:"id" bson:"_id,omitempty"`
	UserID          string     `json:"user_id" bson:"user_id"`
	Title           string     `json:"title" bson:"title"`
	Type            string     `json:"type" bson:"type"`
	TargetValue     float64    `json:"target_value" bson:"target_value"`
	StartValue      float64    `json:"start_value" bson:"start_value"` // baseline at creation
	CurrentValue    float64    `json:"current_value" bson:"current_value"`
	ExerciseID      string     `json:"exercise_id,omitempty" bson:"exercise_id,omitempty"`
	MeasurementKind string     `json:"measurement_kind,omitempty" bson:"measurement_kind,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty" bson:"deadline,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" bson:"updated_at"`
}

// LowerIsBetter reports whether this is a reduction goal (e.g. losing body
// weight): only measurement goals whose target sits below the baseline.
func (g *Goal) LowerIsBetter() bool {
	return g.Type == GoalMeasurement && g.TargetValue < g.StartValue
}

// CriteriaMet evaluates the direction-aware completion criterion against
// the in-memory current value.
func (g *Goal) CriteriaMet() bool {
	if g.LowerIsBetter() {
		return g.CurrentValue > 0 && g.CurrentValue <= g.TargetValue
	}
	return g.CurrentValue >= g.TargetValue
}

// Progress returns completion as a 0-100 percentage of the distance from
// start value to target value.
func (g *Goal) Progress() float64 {
	totalDiff := abs(g.TargetValue - g.StartValue)
	if totalDiff == 0 {
		if g.CurrentValue >= g.TargetValue {
			return 100
		}
		return 0
	}

	progress := abs(g.CurrentValue-g.StartValue) / totalDiff * 100
	return min(max(progress, 0), 100)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// GoalRepository handles the goals collection
type GoalRepository interface {
	Create(ctx context.Context, goal *Goal) error
	GetByID(ctx context.Context, id string) (*Goal, error)
	GetByUser(ctx context.Context, userID string) ([]*Goal, error)
	// GetOpenByUser retrieves the user's goals with a null completed_at
	GetOpenByUser(ctx context.Context, userID string) ([]*Goal, error)
	// UpdateProgress rewrites the engine-owned fields of a goal
	UpdateProgress(ctx context.Context, goalID string, currentValue float64, completedAt *time.Time) error
	Delete(ctx context.Context, id string) error
}
