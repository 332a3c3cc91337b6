package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mkhalidi/liftpulse/internal/domain"
)

// GoalService recomputes goal progress from the activity log. Goals are
// user-defined; only current_value and completed_at belong to the engine.
type GoalService struct {
	goalRepo        domain.GoalRepository
	workoutRepo     domain.WorkoutRepository
	setRepo         domain.SetRepository
	measurementRepo domain.BodyMeasurementRepository
}

func NewGoalService(
	goalRepo domain.GoalRepository,
	workoutRepo domain.WorkoutRepository,
	setRepo domain.SetRepository,
	measurementRepo domain.BodyMeasurementRepository,
) *GoalService {
	return &GoalService{
		goalRepo:        goalRepo,
		workoutRepo:     workoutRepo,
		setRepo:         setRepo,
		measurementRepo: measurementRepo,
	}
}

// CreateGoal validates the definition, snapshots the baseline from current
// activity and stores the goal. The baseline anchors Progress(): a goal to
// bench 120 created while benching 100 is 0% done, not 83%.
func (s *GoalService) CreateGoal(ctx context.Context, goal *domain.Goal) error {
	switch goal.Type {
	case domain.GoalWeight, domain.GoalVolume:
		if goal.ExerciseID == "" {
			return fmt.Errorf("%s goal requires an exercise", goal.Type)
		}
	case domain.GoalMeasurement:
		if !domain.ValidMeasurementKind(goal.MeasurementKind) {
			return fmt.Errorf("unknown measurement kind %q", goal.MeasurementKind)
		}
	case domain.GoalFrequency:
	default:
		return fmt.Errorf("unknown goal type %q", goal.Type)
	}
	if goal.TargetValue <= 0 {
		return fmt.Errorf("target value must be positive")
	}

	if goal.StartValue == 0 {
		baseline, ok, err := s.deriveValue(ctx, goal)
		if err != nil {
			return err
		}
		if ok {
			goal.StartValue = baseline
		}
	}
	goal.CurrentValue = goal.StartValue
	goal.CompletedAt = nil

	return s.goalRepo.Create(ctx, goal)
}

// DeleteGoal removes a goal after an ownership check
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return err
	}
	if goal.UserID != userID {
		return domain.ErrForbidden
	}
	return s.goalRepo.Delete(ctx, goalID)
}

// SyncGoals recomputes every goal the user has, completed ones included:
// completed_at reflects the criterion, so regressed progress (a deleted
// set, a measurement moving the wrong way) re-opens the goal. One broken
// goal never blocks the rest.
func (s *GoalService) SyncGoals(ctx context.Context, userID string) error {
	goals, err := s.goalRepo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, goal := range goals {
		if err := s.UpdateGoalProgress(ctx, goal); err != nil {
			log.Printf("Warning: failed to sync goal %s (%s): %v", goal.ID, goal.Type, err)
		}
	}
	return nil
}

// UpdateGoalProgress derives the goal's current value from the activity log
// and rewrites current_value and completed_at.
func (s *GoalService) UpdateGoalProgress(ctx context.Context, goal *domain.Goal) error {
	value, ok, err := s.deriveValue(ctx, goal)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	// A zero derivation means "no qualifying activity", not "progress is
	// zero": keep whatever value the goal already holds.
	if value > 0 {
		goal.CurrentValue = value
	}

	completedAt := goal.CompletedAt
	if goal.CriteriaMet() {
		if completedAt == nil {
			now := time.Now()
			completedAt = &now
		}
	} else {
		completedAt = nil
	}
	goal.CompletedAt = completedAt

	return s.goalRepo.UpdateProgress(ctx, goal.ID, goal.CurrentValue, completedAt)
}

// deriveValue computes the goal's current value. ok is false when the goal
// is missing its link or has an unknown type; such goals are skipped, not
// failed.
func (s *GoalService) deriveValue(ctx context.Context, goal *domain.Goal) (float64, bool, error) {
	switch goal.Type {
	case domain.GoalWeight:
		if goal.ExerciseID == "" {
			return 0, false, nil
		}
		v, err := s.setRepo.MaxWeightForExercise(ctx, goal.UserID, goal.ExerciseID)
		return v, true, err

	case domain.GoalFrequency:
		n, err := s.workoutRepo.CountByUser(ctx, goal.UserID)
		return float64(n), true, err

	case domain.GoalVolume:
		if goal.ExerciseID == "" {
			return 0, false, nil
		}
		v, err := s.setRepo.MaxWorkoutVolume(ctx, goal.UserID, goal.ExerciseID)
		return v, true, err

	case domain.GoalMeasurement:
		if goal.MeasurementKind == "" {
			return 0, false, nil
		}
		v, err := s.measurementRepo.LatestValue(ctx, goal.UserID, goal.MeasurementKind)
		return v, true, err

	default:
		return 0, false, nil
	}
}
