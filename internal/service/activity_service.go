package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mkhalidi/liftpulse/internal/domain"
)

// ActivityService is the write path for raw activity. Every write lands the
// activity first, drops the user's cached views, then fires the trackers
// that depend on what changed. Tracker failures are logged, never surfaced:
// the activity itself is already durable and a resync can repair the rest.
type ActivityService struct {
	userRepo        domain.UserRepository
	workoutRepo     domain.WorkoutRepository
	setRepo         domain.SetRepository
	measurementRepo domain.BodyMeasurementRepository
	cache           domain.CacheRepository

	records      *RecordService
	streaks      *StreakService
	goals        *GoalService
	achievements *AchievementService
}

func NewActivityService(
	userRepo domain.UserRepository,
	workoutRepo domain.WorkoutRepository,
	setRepo domain.SetRepository,
	measurementRepo domain.BodyMeasurementRepository,
	cache domain.CacheRepository,
	records *RecordService,
	streaks *StreakService,
	goals *GoalService,
	achievements *AchievementService,
) *ActivityService {
	return &ActivityService{
		userRepo:        userRepo,
		workoutRepo:     workoutRepo,
		setRepo:         setRepo,
		measurementRepo: measurementRepo,
		cache:           cache,
		records:         records,
		streaks:         streaks,
		goals:           goals,
		achievements:    achievements,
	}
}

// RecordWorkout lands a workout and fires the streak, goal and achievement
// trackers. In-progress workouts count: the streak moves when the workout
// is saved, not when it is finished.
func (s *ActivityService) RecordWorkout(ctx context.Context, workout *domain.Workout) error {
	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return err
	}

	s.invalidate(ctx, workout.UserID)

	if err := s.streaks.UpdateStreak(ctx, workout.UserID, workout.StartedAt); err != nil {
		log.Printf("Warning: streak update failed for user %s: %v", workout.UserID, err)
	}
	s.syncDerived(ctx, workout.UserID)
	return nil
}

// FinishWorkout stamps ended_at and re-fires the volume-sensitive trackers.
func (s *ActivityService) FinishWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if !workout.InProgress() {
		return workout, nil
	}

	endedAt := time.Now()
	if err := s.workoutRepo.Finish(ctx, workoutID, endedAt); err != nil {
		return nil, err
	}
	workout.EndedAt = &endedAt

	s.invalidate(ctx, userID)
	s.syncDerived(ctx, userID)
	return workout, nil
}

// RecordSet lands a set inside a workout, maintains the denormalized volume
// counters, and checks for records. Goal and achievement syncs only fire
// once the workout is finished; until then each set would re-derive the
// same unfinished numbers.
func (s *ActivityService) RecordSet(ctx context.Context, userID string, set *domain.Set) (*domain.Set, error) {
	workout, err := s.ownedWorkout(ctx, userID, set.WorkoutID)
	if err != nil {
		return nil, err
	}
	set.UserID = userID

	if err := s.setRepo.Create(ctx, set); err != nil {
		// Offline clients replay writes; a duplicate client id means this
		// set already landed.
		if errors.Is(err, domain.ErrDuplicateSet) && set.ClientID != "" {
			return s.setRepo.GetByClientID(ctx, set.ClientID)
		}
		return nil, err
	}

	if volume := set.Volume(); volume > 0 {
		if err := s.workoutRepo.IncrementVolume(ctx, set.WorkoutID, volume); err != nil {
			log.Printf("Warning: workout volume increment failed for %s: %v", set.WorkoutID, err)
		}
		if err := s.userRepo.IncrementTotalVolume(ctx, userID, volume); err != nil {
			log.Printf("Warning: user volume increment failed for %s: %v", userID, err)
		}
	}

	s.invalidate(ctx, userID)

	if _, err := s.records.SyncSetPRs(ctx, set); err != nil {
		log.Printf("Warning: record sync failed for set %s: %v", set.ID, err)
	}
	if !workout.InProgress() {
		s.syncDerived(ctx, userID)
	}
	return set, nil
}

// DeleteSet removes a set, walks the volume counters back and re-derives
// goal progress, which may re-open a completed goal. Records stay: they are
// monotonic by contract.
func (s *ActivityService) DeleteSet(ctx context.Context, userID, setID string) error {
	set, err := s.setRepo.GetByID(ctx, setID)
	if err != nil {
		return err
	}
	if set.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.setRepo.Delete(ctx, setID); err != nil {
		return err
	}

	if volume := set.Volume(); volume > 0 {
		if err := s.workoutRepo.IncrementVolume(ctx, set.WorkoutID, -volume); err != nil {
			log.Printf("Warning: workout volume decrement failed for %s: %v", set.WorkoutID, err)
		}
		if err := s.userRepo.IncrementTotalVolume(ctx, userID, -volume); err != nil {
			log.Printf("Warning: user volume decrement failed for %s: %v", userID, err)
		}
	}

	s.invalidate(ctx, userID)

	if err := s.goals.SyncGoals(ctx, userID); err != nil {
		log.Printf("Warning: goal sync failed for user %s: %v", userID, err)
	}
	return nil
}

// RecordMeasurement lands a body measurement and re-derives measurement goals.
func (s *ActivityService) RecordMeasurement(ctx context.Context, m *domain.BodyMeasurement) error {
	if err := s.measurementRepo.Create(ctx, m); err != nil {
		return err
	}

	s.invalidate(ctx, m.UserID)

	if err := s.goals.SyncGoals(ctx, m.UserID); err != nil {
		log.Printf("Warning: goal sync failed for user %s: %v", m.UserID, err)
	}
	return nil
}

// ResyncUser rebuilds every derived view from the activity log: streak
// counters from workout history, records from a full set replay, then goals
// and achievements. Recovery path; errors here do surface.
func (s *ActivityService) ResyncUser(ctx context.Context, userID string) error {
	s.invalidate(ctx, userID)

	if err := s.streaks.Rebuild(ctx, userID, snapshotLookback); err != nil {
		return fmt.Errorf("rebuild streak: %w", err)
	}

	workouts, err := s.workoutRepo.GetByUser(ctx, userID, 0)
	if err != nil {
		return fmt.Errorf("list workouts: %w", err)
	}
	for _, workout := range workouts {
		sets, err := s.setRepo.GetByWorkoutID(ctx, workout.ID)
		if err != nil {
			log.Printf("Warning: failed to list sets for workout %s: %v", workout.ID, err)
			continue
		}
		for _, set := range sets {
			if _, err := s.records.SyncSetPRs(ctx, set); err != nil {
				log.Printf("Warning: record sync failed for set %s: %v", set.ID, err)
			}
		}
	}

	if err := s.goals.SyncGoals(ctx, userID); err != nil {
		return fmt.Errorf("sync goals: %w", err)
	}
	if _, err := s.achievements.SyncAchievements(ctx, userID); err != nil {
		return fmt.Errorf("sync achievements: %w", err)
	}
	return nil
}

// syncDerived runs the goal and achievement trackers back to back,
// logging instead of failing. Order matters only in that achievements read
// aggregates the goal sync never touches.
func (s *ActivityService) syncDerived(ctx context.Context, userID string) {
	if err := s.goals.SyncGoals(ctx, userID); err != nil {
		log.Printf("Warning: goal sync failed for user %s: %v", userID, err)
	}
	if _, err := s.achievements.SyncAchievements(ctx, userID); err != nil {
		log.Printf("Warning: achievement sync failed for user %s: %v", userID, err)
	}
}

func (s *ActivityService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		log.Printf("Warning: cache invalidation failed for user %s: %v", userID, err)
	}
}

func (s *ActivityService) ownedWorkout(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return workout, nil
}
