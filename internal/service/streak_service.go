package service

import (
	"context"
	"time"

	"github.com/mkhalidi/liftpulse/internal/domain"
)

// StreakService maintains the consecutive-workout-day counters on the user.
type StreakService struct {
	userRepo    domain.UserRepository
	workoutRepo domain.WorkoutRepository
}

func NewStreakService(userRepo domain.UserRepository, workoutRepo domain.WorkoutRepository) *StreakService {
	return &StreakService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
	}
}

// UpdateStreak advances the user's streak for a workout that happened at
// workoutAt. Calendar days, not 24h windows: a Monday 23:50 workout and a
// Tuesday 00:10 workout are consecutive days. A second workout on an
// already-counted day changes nothing.
//
// last_workout_at moves to workoutAt even when workoutAt is older than the
// day already recorded, so backfilling history can shift the anchor
// backwards. Known quirk, pinned by a test.
func (s *StreakService) UpdateStreak(ctx context.Context, userID string, workoutAt time.Time) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	workoutDay := truncateToDay(workoutAt)

	current := user.CurrentStreak
	if user.LastWorkoutAt == nil {
		current = 1
	} else {
		lastDay := truncateToDay(*user.LastWorkoutAt)
		switch daysBetween(lastDay, workoutDay) {
		case 0:
			return nil
		case 1:
			current++
		default:
			current = 1
		}
	}

	longest := user.LongestStreak
	if current > longest {
		longest = current
	}

	return s.userRepo.UpdateStreak(ctx, userID, current, longest, workoutAt)
}

// Rebuild recomputes both counters from the workout history instead of
// advancing the incremental state machine. The recovery path uses this when
// the counters have drifted (missed triggers, backfilled workouts).
func (s *StreakService) Rebuild(ctx context.Context, userID string, lookback time.Duration) error {
	dates, err := s.workoutRepo.WorkoutDates(ctx, userID, time.Now().Add(-lookback))
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		return nil
	}

	stats := &domain.UserStats{WorkoutDates: dates}
	longest := stats.MaxConsecutiveDays()

	// Dates are newest first; the current streak is the run that includes
	// the most recent workout day.
	current := 1
	for i := 1; i < len(dates); i++ {
		prev, err1 := time.Parse("2006-01-02", dates[i-1])
		next, err2 := time.Parse("2006-01-02", dates[i])
		if err1 != nil || err2 != nil {
			break
		}
		if daysBetween(next, prev) != 1 {
			break
		}
		current++
	}

	latest, err := s.workoutRepo.LatestByUser(ctx, userID)
	if err != nil {
		return err
	}
	lastWorkoutAt := time.Now()
	if latest != nil {
		lastWorkoutAt = latest.StartedAt
	}

	return s.userRepo.UpdateStreak(ctx, userID, current, longest, lastWorkoutAt)
}

// truncateToDay drops the time-of-day component in the timestamp's location
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns the absolute number of calendar days between two
// times. The calendar dates are re-anchored to UTC midnights before
// subtracting, so a 23-hour DST day still counts as one day.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(bu.Sub(au).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
