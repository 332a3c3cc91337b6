package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mkhalidi/liftpulse/internal/domain"
	"github.com/mkhalidi/liftpulse/internal/repository"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

const (
	// statsTTL bounds how stale an evaluation snapshot can be; activity
	// writes invalidate it eagerly anyway.
	statsTTL = 5 * time.Minute

	// snapshotLookback caps the workout-date window used for the streak
	// criterion. No catalog threshold comes anywhere near a year.
	snapshotLookback = 365 * 24 * time.Hour
)

// AchievementService evaluates the locked part of the catalog against a
// stats snapshot and unlocks whatever the user now qualifies for. Unlocks
// are one-way: rows are only ever inserted.
type AchievementService struct {
	achievementRepo domain.AchievementRepository
	userAchRepo     domain.UserAchievementRepository
	userRepo        domain.UserRepository
	workoutRepo     domain.WorkoutRepository
	setRepo         domain.SetRepository
	prRepo          domain.PersonalRecordRepository
	cache           domain.CacheRepository
	notifier        domain.Notifier
}

func NewAchievementService(
	achievementRepo domain.AchievementRepository,
	userAchRepo domain.UserAchievementRepository,
	userRepo domain.UserRepository,
	workoutRepo domain.WorkoutRepository,
	setRepo domain.SetRepository,
	prRepo domain.PersonalRecordRepository,
	cache domain.CacheRepository,
	notifier domain.Notifier,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		userAchRepo:     userAchRepo,
		userRepo:        userRepo,
		workoutRepo:     workoutRepo,
		setRepo:         setRepo,
		prRepo:          prRepo,
		cache:           cache,
		notifier:        notifier,
	}
}

// SyncAchievements evaluates all still-locked achievements for the user and
// returns the newly unlocked ones.
func (s *AchievementService) SyncAchievements(ctx context.Context, userID string) ([]*domain.Achievement, error) {
	unlockedIDs, err := s.userAchRepo.AchievementIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	locked, err := s.achievementRepo.GetAllExcept(ctx, unlockedIDs)
	if err != nil {
		return nil, err
	}
	if len(locked) == 0 {
		return nil, nil
	}

	stats, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	var unlocked []*domain.Achievement
	now := time.Now()
	for _, achievement := range locked {
		if !achievement.UnlockedBy(stats) {
			continue
		}

		fresh, err := s.userAchRepo.Unlock(ctx, userID, achievement.ID, now)
		if err != nil {
			log.Printf("Warning: failed to unlock achievement %s for user %s: %v", achievement.Slug, userID, err)
			continue
		}
		if fresh {
			unlocked = append(unlocked, achievement)
		}
	}

	if len(unlocked) > 0 {
		s.notifyUnlocks(ctx, userID, unlocked)
	}
	return unlocked, nil
}

// Snapshot computes the user's aggregate stats, reading through the cache.
// The four metrics are independent queries, so they run concurrently.
func (s *AchievementService) Snapshot(ctx context.Context, userID string) (*domain.UserStats, error) {
	if s.cache != nil {
		stats, err := s.cache.GetUserStats(ctx, userID)
		if err == nil {
			return stats, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			log.Printf("Warning: stats cache read failed for user %s: %v", userID, err)
		}
	}

	stats := &domain.UserStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.workoutRepo.CountByUser(gctx, userID)
		if err != nil {
			return err
		}
		stats.WorkoutCount = count
		return nil
	})
	g.Go(func() error {
		// Records already track lifetime max weight; cheaper than
		// rescanning every set.
		maxWeight, err := s.prRepo.MaxValue(gctx, userID, domain.MetricMaxWeight)
		if err != nil {
			return err
		}
		stats.MaxSetWeight = maxWeight
		return nil
	})
	g.Go(func() error {
		total, err := s.setRepo.TotalVolume(gctx, userID)
		if err != nil {
			return err
		}
		stats.TotalVolume = total
		return nil
	})
	g.Go(func() error {
		dates, err := s.workoutRepo.WorkoutDates(gctx, userID, time.Now().Add(-snapshotLookback))
		if err != nil {
			return err
		}
		stats.WorkoutDates = dates
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.ComputedAt = time.Now()

	if s.cache != nil {
		if err := s.cache.SetUserStats(ctx, userID, stats, statsTTL); err != nil {
			log.Printf("Warning: stats cache write failed for user %s: %v", userID, err)
		}
	}
	return stats, nil
}

// ListForUser decorates the full catalog with the user's unlock state.
func (s *AchievementService) ListForUser(ctx context.Context, userID string) ([]*domain.AchievementWithStatus, error) {
	catalog, err := s.achievementRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.userAchRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	achievedAt := make(map[string]time.Time, len(unlocked))
	for _, ua := range unlocked {
		achievedAt[ua.AchievementID] = ua.AchievedAt
	}

	result := make([]*domain.AchievementWithStatus, 0, len(catalog))
	for _, achievement := range catalog {
		entry := &domain.AchievementWithStatus{Achievement: *achievement}
		if at, ok := achievedAt[achievement.ID]; ok {
			entry.Unlocked = true
			at := at
			entry.AchievedAt = &at
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *AchievementService) notifyUnlocks(ctx context.Context, userID string, unlocked []*domain.Achievement) {
	if s.notifier == nil {
		return
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("Warning: failed to load user %s for achievement notification: %v", userID, err)
		return
	}
	if !user.IsNotificationEnabled(domain.NotifyAchievement) {
		return
	}

	for _, achievement := range unlocked {
		event := &domain.NotificationEvent{
			ID:     ulid.Make().String(),
			UserID: userID,
			Type:   domain.NotifyAchievement,
			Title:  "Achievement unlocked!",
			Body:   achievement.Name + ": " + achievement.Description,
			Data: map[string]string{
				"achievement_id": achievement.ID,
				"slug":           achievement.Slug,
			},
			CreatedAt: time.Now(),
		}
		if err := s.notifier.Notify(ctx, user, event); err != nil {
			log.Printf("Warning: failed to send achievement notification to user %s: %v", userID, err)
		}
	}
}
