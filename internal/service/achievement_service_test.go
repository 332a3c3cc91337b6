package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhalidi/liftpulse/internal/domain"
)

type achievementFixture struct {
	svc         *AchievementService
	catalog     *fakeAchievementRepo
	userAchRepo *fakeUserAchievementRepo
	userRepo    *fakeUserRepo
	workoutRepo *fakeWorkoutRepo
	setRepo     *fakeSetRepo
	prRepo      *fakePersonalRecordRepo
	notifier    *fakeNotifier
}

func newAchievementFixture(catalog ...*domain.Achievement) *achievementFixture {
	f := &achievementFixture{
		catalog:     &fakeAchievementRepo{catalog: catalog},
		userAchRepo: newFakeUserAchievementRepo(),
		userRepo: newFakeUserRepo(&domain.User{
			ID: "user-1",
			NotificationPrefs: map[string]bool{
				domain.NotifyPersonalRecord: true,
				domain.NotifyAchievement:    true,
			},
		}),
		workoutRepo: &fakeWorkoutRepo{},
		setRepo:     newFakeSetRepo(),
		prRepo:      newFakePersonalRecordRepo(),
		notifier:    &fakeNotifier{},
	}
	f.svc = NewAchievementService(
		f.catalog, f.userAchRepo, f.userRepo,
		f.workoutRepo, f.setRepo, f.prRepo,
		nil, f.notifier,
	)
	return f
}

func testCatalog() []*domain.Achievement {
	return []*domain.Achievement{
		{ID: "a1", Slug: "first-workout", Name: "First Workout", Type: domain.AchievementCount, Threshold: 1},
		{ID: "a2", Slug: "ten-workouts", Name: "Regular", Type: domain.AchievementCount, Threshold: 10},
		{ID: "a3", Slug: "club-100", Name: "100kg Club", Type: domain.AchievementWeightRecord, Threshold: 100},
		{ID: "a4", Slug: "volume-5k", Name: "Volume Mover", Type: domain.AchievementVolumeTotal, Threshold: 5000},
		{ID: "a5", Slug: "streak-three", Name: "Three In A Row", Type: domain.AchievementStreak, Threshold: 3},
	}
}

func TestSyncAchievements_UnlocksAtThresholds(t *testing.T) {
	f := newAchievementFixture(testCatalog()...)
	f.workoutRepo.workoutCount = 3
	f.workoutRepo.workoutDates = []string{"2026-03-12", "2026-03-11", "2026-03-10"}
	f.setRepo.totalVolume = 4800
	require.NoError(t, f.prRepo.Save(context.Background(), &domain.PersonalRecord{
		UserID: "user-1", ExerciseID: "bench", Metric: domain.MetricMaxWeight, Value: 102.5,
	}))

	unlocked, err := f.svc.SyncAchievements(context.Background(), "user-1")
	require.NoError(t, err)

	slugs := make([]string, 0, len(unlocked))
	for _, a := range unlocked {
		slugs = append(slugs, a.Slug)
	}
	assert.ElementsMatch(t, []string{"first-workout", "club-100", "streak-three"}, slugs)
	assert.Len(t, f.userAchRepo.unlocked, 3)
}

func TestSyncAchievements_SkipsAlreadyUnlocked(t *testing.T) {
	f := newAchievementFixture(testCatalog()...)
	f.workoutRepo.workoutCount = 1
	_, err := f.userAchRepo.Unlock(context.Background(), "user-1", "a1", time.Now())
	require.NoError(t, err)

	unlocked, err := f.svc.SyncAchievements(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, unlocked, "an achievement never unlocks twice")
	assert.Empty(t, f.notifier.events)
}

func TestSyncAchievements_DuplicateUnlockNotReported(t *testing.T) {
	// A racing sync can win the insert between GetAllExcept and Unlock; the
	// losing call sees fresh=false and stays silent.
	f := newAchievementFixture(&domain.Achievement{
		ID: "a1", Slug: "first-workout", Type: domain.AchievementCount, Threshold: 1,
	})
	f.workoutRepo.workoutCount = 1
	f.userAchRepo.unlocked["a1"] = time.Now()

	// Simulate the race by bypassing the exclusion list.
	f.svc.achievementRepo = &fakeAchievementRepo{catalog: []*domain.Achievement{
		{ID: "a1", Slug: "first-workout", Type: domain.AchievementCount, Threshold: 1},
	}}
	unlocked, err := f.svc.SyncAchievements(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestSyncAchievements_UnknownTypeNeverUnlocks(t *testing.T) {
	f := newAchievementFixture(&domain.Achievement{
		ID: "a9", Slug: "mystery", Type: "distance_total", Threshold: 1,
	})
	f.workoutRepo.workoutCount = 500

	unlocked, err := f.svc.SyncAchievements(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestSyncAchievements_EmptyLockedSetSkipsSnapshot(t *testing.T) {
	f := newAchievementFixture(testCatalog()...)
	ctx := context.Background()
	for _, a := range testCatalog() {
		_, err := f.userAchRepo.Unlock(ctx, "user-1", a.ID, time.Now())
		require.NoError(t, err)
	}

	unlocked, err := f.svc.SyncAchievements(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestSyncAchievements_Notifications(t *testing.T) {
	f := newAchievementFixture(testCatalog()...)
	f.workoutRepo.workoutCount = 1

	_, err := f.svc.SyncAchievements(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, f.notifier.events, 1)
	event := f.notifier.events[0]
	assert.Equal(t, domain.NotifyAchievement, event.Type)
	assert.Equal(t, "first-workout", event.Data["slug"])
	assert.NotEmpty(t, event.ID)
}

func TestSyncAchievements_NotificationPrefRespected(t *testing.T) {
	f := newAchievementFixture(testCatalog()...)
	f.workoutRepo.workoutCount = 1
	f.userRepo.users["user-1"].NotificationPrefs[domain.NotifyAchievement] = false

	unlocked, err := f.svc.SyncAchievements(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, unlocked, 1, "unlocks happen regardless of notification prefs")
	assert.Empty(t, f.notifier.events)
}

func TestSnapshot_WithoutCache(t *testing.T) {
	f := newAchievementFixture()
	f.workoutRepo.workoutCount = 7
	f.workoutRepo.workoutDates = []string{"2026-03-12", "2026-03-11"}
	f.setRepo.totalVolume = 12500
	require.NoError(t, f.prRepo.Save(context.Background(), &domain.PersonalRecord{
		UserID: "user-1", ExerciseID: "squat", Metric: domain.MetricMaxWeight, Value: 140,
	}))

	stats, err := f.svc.Snapshot(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.WorkoutCount)
	assert.Equal(t, 140.0, stats.MaxSetWeight)
	assert.Equal(t, 12500.0, stats.TotalVolume)
	assert.Equal(t, 2, stats.MaxConsecutiveDays())
	assert.False(t, stats.ComputedAt.IsZero())
}

func TestListForUser(t *testing.T) {
	f := newAchievementFixture(testCatalog()...)
	achievedAt := time.Now().Add(-time.Hour)
	_, err := f.userAchRepo.Unlock(context.Background(), "user-1", "a1", achievedAt)
	require.NoError(t, err)

	list, err := f.svc.ListForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 5)

	byID := make(map[string]*domain.AchievementWithStatus, len(list))
	for _, entry := range list {
		byID[entry.ID] = entry
	}
	require.True(t, byID["a1"].Unlocked)
	require.NotNil(t, byID["a1"].AchievedAt)
	assert.Equal(t, achievedAt, *byID["a1"].AchievedAt)
	assert.False(t, byID["a2"].Unlocked)
	assert.Nil(t, byID["a2"].AchievedAt)
}
