package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhalidi/liftpulse/internal/domain"
)

type activityFixture struct {
	svc             *ActivityService
	userRepo        *fakeUserRepo
	workoutRepo     *fakeWorkoutRepo
	setRepo         *fakeSetRepo
	goalRepo        *fakeGoalRepo
	userAchRepo     *fakeUserAchievementRepo
	measurementRepo *fakeMeasurementRepo
	notifier        *fakeNotifier
}

func newActivityFixture(catalog ...*domain.Achievement) *activityFixture {
	f := &activityFixture{
		userRepo: newFakeUserRepo(&domain.User{
			ID: "user-1",
			NotificationPrefs: map[string]bool{
				domain.NotifyPersonalRecord: true,
				domain.NotifyAchievement:    true,
			},
		}),
		workoutRepo:     &fakeWorkoutRepo{},
		setRepo:         newFakeSetRepo(),
		goalRepo:        newFakeGoalRepo(),
		userAchRepo:     newFakeUserAchievementRepo(),
		measurementRepo: &fakeMeasurementRepo{latestByKind: make(map[string]float64)},
		notifier:        &fakeNotifier{},
	}
	prRepo := newFakePersonalRecordRepo()
	achievementRepo := &fakeAchievementRepo{catalog: catalog}

	records := NewRecordService(prRepo, f.userRepo, f.notifier)
	streaks := NewStreakService(f.userRepo, f.workoutRepo)
	goals := NewGoalService(f.goalRepo, f.workoutRepo, f.setRepo, f.measurementRepo)
	achievements := NewAchievementService(
		achievementRepo, f.userAchRepo, f.userRepo,
		f.workoutRepo, f.setRepo, prRepo,
		nil, f.notifier,
	)
	f.svc = NewActivityService(
		f.userRepo, f.workoutRepo, f.setRepo, f.measurementRepo, nil,
		records, streaks, goals, achievements,
	)
	return f
}

func TestRecordWorkout_FiresStreakGoalsAndAchievements(t *testing.T) {
	f := newActivityFixture(&domain.Achievement{
		ID: "a1", Slug: "first-workout", Type: domain.AchievementCount, Threshold: 1,
	})
	goal := &domain.Goal{ID: "g1", UserID: "user-1", Type: domain.GoalFrequency, TargetValue: 1}
	require.NoError(t, f.goalRepo.Create(context.Background(), goal))

	startedAt := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)
	workout := &domain.Workout{ID: "w1", UserID: "user-1", Name: "Push Day", StartedAt: startedAt}
	f.workoutRepo.workoutDates = []string{"2026-03-10"}

	require.NoError(t, f.svc.RecordWorkout(context.Background(), workout))

	user := f.userRepo.users["user-1"]
	assert.Equal(t, 1, user.CurrentStreak)
	assert.Equal(t, 1.0, f.goalRepo.goals["g1"].CurrentValue)
	assert.NotNil(t, f.goalRepo.goals["g1"].CompletedAt)
	assert.Contains(t, f.userAchRepo.unlocked, "a1")
}

func TestRecordSet_MaintainsVolumeCountersAndRecords(t *testing.T) {
	f := newActivityFixture()
	endedAt := time.Now()
	f.workoutRepo.workouts = []*domain.Workout{
		{ID: "w1", UserID: "user-1", EndedAt: &endedAt},
	}

	set := &domain.Set{ID: "s1", WorkoutID: "w1", ExerciseID: "bench", Weight: 100, Reps: 5}
	stored, err := f.svc.RecordSet(context.Background(), "user-1", set)
	require.NoError(t, err)
	assert.Equal(t, "user-1", stored.UserID)

	assert.Equal(t, 500.0, f.workoutRepo.workouts[0].Volume)
	assert.Equal(t, 500.0, f.userRepo.users["user-1"].TotalVolume)

	// Three record notifications prove SyncSetPRs ran.
	assert.Len(t, f.notifier.events, 3)
}

func TestRecordSet_DuplicateClientIDReplaysExistingSet(t *testing.T) {
	f := newActivityFixture()
	f.workoutRepo.workouts = []*domain.Workout{{ID: "w1", UserID: "user-1"}}
	ctx := context.Background()

	first := &domain.Set{ID: "s1", ClientID: "ulid-1", WorkoutID: "w1", ExerciseID: "bench", Weight: 100, Reps: 5}
	_, err := f.svc.RecordSet(ctx, "user-1", first)
	require.NoError(t, err)
	volumeAfterFirst := f.userRepo.users["user-1"].TotalVolume

	replay := &domain.Set{ID: "s2", ClientID: "ulid-1", WorkoutID: "w1", ExerciseID: "bench", Weight: 100, Reps: 5}
	stored, err := f.svc.RecordSet(ctx, "user-1", replay)
	require.NoError(t, err)
	assert.Equal(t, "s1", stored.ID, "the replay returns the set that already landed")
	assert.Equal(t, volumeAfterFirst, f.userRepo.users["user-1"].TotalVolume, "volume counters must not double-count")
	assert.Len(t, f.setRepo.sets, 1)
}

func TestRecordSet_RejectsForeignWorkout(t *testing.T) {
	f := newActivityFixture()
	f.workoutRepo.workouts = []*domain.Workout{{ID: "w1", UserID: "someone-else"}}

	_, err := f.svc.RecordSet(context.Background(), "user-1", &domain.Set{WorkoutID: "w1", Weight: 100, Reps: 5})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.setRepo.sets)
}

func TestRecordSet_InProgressWorkoutDefersGoalSync(t *testing.T) {
	f := newActivityFixture()
	f.workoutRepo.workouts = []*domain.Workout{{ID: "w1", UserID: "user-1"}}
	goal := &domain.Goal{ID: "g1", UserID: "user-1", Type: domain.GoalVolume, ExerciseID: "bench", TargetValue: 400}
	require.NoError(t, f.goalRepo.Create(context.Background(), goal))

	set := &domain.Set{ID: "s1", WorkoutID: "w1", ExerciseID: "bench", Weight: 100, Reps: 5}
	_, err := f.svc.RecordSet(context.Background(), "user-1", set)
	require.NoError(t, err)

	assert.Equal(t, 0.0, f.goalRepo.goals["g1"].CurrentValue, "goal sync waits for the workout to finish")

	f.setRepo.maxVolumeByExercise["bench"] = 500
	_, err = f.svc.FinishWorkout(context.Background(), "user-1", "w1")
	require.NoError(t, err)
	assert.Equal(t, 500.0, f.goalRepo.goals["g1"].CurrentValue)
	assert.NotNil(t, f.goalRepo.goals["g1"].CompletedAt)
}

func TestFinishWorkout_AlreadyFinishedIsNoOp(t *testing.T) {
	f := newActivityFixture()
	endedAt := time.Now().Add(-time.Hour)
	f.workoutRepo.workouts = []*domain.Workout{{ID: "w1", UserID: "user-1", EndedAt: &endedAt}}

	workout, err := f.svc.FinishWorkout(context.Background(), "user-1", "w1")
	require.NoError(t, err)
	assert.Equal(t, endedAt, *workout.EndedAt, "the original end time stays")
}

func TestDeleteSet_WalksVolumeBackAndReopensGoals(t *testing.T) {
	f := newActivityFixture()
	f.workoutRepo.workouts = []*domain.Workout{{ID: "w1", UserID: "user-1", Volume: 500}}
	f.userRepo.users["user-1"].TotalVolume = 500
	f.setRepo.sets = []*domain.Set{{ID: "s1", UserID: "user-1", WorkoutID: "w1", ExerciseID: "bench", Weight: 100, Reps: 5}}

	completedAt := time.Now()
	goal := &domain.Goal{ID: "g1", UserID: "user-1", Type: domain.GoalVolume, ExerciseID: "bench", TargetValue: 400, CurrentValue: 500, CompletedAt: &completedAt}
	require.NoError(t, f.goalRepo.Create(context.Background(), goal))

	f.setRepo.maxVolumeByExercise["bench"] = 300 // what the aggregate reports after the delete
	require.NoError(t, f.svc.DeleteSet(context.Background(), "user-1", "s1"))

	assert.Empty(t, f.setRepo.sets)
	assert.Equal(t, 0.0, f.workoutRepo.workouts[0].Volume)
	assert.Equal(t, 0.0, f.userRepo.users["user-1"].TotalVolume)
	assert.Equal(t, 300.0, f.goalRepo.goals["g1"].CurrentValue)
	assert.Nil(t, f.goalRepo.goals["g1"].CompletedAt, "regression re-opens the goal")
}

func TestDeleteSet_OwnershipEnforced(t *testing.T) {
	f := newActivityFixture()
	f.setRepo.sets = []*domain.Set{{ID: "s1", UserID: "someone-else", WorkoutID: "w1", Weight: 100, Reps: 5}}

	err := f.svc.DeleteSet(context.Background(), "user-1", "s1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, f.setRepo.sets, 1)
}

func TestRecordMeasurement_SyncsMeasurementGoals(t *testing.T) {
	f := newActivityFixture()
	goal := &domain.Goal{
		ID: "g1", UserID: "user-1", Type: domain.GoalMeasurement,
		MeasurementKind: domain.MeasurementWeight, TargetValue: 80, StartValue: 90,
	}
	require.NoError(t, f.goalRepo.Create(context.Background(), goal))
	f.measurementRepo.latestByKind[domain.MeasurementWeight] = 86

	m := &domain.BodyMeasurement{UserID: "user-1", Weight: 86, MeasuredAt: time.Now()}
	require.NoError(t, f.svc.RecordMeasurement(context.Background(), m))
	assert.Equal(t, 86.0, f.goalRepo.goals["g1"].CurrentValue)
}

func TestResyncUser_RebuildsEverything(t *testing.T) {
	f := newActivityFixture(&domain.Achievement{
		ID: "a1", Slug: "streak-three", Type: domain.AchievementStreak, Threshold: 3,
	})
	latest := time.Date(2026, time.March, 12, 18, 0, 0, 0, time.UTC)
	f.workoutRepo.workouts = []*domain.Workout{{ID: "w1", UserID: "user-1", StartedAt: latest}}
	f.workoutRepo.latest = f.workoutRepo.workouts[0]
	f.workoutRepo.workoutDates = []string{"2026-03-12", "2026-03-11", "2026-03-10"}
	f.setRepo.sets = []*domain.Set{
		{ID: "s1", UserID: "user-1", WorkoutID: "w1", ExerciseID: "bench", Weight: 100, Reps: 5},
	}

	require.NoError(t, f.svc.ResyncUser(context.Background(), "user-1"))

	user := f.userRepo.users["user-1"]
	assert.Equal(t, 3, user.CurrentStreak)
	assert.Equal(t, 3, user.LongestStreak)
	assert.Contains(t, f.userAchRepo.unlocked, "a1")
	// The set replay re-established the records.
	assert.Len(t, f.notifier.events, 4) // 3 record events + 1 achievement
}
