package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mkhalidi/liftpulse/internal/domain"
)

// In-memory fakes for the repository ports. Only the behavior the services
// depend on is modeled.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) UpdateStreak(_ context.Context, userID string, currentStreak, longestStreak int, lastWorkoutAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.CurrentStreak = currentStreak
	user.LongestStreak = longestStreak
	user.LastWorkoutAt = &lastWorkoutAt
	return nil
}

func (r *fakeUserRepo) IncrementTotalVolume(_ context.Context, userID string, delta float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.TotalVolume += delta
	return nil
}

func (r *fakeUserRepo) SetNotificationPref(_ context.Context, userID, prefType string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if user.NotificationPrefs == nil {
		user.NotificationPrefs = make(map[string]bool)
	}
	user.NotificationPrefs[prefType] = enabled
	return nil
}

func (r *fakeUserRepo) AddDeviceToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.DeviceTokens = append(user.DeviceTokens, token)
	return nil
}

type fakePersonalRecordRepo struct {
	mu      sync.Mutex
	records map[string]*domain.PersonalRecord // key: user|exercise|metric
	saves   int
}

func newFakePersonalRecordRepo() *fakePersonalRecordRepo {
	return &fakePersonalRecordRepo{records: make(map[string]*domain.PersonalRecord)}
}

func prKey(userID, exerciseID, metric string) string {
	return userID + "|" + exerciseID + "|" + metric
}

func (r *fakePersonalRecordRepo) GetByUserAndExercise(_ context.Context, userID, exerciseID string) (map[string]*domain.PersonalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byMetric := make(map[string]*domain.PersonalRecord)
	for _, pr := range r.records {
		if pr.UserID == userID && pr.ExerciseID == exerciseID {
			clone := *pr
			byMetric[pr.Metric] = &clone
		}
	}
	return byMetric, nil
}

func (r *fakePersonalRecordRepo) Save(_ context.Context, pr *domain.PersonalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	clone := *pr
	clone.ID = strconv.Itoa(r.saves)
	r.records[prKey(pr.UserID, pr.ExerciseID, pr.Metric)] = &clone
	return nil
}

func (r *fakePersonalRecordRepo) GetByUser(_ context.Context, userID string) ([]*domain.PersonalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PersonalRecord
	for _, pr := range r.records {
		if pr.UserID == userID {
			clone := *pr
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePersonalRecordRepo) MaxValue(_ context.Context, userID, metric string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0.0
	for _, pr := range r.records {
		if pr.UserID == userID && pr.Metric == metric && pr.Value > max {
			max = pr.Value
		}
	}
	return max, nil
}

func (r *fakePersonalRecordRepo) get(userID, exerciseID, metric string) *domain.PersonalRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[prKey(userID, exerciseID, metric)]
}

type fakeWorkoutRepo struct {
	workoutCount int64
	workoutDates []string
	latest       *domain.Workout
	workouts     []*domain.Workout
}

func (r *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) error {
	r.workouts = append(r.workouts, workout)
	r.workoutCount++
	return nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id string) (*domain.Workout, error) {
	for _, w := range r.workouts {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, domain.ErrWorkoutNotFound
}

func (r *fakeWorkoutRepo) GetByUser(_ context.Context, _ string, _ int) ([]*domain.Workout, error) {
	return r.workouts, nil
}

func (r *fakeWorkoutRepo) LatestByUser(_ context.Context, _ string) (*domain.Workout, error) {
	return r.latest, nil
}

func (r *fakeWorkoutRepo) CountByUser(_ context.Context, _ string) (int64, error) {
	return r.workoutCount, nil
}

func (r *fakeWorkoutRepo) WorkoutDates(_ context.Context, _ string, _ time.Time) ([]string, error) {
	return r.workoutDates, nil
}

func (r *fakeWorkoutRepo) Finish(_ context.Context, id string, endedAt time.Time) error {
	for _, w := range r.workouts {
		if w.ID == id {
			w.EndedAt = &endedAt
			return nil
		}
	}
	return domain.ErrWorkoutNotFound
}

func (r *fakeWorkoutRepo) IncrementVolume(_ context.Context, id string, delta float64) error {
	for _, w := range r.workouts {
		if w.ID == id {
			w.Volume += delta
			return nil
		}
	}
	return domain.ErrWorkoutNotFound
}

func (r *fakeWorkoutRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeSetRepo struct {
	maxWeightByExercise map[string]float64
	maxVolumeByExercise map[string]float64
	totalVolume         float64
	sets                []*domain.Set
}

func newFakeSetRepo() *fakeSetRepo {
	return &fakeSetRepo{
		maxWeightByExercise: make(map[string]float64),
		maxVolumeByExercise: make(map[string]float64),
	}
}

func (r *fakeSetRepo) Create(_ context.Context, set *domain.Set) error {
	if set.ClientID != "" {
		for _, s := range r.sets {
			if s.ClientID == set.ClientID {
				return domain.ErrDuplicateSet
			}
		}
	}
	r.sets = append(r.sets, set)
	return nil
}

func (r *fakeSetRepo) GetByID(_ context.Context, id string) (*domain.Set, error) {
	for _, s := range r.sets {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSetRepo) GetByClientID(_ context.Context, clientID string) (*domain.Set, error) {
	for _, s := range r.sets {
		if s.ClientID == clientID {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSetRepo) GetByWorkoutID(_ context.Context, workoutID string) ([]*domain.Set, error) {
	var out []*domain.Set
	for _, s := range r.sets {
		if s.WorkoutID == workoutID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSetRepo) Update(_ context.Context, _ *domain.Set) error { return nil }

func (r *fakeSetRepo) Delete(_ context.Context, id string) error {
	for i, s := range r.sets {
		if s.ID == id {
			r.sets = append(r.sets[:i], r.sets[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeSetRepo) MaxWeightForExercise(_ context.Context, _, exerciseID string) (float64, error) {
	return r.maxWeightByExercise[exerciseID], nil
}

func (r *fakeSetRepo) MaxWorkoutVolume(_ context.Context, _, exerciseID string) (float64, error) {
	return r.maxVolumeByExercise[exerciseID], nil
}

func (r *fakeSetRepo) TotalVolume(_ context.Context, _ string) (float64, error) {
	return r.totalVolume, nil
}

type fakeMeasurementRepo struct {
	latestByKind map[string]float64
}

func (r *fakeMeasurementRepo) Create(_ context.Context, _ *domain.BodyMeasurement) error { return nil }

func (r *fakeMeasurementRepo) GetByUser(_ context.Context, _ string, _ int) ([]*domain.BodyMeasurement, error) {
	return nil, nil
}

func (r *fakeMeasurementRepo) LatestValue(_ context.Context, _, kind string) (float64, error) {
	return r.latestByKind[kind], nil
}

func (r *fakeMeasurementRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeGoalRepo struct {
	goals   map[string]*domain.Goal
	failIDs map[string]bool // goal IDs whose UpdateProgress fails
}

func newFakeGoalRepo(goals ...*domain.Goal) *fakeGoalRepo {
	r := &fakeGoalRepo{goals: make(map[string]*domain.Goal), failIDs: make(map[string]bool)}
	for _, g := range goals {
		r.goals[g.ID] = g
	}
	return r
}

func (r *fakeGoalRepo) Create(_ context.Context, goal *domain.Goal) error {
	if goal.ID == "" {
		goal.ID = fmt.Sprintf("goal-%d", len(r.goals)+1)
	}
	r.goals[goal.ID] = goal
	return nil
}

func (r *fakeGoalRepo) GetByID(_ context.Context, id string) (*domain.Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return goal, nil
}

func (r *fakeGoalRepo) GetByUser(_ context.Context, userID string) ([]*domain.Goal, error) {
	var out []*domain.Goal
	for _, g := range r.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGoalRepo) GetOpenByUser(ctx context.Context, userID string) ([]*domain.Goal, error) {
	all, _ := r.GetByUser(ctx, userID)
	var out []*domain.Goal
	for _, g := range all {
		if g.CompletedAt == nil {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGoalRepo) UpdateProgress(_ context.Context, goalID string, currentValue float64, completedAt *time.Time) error {
	if r.failIDs[goalID] {
		return fmt.Errorf("simulated failure for goal %s", goalID)
	}
	goal, ok := r.goals[goalID]
	if !ok {
		return domain.ErrNotFound
	}
	goal.CurrentValue = currentValue
	goal.CompletedAt = completedAt
	return nil
}

func (r *fakeGoalRepo) Delete(_ context.Context, id string) error {
	delete(r.goals, id)
	return nil
}

type fakeAchievementRepo struct {
	catalog []*domain.Achievement
}

func (r *fakeAchievementRepo) Upsert(_ context.Context, a *domain.Achievement) error {
	r.catalog = append(r.catalog, a)
	return nil
}

func (r *fakeAchievementRepo) GetAll(_ context.Context) ([]*domain.Achievement, error) {
	return r.catalog, nil
}

func (r *fakeAchievementRepo) GetAllExcept(_ context.Context, excludeIDs []string) ([]*domain.Achievement, error) {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []*domain.Achievement
	for _, a := range r.catalog {
		if !excluded[a.ID] {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeUserAchievementRepo struct {
	unlocked map[string]time.Time // achievementID -> achievedAt (single user)
}

func newFakeUserAchievementRepo() *fakeUserAchievementRepo {
	return &fakeUserAchievementRepo{unlocked: make(map[string]time.Time)}
}

func (r *fakeUserAchievementRepo) AchievementIDs(_ context.Context, _ string) ([]string, error) {
	var ids []string
	for id := range r.unlocked {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeUserAchievementRepo) Unlock(_ context.Context, _, achievementID string, achievedAt time.Time) (bool, error) {
	if _, exists := r.unlocked[achievementID]; exists {
		return false, nil
	}
	r.unlocked[achievementID] = achievedAt
	return true, nil
}

func (r *fakeUserAchievementRepo) GetByUser(_ context.Context, userID string) ([]*domain.UserAchievement, error) {
	var out []*domain.UserAchievement
	for id, at := range r.unlocked {
		out = append(out, &domain.UserAchievement{UserID: userID, AchievementID: id, AchievedAt: at})
	}
	return out, nil
}

type fakeNotifier struct {
	events []*domain.NotificationEvent
}

func (n *fakeNotifier) Notify(_ context.Context, _ *domain.User, event *domain.NotificationEvent) error {
	n.events = append(n.events, event)
	return nil
}
