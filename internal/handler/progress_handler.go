package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mkhalidi/liftpulse/internal/domain"
	"github.com/mkhalidi/liftpulse/internal/service"
)

const viewCacheTTL = 5 * time.Minute

// ProgressHandler serves the derived-state read views
type ProgressHandler struct {
	userRepo           domain.UserRepository
	prRepo             domain.PersonalRecordRepository
	goalRepo           domain.GoalRepository
	exerciseRepo       domain.ExerciseRepository
	cacheRepo          domain.CacheRepository
	goalService        *service.GoalService
	achievementService *service.AchievementService
}

func NewProgressHandler(
	userRepo domain.UserRepository,
	prRepo domain.PersonalRecordRepository,
	goalRepo domain.GoalRepository,
	exerciseRepo domain.ExerciseRepository,
	cacheRepo domain.CacheRepository,
	goalService *service.GoalService,
	achievementService *service.AchievementService,
) *ProgressHandler {
	return &ProgressHandler{
		userRepo:           userRepo,
		prRepo:             prRepo,
		goalRepo:           goalRepo,
		exerciseRepo:       exerciseRepo,
		cacheRepo:          cacheRepo,
		goalService:        goalService,
		achievementService: achievementService,
	}
}

// RecordWithExerciseName is a PersonalRecord enriched with the exercise name
type RecordWithExerciseName struct {
	ID             string    `json:"id"`
	ExerciseID     string    `json:"exercise_id"`
	ExerciseName   string    `json:"exercise_name"`
	Metric         string    `json:"metric"`
	Value          float64   `json:"value"`
	SecondaryValue *float64  `json:"secondary_value,omitempty"`
	AchievedAt     time.Time `json:"achieved_at"`
}

// GetMyRecords handles GET /v1/me/records
func (h *ProgressHandler) GetMyRecords(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var cached []RecordWithExerciseName
	if err := h.cacheRepo.GetRecords(c.UserContext(), userID, &cached); err == nil {
		return c.JSON(cached)
	}

	records, err := h.prRepo.GetByUser(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	if len(records) == 0 {
		return c.JSON([]RecordWithExerciseName{})
	}

	// Batch fetch exercise names with one $in query (prevents N+1)
	exerciseIDs := make([]string, 0, len(records))
	seen := make(map[string]bool)
	for _, pr := range records {
		if !seen[pr.ExerciseID] {
			seen[pr.ExerciseID] = true
			exerciseIDs = append(exerciseIDs, pr.ExerciseID)
		}
	}
	exercises, err := h.exerciseRepo.GetByIDs(c.UserContext(), exerciseIDs)
	if err != nil {
		exercises = []*domain.Exercise{}
	}
	exerciseNames := make(map[string]string, len(exercises))
	for _, ex := range exercises {
		exerciseNames[ex.ID] = ex.Name
	}

	result := make([]RecordWithExerciseName, len(records))
	for i, pr := range records {
		result[i] = RecordWithExerciseName{
			ID:             pr.ID,
			ExerciseID:     pr.ExerciseID,
			ExerciseName:   exerciseNames[pr.ExerciseID],
			Metric:         pr.Metric,
			Value:          pr.Value,
			SecondaryValue: pr.SecondaryValue,
			AchievedAt:     pr.AchievedAt,
		}
	}

	_ = h.cacheRepo.SetRecords(c.UserContext(), userID, result, viewCacheTTL)
	return c.JSON(result)
}

// GetMyStreak handles GET /v1/me/streak
func (h *ProgressHandler) GetMyStreak(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	user, err := h.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"current_streak":  user.CurrentStreak,
		"longest_streak":  user.LongestStreak,
		"last_workout_at": user.LastWorkoutAt,
		"total_volume":    user.TotalVolume,
	})
}

// GoalWithProgress decorates a goal with its completion percentage
type GoalWithProgress struct {
	*domain.Goal
	ProgressPercent float64 `json:"progress_percent"`
}

// GetMyGoals handles GET /v1/me/goals
func (h *ProgressHandler) GetMyGoals(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	goals, err := h.goalRepo.GetByUser(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}

	result := make([]GoalWithProgress, len(goals))
	for i, goal := range goals {
		result[i] = GoalWithProgress{Goal: goal, ProgressPercent: goal.Progress()}
	}
	return c.JSON(result)
}

// CreateGoalRequest is the payload for POST /v1/me/goals
type CreateGoalRequest struct {
	Title           string     `json:"title"`
	Type            string     `json:"type"`
	TargetValue     float64    `json:"target_value"`
	StartValue      float64    `json:"start_value"`
	ExerciseID      string     `json:"exercise_id"`
	MeasurementKind string     `json:"measurement_kind"`
	Deadline        *time.Time `json:"deadline"`
}

// CreateGoal handles POST /v1/me/goals
func (h *ProgressHandler) CreateGoal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	goal := &domain.Goal{
		UserID:          userID,
		Title:           req.Title,
		Type:            req.Type,
		TargetValue:     req.TargetValue,
		StartValue:      req.StartValue,
		ExerciseID:      req.ExerciseID,
		MeasurementKind: req.MeasurementKind,
		Deadline:        req.Deadline,
	}

	if err := h.goalService.CreateGoal(c.UserContext(), goal); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(GoalWithProgress{Goal: goal, ProgressPercent: goal.Progress()})
}

// DeleteGoal handles DELETE /v1/me/goals/:id
func (h *ProgressHandler) DeleteGoal(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	goalID := c.Params("id")

	if err := h.goalService.DeleteGoal(c.UserContext(), userID, goalID); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMyAchievements handles GET /v1/me/achievements
func (h *ProgressHandler) GetMyAchievements(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var cached []*domain.AchievementWithStatus
	if err := h.cacheRepo.GetAchievements(c.UserContext(), userID, &cached); err == nil {
		return c.JSON(cached)
	}

	achievements, err := h.achievementService.ListForUser(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}

	_ = h.cacheRepo.SetAchievements(c.UserContext(), userID, achievements, viewCacheTTL)
	return c.JSON(achievements)
}

// ProgressOverview is the assembled response for GET /v1/me/progress
type ProgressOverview struct {
	CurrentStreak int                `json:"current_streak"`
	LongestStreak int                `json:"longest_streak"`
	LastWorkoutAt *time.Time         `json:"last_workout_at,omitempty"`
	WorkoutCount  int64              `json:"workout_count"`
	TotalVolume   float64            `json:"total_volume"`
	MaxSetWeight  float64            `json:"max_set_weight"`
	OpenGoals     []GoalWithProgress `json:"open_goals"`
}

// GetMyProgress handles GET /v1/me/progress
func (h *ProgressHandler) GetMyProgress(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var cached ProgressOverview
	if err := h.cacheRepo.GetProgressOverview(c.UserContext(), userID, &cached); err == nil {
		return c.JSON(cached)
	}

	user, err := h.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}

	stats, err := h.achievementService.Snapshot(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}

	openGoals, err := h.goalRepo.GetOpenByUser(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	goals := make([]GoalWithProgress, len(openGoals))
	for i, goal := range openGoals {
		goals[i] = GoalWithProgress{Goal: goal, ProgressPercent: goal.Progress()}
	}

	overview := ProgressOverview{
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
		LastWorkoutAt: user.LastWorkoutAt,
		WorkoutCount:  stats.WorkoutCount,
		TotalVolume:   user.TotalVolume,
		MaxSetWeight:  stats.MaxSetWeight,
		OpenGoals:     goals,
	}

	_ = h.cacheRepo.SetProgressOverview(c.UserContext(), userID, overview, viewCacheTTL)
	return c.JSON(overview)
}

// ListExercises handles GET /v1/exercises (public catalog)
func (h *ProgressHandler) ListExercises(c *fiber.Ctx) error {
	exercises, err := h.exerciseRepo.List(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(exercises)
}
