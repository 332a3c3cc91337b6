package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mkhalidi/liftpulse/internal/domain"
	"github.com/mkhalidi/liftpulse/internal/service"
	"github.com/mkhalidi/liftpulse/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ActivityHandler is the ingest surface: the surrounding app records raw
// activity here and the trackers fire inline.
type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// CreateWorkoutRequest is the payload for POST /v1/me/workouts
type CreateWorkoutRequest struct {
	Name      string     `json:"name"`
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

// CreateWorkout handles POST /v1/me/workouts
func (h *ActivityHandler) CreateWorkout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req CreateWorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	workout := &domain.Workout{
		UserID: userID,
		Name:   req.Name,
	}
	if req.StartedAt != nil {
		workout.StartedAt = *req.StartedAt
	}
	workout.EndedAt = req.EndedAt

	if err := h.activityService.RecordWorkout(c.UserContext(), workout); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(workout)
}

// FinishWorkout handles PATCH /v1/me/workouts/:id/finish
func (h *ActivityHandler) FinishWorkout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	workoutID := c.Params("id")

	workout, err := h.activityService.FinishWorkout(c.UserContext(), userID, workoutID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(workout)
}

// CreateSetRequest is the payload for POST /v1/me/workouts/:id/sets
type CreateSetRequest struct {
	ClientID        string  `json:"client_id"`
	ExerciseID      string  `json:"exercise_id"`
	SetIndex        int     `json:"set_index"`
	Weight          float64 `json:"weight"`
	Reps            int     `json:"reps"`
	DurationSeconds int     `json:"duration_seconds"`
	DistanceMeters  float64 `json:"distance_meters"`
	IsWarmup        bool    `json:"is_warmup"`
}

// CreateSet handles POST /v1/me/workouts/:id/sets
func (h *ActivityHandler) CreateSet(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	workoutID := c.Params("id")

	var req CreateSetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ExerciseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "exercise_id is required"})
	}

	set := &domain.Set{
		ClientID:        req.ClientID,
		WorkoutID:       workoutID,
		ExerciseID:      req.ExerciseID,
		SetIndex:        req.SetIndex,
		Weight:          req.Weight,
		Reps:            req.Reps,
		DurationSeconds: req.DurationSeconds,
		DistanceMeters:  req.DistanceMeters,
		IsWarmup:        req.IsWarmup,
	}

	created, err := h.activityService.RecordSet(c.UserContext(), userID, set)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// DeleteSet handles DELETE /v1/me/sets/:id
func (h *ActivityHandler) DeleteSet(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	setID := c.Params("id")

	if err := h.activityService.DeleteSet(c.UserContext(), userID, setID); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateMeasurementRequest is the payload for POST /v1/me/measurements
type CreateMeasurementRequest struct {
	Weight     float64    `json:"weight"`
	BodyFat    float64    `json:"body_fat"`
	Chest      float64    `json:"chest"`
	Waist      float64    `json:"waist"`
	Hips       float64    `json:"hips"`
	Arms       float64    `json:"arms"`
	Thighs     float64    `json:"thighs"`
	MeasuredAt *time.Time `json:"measured_at"`
}

// CreateMeasurement handles POST /v1/me/measurements
func (h *ActivityHandler) CreateMeasurement(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req CreateMeasurementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	m := &domain.BodyMeasurement{
		UserID:  userID,
		Weight:  req.Weight,
		BodyFat: req.BodyFat,
		Chest:   req.Chest,
		Waist:   req.Waist,
		Hips:    req.Hips,
		Arms:    req.Arms,
		Thighs:  req.Thighs,
	}
	if req.MeasuredAt != nil {
		m.MeasuredAt = *req.MeasuredAt
	}

	if err := h.activityService.RecordMeasurement(c.UserContext(), m); err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// Resync handles POST /v1/me/sync, the full recovery recompute
func (h *ActivityHandler) Resync(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	if err := h.activityService.ResyncUser(c.UserContext(), userID); err != nil {
		return errorResponse(c, err)
	}

	// Resyncs are rare and expensive; mark them on the request trace.
	telemetry.AddSpanEvent(c, "derived_state.resynced",
		attribute.String("user.id", userID))

	return c.JSON(fiber.Map{"status": "resynced"})
}

// errorResponse maps domain errors to HTTP statuses
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrWorkoutNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
