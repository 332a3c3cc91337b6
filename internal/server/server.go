package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mkhalidi/liftpulse/internal/config"
	"github.com/mkhalidi/liftpulse/internal/domain"
	"github.com/mkhalidi/liftpulse/internal/handler"
	"github.com/mkhalidi/liftpulse/internal/middleware"
	"github.com/mkhalidi/liftpulse/internal/repository"
	"github.com/mkhalidi/liftpulse/internal/service"
	"github.com/mkhalidi/liftpulse/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	Notifier    domain.Notifier
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Initialize repositories
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	workoutRepo := repository.NewMongoWorkoutRepository(deps.MongoDB)
	setRepo := repository.NewMongoSetRepository(deps.MongoDB)
	exerciseRepo := repository.NewMongoExerciseRepository(deps.MongoDB)
	measurementRepo := repository.NewMongoBodyMeasurementRepository(deps.MongoDB)
	prRepo := repository.NewMongoPersonalRecordRepository(deps.MongoDB)
	goalRepo := repository.NewMongoGoalRepository(deps.MongoDB)
	achievementRepo := repository.NewMongoAchievementRepository(deps.MongoDB)
	userAchRepo := repository.NewMongoUserAchievementRepository(deps.MongoDB)
	cacheRepo := repository.NewRedisCacheRepository(deps.RedisClient)

	// Initialize tracker services
	recordService := service.NewRecordService(prRepo, userRepo, deps.Notifier)
	streakService := service.NewStreakService(userRepo, workoutRepo)
	goalService := service.NewGoalService(goalRepo, workoutRepo, setRepo, measurementRepo)
	achievementService := service.NewAchievementService(
		achievementRepo,
		userAchRepo,
		userRepo,
		workoutRepo,
		setRepo,
		prRepo,
		cacheRepo,
		deps.Notifier,
	)
	activityService := service.NewActivityService(
		userRepo,
		workoutRepo,
		setRepo,
		measurementRepo,
		cacheRepo,
		recordService,
		streakService,
		goalService,
		achievementService,
	)

	// Initialize handlers
	activityHandler := handler.NewActivityHandler(activityService)
	progressHandler := handler.NewProgressHandler(
		userRepo,
		prRepo,
		goalRepo,
		exerciseRepo,
		cacheRepo,
		goalService,
		achievementService,
	)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LiftPulse Progress Engine",
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	if deps.Config.OTEL.Enabled {
		app.Use(telemetry.FiberMiddleware())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "liftpulse",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	// Public exercise catalog
	v1.Get("/exercises", progressHandler.ListExercises)

	me := v1.Group("/me")
	me.Use(middleware.VerifyToken(deps.Config.JWT.Secret))

	// Activity ingest (fires the trackers inline)
	me.Post("/workouts", activityHandler.CreateWorkout)
	me.Patch("/workouts/:id/finish", activityHandler.FinishWorkout)
	me.Post("/workouts/:id/sets", activityHandler.CreateSet)
	me.Delete("/sets/:id", activityHandler.DeleteSet)
	me.Post("/measurements", activityHandler.CreateMeasurement)
	me.Post("/sync", activityHandler.Resync)

	// Derived-state reads
	me.Get("/records", progressHandler.GetMyRecords)
	me.Get("/streak", progressHandler.GetMyStreak)
	me.Get("/progress", progressHandler.GetMyProgress)
	me.Get("/achievements", progressHandler.GetMyAchievements)

	// Goal definitions (user input; progress is engine-owned)
	me.Get("/goals", progressHandler.GetMyGoals)
	me.Post("/goals", progressHandler.CreateGoal)
	me.Delete("/goals/:id", progressHandler.DeleteGoal)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
