package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mkhalidi/liftpulse/internal/notification"
	"github.com/mkhalidi/liftpulse/internal/repository"
	"github.com/mkhalidi/liftpulse/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	userID := flag.String("user", "", "User ID to rebuild derived state for (required)")
	mongoURI := flag.String("mongo", "mongodb://localhost:27017", "MongoDB connection URI")
	dbName := flag.String("db", "liftpulse", "Database name")
	dryRun := flag.Bool("dry-run", false, "Print the computed snapshot without writing anything")
	flag.Parse()

	if *userID == "" {
		fmt.Println("Usage: resync -user <USER_ID> [-mongo <URI>] [-db <NAME>] [-dry-run]")
		fmt.Println("\nRebuilds a user's derived state from the activity log:")
		fmt.Println("streak counters, personal records, goal progress, achievements.")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(*dbName)

	userRepo := repository.NewMongoUserRepository(db)
	workoutRepo := repository.NewMongoWorkoutRepository(db)
	setRepo := repository.NewMongoSetRepository(db)
	measurementRepo := repository.NewMongoBodyMeasurementRepository(db)
	prRepo := repository.NewMongoPersonalRecordRepository(db)
	goalRepo := repository.NewMongoGoalRepository(db)
	achievementRepo := repository.NewMongoAchievementRepository(db)
	userAchRepo := repository.NewMongoUserAchievementRepository(db)

	// No redis, no push from the maintenance path: the snapshot is computed
	// fresh and notifications stay in the terminal.
	notifier := notification.NewLogNotifier()

	recordService := service.NewRecordService(prRepo, userRepo, notifier)
	streakService := service.NewStreakService(userRepo, workoutRepo)
	goalService := service.NewGoalService(goalRepo, workoutRepo, setRepo, measurementRepo)
	achievementService := service.NewAchievementService(
		achievementRepo, userAchRepo, userRepo, workoutRepo, setRepo, prRepo, nil, notifier,
	)
	activityService := service.NewActivityService(
		userRepo, workoutRepo, setRepo, measurementRepo, nil,
		recordService, streakService, goalService, achievementService,
	)

	user, err := userRepo.GetByID(ctx, *userID)
	if err != nil {
		log.Fatalf("Failed to load user %s: %v", *userID, err)
	}
	fmt.Printf("🔍 Rebuilding derived state for %s (%s)\n", user.Name, user.ID)

	if *dryRun {
		stats, err := achievementService.Snapshot(ctx, *userID)
		if err != nil {
			log.Fatalf("Failed to compute snapshot: %v", err)
		}
		fmt.Println("Dry run, nothing written. Current snapshot:")
		fmt.Printf("  workouts:         %d\n", stats.WorkoutCount)
		fmt.Printf("  max set weight:   %.1f kg\n", stats.MaxSetWeight)
		fmt.Printf("  total volume:     %.1f kg\n", stats.TotalVolume)
		fmt.Printf("  workout days:     %d\n", len(stats.WorkoutDates))
		fmt.Printf("  longest day run:  %d\n", stats.MaxConsecutiveDays())
		return
	}

	if err := activityService.ResyncUser(ctx, *userID); err != nil {
		log.Fatalf("Resync failed: %v", err)
	}

	user, err = userRepo.GetByID(ctx, *userID)
	if err != nil {
		log.Fatalf("Failed to reload user: %v", err)
	}
	fmt.Printf("✓ Resync complete: streak %d (longest %d), total volume %.1f kg\n",
		user.CurrentStreak, user.LongestStreak, user.TotalVolume)
}
