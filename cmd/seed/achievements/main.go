package main

import (
	"context"
	"log"
	"time"

	"github.com/mkhalidi/liftpulse/internal/config"
	"github.com/mkhalidi/liftpulse/internal/domain"
	"github.com/mkhalidi/liftpulse/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The catalog is keyed by slug, so re-running the seeder updates copy and
// thresholds without duplicating entries or touching unlocks.
var catalog = []domain.Achievement{
	{Slug: "first-workout", Name: "First Steps", Description: "Complete your first workout", Icon: "🏁", Type: domain.AchievementCount, Threshold: 1, Category: "consistency"},
	{Slug: "three-workouts", Name: "Getting Into It", Description: "Complete 3 workouts", Icon: "🔥", Type: domain.AchievementCount, Threshold: 3, Category: "consistency"},
	{Slug: "ten-workouts", Name: "Regular", Description: "Complete 10 workouts", Icon: "💪", Type: domain.AchievementCount, Threshold: 10, Category: "consistency"},
	{Slug: "streak-three", Name: "On a Roll", Description: "Train 3 days in a row", Icon: "⚡", Type: domain.AchievementStreak, Threshold: 3, Category: "consistency"},
	{Slug: "club-100", Name: "100 kg Club", Description: "Lift 100 kg in a single set", Icon: "🏋️", Type: domain.AchievementWeightRecord, Threshold: 100, Category: "strength"},
	{Slug: "club-140", Name: "140 kg Club", Description: "Lift 140 kg in a single set", Icon: "🦍", Type: domain.AchievementWeightRecord, Threshold: 140, Category: "strength"},
	{Slug: "volume-5k", Name: "Five Tonner", Description: "Move 5,000 kg of total volume", Icon: "🚛", Type: domain.AchievementVolumeTotal, Threshold: 5000, Category: "volume"},
	{Slug: "volume-50k", Name: "Mountain Mover", Description: "Move 50,000 kg of total volume", Icon: "⛰️", Type: domain.AchievementVolumeTotal, Threshold: 50000, Category: "volume"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB.Database)
	repo := repository.NewMongoAchievementRepository(db)

	for i := range catalog {
		achievement := catalog[i]
		if err := repo.Upsert(ctx, &achievement); err != nil {
			log.Fatalf("Failed to seed achievement %s: %v", achievement.Slug, err)
		}
		log.Printf("✓ %s (%s >= %.0f)", achievement.Slug, achievement.Type, achievement.Threshold)
	}

	log.Printf("Seeded %d achievements", len(catalog))
}
