package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mkhalidi/liftpulse/internal/config"
	"github.com/mkhalidi/liftpulse/internal/domain"
	"github.com/mkhalidi/liftpulse/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var exercises = []domain.Exercise{
	// Legs
	{Name: "Barbell Squat", MuscleGroup: "Legs", Equipment: "Barbell", VideoURL: "https://www.youtube.com/watch?v=SW_C1A-rejs"},
	{Name: "Leg Press", MuscleGroup: "Legs", Equipment: "Machine", VideoURL: "https://www.youtube.com/watch?v=IZxyjW7MPJQ"},
	{Name: "Romanian Deadlift", MuscleGroup: "Legs (Hamstrings)", Equipment: "Barbell", VideoURL: "https://www.youtube.com/watch?v=JCXUYuzwZ_M"},
	{Name: "Bulgarian Split Squat", MuscleGroup: "Legs", Equipment: "Dumbbell", VideoURL: "https://www.youtube.com/watch?v=9FOMyxA3Lw4"},
	{Name: "Calf Raise", MuscleGroup: "Legs (Calves)", Equipment: "Machine", VideoURL: "https://www.youtube.com/watch?v=3UWi44yN-wM"},

	// Chest
	{Name: "Barbell Bench Press", MuscleGroup: "Chest", Equipment: "Barbell", VideoURL: "https://www.youtube.com/watch?v=EUjh50tLlBo"},
	{Name: "Incline Dumbbell Press", MuscleGroup: "Chest", Equipment: "Dumbbell", VideoURL: "https://www.youtube.com/watch?v=8iPEnn-ltC8"},
	{Name: "Push Up", MuscleGroup: "Chest", Equipment: "Bodyweight", VideoURL: "https://www.youtube.com/watch?v=IODxDxX7oi4"},
	{Name: "Cable Fly", MuscleGroup: "Chest", Equipment: "Cable", VideoURL: "https://www.youtube.com/watch?v=I-Ue34qLxc4"},

	// Back
	{Name: "Deadlift", MuscleGroup: "Back/Legs", Equipment: "Barbell", VideoURL: "https://www.youtube.com/watch?v=U1H1VG9Uh50"},
	{Name: "Pull Up", MuscleGroup: "Back", Equipment: "Bodyweight", VideoURL: "https://www.youtube.com/watch?v=eGo4IYlbE5g"},
	{Name: "Lat Pulldown", MuscleGroup: "Back", Equipment: "Cable", VideoURL: "https://www.youtube.com/watch?v=CAwf7n6Luuc"},
	{Name: "Barbell Row", MuscleGroup: "Back", Equipment: "Barbell", VideoURL: "https://www.youtube.com/watch?v=DgyslsszCQ0"},

	// Shoulders
	{Name: "Overhead Press", MuscleGroup: "Shoulders", Equipment: "Barbell", VideoURL: "https://www.youtube.com/watch?v=HzIiInu578Q"},
	{Name: "Lateral Raise", MuscleGroup: "Shoulders", Equipment: "Dumbbell", VideoURL: "https://www.youtube.com/watch?v=3VcKaXpzqRo"},

	// Arms
	{Name: "Barbell Curl", MuscleGroup: "Arms (Biceps)", Equipment: "Barbell", VideoURL: "https://www.youtube.com/watch?v=kwG2ipFRgfo"},
	{Name: "Triceps Pushdown", MuscleGroup: "Arms (Triceps)", Equipment: "Cable", VideoURL: "https://www.youtube.com/watch?v=2-LAMcpzODU"},
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
	repo := repository.NewMongoExerciseRepository(db)

	created := 0
	for i := range exercises {
		exercise := exercises[i]
		if err := repo.Create(ctx, &exercise); err != nil {
			if errors.Is(err, domain.ErrDuplicateExercise) {
				continue
			}
			log.Fatalf("Failed to seed exercise %s: %v", exercise.Name, err)
		}
		created++
	}

	log.Printf("Seeded %d exercises (%d already present)", created, len(exercises)-created)
}
