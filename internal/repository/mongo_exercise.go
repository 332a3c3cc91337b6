package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mkhalidi/liftpulse/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoExerciseRepository implements domain.ExerciseRepository
type MongoExerciseRepository struct {
	collection *mongo.Collection
}

func NewMongoExerciseRepository(db *mongo.Database) *MongoExerciseRepository {
	coll := db.Collection("exercises")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	return &MongoExerciseRepository{
		collection: coll,
	}
}

func (r *MongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	now := time.Now()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	objID := primitive.NewObjectID()
	exercise.ID = objID.Hex()

	doc := bson.M{
		"_id":          objID,
		"name":         exercise.Name,
		"muscle_group": exercise.MuscleGroup,
		"equipment":    exercise.Equipment,
		"video_url":    exercise.VideoURL,
		"created_at":   exercise.CreatedAt,
		"updated_at":   exercise.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateExercise
		}
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	return nil
}

func (r *MongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var exercise domain.Exercise
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&exercise); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	return &exercise, nil
}

// GetByIDs batch-fetches exercises with a single $in query. Unknown or
// malformed IDs are silently dropped from the result.
func (r *MongoExerciseRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Exercise, error) {
	if len(ids) == 0 {
		return []*domain.Exercise{}, nil
	}

	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, objID)
		}
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to batch get exercises: %w", err)
	}
	defer cursor.Close(ctx)

	var exercises []*domain.Exercise
	if err := cursor.All(ctx, &exercises); err != nil {
		return nil, fmt.Errorf("failed to decode exercises: %w", err)
	}
	return exercises, nil
}

func (r *MongoExerciseRepository) List(ctx context.Context) ([]*domain.Exercise, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer cursor.Close(ctx)

	var exercises []*domain.Exercise
	if err := cursor.All(ctx, &exercises); err != nil {
		return nil, fmt.Errorf("failed to decode exercises: %w", err)
	}
	return exercises, nil
}
