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

// MongoSetRepository implements domain.SetRepository
type MongoSetRepository struct {
	collection *mongo.Collection
}

func NewMongoSetRepository(db *mongo.Database) *MongoSetRepository {
	coll := db.Collection("sets")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "workout_id", Value: 1}, {Key: "set_index", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "exercise_id", Value: 1}},
		},
		{
			// Offline-first clients retry with the same ULID; the unique
			// index turns a replay into a duplicate-key error instead of a
			// second row.
			Keys:    bson.D{{Key: "client_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})

	return &MongoSetRepository{
		collection: coll,
	}
}

func (r *MongoSetRepository) Create(ctx context.Context, set *domain.Set) error {
	now := time.Now()
	set.CreatedAt = now
	set.UpdatedAt = now

	objID := primitive.NewObjectID()
	set.ID = objID.Hex()

	doc := bson.M{
		"_id":         objID,
		"workout_id":  set.WorkoutID,
		"user_id":     set.UserID,
		"exercise_id": set.ExerciseID,
		"set_index":   set.SetIndex,
		"weight":      set.Weight,
		"reps":        set.Reps,
		"is_warmup":   set.IsWarmup,
		"created_at":  set.CreatedAt,
		"updated_at":  set.UpdatedAt,
	}
	if set.ClientID != "" {
		doc["client_id"] = set.ClientID
	}
	if set.DurationSeconds > 0 {
		doc["duration_seconds"] = set.DurationSeconds
	}
	if set.DistanceMeters > 0 {
		doc["distance_meters"] = set.DistanceMeters
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateSet
		}
		return fmt.Errorf("failed to create set: %w", err)
	}
	return nil
}

func (r *MongoSetRepository) GetByID(ctx context.Context, id string) (*domain.Set, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var set domain.Set
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&set); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get set: %w", err)
	}
	return &set, nil
}

func (r *MongoSetRepository) GetByClientID(ctx context.Context, clientID string) (*domain.Set, error) {
	var set domain.Set
	if err := r.collection.FindOne(ctx, bson.M{"client_id": clientID}).Decode(&set); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get set by client id: %w", err)
	}
	return &set, nil
}

func (r *MongoSetRepository) GetByWorkoutID(ctx context.Context, workoutID string) ([]*domain.Set, error) {
	opts := options.Find().SetSort(bson.D{{Key: "set_index", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"workout_id": workoutID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets: %w", err)
	}
	defer cursor.Close(ctx)

	var sets []*domain.Set
	if err := cursor.All(ctx, &sets); err != nil {
		return nil, fmt.Errorf("failed to decode sets: %w", err)
	}
	return sets, nil
}

func (r *MongoSetRepository) Update(ctx context.Context, set *domain.Set) error {
	objID, err := primitive.ObjectIDFromHex(set.ID)
	if err != nil {
		return domain.ErrInvalidID
	}

	set.UpdatedAt = time.Now()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{
			"weight":           set.Weight,
			"reps":             set.Reps,
			"duration_seconds": set.DurationSeconds,
			"distance_meters":  set.DistanceMeters,
			"is_warmup":        set.IsWarmup,
			"updated_at":       set.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update set: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoSetRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MaxWeightForExercise returns the heaviest working-set weight the user has
// ever logged for the exercise, 0 when they never trained it.
func (r *MongoSetRepository) MaxWeightForExercise(ctx context.Context, userID, exerciseID string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":     userID,
			"exercise_id": exerciseID,
			"is_warmup":   false,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"max": bson.M{"$max": "$weight"},
		}}},
	}
	return r.aggregateScalar(ctx, pipeline, "max")
}

// MaxWorkoutVolume returns the largest per-workout volume of one exercise
// (sum of weight*reps over its working sets) across all the user's workouts.
func (r *MongoSetRepository) MaxWorkoutVolume(ctx context.Context, userID, exerciseID string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":     userID,
			"exercise_id": exerciseID,
			"is_warmup":   false,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$workout_id",
			"volume": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$weight", "$reps"},
			}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"max": bson.M{"$max": "$volume"},
		}}},
	}
	return r.aggregateScalar(ctx, pipeline, "max")
}

// TotalVolume sums weight*reps over every set the user ever logged, warmups
// included, matching the incrementally maintained per-user counter.
func (r *MongoSetRepository) TotalVolume(ctx context.Context, userID string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id": userID,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"total": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$weight", "$reps"},
			}},
		}}},
	}
	return r.aggregateScalar(ctx, pipeline, "total")
}

func (r *MongoSetRepository) aggregateScalar(ctx context.Context, pipeline mongo.Pipeline, field string) (float64, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate sets: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode aggregation: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	switch v := rows[0][field].(type) {
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, nil
	}
}
