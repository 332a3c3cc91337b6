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

// MongoWorkoutRepository implements domain.WorkoutRepository
type MongoWorkoutRepository struct {
	collection *mongo.Collection
}

func NewMongoWorkoutRepository(db *mongo.Database) *MongoWorkoutRepository {
	coll := db.Collection("workouts")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "started_at", Value: -1}},
		},
	})

	return &MongoWorkoutRepository{
		collection: coll,
	}
}

func (r *MongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	now := time.Now()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.StartedAt.IsZero() {
		workout.StartedAt = now
	}

	objID := primitive.NewObjectID()
	workout.ID = objID.Hex()

	doc := bson.M{
		"_id":        objID,
		"user_id":    workout.UserID,
		"name":       workout.Name,
		"started_at": workout.StartedAt,
		"volume":     workout.Volume,
		"created_at": workout.CreatedAt,
		"updated_at": workout.UpdatedAt,
	}
	if workout.EndedAt != nil {
		doc["ended_at"] = *workout.EndedAt
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	return nil
}

func (r *MongoWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var workout domain.Workout
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&workout); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}
	return &workout, nil
}

func (r *MongoWorkoutRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*domain.Workout, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer cursor.Close(ctx)

	var workouts []*domain.Workout
	if err := cursor.All(ctx, &workouts); err != nil {
		return nil, fmt.Errorf("failed to decode workouts: %w", err)
	}
	return workouts, nil
}

// LatestByUser returns the most recently started workout, or nil when the
// user has none.
func (r *MongoWorkoutRepository) LatestByUser(ctx context.Context, userID string) (*domain.Workout, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})

	var workout domain.Workout
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&workout); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest workout: %w", err)
	}
	return &workout, nil
}

func (r *MongoWorkoutRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count workouts: %w", err)
	}
	return count, nil
}

// WorkoutDates returns the distinct calendar days (YYYY-MM-DD) on which the
// user trained since the given time, newest first. Two workouts on the same
// day collapse to one entry.
func (r *MongoWorkoutRepository) WorkoutDates(ctx context.Context, userID string, since time.Time) ([]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":    userID,
			"started_at": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$started_at",
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": -1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate workout dates: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Date string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode workout dates: %w", err)
	}

	dates := make([]string, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.Date)
	}
	return dates, nil
}

func (r *MongoWorkoutRepository) Finish(ctx context.Context, id string, endedAt time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{
			"ended_at":   endedAt,
			"updated_at": time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to finish workout: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrWorkoutNotFound
	}
	return nil
}

func (r *MongoWorkoutRepository) IncrementVolume(ctx context.Context, id string, delta float64) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$inc": bson.M{"volume": delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to increment workout volume: %w", err)
	}
	return nil
}

func (r *MongoWorkoutRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrWorkoutNotFound
	}
	return nil
}
