package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mkhalidi/liftpulse/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPersonalRecordRepository implements domain.PersonalRecordRepository
type MongoPersonalRecordRepository struct {
	collection *mongo.Collection
}

func NewMongoPersonalRecordRepository(db *mongo.Database) *MongoPersonalRecordRepository {
	coll := db.Collection("personal_records")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "exercise_id", Value: 1},
				{Key: "metric", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	})

	return &MongoPersonalRecordRepository{
		collection: coll,
	}
}

func (r *MongoPersonalRecordRepository) GetByUserAndExercise(ctx context.Context, userID, exerciseID string) (map[string]*domain.PersonalRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"user_id":     userID,
		"exercise_id": exerciseID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get personal records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.PersonalRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode personal records: %w", err)
	}

	byMetric := make(map[string]*domain.PersonalRecord, len(records))
	for _, pr := range records {
		byMetric[pr.Metric] = pr
	}
	return byMetric, nil
}

// Save upserts on the (user, exercise, metric) key. created_at survives an
// overwrite so the row records when the user first set any record on the
// metric.
func (r *MongoPersonalRecordRepository) Save(ctx context.Context, pr *domain.PersonalRecord) error {
	now := time.Now()
	pr.UpdatedAt = now

	filter := bson.M{
		"user_id":     pr.UserID,
		"exercise_id": pr.ExerciseID,
		"metric":      pr.Metric,
	}
	update := bson.M{
		"$set": bson.M{
			"value":           pr.Value,
			"secondary_value": pr.SecondaryValue,
			"workout_id":      pr.WorkoutID,
			"set_id":          pr.SetID,
			"achieved_at":     pr.AchievedAt,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{
			"user_id":     pr.UserID,
			"exercise_id": pr.ExerciseID,
			"metric":      pr.Metric,
			"created_at":  now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save personal record: %w", err)
	}
	return nil
}

func (r *MongoPersonalRecordRepository) GetByUser(ctx context.Context, userID string) ([]*domain.PersonalRecord, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "exercise_id", Value: 1},
		{Key: "metric", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list personal records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.PersonalRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode personal records: %w", err)
	}
	return records, nil
}

func (r *MongoPersonalRecordRepository) MaxValue(ctx context.Context, userID, metric string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id": userID,
			"metric":  metric,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"max": bson.M{"$max": "$value"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate personal records: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Max float64 `bson:"max"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode aggregation: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Max, nil
}
