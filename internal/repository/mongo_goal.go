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

// MongoGoalRepository implements domain.GoalRepository
type MongoGoalRepository struct {
	collection *mongo.Collection
}

func NewMongoGoalRepository(db *mongo.Database) *MongoGoalRepository {
	coll := db.Collection("goals")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "completed_at", Value: 1}},
		},
	})

	return &MongoGoalRepository{
		collection: coll,
	}
}

func (r *MongoGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	now := time.Now()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	objID := primitive.NewObjectID()
	goal.ID = objID.Hex()

	doc := bson.M{
		"_id":           objID,
		"user_id":       goal.UserID,
		"title":         goal.Title,
		"type":          goal.Type,
		"target_value":  goal.TargetValue,
		"start_value":   goal.StartValue,
		"current_value": goal.CurrentValue,
		"created_at":    goal.CreatedAt,
		"updated_at":    goal.UpdatedAt,
	}
	if goal.ExerciseID != "" {
		doc["exercise_id"] = goal.ExerciseID
	}
	if goal.MeasurementKind != "" {
		doc["measurement_kind"] = goal.MeasurementKind
	}
	if goal.Deadline != nil {
		doc["deadline"] = *goal.Deadline
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (r *MongoGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var goal domain.Goal
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&goal); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return &goal, nil
}

func (r *MongoGoalRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Goal, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoGoalRepository) GetOpenByUser(ctx context.Context, userID string) ([]*domain.Goal, error) {
	return r.find(ctx, bson.M{
		"user_id":      userID,
		"completed_at": nil,
	})
}

func (r *MongoGoalRepository) find(ctx context.Context, filter bson.M) ([]*domain.Goal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer cursor.Close(ctx)

	var goals []*domain.Goal
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, fmt.Errorf("failed to decode goals: %w", err)
	}
	return goals, nil
}

// UpdateProgress rewrites current_value and completed_at together. A nil
// completedAt unsets the field so an un-completed goal matches the open-goal
// filter again.
func (r *MongoGoalRepository) UpdateProgress(ctx context.Context, goalID string, currentValue float64, completedAt *time.Time) error {
	objID, err := primitive.ObjectIDFromHex(goalID)
	if err != nil {
		return domain.ErrInvalidID
	}

	set := bson.M{
		"current_value": currentValue,
		"updated_at":    time.Now(),
	}
	update := bson.M{"$set": set}
	if completedAt != nil {
		set["completed_at"] = *completedAt
	} else {
		update["$unset"] = bson.M{"completed_at": ""}
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoGoalRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
