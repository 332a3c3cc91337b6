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

// MongoAchievementRepository implements domain.AchievementRepository
type MongoAchievementRepository struct {
	collection *mongo.Collection
}

func NewMongoAchievementRepository(db *mongo.Database) *MongoAchievementRepository {
	coll := db.Collection("achievements")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	return &MongoAchievementRepository{
		collection: coll,
	}
}

func (r *MongoAchievementRepository) Upsert(ctx context.Context, achievement *domain.Achievement) error {
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":        achievement.Name,
			"description": achievement.Description,
			"icon":        achievement.Icon,
			"type":        achievement.Type,
			"threshold":   achievement.Threshold,
			"category":    achievement.Category,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"slug":       achievement.Slug,
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"slug": achievement.Slug}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert achievement %s: %w", achievement.Slug, err)
	}
	return nil
}

func (r *MongoAchievementRepository) GetAll(ctx context.Context) ([]*domain.Achievement, error) {
	return r.find(ctx, bson.M{})
}

// GetAllExcept filters out already-unlocked entries server-side so the
// evaluator only ever sees locked achievements.
func (r *MongoAchievementRepository) GetAllExcept(ctx context.Context, excludeIDs []string) ([]*domain.Achievement, error) {
	if len(excludeIDs) == 0 {
		return r.GetAll(ctx)
	}

	objIDs := make([]primitive.ObjectID, 0, len(excludeIDs))
	for _, id := range excludeIDs {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		objIDs = append(objIDs, objID)
	}

	return r.find(ctx, bson.M{"_id": bson.M{"$nin": objIDs}})
}

func (r *MongoAchievementRepository) find(ctx context.Context, filter bson.M) ([]*domain.Achievement, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "category", Value: 1},
		{Key: "threshold", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer cursor.Close(ctx)

	var achievements []*domain.Achievement
	if err := cursor.All(ctx, &achievements); err != nil {
		return nil, fmt.Errorf("failed to decode achievements: %w", err)
	}
	return achievements, nil
}
