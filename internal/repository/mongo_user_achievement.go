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

// MongoUserAchievementRepository implements domain.UserAchievementRepository
type MongoUserAchievementRepository struct {
	collection *mongo.Collection
}

func NewMongoUserAchievementRepository(db *mongo.Database) *MongoUserAchievementRepository {
	coll := db.Collection("user_achievements")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// The unique index is what makes Unlock idempotent under
			// concurrent syncs.
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "achievement_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	})

	return &MongoUserAchievementRepository{
		collection: coll,
	}
}

func (r *MongoUserAchievementRepository) AchievementIDs(ctx context.Context, userID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"achievement_id": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocked achievement ids: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		AchievementID string `bson:"achievement_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode unlocked achievement ids: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.AchievementID)
	}
	return ids, nil
}

func (r *MongoUserAchievementRepository) Unlock(ctx context.Context, userID, achievementID string, achievedAt time.Time) (bool, error) {
	doc := bson.M{
		"_id":            primitive.NewObjectID(),
		"user_id":        userID,
		"achievement_id": achievementID,
		"achieved_at":    achievedAt,
		"created_at":     time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	return true, nil
}

func (r *MongoUserAchievementRepository) GetByUser(ctx context.Context, userID string) ([]*domain.UserAchievement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "achieved_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list user achievements: %w", err)
	}
	defer cursor.Close(ctx)

	var unlocked []*domain.UserAchievement
	if err := cursor.All(ctx, &unlocked); err != nil {
		return nil, fmt.Errorf("failed to decode user achievements: %w", err)
	}
	return unlocked, nil
}
