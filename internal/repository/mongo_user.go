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

// MongoUserRepository implements domain.UserRepository
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	coll := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	return &MongoUserRepository{
		collection: coll,
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.NotificationPrefs == nil {
		// Both engine notification types default on; users opt out.
		user.NotificationPrefs = map[string]bool{
			domain.NotifyPersonalRecord: true,
			domain.NotifyAchievement:    true,
		}
	}

	objID := primitive.NewObjectID()
	user.ID = objID.Hex()

	doc := bson.M{
		"_id":                objID,
		"email":              user.Email,
		"name":               user.Name,
		"default_rest_time":  user.DefaultRestTime,
		"current_streak":     user.CurrentStreak,
		"longest_streak":     user.LongestStreak,
		"total_volume":       user.TotalVolume,
		"notification_prefs": user.NotificationPrefs,
		"created_at":         user.CreatedAt,
		"updated_at":         user.UpdatedAt,
	}
	if user.LastWorkoutAt != nil {
		doc["last_workout_at"] = *user.LastWorkoutAt
	}
	if len(user.DeviceTokens) > 0 {
		doc["device_tokens"] = user.DeviceTokens
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var user domain.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.ID = id
	return &user, nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	raw, err := r.collection.FindOne(ctx, bson.M{"email": email}).Raw()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	var user domain.User
	if err := bson.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	user.ID = raw.Lookup("_id").ObjectID().Hex()
	return &user, nil
}

// UpdateStreak rewrites the three streak fields in one update. Keeping the
// transition in a single $set means two racing syncs resolve to one
// writer's full view rather than a mix of both.
func (r *MongoUserRepository) UpdateStreak(ctx context.Context, userID string, currentStreak, longestStreak int, lastWorkoutAt time.Time) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrInvalidID
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{
			"current_streak":  currentStreak,
			"longest_streak":  longestStreak,
			"last_workout_at": lastWorkoutAt,
			"updated_at":      time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) IncrementTotalVolume(ctx context.Context, userID string, delta float64) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrInvalidID
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$inc": bson.M{"total_volume": delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to increment total volume: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) SetNotificationPref(ctx context.Context, userID string, prefType string, enabled bool) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrInvalidID
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{
			"notification_prefs." + prefType: enabled,
			"updated_at":                     time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set notification pref: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) AddDeviceToken(ctx context.Context, userID string, token string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrInvalidID
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$addToSet": bson.M{"device_tokens": token},
		"$set":      bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to add device token: %w", err)
	}
	return nil
}
