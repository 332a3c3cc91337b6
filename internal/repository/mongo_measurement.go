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

// MongoBodyMeasurementRepository implements domain.BodyMeasurementRepository
type MongoBodyMeasurementRepository struct {
	collection *mongo.Collection
}

func NewMongoBodyMeasurementRepository(db *mongo.Database) *MongoBodyMeasurementRepository {
	coll := db.Collection("body_measurements")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "measured_at", Value: -1}},
		},
	})

	return &MongoBodyMeasurementRepository{
		collection: coll,
	}
}

func (r *MongoBodyMeasurementRepository) Create(ctx context.Context, m *domain.BodyMeasurement) error {
	m.CreatedAt = time.Now()
	if m.MeasuredAt.IsZero() {
		m.MeasuredAt = m.CreatedAt
	}

	objID := primitive.NewObjectID()
	m.ID = objID.Hex()

	doc := bson.M{
		"_id":         objID,
		"user_id":     m.UserID,
		"measured_at": m.MeasuredAt,
		"created_at":  m.CreatedAt,
	}
	for kind, value := range map[string]float64{
		domain.MeasurementWeight:  m.Weight,
		domain.MeasurementBodyFat: m.BodyFat,
		domain.MeasurementChest:   m.Chest,
		domain.MeasurementWaist:   m.Waist,
		domain.MeasurementHips:    m.Hips,
		domain.MeasurementArms:    m.Arms,
		domain.MeasurementThighs:  m.Thighs,
	} {
		if value > 0 {
			doc[kind] = value
		}
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create measurement: %w", err)
	}
	return nil
}

func (r *MongoBodyMeasurementRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*domain.BodyMeasurement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "measured_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	defer cursor.Close(ctx)

	var measurements []*domain.BodyMeasurement
	if err := cursor.All(ctx, &measurements); err != nil {
		return nil, fmt.Errorf("failed to decode measurements: %w", err)
	}
	return measurements, nil
}

func (r *MongoBodyMeasurementRepository) LatestValue(ctx context.Context, userID, kind string) (float64, error) {
	if !domain.ValidMeasurementKind(kind) {
		return 0, fmt.Errorf("unknown measurement kind %q", kind)
	}

	opts := options.FindOne().
		SetSort(bson.D{{Key: "measured_at", Value: -1}}).
		SetProjection(bson.M{kind: 1})

	filter := bson.M{
		"user_id": userID,
		kind:      bson.M{"$gt": 0},
	}

	var doc bson.M
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get latest %s: %w", kind, err)
	}

	switch v := doc[kind].(type) {
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

func (r *MongoBodyMeasurementRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete measurement: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
