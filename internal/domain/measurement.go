package domain

import (
	"context"
	"time"
)

// Measurement kinds a goal can track. The kind doubles as the bson field
// name, so LatestValue must only ever see one of these.
const (
	MeasurementWeight  = "weight"
	MeasurementBodyFat = "body_fat"
	MeasurementChest   = "chest"
	MeasurementWaist   = "waist"
	MeasurementHips    = "hips"
	MeasurementArms    = "arms"
	MeasurementThighs  = "thighs"
)

// ValidMeasurementKind reports whether kind names a known measurement field
func ValidMeasurementKind(kind string) bool {
	switch kind {
	case MeasurementWeight, MeasurementBodyFat, MeasurementChest,
		MeasurementWaist, MeasurementHips, MeasurementArms, MeasurementThighs:
		return true
	}
	return false
}

// BodyMeasurement is one dated snapshot of body metrics. Zero fields mean
// "not measured"; consumers read a single kind via LatestValue.
type BodyMeasurement struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	UserID     string    `json:"user_id" bson:"user_id"`
	Weight     float64   `json:"weight,omitempty" bson:"weight,omitempty"`     // kg
	BodyFat    float64   `json:"body_fat,omitempty" bson:"body_fat,omitempty"` // percent
	Chest      float64   `json:"chest,omitempty" bson:"chest,omitempty"`       // cm
	Waist      float64   `json:"waist,omitempty" bson:"waist,omitempty"`
	Hips       float64   `json:"hips,omitempty" bson:"hips,omitempty"`
	Arms       float64   `json:"arms,omitempty" bson:"arms,omitempty"`
	Thighs     float64   `json:"thighs,omitempty" bson:"thighs,omitempty"`
	MeasuredAt time.Time `json:"measured_at" bson:"measured_at"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// BodyMeasurementRepository handles the body_measurements collection
type BodyMeasurementRepository interface {
	Create(ctx context.Context, m *BodyMeasurement) error
	GetByUser(ctx context.Context, userID string, limit int) ([]*BodyMeasurement, error)
	// LatestValue returns the most recent non-zero value of one measurement
	// kind by measurement time, 0 if the user never recorded it.
	LatestValue(ctx context.Context, userID, kind string) (float64, error)
	Delete(ctx context.Context, id string) error
}
