package domain

import (
	"context"
	"time"
)

// Exercise is a catalog entry referenced by sets, records and goals
type Exercise struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	MuscleGroup string    `json:"muscle_group" bson:"muscle_group"`
	Equipment   string    `json:"equipment" bson:"equipment"`
	VideoURL    string    `json:"video_url,omitempty" bson:"video_url,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// ExerciseRepository handles the exercises collection
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *Exercise) error
	GetByID(ctx context.Context, id string) (*Exercise, error)
	// GetByIDs batch-fetches exercises for response enrichment
	GetByIDs(ctx context.Context, ids []string) ([]*Exercise, error)
	List(ctx context.Context) ([]*Exercise, error)
}
