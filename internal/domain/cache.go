package domain

import (
	"context"
	"time"
)

// CacheRepository is the cache port used for the achievement evaluator's
// stats snapshot and for assembled read views. Misses are reported through
// the implementation's sentinel error, never as failures.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetUserStats(ctx context.Context, userID string) (*UserStats, error)
	SetUserStats(ctx context.Context, userID string, stats *UserStats, ttl time.Duration) error

	// Assembled read views, one slot per endpoint.
	GetProgressOverview(ctx context.Context, userID string, dest interface{}) error
	SetProgressOverview(ctx context.Context, userID string, data interface{}, ttl time.Duration) error
	GetRecords(ctx context.Context, userID string, dest interface{}) error
	SetRecords(ctx context.Context, userID string, data interface{}, ttl time.Duration) error
	GetAchievements(ctx context.Context, userID string, dest interface{}) error
	SetAchievements(ctx context.Context, userID string, data interface{}, ttl time.Duration) error

	// InvalidateUser drops every cached view for a user; the activity write
	// path calls this before firing the trackers.
	InvalidateUser(ctx context.Context, userID string) error
}
