package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkhalidi/liftpulse/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	userStatsKeyPrefix    = "user:stats:"
	progressKeyPrefix     = "user:progress:"
	recordsKeyPrefix      = "user:records:"
	achievementsKeyPrefix = "user:achievements:"
)

var ErrCacheMiss = fmt.Errorf("cache miss")

// RedisCacheRepository implements domain.CacheRepository using Redis
type RedisCacheRepository struct {
	client *redis.Client
}

// NewRedisCacheRepository creates a new Redis cache repository
func NewRedisCacheRepository(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{
		client: client,
	}
}

// Get retrieves a value from cache by key with OTel tracing
func (r *RedisCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Get",
		trace.WithAttributes(attribute.String("cache.key", key)),
	)
	defer span.End()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return ErrCacheMiss
		}
		span.RecordError(err)
		return fmt.Errorf("redis get error: %w", err)
	}

	span.SetAttributes(attribute.String("cache.result", "hit"))
	if err := json.Unmarshal(data, dest); err != nil {
		span.RecordError(err)
		return fmt.Errorf("unmarshal error: %w", err)
	}

	return nil
}

// Set stores a value in cache with TTL and OTel tracing
func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.ttl_seconds", int64(ttl.Seconds())),
		),
	)
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// Delete removes keys from cache with OTel tracing
func (r *RedisCacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Delete",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))),
	)
	defer span.End()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis delete error: %w", err)
	}

	return nil
}

// GetUserStats retrieves the cached stats snapshot for a user.
// Returns ErrCacheMiss when absent or expired.
func (r *RedisCacheRepository) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	var stats domain.UserStats
	if err := r.Get(ctx, userStatsKeyPrefix+userID, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetUserStats caches the stats snapshot for a user with TTL
func (r *RedisCacheRepository) SetUserStats(ctx context.Context, userID string, stats *domain.UserStats, ttl time.Duration) error {
	return r.Set(ctx, userStatsKeyPrefix+userID, stats, ttl)
}

// InvalidateUser removes every cached view for a user. The activity write
// path calls this before firing the trackers so they recompute from Mongo.
func (r *RedisCacheRepository) InvalidateUser(ctx context.Context, userID string) error {
	keys := []string{
		userStatsKeyPrefix + userID,
		progressKeyPrefix + userID,
		recordsKeyPrefix + userID,
		achievementsKeyPrefix + userID,
	}
	return r.Delete(ctx, keys...)
}

// SetProgressOverview caches the assembled progress read view
func (r *RedisCacheRepository) SetProgressOverview(ctx context.Context, userID string, data interface{}, ttl time.Duration) error {
	return r.Set(ctx, progressKeyPrefix+userID, data, ttl)
}

// GetProgressOverview retrieves the cached progress read view
func (r *RedisCacheRepository) GetProgressOverview(ctx context.Context, userID string, dest interface{}) error {
	return r.Get(ctx, progressKeyPrefix+userID, dest)
}

// SetRecords caches a user's personal records list
func (r *RedisCacheRepository) SetRecords(ctx context.Context, userID string, data interface{}, ttl time.Duration) error {
	return r.Set(ctx, recordsKeyPrefix+userID, data, ttl)
}

// GetRecords retrieves a user's cached personal records list
func (r *RedisCacheRepository) GetRecords(ctx context.Context, userID string, dest interface{}) error {
	return r.Get(ctx, recordsKeyPrefix+userID, dest)
}

// SetAchievements caches a user's achievement list with unlock status
func (r *RedisCacheRepository) SetAchievements(ctx context.Context, userID string, data interface{}, ttl time.Duration) error {
	return r.Set(ctx, achievementsKeyPrefix+userID, data, ttl)
}

// GetAchievements retrieves a user's cached achievement list
func (r *RedisCacheRepository) GetAchievements(ctx context.Context, userID string, dest interface{}) error {
	return r.Get(ctx, achievementsKeyPrefix+userID, dest)
}
