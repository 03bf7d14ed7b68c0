package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "glossa:quiz:"

// RedisConfig configures the Redis snapshot store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis stores quiz snapshots as JSON strings
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis creates a Redis snapshot store
func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{
		rdb: rdb,
		ttl: cfg.TTL,
	}
}

func snapshotKey(userID uuid.UUID) string {
	return snapshotKeyPrefix + userID.String()
}

// Ping checks the connection
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Save stores st for userID
func (r *Redis) Save(ctx context.Context, userID uuid.UUID, st QuizState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("serialize quiz state: %w", err)
	}
	if err := r.rdb.Set(ctx, snapshotKey(userID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("store quiz state in redis: %w", err)
	}
	return nil
}

// Load returns the stored state for userID, if any
func (r *Redis) Load(ctx context.Context, userID uuid.UUID) (QuizState, bool, error) {
	val, err := r.rdb.Get(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return QuizState{}, false, nil
	}
	if err != nil {
		return QuizState{}, false, fmt.Errorf("retrieve quiz state from redis: %w", err)
	}

	var st QuizState
	if err := json.Unmarshal(val, &st); err != nil {
		return QuizState{}, false, fmt.Errorf("deserialize quiz state: %w", err)
	}
	return st, true, nil
}

// Delete removes the stored state for userID
func (r *Redis) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.rdb.Del(ctx, snapshotKey(userID)).Err()
}

// Close closes the client
func (r *Redis) Close() error {
	return r.rdb.Close()
}
