package encounters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sternmatt/dungeonforge/internal/domain/combat"
	dferr "github.com/sternmatt/dungeonforge/internal/errors"
)

// redisRepo implements the Repository interface using Redis. Encounters
// serialize as plain JSON; completed ones expire after the retention
// period so stale combats don't accumulate.
type redisRepo struct {
	client       redis.UniversalClient
	completedTTL time.Duration
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
	// CompletedTTL is how long finished encounters stay around
	// (default: 7 days).
	CompletedTTL time.Duration
}

// NewRedisRepository creates a new Redis-backed encounter repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	ttl := cfg.CompletedTTL
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &redisRepo{
		client:       cfg.Client,
		completedTTL: ttl,
	}
}

// key generates the Redis key for an encounter
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("encounter:%s", id)
}

// ttlFor returns the expiration for an encounter in its current state
func (r *redisRepo) ttlFor(enc *combat.Encounter) time.Duration {
	if enc.Status == combat.StatusCompleted {
		return r.completedTTL
	}
	return 0
}

// Create stores a new encounter
func (r *redisRepo) Create(ctx context.Context, enc *combat.Encounter) error {
	if enc == nil {
		return dferr.InvalidArgument("encounter cannot be nil")
	}
	if enc.ID == "" {
		return dferr.InvalidArgument("encounter ID is required")
	}

	jsonData, err := json.Marshal(enc)
	if err != nil {
		return fmt.Errorf("failed to marshal encounter: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(enc.ID), jsonData, r.ttlFor(enc)).Result()
	if err != nil {
		return fmt.Errorf("failed to create encounter: %w", err)
	}
	if !ok {
		return dferr.AlreadyExistsf("encounter with ID '%s' already exists", enc.ID).
			WithMeta("encounter_id", enc.ID)
	}

	return nil
}

// Get retrieves an encounter by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*combat.Encounter, error) {
	if id == "" {
		return nil, dferr.InvalidArgument("encounter ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, dferr.NotFoundf("encounter with ID '%s' not found", id).
			WithMeta("encounter_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get encounter: %w", err)
	}

	var enc combat.Encounter
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &enc); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal encounter: %w", unmarshalErr)
	}

	return &enc, nil
}

// Update replaces an existing encounter's state
func (r *redisRepo) Update(ctx context.Context, enc *combat.Encounter) error {
	if enc == nil {
		return dferr.InvalidArgument("encounter cannot be nil")
	}
	if enc.ID == "" {
		return dferr.InvalidArgument("encounter ID is required")
	}

	exists, err := r.client.Exists(ctx, r.key(enc.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check encounter existence: %w", err)
	}
	if exists == 0 {
		return dferr.NotFoundf("encounter with ID '%s' not found", enc.ID).
			WithMeta("encounter_id", enc.ID)
	}

	jsonData, err := json.Marshal(enc)
	if err != nil {
		return fmt.Errorf("failed to marshal encounter: %w", err)
	}

	if err := r.client.Set(ctx, r.key(enc.ID), jsonData, r.ttlFor(enc)).Err(); err != nil {
		return fmt.Errorf("failed to update encounter: %w", err)
	}

	return nil
}

// Delete removes an encounter
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dferr.InvalidArgument("encounter ID is required")
	}

	deleted, err := r.client.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete encounter: %w", err)
	}
	if deleted == 0 {
		return dferr.NotFoundf("encounter with ID '%s' not found", id).
			WithMeta("encounter_id", id)
	}

	return nil
}
