package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sternmatt/dungeonforge/internal/domain/character"
	"github.com/sternmatt/dungeonforge/internal/domain/damage"
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	dferr "github.com/sternmatt/dungeonforge/internal/errors"
	"github.com/sternmatt/dungeonforge/internal/uuid"
)

// CharacterData represents the serialized form of a character in Redis
type CharacterData struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Name     string `json:"name"`
	ClassKey string `json:"class_key"`
	Level    int    `json:"level"`
	HitDie   int    `json:"hit_die"`
	Speed    int    `json:"speed"`
	AC       int    `json:"ac"`

	Abilities         shared.AbilityScores      `json:"abilities"`
	HP                shared.HPResource         `json:"hp"`
	SaveProficiencies map[shared.Attribute]bool `json:"save_proficiencies,omitempty"`

	SpellcastingAbility shared.Attribute           `json:"spellcasting_ability,omitempty"`
	SpellSlots          shared.SpellSlotPool       `json:"spell_slots,omitempty"`
	Concentration       *shared.ConcentrationState `json:"concentration,omitempty"`

	Conditions []*shared.ActiveCondition `json:"conditions,omitempty"`
	Defenses   damage.Defenses           `json:"defenses,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client        redis.UniversalClient
	uuidGenerator uuid.Generator
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client        redis.UniversalClient
	UUIDGenerator uuid.Generator
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.UUIDGenerator == nil {
		cfg.UUIDGenerator = uuid.NewGoogleUUIDGenerator()
	}

	return &redisRepo{
		client:        cfg.Client,
		uuidGenerator: cfg.UUIDGenerator,
	}
}

// NewRedis creates a new Redis-backed character repository with defaults
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client:        client,
		UUIDGenerator: uuid.NewGoogleUUIDGenerator(),
	})
}

// key generates the Redis key for a character
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

// ownerCharactersKey generates the Redis key for an owner's character list
func (r *redisRepo) ownerCharactersKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

// Create stores a new character
func (r *redisRepo) Create(ctx context.Context, ch *character.Character) error {
	if ch == nil {
		return dferr.InvalidArgument("character cannot be nil")
	}
	if ch.ID == "" {
		return dferr.InvalidArgument("character ID is required")
	}
	if ch.OwnerID == "" {
		return dferr.InvalidArgument("character owner ID is required")
	}

	exists, err := r.client.Exists(ctx, r.key(ch.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists > 0 {
		return dferr.AlreadyExistsf("character with ID '%s' already exists", ch.ID).
			WithMeta("character_id", ch.ID)
	}

	data := toCharacterData(ch)
	data.CreatedAt = time.Now().UTC()
	data.UpdatedAt = data.CreatedAt

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(ch.ID), jsonData, 0)
	pipe.SAdd(ctx, r.ownerCharactersKey(ch.OwnerID), ch.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}

	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, dferr.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, dferr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var data CharacterData
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &data); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", unmarshalErr)
	}

	return fromCharacterData(&data), nil
}

// GetByOwner retrieves all characters for a specific owner
func (r *redisRepo) GetByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, dferr.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.ownerCharactersKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	result := make([]*character.Character, 0, len(ids))
	for _, id := range ids {
		ch, err := r.Get(ctx, id)
		if err != nil {
			// Skip characters that can't be loaded
			continue
		}
		result = append(result, ch)
	}

	return result, nil
}

// Update updates an existing character
func (r *redisRepo) Update(ctx context.Context, ch *character.Character) error {
	if ch == nil {
		return dferr.InvalidArgument("character cannot be nil")
	}
	if ch.ID == "" {
		return dferr.InvalidArgument("character ID is required")
	}

	existing, err := r.Get(ctx, ch.ID)
	if err != nil {
		return err
	}

	data := toCharacterData(ch)
	data.CreatedAt = existing.CreatedAt
	data.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	if err := r.client.Set(ctx, r.key(ch.ID), jsonData, 0).Err(); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	return nil
}

// Delete removes a character
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dferr.InvalidArgument("character ID is required")
	}

	existing, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.ownerCharactersKey(existing.OwnerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}

	return nil
}

// toCharacterData converts a character to its serialized form
func toCharacterData(ch *character.Character) *CharacterData {
	c := ch.Clone()
	return &CharacterData{
		ID:                  c.ID,
		OwnerID:             c.OwnerID,
		Name:                c.Name,
		ClassKey:            c.ClassKey,
		Level:               c.Level,
		HitDie:              c.HitDie,
		Speed:               c.Speed,
		AC:                  c.AC,
		Abilities:           c.Abilities,
		HP:                  c.HP,
		SaveProficiencies:   c.SaveProficiencies,
		SpellcastingAbility: c.SpellcastingAbility,
		SpellSlots:          c.SpellSlots,
		Concentration:       c.Concentration,
		Conditions:          c.Conditions,
		Defenses:            c.Defenses,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// fromCharacterData converts the serialized form back to a character
func fromCharacterData(data *CharacterData) *character.Character {
	return &character.Character{
		ID:                  data.ID,
		OwnerID:             data.OwnerID,
		Name:                data.Name,
		ClassKey:            data.ClassKey,
		Level:               data.Level,
		HitDie:              data.HitDie,
		Speed:               data.Speed,
		AC:                  data.AC,
		Abilities:           data.Abilities,
		HP:                  data.HP,
		SaveProficiencies:   data.SaveProficiencies,
		SpellcastingAbility: data.SpellcastingAbility,
		SpellSlots:          data.SpellSlots,
		Concentration:       data.Concentration,
		Conditions:          data.Conditions,
		Defenses:            data.Defenses,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}
