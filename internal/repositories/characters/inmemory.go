package characters

import (
	"context"
	"sync"
	"time"

	"github.com/sternmatt/dungeonforge/internal/domain/character"
	dferr "github.com/sternmatt/dungeonforge/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the character
// repository, useful for testing and development.
type InMemoryRepository struct {
	mu         sync.RWMutex
	characters map[string]*character.Character
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		characters: make(map[string]*character.Character),
	}
}

// Create stores a new character
func (r *InMemoryRepository) Create(_ context.Context, ch *character.Character) error {
	if ch == nil {
		return dferr.InvalidArgument("character cannot be nil")
	}
	if ch.ID == "" {
		return dferr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[ch.ID]; exists {
		return dferr.AlreadyExistsf("character with ID '%s' already exists", ch.ID).
			WithMeta("character_id", ch.ID)
	}

	stored := ch.Clone()
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.characters[ch.ID] = stored

	return nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(_ context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, dferr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, exists := r.characters[id]
	if !exists {
		return nil, dferr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	return ch.Clone(), nil
}

// GetByOwner retrieves all characters for a specific owner
func (r *InMemoryRepository) GetByOwner(_ context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, dferr.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*character.Character
	for _, ch := range r.characters {
		if ch.OwnerID == ownerID {
			result = append(result, ch.Clone())
		}
	}

	return result, nil
}

// Update updates an existing character
func (r *InMemoryRepository) Update(_ context.Context, ch *character.Character) error {
	if ch == nil {
		return dferr.InvalidArgument("character cannot be nil")
	}
	if ch.ID == "" {
		return dferr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.characters[ch.ID]
	if !exists {
		return dferr.NotFoundf("character with ID '%s' not found", ch.ID).
			WithMeta("character_id", ch.ID)
	}

	stored := ch.Clone()
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.characters[ch.ID] = stored

	return nil
}

// Delete removes a character
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	if id == "" {
		return dferr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.characters[id]; !exists {
		return dferr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}

	delete(r.characters, id)
	return nil
}
