package encounters

import (
	"context"
	"sync"

	"github.com/sternmatt/dungeonforge/internal/domain/combat"
	dferr "github.com/sternmatt/dungeonforge/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the encounter
// repository, useful for testing and development.
type InMemoryRepository struct {
	mu         sync.RWMutex
	encounters map[string]*combat.Encounter
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		encounters: make(map[string]*combat.Encounter),
	}
}

// Create stores a new encounter
func (r *InMemoryRepository) Create(_ context.Context, enc *combat.Encounter) error {
	if enc == nil {
		return dferr.InvalidArgument("encounter cannot be nil")
	}
	if enc.ID == "" {
		return dferr.InvalidArgument("encounter ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[enc.ID]; exists {
		return dferr.AlreadyExistsf("encounter with ID '%s' already exists", enc.ID).
			WithMeta("encounter_id", enc.ID)
	}

	r.encounters[enc.ID] = enc.Clone()
	return nil
}

// Get retrieves an encounter by ID
func (r *InMemoryRepository) Get(_ context.Context, id string) (*combat.Encounter, error) {
	if id == "" {
		return nil, dferr.InvalidArgument("encounter ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, exists := r.encounters[id]
	if !exists {
		return nil, dferr.NotFoundf("encounter with ID '%s' not found", id).
			WithMeta("encounter_id", id)
	}

	return enc.Clone(), nil
}

// Update replaces an existing encounter's state
func (r *InMemoryRepository) Update(_ context.Context, enc *combat.Encounter) error {
	if enc == nil {
		return dferr.InvalidArgument("encounter cannot be nil")
	}
	if enc.ID == "" {
		return dferr.InvalidArgument("encounter ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[enc.ID]; !exists {
		return dferr.NotFoundf("encounter with ID '%s' not found", enc.ID).
			WithMeta("encounter_id", enc.ID)
	}

	r.encounters[enc.ID] = enc.Clone()
	return nil
}

// Delete removes an encounter
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	if id == "" {
		return dferr.InvalidArgument("encounter ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[id]; !exists {
		return dferr.NotFoundf("encounter with ID '%s' not found", id).
			WithMeta("encounter_id", id)
	}

	delete(r.encounters, id)
	return nil
}
