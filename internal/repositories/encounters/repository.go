package encounters

import (
	"context"

	"github.com/sternmatt/dungeonforge/internal/domain/combat"
)

// Repository defines the interface for encounter persistence
type Repository interface {
	// Create stores a new encounter
	Create(ctx context.Context, enc *combat.Encounter) error

	// Get retrieves an encounter by ID
	Get(ctx context.Context, id string) (*combat.Encounter, error)

	// Update replaces an existing encounter's state
	Update(ctx context.Context, enc *combat.Encounter) error

	// Delete removes an encounter
	Delete(ctx context.Context, id string) error
}
