package characters

import (
	"context"

	"github.com/sternmatt/dungeonforge/internal/domain/character"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create stores a new character
	Create(ctx context.Context, ch *character.Character) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// GetByOwner retrieves all characters for a specific owner
	GetByOwner(ctx context.Context, ownerID string) ([]*character.Character, error)

	// Update updates an existing character
	Update(ctx context.Context, ch *character.Character) error

	// Delete removes a character
	Delete(ctx context.Context, id string) error
}
