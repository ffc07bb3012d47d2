package characters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dferr "github.com/sternmatt/dungeonforge/internal/errors"
	"github.com/sternmatt/dungeonforge/internal/testutils"
)

func TestInMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	ch := testutils.NewTestCharacter("char-1")
	require.NoError(t, repo.Create(ctx, ch))

	got, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Test Fighter", got.Name)
	assert.Equal(t, 3, got.Level)
	assert.False(t, got.CreatedAt.IsZero())

	// The stored copy is independent of the caller's snapshot.
	ch.Name = "Renamed"
	got2, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Test Fighter", got2.Name)
}

func TestInMemoryRepository_CreateDuplicate(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutils.NewTestCharacter("char-1")))
	err := repo.Create(ctx, testutils.NewTestCharacter("char-1"))
	assert.True(t, dferr.IsAlreadyExists(err))
}

func TestInMemoryRepository_GetNotFound(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.Get(context.Background(), "missing")
	assert.True(t, dferr.IsNotFound(err))
}

func TestInMemoryRepository_GetByOwner(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutils.NewTestCharacter("char-1")))
	require.NoError(t, repo.Create(ctx, testutils.NewTestCharacter("char-2")))

	other := testutils.NewTestCharacter("char-3")
	other.OwnerID = "owner-2"
	require.NoError(t, repo.Create(ctx, other))

	got, err := repo.GetByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestInMemoryRepository_Update(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	ch := testutils.NewTestCharacter("char-1")
	require.NoError(t, repo.Create(ctx, ch))

	created, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)

	ch.Level = 4
	require.NoError(t, repo.Update(ctx, ch))

	got, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Level)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)

	// Updating something that was never created is an error.
	err = repo.Update(ctx, testutils.NewTestCharacter("missing"))
	assert.True(t, dferr.IsNotFound(err))
}

func TestInMemoryRepository_Delete(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutils.NewTestCharacter("char-1")))
	require.NoError(t, repo.Delete(ctx, "char-1"))

	_, err := repo.Get(ctx, "char-1")
	assert.True(t, dferr.IsNotFound(err))

	assert.True(t, dferr.IsNotFound(repo.Delete(ctx, "char-1")))
}
