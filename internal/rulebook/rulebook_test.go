package rulebook_test

import (
	"testing"

	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	"github.com/sternmatt/dungeonforge/internal/errors"
	"github.com/sternmatt/dungeonforge/internal/rulebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	class, err := rulebook.Lookup("fighter")
	require.NoError(t, err)
	assert.Equal(t, 10, class.HitDie)
	assert.Equal(t, "1d10", class.HitDieNotation())

	_, err = rulebook.Lookup("artificer")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUnknownClassTable))
}

func TestGrantsAbilityScoreImprovement(t *testing.T) {
	for _, level := range []int{4, 8, 12, 16, 19} {
		assert.True(t, rulebook.GrantsAbilityScoreImprovement(level), "level %d", level)
	}
	for _, level := range []int{1, 2, 3, 5, 9, 13, 17, 20} {
		assert.False(t, rulebook.GrantsAbilityScoreImprovement(level), "level %d", level)
	}
}

func TestSlotTotals(t *testing.T) {
	tests := []struct {
		name       string
		class      string
		level      int
		want       map[int]int
		wantSource string
	}{
		{
			name:       "wizard level 1",
			class:      "wizard",
			level:      1,
			want:       map[int]int{1: 2},
			wantSource: shared.SlotSourceSpellcasting,
		},
		{
			name:       "cleric level 5",
			class:      "cleric",
			level:      5,
			want:       map[int]int{1: 4, 2: 3, 3: 2},
			wantSource: shared.SlotSourceSpellcasting,
		},
		{
			name:       "wizard level 20",
			class:      "wizard",
			level:      20,
			want:       map[int]int{1: 4, 2: 3, 3: 3, 4: 3, 5: 3, 6: 2, 7: 2, 8: 1, 9: 1},
			wantSource: shared.SlotSourceSpellcasting,
		},
		{
			name:       "paladin has no slots at level 1",
			class:      "paladin",
			level:      1,
			want:       map[int]int{},
			wantSource: shared.SlotSourceSpellcasting,
		},
		{
			name:       "ranger level 5",
			class:      "ranger",
			level:      5,
			want:       map[int]int{1: 4, 2: 2},
			wantSource: shared.SlotSourceSpellcasting,
		},
		{
			name:       "warlock level 3 pact slots",
			class:      "warlock",
			level:      3,
			want:       map[int]int{2: 2},
			wantSource: shared.SlotSourcePactMagic,
		},
		{
			name:       "fighter never casts",
			class:      "fighter",
			level:      10,
			want:       map[int]int{},
			wantSource: shared.SlotSourceSpellcasting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, source, err := rulebook.SlotTotals(tt.class, tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.want, totals)
			assert.Equal(t, tt.wantSource, source)
		})
	}

	t.Run("unknown class", func(t *testing.T) {
		_, _, err := rulebook.SlotTotals("bloodhunter", 3)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeUnknownClassTable))
	})

	t.Run("level out of range", func(t *testing.T) {
		_, _, err := rulebook.SlotTotals("wizard", 21)
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestLookupSpell(t *testing.T) {
	spell, err := rulebook.LookupSpell("fireball")
	require.NoError(t, err)
	assert.Equal(t, 3, spell.Level)
	assert.Equal(t, "8d6", spell.Damage)
	assert.True(t, spell.HalfOnSave)

	_, err = rulebook.LookupSpell("wish")
	assert.True(t, errors.IsNotFound(err))
}
