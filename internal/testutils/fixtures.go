package testutils

import (
	"github.com/sternmatt/dungeonforge/internal/domain/character"
	"github.com/sternmatt/dungeonforge/internal/domain/combat"
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
)

// NewTestCharacter builds a level 3 fighter owned by owner-1.
func NewTestCharacter(id string) *character.Character {
	return &character.Character{
		ID:       id,
		OwnerID:  "owner-1",
		Name:     "Test Fighter",
		ClassKey: "fighter",
		Level:    3,
		HitDie:   10,
		Speed:    30,
		AC:       16,
		Abilities: shared.AbilityScores{
			shared.AttributeStrength:     16,
			shared.AttributeDexterity:    12,
			shared.AttributeConstitution: 14,
			shared.AttributeIntelligence: 10,
			shared.AttributeWisdom:       12,
			shared.AttributeCharisma:     8,
		},
		HP: shared.HPResource{Current: 28, Max: 28},
		SaveProficiencies: map[shared.Attribute]bool{
			shared.AttributeStrength:     true,
			shared.AttributeConstitution: true,
		},
	}
}

// NewTestCaster builds a level 5 wizard owned by owner-1.
func NewTestCaster(id string) *character.Character {
	return &character.Character{
		ID:       id,
		OwnerID:  "owner-1",
		Name:     "Test Wizard",
		ClassKey: "wizard",
		Level:    5,
		HitDie:   6,
		Speed:    30,
		AC:       12,
		Abilities: shared.AbilityScores{
			shared.AttributeIntelligence: 16,
			shared.AttributeConstitution: 12,
			shared.AttributeDexterity:    14,
		},
		HP:                  shared.HPResource{Current: 22, Max: 22},
		SpellcastingAbility: shared.AttributeIntelligence,
		SpellSlots: shared.SpellSlotPool{
			1: {Total: 4, Source: shared.SlotSourceSpellcasting},
			2: {Total: 3, Source: shared.SlotSourceSpellcasting},
			3: {Total: 2, Source: shared.SlotSourceSpellcasting},
		},
	}
}

// NewTestParticipant builds a combat participant with sane defaults.
func NewTestParticipant(id string, side combat.Side) *combat.Participant {
	return &combat.Participant{
		ID:    id,
		Name:  id,
		Side:  side,
		HP:    shared.HPResource{Current: 20, Max: 20},
		AC:    14,
		Speed: 30,
	}
}
