// Package character defines the character snapshot the engine operates on.
// The snapshot is owned by the persistence collaborator; engine operations
// take a snapshot in, compute a delta, and return a new snapshot without
// mutating shared state.
package character

import (
	"time"

	"github.com/sternmatt/dungeonforge/internal/domain/damage"
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	"github.com/sternmatt/dungeonforge/internal/rules"
)

// Character is a full character snapshot.
type Character struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`

	ClassKey string `json:"class_key"`
	Level    int    `json:"level"`
	HitDie   int    `json:"hit_die"`
	Speed    int    `json:"speed"`
	AC       int    `json:"ac"`

	Abilities shared.AbilityScores `json:"abilities"`
	HP        shared.HPResource    `json:"hp"`

	// SaveProficiencies marks the abilities the character adds proficiency
	// to on saving throws. Constitution proficiency also applies to
	// concentration checks.
	SaveProficiencies map[shared.Attribute]bool `json:"save_proficiencies,omitempty"`

	// SpellcastingAbility is empty for non-casters.
	SpellcastingAbility shared.Attribute `json:"spellcasting_ability,omitempty"`

	SpellSlots    shared.SpellSlotPool       `json:"spell_slots,omitempty"`
	Concentration *shared.ConcentrationState `json:"concentration,omitempty"`
	Conditions    []*shared.ActiveCondition  `json:"conditions,omitempty"`
	Defenses      damage.Defenses            `json:"defenses,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep, independent copy of the snapshot.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Abilities = c.Abilities.Clone()
	out.SpellSlots = c.SpellSlots.Clone()
	out.Concentration = c.Concentration.Clone()
	out.Defenses = c.Defenses.Clone()

	if c.SaveProficiencies != nil {
		out.SaveProficiencies = make(map[shared.Attribute]bool, len(c.SaveProficiencies))
		for k, v := range c.SaveProficiencies {
			out.SaveProficiencies[k] = v
		}
	}
	if c.Conditions != nil {
		out.Conditions = make([]*shared.ActiveCondition, len(c.Conditions))
		for i, cond := range c.Conditions {
			out.Conditions[i] = cond.Clone()
		}
	}
	return &out
}

// Modifier returns the ability modifier for an attribute.
func (c *Character) Modifier(attr shared.Attribute) int {
	return c.Abilities.Modifier(attr)
}

// ProficiencyBonus returns the level-scaled proficiency bonus.
func (c *Character) ProficiencyBonus() int {
	return rules.ProficiencyBonus(c.Level)
}

// SaveBonus returns the character's saving-throw bonus for an attribute.
func (c *Character) SaveBonus(attr shared.Attribute) int {
	score, ok := c.Abilities[attr]
	if !ok {
		score = 10
	}
	return rules.SaveBonus(score, c.Level, c.SaveProficiencies[attr], 0)
}

// ConcentrationBonus returns the bonus applied to concentration checks:
// the Constitution save bonus.
func (c *Character) ConcentrationBonus() int {
	return c.SaveBonus(shared.AttributeConstitution)
}

// SpellSaveDC returns the DC of the character's spells. Zero for
// non-casters.
func (c *Character) SpellSaveDC() int {
	if c.SpellcastingAbility == shared.AttributeNone {
		return 0
	}
	score, ok := c.Abilities[c.SpellcastingAbility]
	if !ok {
		score = 10
	}
	return rules.SpellSaveDC(c.Level, score)
}

// SpellAttackBonus returns the character's spell attack bonus.
func (c *Character) SpellAttackBonus() int {
	if c.SpellcastingAbility == shared.AttributeNone {
		return 0
	}
	score, ok := c.Abilities[c.SpellcastingAbility]
	if !ok {
		score = 10
	}
	return rules.SpellAttackBonus(c.Level, score)
}

// Incapacitated reports whether any active condition prevents acting.
func (c *Character) Incapacitated() bool {
	for _, cond := range c.Conditions {
		if cond.Type.Incapacitating() {
			return true
		}
	}
	return false
}
