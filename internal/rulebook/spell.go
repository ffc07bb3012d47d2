package rulebook

import (
	"github.com/sternmatt/dungeonforge/internal/domain/damage"
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	"github.com/sternmatt/dungeonforge/internal/errors"
)

// Spell describes one castable spell: its slot level, how it resolves
// (attack roll, saving throw, or automatic), and what it does on a hit.
type Spell struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Level int    `json:"level"`

	// Damage is dice notation for the spell's damage at its base level;
	// empty for non-damaging spells.
	Damage     string      `json:"damage,omitempty"`
	DamageType damage.Type `json:"damage_type,omitempty"`
	// DamagePerUpcastLevel is extra damage dice notation added once per slot
	// level above the spell's level, e.g. "1d6" for fireball.
	DamagePerUpcastLevel string `json:"damage_per_upcast_level,omitempty"`

	// RequiresAttackRoll marks spells resolved as spell attacks.
	RequiresAttackRoll bool `json:"requires_attack_roll,omitempty"`
	// SaveAbility, when set, resolves the spell as a saving throw against
	// the caster's spell save DC.
	SaveAbility shared.Attribute `json:"save_ability,omitempty"`
	// HalfOnSave deals half damage on a successful save instead of none.
	HalfOnSave bool `json:"half_on_save,omitempty"`

	// AppliesCondition is inflicted on a failed save.
	AppliesCondition      shared.ConditionType `json:"applies_condition,omitempty"`
	ConditionDuration     int                  `json:"condition_duration,omitempty"`
	RequiresConcentration bool                 `json:"requires_concentration,omitempty"`
}

// Spells is a small built-in catalog, keyed by spell key.
var Spells = map[string]*Spell{
	"fire-bolt": {
		Key: "fire-bolt", Name: "Fire Bolt", Level: 0,
		Damage: "1d10", DamageType: damage.TypeFire,
		RequiresAttackRoll: true,
	},
	"magic-missile": {
		Key: "magic-missile", Name: "Magic Missile", Level: 1,
		Damage: "3d4+3", DamageType: damage.TypeForce,
		DamagePerUpcastLevel: "1d4+1",
	},
	"burning-hands": {
		Key: "burning-hands", Name: "Burning Hands", Level: 1,
		Damage: "3d6", DamageType: damage.TypeFire,
		DamagePerUpcastLevel: "1d6",
		SaveAbility:          shared.AttributeDexterity,
		HalfOnSave:           true,
	},
	"hold-person": {
		Key: "hold-person", Name: "Hold Person", Level: 2,
		SaveAbility:           shared.AttributeWisdom,
		AppliesCondition:      shared.ConditionParalyzed,
		ConditionDuration:     10,
		RequiresConcentration: true,
	},
	"fireball": {
		Key: "fireball", Name: "Fireball", Level: 3,
		Damage: "8d6", DamageType: damage.TypeFire,
		DamagePerUpcastLevel: "1d6",
		SaveAbility:          shared.AttributeDexterity,
		HalfOnSave:           true,
	},
	"witch-bolt": {
		Key: "witch-bolt", Name: "Witch Bolt", Level: 1,
		Damage: "1d12", DamageType: damage.TypeLightning,
		DamagePerUpcastLevel:  "1d12",
		RequiresAttackRoll:    true,
		RequiresConcentration: true,
	},
}

// LookupSpell returns the spell for a key.
func LookupSpell(key string) (*Spell, error) {
	spell, ok := Spells[key]
	if !ok {
		return nil, errors.NotFoundf("unknown spell %q", key)
	}
	return spell, nil
}
