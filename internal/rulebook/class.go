// Package rulebook holds the static rules content: class progression tables,
// spell slot schedules, and a small spell catalog.
package rulebook

import (
	"fmt"

	"github.com/sternmatt/dungeonforge/internal/errors"
)

// CasterKind selects a class's spell slot progression.
type CasterKind string

const (
	CasterNone CasterKind = "none"
	CasterFull CasterKind = "full"
	CasterHalf CasterKind = "half"
	CasterPact CasterKind = "pact"
)

// Class describes one character class's progression parameters.
type Class struct {
	Key    string     `json:"key"`
	Name   string     `json:"name"`
	HitDie int        `json:"hit_die"`
	Caster CasterKind `json:"caster"`
}

// HitDieNotation returns the dice notation for one hit die, e.g. "1d10".
func (c *Class) HitDieNotation() string {
	return fmt.Sprintf("1d%d", c.HitDie)
}

// abilityScoreImprovementLevels is the standard class schedule for ability
// score improvements.
var abilityScoreImprovementLevels = []int{4, 8, 12, 16, 19}

// GrantsAbilityScoreImprovement reports whether the standard schedule grants
// an improvement at the given level.
func GrantsAbilityScoreImprovement(level int) bool {
	for _, l := range abilityScoreImprovementLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Classes is the registry of supported classes, keyed by class key.
var Classes = map[string]*Class{
	"barbarian": {Key: "barbarian", Name: "Barbarian", HitDie: 12, Caster: CasterNone},
	"bard":      {Key: "bard", Name: "Bard", HitDie: 8, Caster: CasterFull},
	"cleric":    {Key: "cleric", Name: "Cleric", HitDie: 8, Caster: CasterFull},
	"druid":     {Key: "druid", Name: "Druid", HitDie: 8, Caster: CasterFull},
	"fighter":   {Key: "fighter", Name: "Fighter", HitDie: 10, Caster: CasterNone},
	"monk":      {Key: "monk", Name: "Monk", HitDie: 8, Caster: CasterNone},
	"paladin":   {Key: "paladin", Name: "Paladin", HitDie: 10, Caster: CasterHalf},
	"ranger":    {Key: "ranger", Name: "Ranger", HitDie: 10, Caster: CasterHalf},
	"rogue":     {Key: "rogue", Name: "Rogue", HitDie: 8, Caster: CasterNone},
	"sorcerer":  {Key: "sorcerer", Name: "Sorcerer", HitDie: 6, Caster: CasterFull},
	"warlock":   {Key: "warlock", Name: "Warlock", HitDie: 8, Caster: CasterPact},
	"wizard":    {Key: "wizard", Name: "Wizard", HitDie: 6, Caster: CasterFull},
}

// Lookup returns the class for a key, or an unknown-class-table error.
func Lookup(key string) (*Class, error) {
	class, ok := Classes[key]
	if !ok {
		return nil, errors.Newf(errors.CodeUnknownClassTable, "no class table for %q", key)
	}
	return class, nil
}
