// Package rules holds the pure arithmetic of the 5e-style ruleset: ability
// modifiers, proficiency scaling, and the bonus compositions built on them.
// Every function is total; there are no error conditions.
package rules

// MaxLevel is the highest supported character level.
const MaxLevel = 20

// AbilityScoreCap is the highest score an ability can be raised to by
// level-up improvements.
const AbilityScoreCap = 20

// Modifier derives the ability modifier from a raw score, flooring toward
// negative infinity: a score of 9 gives -1, not 0.
func Modifier(score int) int {
	if score >= 10 {
		return (score - 10) / 2
	}
	return -((11 - score) / 2)
}

// ProficiencyBonus returns the level-scaled proficiency bonus: 2 at level 1,
// stepping to 3/4/5/6 at levels 5, 9, 13, and 17.
func ProficiencyBonus(level int) int {
	return 2 + (level-1)/4
}

// SaveBonus composes a saving-throw bonus from the ability score, level,
// proficiency, and any situational bonus.
func SaveBonus(score, level int, proficient bool, situational int) int {
	bonus := Modifier(score) + situational
	if proficient {
		bonus += ProficiencyBonus(level)
	}
	return bonus
}

// SkillBonus composes a skill-check bonus; the arithmetic is identical to a
// saving throw's.
func SkillBonus(score, level int, proficient bool, situational int) int {
	return SaveBonus(score, level, proficient, situational)
}

// SpellSaveDC returns the difficulty class of the caster's spells:
// 8 + proficiency bonus + spellcasting ability modifier.
func SpellSaveDC(level, abilityScore int) int {
	return 8 + ProficiencyBonus(level) + Modifier(abilityScore)
}

// SpellAttackBonus returns the caster's spell attack bonus.
func SpellAttackBonus(level, abilityScore int) int {
	return ProficiencyBonus(level) + Modifier(abilityScore)
}

// ConcentrationDC returns the saving-throw DC to keep concentrating after
// taking damage: half the damage, floored, never below 10.
func ConcentrationDC(damageTaken int) int {
	dc := damageTaken / 2
	if dc < 10 {
		return 10
	}
	return dc
}
