package shared

// ConditionType represents a standard combat condition.
type ConditionType string

const (
	ConditionBlinded       ConditionType = "blinded"
	ConditionCharmed       ConditionType = "charmed"
	ConditionDeafened      ConditionType = "deafened"
	ConditionFrightened    ConditionType = "frightened"
	ConditionGrappled      ConditionType = "grappled"
	ConditionIncapacitated ConditionType = "incapacitated"
	ConditionInvisible     ConditionType = "invisible"
	ConditionParalyzed     ConditionType = "paralyzed"
	ConditionPetrified     ConditionType = "petrified"
	ConditionPoisoned      ConditionType = "poisoned"
	ConditionProne         ConditionType = "prone"
	ConditionRestrained    ConditionType = "restrained"
	ConditionStunned       ConditionType = "stunned"
	ConditionUnconscious   ConditionType = "unconscious"
)

// DurationUntilRemoved marks a condition with no round countdown; it lasts
// until something removes it explicitly.
const DurationUntilRemoved = -1

// Incapacitating reports whether the condition prevents taking actions and
// breaks concentration.
func (c ConditionType) Incapacitating() bool {
	switch c {
	case ConditionIncapacitated, ConditionParalyzed, ConditionPetrified,
		ConditionStunned, ConditionUnconscious:
		return true
	}
	return false
}

// ImposesAttackDisadvantage reports whether an attacker suffering the
// condition rolls attacks at disadvantage.
func (c ConditionType) ImposesAttackDisadvantage() bool {
	switch c {
	case ConditionBlinded, ConditionPoisoned, ConditionProne,
		ConditionRestrained, ConditionFrightened:
		return true
	}
	return false
}

// GrantsAttackAdvantage reports whether attacks against a defender suffering
// the condition roll at advantage.
func (c ConditionType) GrantsAttackAdvantage() bool {
	switch c {
	case ConditionBlinded, ConditionParalyzed, ConditionPetrified,
		ConditionRestrained, ConditionStunned, ConditionUnconscious:
		return true
	}
	return false
}

// ActiveCondition is a condition applied to a combatant, with its remaining
// duration and the save (if any) that ends it early.
type ActiveCondition struct {
	Type ConditionType `json:"type"`
	// Source identifies what applied the condition (a spell key, an
	// attacker ID).
	Source string `json:"source"`
	// RemainingRounds counts down at the start of each round;
	// DurationUntilRemoved disables the countdown.
	RemainingRounds int `json:"remaining_rounds"`
	// SaveDC and SaveAbility, when set, describe the saving throw that
	// removes the condition.
	SaveDC      int       `json:"save_dc,omitempty"`
	SaveAbility Attribute `json:"save_ability,omitempty"`
}

// TickRound decrements the duration by one round and reports whether the
// condition has expired.
func (c *ActiveCondition) TickRound() bool {
	if c.RemainingRounds == DurationUntilRemoved {
		return false
	}
	c.RemainingRounds--
	return c.RemainingRounds <= 0
}

// Clone returns an independent copy.
func (c *ActiveCondition) Clone() *ActiveCondition {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// TickConditions advances every condition by one round and returns the
// survivors plus the expired condition types.
func TickConditions(conditions []*ActiveCondition) (remaining []*ActiveCondition, expired []ConditionType) {
	for _, cond := range conditions {
		if cond.TickRound() {
			expired = append(expired, cond.Type)
			continue
		}
		remaining = append(remaining, cond)
	}
	return remaining, expired
}
