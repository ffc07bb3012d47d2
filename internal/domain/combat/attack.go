package combat

import (
	"fmt"

	"github.com/sternmatt/dungeonforge/internal/dice"
	"github.com/sternmatt/dungeonforge/internal/domain/damage"
)

// AttackResult records one resolved attack.
type AttackResult struct {
	AttackerID string `json:"attacker_id"`
	TargetID   string `json:"target_id"`

	Hit      bool `json:"hit"`
	Critical bool `json:"critical"`
	Fumble   bool `json:"fumble"`

	// AttackRoll is the d20 test, including the kept natural die.
	AttackRoll *dice.D20Result `json:"-"`
	// DamageRoll is nil on a miss.
	DamageRoll *dice.RollResult `json:"-"`

	// RolledDamage is the damage before defenses; Damage is what the
	// target actually took.
	RolledDamage int         `json:"rolled_damage"`
	Damage       int         `json:"damage"`
	DamageType   damage.Type `json:"damage_type"`

	// Concentration is the target's concentration check, when the damage
	// forced one.
	Concentration *ConcentrationResult `json:"concentration,omitempty"`
}

// String summarizes the result for combat logs.
func (r *AttackResult) String() string {
	switch {
	case r.Fumble:
		return fmt.Sprintf("attack on %s fumbles (natural 1)", r.TargetID)
	case !r.Hit:
		return fmt.Sprintf("attack on %s misses (%d)", r.TargetID, r.AttackRoll.Total)
	case r.Critical:
		return fmt.Sprintf("critical hit on %s for %d %s damage", r.TargetID, r.Damage, r.DamageType)
	default:
		return fmt.Sprintf("hit on %s for %d %s damage", r.TargetID, r.Damage, r.DamageType)
	}
}

// ConcentrationResult records one concentration check after damage.
type ConcentrationResult struct {
	DC         int             `json:"dc"`
	Roll       *dice.D20Result `json:"-"`
	Maintained bool            `json:"maintained"`
	// EndedSpell names the spell lost on a failed check.
	EndedSpell string `json:"ended_spell,omitempty"`
}
