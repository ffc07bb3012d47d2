// Package progression implements level-up resolution: hit point gains,
// ability score improvements, and spell slot table upgrades.
package progression

import (
	"log/slog"

	"github.com/sternmatt/dungeonforge/internal/dice"
	"github.com/sternmatt/dungeonforge/internal/domain/character"
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	"github.com/sternmatt/dungeonforge/internal/errors"
	"github.com/sternmatt/dungeonforge/internal/rulebook"
	"github.com/sternmatt/dungeonforge/internal/rules"
)

// maxImprovementPoints is the total ability increase one improvement grants,
// split across at most two abilities.
const maxImprovementPoints = 2

// Service resolves character level-ups.
type Service interface {
	// LevelUp advances the character one level, returning a new snapshot
	// and the grants applied. The input snapshot is never mutated.
	LevelUp(ch *character.Character, choices *LevelUpChoices) (*character.Character, *LevelUpGrants, error)
}

// LevelUpChoices carries the player's decisions for this level.
type LevelUpChoices struct {
	// AbilityImprovements maps ability to increase. Only accepted at
	// levels where the class schedule grants an improvement.
	AbilityImprovements map[shared.Attribute]int
}

// LevelUpGrants reports everything the level-up changed.
type LevelUpGrants struct {
	NewLevel         int
	HPGain           int
	HPRoll           *dice.RollResult
	ProficiencyBonus int
	// SlotTotals is the new spell slot table (spell level -> total).
	SlotTotals map[int]int
	// AbilityScoreImprovement reports whether this level granted one.
	AbilityScoreImprovement bool
}

type service struct {
	roller dice.Roller
	logger *slog.Logger
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Roller dice.Roller
	Logger *slog.Logger
}

// NewService creates a new progression service.
func NewService(cfg *ServiceConfig) Service {
	if cfg.Roller == nil {
		panic("roller is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		roller: cfg.Roller,
		logger: logger,
	}
}

// LevelUp implements Service.LevelUp.
func (s *service) LevelUp(ch *character.Character, choices *LevelUpChoices) (*character.Character, *LevelUpGrants, error) {
	if ch == nil {
		return nil, nil, errors.InvalidArgument("character is required")
	}
	if ch.Level >= rules.MaxLevel {
		return nil, nil, errors.Newf(errors.CodeAlreadyMaxLevel, "%s is already at the maximum level %d", ch.Name, rules.MaxLevel)
	}

	class, err := rulebook.Lookup(ch.ClassKey)
	if err != nil {
		return nil, nil, err
	}

	newLevel := ch.Level + 1
	improvements := map[shared.Attribute]int{}
	if choices != nil {
		improvements = choices.AbilityImprovements
	}

	hasImprovement := rulebook.GrantsAbilityScoreImprovement(newLevel)
	if err := validateImprovements(ch, newLevel, hasImprovement, improvements); err != nil {
		return nil, nil, err
	}

	next := ch.Clone()
	next.Level = newLevel
	next.HitDie = class.HitDie

	for attr, inc := range improvements {
		next.Abilities[attr] += inc
	}

	// HP gain: hit die roll plus Constitution modifier, never below 1.
	hpRoll, err := dice.Roll(class.HitDieNotation(), s.roller)
	if err != nil {
		return nil, nil, errors.Wrap(err, "rolling hit die")
	}
	hpGain := hpRoll.Total + next.Modifier(shared.AttributeConstitution)
	if hpGain < 1 {
		hpGain = 1
	}
	next.HP.Max += hpGain
	next.HP.Current += hpGain

	// The slot table is replaced outright; slots already spent stay spent,
	// clamped where the new table is smaller.
	totals, source, err := rulebook.SlotTotals(ch.ClassKey, newLevel)
	if err != nil {
		return nil, nil, err
	}
	next.SpellSlots = next.SpellSlots.ReplaceTotals(totals, source)

	grants := &LevelUpGrants{
		NewLevel:                newLevel,
		HPGain:                  hpGain,
		HPRoll:                  hpRoll,
		ProficiencyBonus:        rules.ProficiencyBonus(newLevel),
		SlotTotals:              totals,
		AbilityScoreImprovement: hasImprovement,
	}

	s.logger.Info("character leveled up",
		"character_id", ch.ID,
		"level", newLevel,
		"hp_gain", hpGain,
	)

	return next, grants, nil
}

// validateImprovements enforces the improvement schedule and score caps.
func validateImprovements(ch *character.Character, newLevel int, hasImprovement bool, improvements map[shared.Attribute]int) error {
	if len(improvements) == 0 {
		return nil
	}
	if !hasImprovement {
		return errors.Newf(errors.CodeInvalidAbilityChoice, "level %d does not grant an ability score improvement", newLevel)
	}
	if len(improvements) > 2 {
		return errors.New(errors.CodeInvalidAbilityChoice, "improvements may be split across at most two abilities")
	}

	total := 0
	for attr, inc := range improvements {
		if !attr.IsValid() {
			return errors.Newf(errors.CodeInvalidAbilityChoice, "unknown ability %q", string(attr))
		}
		if inc < 1 {
			return errors.Newf(errors.CodeInvalidAbilityChoice, "improvement for %s must be positive", attr)
		}
		if ch.Abilities[attr]+inc > rules.AbilityScoreCap {
			return errors.Newf(errors.CodeInvalidAbilityChoice, "%s cannot be raised above %d", attr, rules.AbilityScoreCap)
		}
		total += inc
	}
	if total > maxImprovementPoints {
		return errors.Newf(errors.CodeInvalidAbilityChoice, "improvements total %d points, maximum is %d", total, maxImprovementPoints)
	}
	return nil
}
