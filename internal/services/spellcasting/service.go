// Package spellcasting resolves spells: slot bookkeeping, attack-roll and
// saving-throw spells, upcasting, and concentration hand-off. Damage and
// conditions flow through the encounter service so the resolution rules
// live in exactly one place.
package spellcasting

import (
	"log/slog"
	"strings"

	"github.com/sternmatt/dungeonforge/internal/dice"
	"github.com/sternmatt/dungeonforge/internal/domain/character"
	"github.com/sternmatt/dungeonforge/internal/domain/combat"
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	"github.com/sternmatt/dungeonforge/internal/errors"
	"github.com/sternmatt/dungeonforge/internal/rulebook"
	"github.com/sternmatt/dungeonforge/internal/services/encounter"
)

// Service defines the spellcasting interface.
type Service interface {
	// ConsumeSlot expends one slot of the given level from a copy of the
	// pool. The input pool is never modified.
	ConsumeSlot(pool shared.SpellSlotPool, level int) (shared.SpellSlotPool, error)

	// RecoverSlots returns up to count expended slots of the given level
	// to a copy of the pool, clamping at fully rested.
	RecoverSlots(pool shared.SpellSlotPool, level, count int) (shared.SpellSlotPool, error)

	// LongRest restores every slot in a copy of the pool.
	LongRest(pool shared.SpellSlotPool) shared.SpellSlotPool

	// ShortRest restores pact-magic slots only in a copy of the pool.
	ShortRest(pool shared.SpellSlotPool) shared.SpellSlotPool

	// CastSpell resolves one spell cast inside an encounter and returns the
	// updated encounter alongside the cast's outcome, including the
	// caster's post-cast snapshot.
	CastSpell(enc *combat.Encounter, input *CastSpellInput) (*combat.Encounter, *CastResult, error)
}

// CastSpellInput describes one spell cast.
type CastSpellInput struct {
	// Caster is the caster's character snapshot; slots and concentration
	// come from here.
	Caster *character.Character
	// CasterParticipantID locates the caster inside the encounter.
	CasterParticipantID string

	SpellKey string
	// SlotLevel is the slot to expend. Zero means the spell's own level.
	// Leveled spells may be cast with a higher slot for extra effect.
	SlotLevel int

	TargetIDs []string

	// ConsumeAction spends the caster's action for the turn.
	ConsumeAction bool
}

// TargetOutcome records how the spell resolved against one target.
type TargetOutcome struct {
	TargetID string `json:"target_id"`

	// Attack is set for attack-roll spells.
	Attack *combat.AttackResult `json:"attack,omitempty"`

	// SaveRoll and Saved are set for saving-throw spells.
	SaveRoll *dice.D20Result `json:"-"`
	SaveDC   int             `json:"save_dc,omitempty"`
	Saved    bool            `json:"saved,omitempty"`

	// RolledDamage is the damage before the target's defenses; Damage is
	// what was actually dealt.
	RolledDamage int `json:"rolled_damage"`
	Damage       int `json:"damage"`

	ConditionApplied shared.ConditionType        `json:"condition_applied,omitempty"`
	Concentration    *combat.ConcentrationResult `json:"concentration,omitempty"`
}

// CastResult is the outcome of one spell cast.
type CastResult struct {
	SpellKey  string `json:"spell_key"`
	SpellName string `json:"spell_name"`
	SlotLevel int    `json:"slot_level"`

	// Caster is the caster's post-cast snapshot: slot expended,
	// concentration updated.
	Caster *character.Character `json:"caster"`

	Targets []*TargetOutcome `json:"targets"`

	ConcentrationStarted bool `json:"concentration_started,omitempty"`
	// PriorConcentrationEnded names the spell a new concentration
	// silently replaced.
	PriorConcentrationEnded string `json:"prior_concentration_ended,omitempty"`
}

type service struct {
	encounter encounter.Service
	roller    dice.Roller
	logger    *slog.Logger
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Encounter encounter.Service
	Roller    dice.Roller
	Logger    *slog.Logger
}

// NewService creates a new spellcasting service.
func NewService(cfg *ServiceConfig) Service {
	if cfg.Encounter == nil {
		panic("encounter service is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}

	svc := &service{
		encounter: cfg.Encounter,
		roller:    cfg.Roller,
		logger:    cfg.Logger,
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// ConsumeSlot implements Service.ConsumeSlot.
func (s *service) ConsumeSlot(pool shared.SpellSlotPool, level int) (shared.SpellSlotPool, error) {
	next := pool.Clone()
	if err := next.Consume(level); err != nil {
		return nil, err
	}
	return next, nil
}

// RecoverSlots implements Service.RecoverSlots.
func (s *service) RecoverSlots(pool shared.SpellSlotPool, level, count int) (shared.SpellSlotPool, error) {
	next := pool.Clone()
	if err := next.Recover(level, count); err != nil {
		return nil, err
	}
	return next, nil
}

// LongRest implements Service.LongRest.
func (s *service) LongRest(pool shared.SpellSlotPool) shared.SpellSlotPool {
	next := pool.Clone()
	next.LongRest()
	return next
}

// ShortRest implements Service.ShortRest.
func (s *service) ShortRest(pool shared.SpellSlotPool) shared.SpellSlotPool {
	next := pool.Clone()
	next.ShortRest()
	return next
}

// CastSpell implements Service.CastSpell.
func (s *service) CastSpell(enc *combat.Encounter, input *CastSpellInput) (*combat.Encounter, *CastResult, error) {
	if input == nil || input.Caster == nil {
		return nil, nil, errors.InvalidArgument("caster is required")
	}
	if enc == nil {
		return nil, nil, errors.InvalidArgument("encounter is required")
	}
	if enc.Status != combat.StatusActive {
		return nil, nil, errors.InvalidArgumentf("encounter %s is %s, not active", enc.ID, enc.Status)
	}

	spell, err := rulebook.LookupSpell(input.SpellKey)
	if err != nil {
		return nil, nil, err
	}

	slotLevel, err := resolveSlotLevel(spell, input.SlotLevel)
	if err != nil {
		return nil, nil, err
	}

	caster := input.Caster.Clone()
	if slotLevel > 0 {
		if err := caster.SpellSlots.Consume(slotLevel); err != nil {
			return nil, nil, err
		}
	}

	current := enc.Clone()
	casterParticipant, ok := current.Participants[input.CasterParticipantID]
	if !ok {
		return nil, nil, errors.InvariantViolationf("participant %q is not part of encounter %s", input.CasterParticipantID, current.ID)
	}
	if casterParticipant.Incapacitated() {
		return nil, nil, errors.InvalidArgumentf("%s cannot act", casterParticipant.Name)
	}
	if input.ConsumeAction {
		if err := casterParticipant.Resources.UseAction(); err != nil {
			return nil, nil, err
		}
	}

	result := &CastResult{
		SpellKey:  spell.Key,
		SpellName: spell.Name,
		SlotLevel: slotLevel,
	}

	notation := upcastNotation(spell, slotLevel)
	current.AppendLog("%s casts %s", casterParticipant.Name, spell.Name)

	switch {
	case spell.RequiresAttackRoll:
		current, err = s.resolveAttackSpell(current, caster, input, spell, notation, result)
	case spell.SaveAbility != "":
		current, err = s.resolveSaveSpell(current, caster, input, spell, notation, result)
	case spell.Damage != "":
		current, err = s.resolveAutoHitSpell(current, input, spell, notation, result)
	}
	if err != nil {
		return nil, nil, err
	}

	if spell.RequiresConcentration {
		startConcentration(current, caster, input.CasterParticipantID, spell, slotLevel, result)
	}

	result.Caster = caster

	s.logger.Info("spell cast",
		"encounter_id", current.ID,
		"spell", spell.Key,
		"slot_level", slotLevel,
		"targets", len(result.Targets),
	)

	return current, result, nil
}

// resolveAttackSpell resolves an attack-roll spell through the encounter
// service, one spell attack per target.
func (s *service) resolveAttackSpell(current *combat.Encounter, caster *character.Character, input *CastSpellInput, spell *rulebook.Spell, notation string, result *CastResult) (*combat.Encounter, error) {
	for _, targetID := range input.TargetIDs {
		if current.Status != combat.StatusActive {
			break
		}
		next, attack, err := s.encounter.ResolveAttack(current, &encounter.AttackInput{
			AttackerID:     input.CasterParticipantID,
			TargetID:       targetID,
			AttackBonus:    caster.SpellAttackBonus(),
			DamageNotation: notation,
			DamageType:     spell.DamageType,
		})
		if err != nil {
			return nil, err
		}
		current = next
		result.Targets = append(result.Targets, &TargetOutcome{
			TargetID:      targetID,
			Attack:        attack,
			RolledDamage:  attack.RolledDamage,
			Damage:        attack.Damage,
			Concentration: attack.Concentration,
		})
	}
	return current, nil
}

// resolveSaveSpell rolls the spell's damage once, then each target saves
// against the caster's spell save DC for half or none.
func (s *service) resolveSaveSpell(current *combat.Encounter, caster *character.Character, input *CastSpellInput, spell *rulebook.Spell, notation string, result *CastResult) (*combat.Encounter, error) {
	dc := caster.SpellSaveDC()

	rolled := 0
	if notation != "" {
		roll, err := dice.Roll(notation, s.roller)
		if err != nil {
			return nil, errors.Wrap(err, "rolling spell damage")
		}
		rolled = roll.Total
		if rolled < 0 {
			rolled = 0
		}
	}

	for _, targetID := range input.TargetIDs {
		if current.Status != combat.StatusActive {
			break
		}
		target, ok := current.Participants[targetID]
		if !ok {
			return nil, errors.InvariantViolationf("participant %q is not part of encounter %s", targetID, current.ID)
		}

		saveRoll, err := dice.D20(s.roller, target.SaveBonuses[spell.SaveAbility], dice.Normal)
		if err != nil {
			return nil, errors.Wrap(err, "rolling saving throw")
		}
		saved := saveRoll.Total >= dc

		outcome := &TargetOutcome{
			TargetID:     targetID,
			SaveRoll:     saveRoll,
			SaveDC:       dc,
			Saved:        saved,
			RolledDamage: rolled,
		}

		toDeal := rolled
		if saved {
			if spell.HalfOnSave {
				toDeal = rolled / 2
			} else {
				toDeal = 0
			}
		}

		if toDeal > 0 {
			dealt := target.Defenses.Adjust(toDeal, spell.DamageType)
			next, concentration, err := s.encounter.ApplyDamage(current, targetID, toDeal, spell.DamageType)
			if err != nil {
				return nil, err
			}
			current = next
			outcome.Damage = dealt
			outcome.Concentration = concentration
		}

		if !saved && spell.AppliesCondition != "" && current.Status == combat.StatusActive {
			next, err := s.encounter.ApplyCondition(current, targetID, &shared.ActiveCondition{
				Type:            spell.AppliesCondition,
				Source:          spell.Name,
				RemainingRounds: spell.ConditionDuration,
				SaveDC:          dc,
				SaveAbility:     spell.SaveAbility,
			})
			if err != nil {
				return nil, err
			}
			current = next
			outcome.ConditionApplied = spell.AppliesCondition
		}

		result.Targets = append(result.Targets, outcome)
	}
	return current, nil
}

// resolveAutoHitSpell rolls damage once and deals it to every target with
// no roll to resist.
func (s *service) resolveAutoHitSpell(current *combat.Encounter, input *CastSpellInput, spell *rulebook.Spell, notation string, result *CastResult) (*combat.Encounter, error) {
	roll, err := dice.Roll(notation, s.roller)
	if err != nil {
		return nil, errors.Wrap(err, "rolling spell damage")
	}
	rolled := roll.Total
	if rolled < 0 {
		rolled = 0
	}

	for _, targetID := range input.TargetIDs {
		if current.Status != combat.StatusActive {
			break
		}
		target, ok := current.Participants[targetID]
		if !ok {
			return nil, errors.InvariantViolationf("participant %q is not part of encounter %s", targetID, current.ID)
		}
		dealt := target.Defenses.Adjust(rolled, spell.DamageType)

		next, concentration, err := s.encounter.ApplyDamage(current, targetID, rolled, spell.DamageType)
		if err != nil {
			return nil, err
		}
		current = next

		result.Targets = append(result.Targets, &TargetOutcome{
			TargetID:      targetID,
			RolledDamage:  rolled,
			Damage:        dealt,
			Concentration: concentration,
		})
	}
	return current, nil
}

// startConcentration moves the caster onto the new spell, silently ending
// whatever they were concentrating on before.
func startConcentration(current *combat.Encounter, caster *character.Character, casterParticipantID string, spell *rulebook.Spell, slotLevel int, result *CastResult) {
	if prior := caster.Concentration; prior != nil {
		result.PriorConcentrationEnded = prior.SpellName
		current.AppendLog("%s lets %s lapse", caster.Name, prior.SpellName)
	}

	state := &shared.ConcentrationState{
		SpellKey:   spell.Key,
		SpellName:  spell.Name,
		SpellLevel: slotLevel,
	}
	caster.Concentration = state
	if p, ok := current.Participants[casterParticipantID]; ok {
		p.Concentration = state.Clone()
	}
	result.ConcentrationStarted = true
}

// resolveSlotLevel validates the expended slot against the spell's level.
// Cantrips cost nothing; leveled spells default to their own level and may
// be upcast with a higher slot.
func resolveSlotLevel(spell *rulebook.Spell, requested int) (int, error) {
	if spell.Level == 0 {
		if requested != 0 {
			return 0, errors.InvalidArgumentf("%s is a cantrip and cannot expend a slot", spell.Name)
		}
		return 0, nil
	}
	if requested == 0 {
		return spell.Level, nil
	}
	if requested < spell.Level {
		return 0, errors.InvalidArgumentf("%s requires at least a level %d slot, got %d", spell.Name, spell.Level, requested)
	}
	if requested > 9 {
		return 0, errors.InvalidArgumentf("no slot level above 9 exists, got %d", requested)
	}
	return requested, nil
}

// upcastNotation appends the per-level upcast dice once for each slot level
// above the spell's base level.
func upcastNotation(spell *rulebook.Spell, slotLevel int) string {
	if spell.Damage == "" {
		return ""
	}
	if spell.DamagePerUpcastLevel == "" || slotLevel <= spell.Level {
		return spell.Damage
	}
	var b strings.Builder
	b.WriteString(spell.Damage)
	for i := spell.Level; i < slotLevel; i++ {
		b.WriteString("+")
		b.WriteString(spell.DamagePerUpcastLevel)
	}
	return b.String()
}
