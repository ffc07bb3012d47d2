// Package encounter implements turn-based combat resolution: initiative,
// action economy, attack and damage resolution, condition lifecycles, and
// concentration checks.
//
// Every operation is a snapshot transform: the input aggregate is cloned,
// never mutated, and callers must serialize writes per encounter.
package encounter

import (
	"log/slog"
	"sort"

	"github.com/sternmatt/dungeonforge/internal/dice"
	"github.com/sternmatt/dungeonforge/internal/domain/character"
	"github.com/sternmatt/dungeonforge/internal/domain/combat"
	"github.com/sternmatt/dungeonforge/internal/domain/damage"
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	"github.com/sternmatt/dungeonforge/internal/errors"
	"github.com/sternmatt/dungeonforge/internal/rules"
	"github.com/sternmatt/dungeonforge/internal/uuid"
)

// Service defines the combat resolution interface.
type Service interface {
	// StartEncounter rolls initiative for every participant and returns
	// the encounter in active state with the turn order fixed.
	StartEncounter(input *StartEncounterInput) (*combat.Encounter, error)

	// AdvanceTurn moves to the next able participant, resetting their turn
	// resources and ticking condition durations at each round start.
	AdvanceTurn(enc *combat.Encounter) (*combat.Encounter, error)

	// ResolveAttack resolves one attack roll and its damage.
	ResolveAttack(enc *combat.Encounter, input *AttackInput) (*combat.Encounter, *combat.AttackResult, error)

	// ApplyCondition attaches a condition to a participant.
	ApplyCondition(enc *combat.Encounter, participantID string, cond *shared.ActiveCondition) (*combat.Encounter, error)

	// ApplyDamage deals typed damage to a participant, resolving the
	// concentration check it may force.
	ApplyDamage(enc *combat.Encounter, participantID string, amount int, damageType damage.Type) (*combat.Encounter, *combat.ConcentrationResult, error)

	// Heal restores hit points to a participant.
	Heal(enc *combat.Encounter, participantID string, amount int) (*combat.Encounter, error)

	// CheckConcentration resolves a concentration check for a character
	// snapshot after it took damage.
	CheckConcentration(ch *character.Character, damageTaken int) (*character.Character, *combat.ConcentrationResult, error)

	// EndEncounter completes the encounter regardless of sides standing.
	EndEncounter(enc *combat.Encounter) (*combat.Encounter, error)
}

// StartEncounterInput contains the participants for a new encounter, in the
// stable order used to break initiative ties.
type StartEncounterInput struct {
	Name         string
	Participants []*combat.Participant
}

// AttackInput describes one attack to resolve.
type AttackInput struct {
	AttackerID string
	TargetID   string

	AttackBonus    int
	DamageNotation string
	DamageType     damage.Type

	// Advantage is the caller-supplied state (cover, hidden, features);
	// condition-derived advantage and disadvantage are layered on top.
	Advantage dice.Advantage

	// ConsumeAction spends the attacker's action; resolution fails if none
	// remains.
	ConsumeAction bool
}

type service struct {
	roller        dice.Roller
	uuidGenerator uuid.Generator
	logger        *slog.Logger
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Roller        dice.Roller
	UUIDGenerator uuid.Generator
	Logger        *slog.Logger
}

// NewService creates a new encounter service.
func NewService(cfg *ServiceConfig) Service {
	if cfg.Roller == nil {
		panic("roller is required")
	}

	svc := &service{
		roller: cfg.Roller,
		logger: cfg.Logger,
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if cfg.UUIDGenerator != nil {
		svc.uuidGenerator = cfg.UUIDGenerator
	} else {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	return svc
}

// StartEncounter implements Service.StartEncounter.
func (s *service) StartEncounter(input *StartEncounterInput) (*combat.Encounter, error) {
	if input == nil || len(input.Participants) == 0 {
		return nil, errors.InvalidArgument("at least one participant is required")
	}

	enc := combat.NewEncounter(s.uuidGenerator.New(), input.Name)
	inputOrder := make(map[string]int, len(input.Participants))

	for i, p := range input.Participants {
		if p.ID == "" {
			return nil, errors.InvalidArgumentf("participant %d has no ID", i)
		}
		if _, exists := enc.Participants[p.ID]; exists {
			return nil, errors.InvalidArgumentf("duplicate participant ID %q", p.ID)
		}
		if p.Side == "" {
			return nil, errors.InvalidArgumentf("participant %q has no side", p.ID)
		}
		enc.AddParticipant(p.Clone())
		inputOrder[p.ID] = i
	}

	// Roll initiative for everyone: 1d20 + dexterity modifier.
	enc.Status = combat.StatusRolling
	for _, p := range input.Participants {
		participant := enc.Participants[p.ID]
		roll, err := dice.D20(s.roller, participant.InitiativeBonus, dice.Normal)
		if err != nil {
			return nil, errors.Wrap(err, "rolling initiative")
		}
		participant.Initiative = roll.Total
		enc.AppendLog("%s rolls %d for initiative", participant.Name, roll.Total)
	}

	// Fix the turn order for the whole encounter: initiative descending,
	// ties by higher dexterity score, remaining ties by input order.
	order := make([]string, 0, len(input.Participants))
	for _, p := range input.Participants {
		order = append(order, p.ID)
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := enc.Participants[order[i]], enc.Participants[order[j]]
		if a.Initiative != b.Initiative {
			return a.Initiative > b.Initiative
		}
		if a.DexScore != b.DexScore {
			return a.DexScore > b.DexScore
		}
		return inputOrder[a.ID] < inputOrder[b.ID]
	})
	enc.TurnOrder = order

	now := enc.CreatedAt
	enc.Status = combat.StatusActive
	enc.StartedAt = &now
	enc.Round = 1
	enc.Turn = 0

	first := enc.Participants[enc.TurnOrder[0]]
	first.Resources.Reset(first.Speed)
	enc.AppendLog("round 1: %s acts first", first.Name)

	s.logger.Info("encounter started",
		"encounter_id", enc.ID,
		"participants", len(enc.Participants),
	)

	return enc, nil
}

// AdvanceTurn implements Service.AdvanceTurn.
func (s *service) AdvanceTurn(enc *combat.Encounter) (*combat.Encounter, error) {
	if err := requireActive(enc); err != nil {
		return nil, err
	}

	next := enc.Clone()

	for {
		next.Turn++
		if next.Turn >= len(next.TurnOrder) {
			next.Round++
			next.Turn = 0
			s.tickRoundStart(next)
		}

		if over, winner := next.CheckEnd(); over {
			next.End(winner)
			next.AppendLog("encounter resolved, %s prevails", winnerLabel(winner))
			return next, nil
		}

		current := next.Participants[next.TurnOrder[next.Turn]]
		if current.Alive() {
			// Turn resources reset exactly once, at the owner's turn start.
			current.Resources.Reset(current.Speed)
			next.AppendLog("round %d: %s's turn", next.Round, current.Name)
			return next, nil
		}
	}
}

// tickRoundStart decrements every participant's condition durations when a
// new round begins, removing the expired ones.
func (s *service) tickRoundStart(enc *combat.Encounter) {
	for _, id := range enc.TurnOrder {
		p := enc.Participants[id]
		remaining, expired := shared.TickConditions(p.Conditions)
		p.Conditions = remaining
		for _, t := range expired {
			enc.AppendLog("%s is no longer %s", p.Name, t)
		}
	}
}

// ResolveAttack implements Service.ResolveAttack.
func (s *service) ResolveAttack(enc *combat.Encounter, input *AttackInput) (*combat.Encounter, *combat.AttackResult, error) {
	if err := requireActive(enc); err != nil {
		return nil, nil, err
	}
	if input == nil {
		return nil, nil, errors.InvalidArgument("attack input is required")
	}

	damageExpr, err := dice.Parse(input.DamageNotation)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid damage notation")
	}

	next := enc.Clone()
	attacker, err := findParticipant(next, input.AttackerID)
	if err != nil {
		return nil, nil, err
	}
	target, err := findParticipant(next, input.TargetID)
	if err != nil {
		return nil, nil, err
	}
	if attacker.Incapacitated() {
		return nil, nil, errors.InvalidArgumentf("%s cannot act", attacker.Name)
	}

	if input.ConsumeAction {
		if err := attacker.Resources.UseAction(); err != nil {
			return nil, nil, err
		}
	}

	adv := input.Advantage
	adv = dice.Combine(adv, conditionAdvantage(attacker, target))

	attackRoll, err := dice.D20(s.roller, input.AttackBonus, adv)
	if err != nil {
		return nil, nil, errors.Wrap(err, "rolling attack")
	}

	result := &combat.AttackResult{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		AttackRoll: attackRoll,
		Fumble:     attackRoll.IsFumble,
		Critical:   attackRoll.IsCrit,
		DamageType: input.DamageType,
	}

	// A natural 20 always hits; a natural 1 always misses regardless of
	// the total.
	switch {
	case attackRoll.IsFumble:
		result.Hit = false
	case attackRoll.IsCrit:
		result.Hit = true
	default:
		result.Hit = attackRoll.Total >= target.AC
	}

	if !result.Hit {
		next.AppendLog("%s: %s", attacker.Name, result)
		return next, result, nil
	}

	// Critical hits double the dice, never the flat modifier.
	expr := damageExpr
	if result.Critical {
		expr = damageExpr.Doubled()
	}
	damageRoll, err := dice.Evaluate(expr, s.roller)
	if err != nil {
		return nil, nil, errors.Wrap(err, "rolling damage")
	}
	result.DamageRoll = damageRoll

	rolled := damageRoll.Total
	if rolled < 0 {
		rolled = 0
	}
	result.RolledDamage = rolled
	result.Damage = target.Defenses.Adjust(rolled, input.DamageType)

	concentration := s.dealDamage(next, target, result.Damage)
	result.Concentration = concentration

	next.AppendLog("%s: %s", attacker.Name, result)

	if over, winner := next.CheckEnd(); over {
		next.End(winner)
		next.AppendLog("encounter resolved, %s prevails", winnerLabel(winner))
	}

	return next, result, nil
}

// ApplyCondition implements Service.ApplyCondition.
func (s *service) ApplyCondition(enc *combat.Encounter, participantID string, cond *shared.ActiveCondition) (*combat.Encounter, error) {
	if err := requireActive(enc); err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, errors.InvalidArgument("condition is required")
	}

	next := enc.Clone()
	p, err := findParticipant(next, participantID)
	if err != nil {
		return nil, err
	}

	p.Conditions = append(p.Conditions, cond.Clone())
	next.AppendLog("%s is %s (%s)", p.Name, cond.Type, cond.Source)

	// Incapacitation breaks concentration outright, no save.
	if cond.Type.Incapacitating() && p.Concentration != nil {
		next.AppendLog("%s loses concentration on %s", p.Name, p.Concentration.SpellName)
		p.Concentration = nil
	}

	if over, winner := next.CheckEnd(); over {
		next.End(winner)
		next.AppendLog("encounter resolved, %s prevails", winnerLabel(winner))
	}

	return next, nil
}

// ApplyDamage implements Service.ApplyDamage.
func (s *service) ApplyDamage(enc *combat.Encounter, participantID string, amount int, damageType damage.Type) (*combat.Encounter, *combat.ConcentrationResult, error) {
	if err := requireActive(enc); err != nil {
		return nil, nil, err
	}
	if amount < 0 {
		return nil, nil, errors.InvalidArgumentf("damage must be non-negative, got %d", amount)
	}

	next := enc.Clone()
	p, err := findParticipant(next, participantID)
	if err != nil {
		return nil, nil, err
	}

	adjusted := p.Defenses.Adjust(amount, damageType)
	concentration := s.dealDamage(next, p, adjusted)
	next.AppendLog("%s takes %d %s damage", p.Name, adjusted, damageType)

	if over, winner := next.CheckEnd(); over {
		next.End(winner)
		next.AppendLog("encounter resolved, %s prevails", winnerLabel(winner))
	}

	return next, concentration, nil
}

// Heal implements Service.Heal.
func (s *service) Heal(enc *combat.Encounter, participantID string, amount int) (*combat.Encounter, error) {
	if err := requireActive(enc); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, errors.InvalidArgumentf("healing must be non-negative, got %d", amount)
	}

	next := enc.Clone()
	p, err := findParticipant(next, participantID)
	if err != nil {
		return nil, err
	}

	healed := p.HP.Heal(amount)
	next.AppendLog("%s regains %d hit points", p.Name, healed)
	return next, nil
}

// CheckConcentration implements Service.CheckConcentration.
func (s *service) CheckConcentration(ch *character.Character, damageTaken int) (*character.Character, *combat.ConcentrationResult, error) {
	if ch == nil {
		return nil, nil, errors.InvalidArgument("character is required")
	}
	if ch.Concentration == nil {
		return ch, nil, nil
	}

	result, err := s.rollConcentration(ch.ConcentrationBonus(), damageTaken, ch.Concentration.SpellName)
	if err != nil {
		return nil, nil, err
	}

	if result.Maintained {
		return ch, result, nil
	}
	next := ch.Clone()
	next.Concentration = nil
	return next, result, nil
}

// EndEncounter implements Service.EndEncounter.
func (s *service) EndEncounter(enc *combat.Encounter) (*combat.Encounter, error) {
	if enc == nil {
		return nil, errors.InvalidArgument("encounter is required")
	}
	if enc.Status == combat.StatusCompleted {
		return enc, nil
	}

	next := enc.Clone()
	next.End("")
	next.AppendLog("encounter ended")
	return next, nil
}

// dealDamage applies already-adjusted damage to a participant and resolves
// the concentration check it forces.
func (s *service) dealDamage(enc *combat.Encounter, p *combat.Participant, amount int) *combat.ConcentrationResult {
	if amount <= 0 {
		return nil
	}

	p.HP.ApplyDamage(amount)
	if p.HP.Depleted() {
		enc.AppendLog("%s falls", p.Name)
		// Going down ends concentration with no save.
		p.Concentration = nil
		return nil
	}

	if p.Concentration == nil {
		return nil
	}

	result, err := s.rollConcentration(p.ConcentrationBonus, amount, p.Concentration.SpellName)
	if err != nil {
		// A roller failure mid-transform leaves the check unresolved;
		// treat it as maintained and surface nothing louder than a log.
		s.logger.Error("concentration check failed to roll", "error", err)
		return nil
	}

	if !result.Maintained {
		enc.AppendLog("%s loses concentration on %s", p.Name, p.Concentration.SpellName)
		p.Concentration = nil
	}
	return result
}

// rollConcentration rolls a Constitution save against DC max(10, damage/2).
func (s *service) rollConcentration(bonus, damageTaken int, spellName string) (*combat.ConcentrationResult, error) {
	dc := rules.ConcentrationDC(damageTaken)
	roll, err := dice.D20(s.roller, bonus, dice.Normal)
	if err != nil {
		return nil, errors.Wrap(err, "rolling concentration save")
	}

	result := &combat.ConcentrationResult{
		DC:         dc,
		Roll:       roll,
		Maintained: roll.Total >= dc,
	}
	if !result.Maintained {
		result.EndedSpell = spellName
	}
	return result, nil
}

// conditionAdvantage derives the advantage state from the attacker's and
// target's conditions.
func conditionAdvantage(attacker, target *combat.Participant) dice.Advantage {
	state := dice.Normal
	for _, cond := range attacker.Conditions {
		if cond.Type.ImposesAttackDisadvantage() {
			state = dice.Combine(state, dice.WithDisadvantage)
		}
	}
	for _, cond := range target.Conditions {
		if cond.Type.GrantsAttackAdvantage() {
			state = dice.Combine(state, dice.WithAdvantage)
		}
	}
	return state
}

// findParticipant resolves an ID inside the aggregate. A missing ID means
// the calling layer handed the engine inconsistent state.
func findParticipant(enc *combat.Encounter, id string) (*combat.Participant, error) {
	p, ok := enc.Participants[id]
	if !ok {
		return nil, errors.InvariantViolationf("participant %q is not part of encounter %s", id, enc.ID)
	}
	return p, nil
}

func requireActive(enc *combat.Encounter) error {
	if enc == nil {
		return errors.InvalidArgument("encounter is required")
	}
	if enc.Status != combat.StatusActive {
		return errors.InvalidArgumentf("encounter %s is %s, not active", enc.ID, enc.Status)
	}
	return nil
}

func winnerLabel(winner combat.Side) string {
	if winner == "" {
		return "no side"
	}
	return string(winner)
}
