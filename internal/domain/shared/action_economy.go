package shared

import "github.com/sternmatt/dungeonforge/internal/errors"

// TurnResources is a combatant's action-economy budget for the current turn:
// actions, bonus actions, reactions, and movement. Reset exactly once at the
// start of the owner's turn, never partially.
type TurnResources struct {
	ActionsRemaining      int `json:"actions_remaining"`
	BonusActionsRemaining int `json:"bonus_actions_remaining"`
	ReactionsRemaining    int `json:"reactions_remaining"`
	MovementRemaining     int `json:"movement_remaining"`
}

// NewTurnResources returns a fresh budget: one action, one bonus action, one
// reaction, and movement equal to speed.
func NewTurnResources(speed int) TurnResources {
	return TurnResources{
		ActionsRemaining:      1,
		BonusActionsRemaining: 1,
		ReactionsRemaining:    1,
		MovementRemaining:     speed,
	}
}

// Reset restores the full budget for a new turn.
func (t *TurnResources) Reset(speed int) {
	*t = NewTurnResources(speed)
}

// UseAction spends the action, failing once none remain. Counters never go
// negative.
func (t *TurnResources) UseAction() error {
	if t.ActionsRemaining <= 0 {
		return errors.InsufficientResource("no action remaining this turn")
	}
	t.ActionsRemaining--
	return nil
}

// UseBonusAction spends the bonus action.
func (t *TurnResources) UseBonusAction() error {
	if t.BonusActionsRemaining <= 0 {
		return errors.InsufficientResource("no bonus action remaining this turn")
	}
	t.BonusActionsRemaining--
	return nil
}

// UseReaction spends the reaction.
func (t *TurnResources) UseReaction() error {
	if t.ReactionsRemaining <= 0 {
		return errors.InsufficientResource("no reaction remaining")
	}
	t.ReactionsRemaining--
	return nil
}

// UseMovement spends feet of movement.
func (t *TurnResources) UseMovement(feet int) error {
	if feet < 0 {
		return errors.InvalidArgumentf("movement must be non-negative, got %d", feet)
	}
	if t.MovementRemaining < feet {
		return errors.InsufficientResourcef("only %d ft of movement remaining, need %d", t.MovementRemaining, feet)
	}
	t.MovementRemaining -= feet
	return nil
}
