// Package combat defines the encounter aggregate: participants, initiative
// order, round/turn tracking, and the results of resolved actions.
package combat

import (
	"fmt"
	"time"

	"github.com/sternmatt/dungeonforge/internal/domain/damage"
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
)

// Status is the encounter's lifecycle state.
type Status string

const (
	StatusSetup     Status = "setup"     // participants being added
	StatusRolling   Status = "rolling"   // initiative being rolled
	StatusActive    Status = "active"    // combat in progress
	StatusCompleted Status = "completed" // one side has fallen
)

// Side tags which team a participant fights for. Resolution triggers when
// every participant of a side is down or removed.
type Side string

// Participant is one combatant's in-encounter state. It carries the combat
// slice of a character snapshot; the persistence collaborator owns the full
// character.
type Participant struct {
	ID          string `json:"id"`
	CharacterID string `json:"character_id,omitempty"`
	Name        string `json:"name"`
	Side        Side   `json:"side"`

	Initiative      int `json:"initiative"`
	InitiativeBonus int `json:"initiative_bonus"`
	DexScore        int `json:"dex_score"`

	HP    shared.HPResource `json:"hp"`
	AC    int               `json:"ac"`
	Speed int               `json:"speed"`

	// ConcentrationBonus is the participant's Constitution save bonus,
	// applied to concentration checks.
	ConcentrationBonus int `json:"concentration_bonus"`

	// SaveBonuses holds the participant's saving-throw bonuses, used when
	// resolving save-based spells against them.
	SaveBonuses map[shared.Attribute]int `json:"save_bonuses,omitempty"`

	Resources     shared.TurnResources       `json:"resources"`
	Conditions    []*shared.ActiveCondition  `json:"conditions,omitempty"`
	Concentration *shared.ConcentrationState `json:"concentration,omitempty"`
	Defenses      damage.Defenses            `json:"defenses,omitempty"`

	// Removed marks participants pulled from the encounter; they keep their
	// turn-order slot so indexes stay stable but are skipped.
	Removed bool `json:"removed"`
}

// Alive reports whether the participant is above 0 HP and still in the
// encounter.
func (p *Participant) Alive() bool {
	return !p.Removed && !p.HP.Depleted()
}

// Incapacitated reports whether the participant is down or suffering an
// incapacitating condition.
func (p *Participant) Incapacitated() bool {
	if !p.Alive() {
		return true
	}
	for _, cond := range p.Conditions {
		if cond.Type.Incapacitating() {
			return true
		}
	}
	return false
}

// HasCondition reports whether the participant suffers the given condition.
func (p *Participant) HasCondition(t shared.ConditionType) bool {
	for _, cond := range p.Conditions {
		if cond.Type == t {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	out := *p
	out.Concentration = p.Concentration.Clone()
	out.Defenses = p.Defenses.Clone()
	if p.SaveBonuses != nil {
		out.SaveBonuses = make(map[shared.Attribute]int, len(p.SaveBonuses))
		for k, v := range p.SaveBonuses {
			out.SaveBonuses[k] = v
		}
	}
	if p.Conditions != nil {
		out.Conditions = make([]*shared.ActiveCondition, len(p.Conditions))
		for i, cond := range p.Conditions {
			out.Conditions[i] = cond.Clone()
		}
	}
	return &out
}

// Encounter is the combat aggregate. Mutating operations go through the
// encounter service; callers must serialize writes per aggregate.
type Encounter struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Status Status `json:"status"`
	// Round is 1-based once combat starts.
	Round int `json:"round"`
	// Turn indexes TurnOrder. Participant order is fixed for the life of
	// the encounter.
	Turn int `json:"turn"`

	Participants map[string]*Participant `json:"participants"`
	TurnOrder    []string                `json:"turn_order"`

	// Winner is set when the encounter resolves.
	Winner Side `json:"winner,omitempty"`

	Log []string `json:"log,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// NewEncounter creates an encounter in setup state.
func NewEncounter(id, name string) *Encounter {
	return &Encounter{
		ID:           id,
		Name:         name,
		Status:       StatusSetup,
		Participants: make(map[string]*Participant),
		CreatedAt:    time.Now().UTC(),
	}
}

// AddParticipant registers a participant during setup.
func (e *Encounter) AddParticipant(p *Participant) {
	e.Participants[p.ID] = p
}

// Current returns the participant whose turn it is, or nil outside active
// combat.
func (e *Encounter) Current() *Participant {
	if e.Status != StatusActive || e.Turn >= len(e.TurnOrder) {
		return nil
	}
	return e.Participants[e.TurnOrder[e.Turn]]
}

// Sides returns the distinct sides present, in first-seen turn order.
func (e *Encounter) Sides() []Side {
	var sides []Side
	seen := map[Side]bool{}
	for _, id := range e.TurnOrder {
		p := e.Participants[id]
		if p == nil || seen[p.Side] {
			continue
		}
		seen[p.Side] = true
		sides = append(sides, p.Side)
	}
	return sides
}

// StandingSides returns the sides that still have a participant able to
// fight.
func (e *Encounter) StandingSides() []Side {
	var sides []Side
	seen := map[Side]bool{}
	for _, id := range e.TurnOrder {
		p := e.Participants[id]
		if p == nil || seen[p.Side] || p.Incapacitated() {
			continue
		}
		seen[p.Side] = true
		sides = append(sides, p.Side)
	}
	return sides
}

// CheckEnd reports whether combat is over (at most one side standing) and
// the winning side if any.
func (e *Encounter) CheckEnd() (bool, Side) {
	standing := e.StandingSides()
	switch len(standing) {
	case 0:
		return true, ""
	case 1:
		return true, standing[0]
	default:
		return false, ""
	}
}

// End marks the encounter completed.
func (e *Encounter) End(winner Side) {
	now := time.Now().UTC()
	e.Status = StatusCompleted
	e.Winner = winner
	e.EndedAt = &now
}

// AppendLog records a combat event.
func (e *Encounter) AppendLog(format string, args ...any) {
	e.Log = append(e.Log, fmt.Sprintf(format, args...))
}

// Clone returns a deep copy of the aggregate.
func (e *Encounter) Clone() *Encounter {
	if e == nil {
		return nil
	}
	out := *e
	out.Participants = make(map[string]*Participant, len(e.Participants))
	for id, p := range e.Participants {
		out.Participants[id] = p.Clone()
	}
	out.TurnOrder = append([]string(nil), e.TurnOrder...)
	out.Log = append([]string(nil), e.Log...)
	if e.StartedAt != nil {
		t := *e.StartedAt
		out.StartedAt = &t
	}
	if e.EndedAt != nil {
		t := *e.EndedAt
		out.EndedAt = &t
	}
	return &out
}
