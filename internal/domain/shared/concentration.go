package shared

// ConcentrationState marks a caster as concentrating on one spell. There is
// no round-based countdown: concentration ends on a voluntary stop, a failed
// save after damage, incapacitation, or the cast of another concentration
// spell (which ends the prior spell silently, no save).
type ConcentrationState struct {
	SpellKey   string `json:"spell_key"`
	SpellName  string `json:"spell_name"`
	SpellLevel int    `json:"spell_level"`
}

// Clone returns an independent copy.
func (c *ConcentrationState) Clone() *ConcentrationState {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}
