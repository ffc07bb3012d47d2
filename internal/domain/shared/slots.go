package shared

import "github.com/sternmatt/dungeonforge/internal/errors"

// Slot source values, matching the two casting progressions.
const (
	SlotSourceSpellcasting = "spellcasting"
	SlotSourcePactMagic    = "pact_magic"
)

// SlotInfo tracks spell slots at one level. used <= total always holds.
type SlotInfo struct {
	Total  int    `json:"total"`
	Used   int    `json:"used"`
	Source string `json:"source"`
}

// Remaining returns the unspent slot count.
func (s SlotInfo) Remaining() int {
	return s.Total - s.Used
}

// SpellSlotPool maps spell level (1-9) to that level's slots. It is only
// mutated through Consume and Recover.
type SpellSlotPool map[int]SlotInfo

// Clone returns an independent copy.
func (p SpellSlotPool) Clone() SpellSlotPool {
	if p == nil {
		return nil
	}
	out := make(SpellSlotPool, len(p))
	for level, info := range p {
		out[level] = info
	}
	return out
}

// Validate checks the used <= total invariant on every level. A violation
// means the calling layer handed the engine corrupted state.
func (p SpellSlotPool) Validate() error {
	for level, info := range p {
		if info.Used > info.Total || info.Used < 0 || info.Total < 0 {
			return errors.InvariantViolationf("spell slot pool corrupt at level %d: used %d of %d", level, info.Used, info.Total)
		}
	}
	return nil
}

// Consume spends one slot at exactly the given level. It never upcasts to a
// higher level on the caller's behalf.
func (p SpellSlotPool) Consume(level int) error {
	if err := p.Validate(); err != nil {
		return err
	}
	info, ok := p[level]
	if !ok || info.Remaining() <= 0 {
		return errors.NoSlotAvailablef("no level %d spell slot available", level)
	}
	info.Used++
	p[level] = info
	return nil
}

// Recover restores up to count spent slots at the given level, clamping at
// fully rested.
func (p SpellSlotPool) Recover(level, count int) error {
	if count < 0 {
		return errors.InvalidArgumentf("recover count must be non-negative, got %d", count)
	}
	info, ok := p[level]
	if !ok {
		return nil
	}
	info.Used -= count
	if info.Used < 0 {
		info.Used = 0
	}
	p[level] = info
	return nil
}

// ReplaceTotals swaps in a new per-level total table, as on level-up. Used
// counts carry over, clamped down where the new total is lower; slots spent
// at the old level are not refunded.
func (p SpellSlotPool) ReplaceTotals(totals map[int]int, source string) SpellSlotPool {
	out := make(SpellSlotPool, len(totals))
	for level, total := range totals {
		used := 0
		if prev, ok := p[level]; ok {
			used = prev.Used
		}
		if used > total {
			used = total
		}
		out[level] = SlotInfo{Total: total, Used: used, Source: source}
	}
	return out
}

// LongRest restores every slot.
func (p SpellSlotPool) LongRest() {
	for level, info := range p {
		info.Used = 0
		p[level] = info
	}
}

// ShortRest restores pact-magic slots only.
func (p SpellSlotPool) ShortRest() {
	for level, info := range p {
		if info.Source == SlotSourcePactMagic {
			info.Used = 0
			p[level] = info
		}
	}
}
