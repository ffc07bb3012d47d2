package rulebook

import (
	"github.com/sternmatt/dungeonforge/internal/domain/shared"
	"github.com/sternmatt/dungeonforge/internal/errors"
)

// fullCasterSlots indexes slot totals by character level (1-20); each row
// lists totals for spell levels 1 upward.
var fullCasterSlots = [21][]int{
	1:  {2},
	2:  {3},
	3:  {4, 2},
	4:  {4, 3},
	5:  {4, 3, 2},
	6:  {4, 3, 3},
	7:  {4, 3, 3, 1},
	8:  {4, 3, 3, 2},
	9:  {4, 3, 3, 3, 1},
	10: {4, 3, 3, 3, 2},
	11: {4, 3, 3, 3, 2, 1},
	12: {4, 3, 3, 3, 2, 1},
	13: {4, 3, 3, 3, 2, 1, 1},
	14: {4, 3, 3, 3, 2, 1, 1},
	15: {4, 3, 3, 3, 2, 1, 1, 1},
	16: {4, 3, 3, 3, 2, 1, 1, 1},
	17: {4, 3, 3, 3, 2, 1, 1, 1, 1},
	18: {4, 3, 3, 3, 3, 1, 1, 1, 1},
	19: {4, 3, 3, 3, 3, 2, 1, 1, 1},
	20: {4, 3, 3, 3, 3, 2, 2, 1, 1},
}

// halfCasterSlots is the paladin/ranger schedule; no slots at level 1.
var halfCasterSlots = [21][]int{
	2:  {2},
	3:  {3},
	4:  {3},
	5:  {4, 2},
	6:  {4, 2},
	7:  {4, 3},
	8:  {4, 3},
	9:  {4, 3, 2},
	10: {4, 3, 2},
	11: {4, 3, 3},
	12: {4, 3, 3},
	13: {4, 3, 3, 1},
	14: {4, 3, 3, 1},
	15: {4, 3, 3, 2},
	16: {4, 3, 3, 2},
	17: {4, 3, 3, 3, 1},
	18: {4, 3, 3, 3, 1},
	19: {4, 3, 3, 3, 2},
	20: {4, 3, 3, 3, 2},
}

// pactMagic gives the warlock's slot count and slot level per character
// level. All pact slots share one level.
var pactMagic = [21]struct{ count, level int }{
	1:  {1, 1},
	2:  {2, 1},
	3:  {2, 2},
	4:  {2, 2},
	5:  {2, 3},
	6:  {2, 3},
	7:  {2, 4},
	8:  {2, 4},
	9:  {2, 5},
	10: {2, 5},
	11: {3, 5},
	12: {3, 5},
	13: {3, 5},
	14: {3, 5},
	15: {3, 5},
	16: {3, 5},
	17: {4, 5},
	18: {4, 5},
	19: {4, 5},
	20: {4, 5},
}

// SlotTotals returns the spell slot totals (spell level -> count) and slot
// source for a class at a character level. Non-casters get an empty table.
func SlotTotals(classKey string, level int) (map[int]int, string, error) {
	class, err := Lookup(classKey)
	if err != nil {
		return nil, "", err
	}
	if level < 1 || level > 20 {
		return nil, "", errors.InvalidArgumentf("level must be within 1-20, got %d", level)
	}

	totals := map[int]int{}
	source := shared.SlotSourceSpellcasting

	switch class.Caster {
	case CasterFull:
		for i, count := range fullCasterSlots[level] {
			totals[i+1] = count
		}
	case CasterHalf:
		for i, count := range halfCasterSlots[level] {
			totals[i+1] = count
		}
	case CasterPact:
		source = shared.SlotSourcePactMagic
		row := pactMagic[level]
		totals[row.level] = row.count
	}

	return totals, source, nil
}
