package dice

import (
	"fmt"
	"strings"
)

// TermResult is the evaluation record for one term, in roll order.
type TermResult struct {
	// Notation is the term's canonical text, e.g. "4d6dl1".
	Notation string
	// Faces is 0 for constant terms.
	Faces int
	// Rolls holds every die rolled for the term, including rerolled and
	// exploded dice, in the order they left the roller.
	Rolls []int
	// Kept holds the values that count toward the subtotal after drop/keep.
	Kept []int
	// Dropped holds the values removed by drop/keep modifiers.
	Dropped []int
	// Rerolls counts dice replaced by the reroll modifier.
	Rerolls int
	// Explosions counts extra dice added by the exploding modifier.
	Explosions int
	// Subtotal is the signed contribution of the term to the total.
	Subtotal int
	// Warnings records soft limits that were hit (reroll and explosion caps).
	Warnings []string
}

// RollResult is the immutable outcome of one expression evaluation. The sum
// of the term subtotals always equals Total.
type RollResult struct {
	Expression string
	Terms      []TermResult
	Total      int
}

// Warnings collects the warnings of every term.
func (r *RollResult) Warnings() []string {
	var all []string
	for _, t := range r.Terms {
		all = append(all, t.Warnings...)
	}
	return all
}

// Breakdown renders a human-readable account of the roll, e.g.
// "4d6dl1 [6 4 5] (dropped [2]) + 3 = 18".
func (r *RollResult) Breakdown() string {
	var b strings.Builder
	for i, t := range r.Terms {
		if i > 0 {
			if t.Subtotal < 0 {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		} else if t.Subtotal < 0 {
			b.WriteString("-")
		}

		if t.Faces == 0 {
			fmt.Fprintf(&b, "%d", abs(t.Subtotal))
			continue
		}

		fmt.Fprintf(&b, "%s %v", t.Notation, t.Kept)
		if len(t.Dropped) > 0 {
			fmt.Fprintf(&b, " (dropped %v)", t.Dropped)
		}
	}
	fmt.Fprintf(&b, " = %d", r.Total)
	return b.String()
}

// String returns the breakdown.
func (r *RollResult) String() string {
	return r.Breakdown()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
