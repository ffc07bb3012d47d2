package dice

import (
	"fmt"
	"sort"
)

// Soft caps preventing unbounded recursion on pathological notation
// ("1d2r1", "1d2!"). Hitting a cap surfaces a warning on the term result
// rather than failing the roll.
const (
	maxRerollsPerDie  = 100
	maxExplosionDepth = 100
)

// Evaluate rolls the expression against the given roller. It is a pure
// function of (expr, roller): no shared mutable state, no I/O, deterministic
// for a deterministic roller.
func Evaluate(expr *Expression, roller Roller) (*RollResult, error) {
	result := &RollResult{Expression: expr.String()}

	for _, term := range expr.Terms() {
		tr, err := evaluateTerm(term, roller)
		if err != nil {
			return nil, err
		}
		result.Terms = append(result.Terms, tr)
		result.Total += tr.Subtotal
	}

	return result, nil
}

// Roll is a convenience that parses and evaluates notation in one call.
func Roll(notation string, roller Roller) (*RollResult, error) {
	expr, err := Parse(notation)
	if err != nil {
		return nil, err
	}
	return Evaluate(expr, roller)
}

func evaluateTerm(term Term, roller Roller) (TermResult, error) {
	tr := TermResult{
		Notation: term.notation(),
		Faces:    term.Faces,
	}

	if term.IsConstant() {
		tr.Subtotal = term.Flat
		if term.Negative {
			tr.Subtotal = -tr.Subtotal
		}
		return tr, nil
	}

	// A count of 0 is a legal empty pool worth 0.
	pool := make([]int, 0, term.Count)
	for i := 0; i < term.Count; i++ {
		v, err := roller.Roll(term.Faces)
		if err != nil {
			return tr, err
		}
		tr.Rolls = append(tr.Rolls, v)
		pool = append(pool, v)
	}

	for _, mod := range term.Mods {
		switch mod.Kind {
		case ModifierReroll:
			if err := applyReroll(term, mod.N, pool, &tr, roller); err != nil {
				return tr, err
			}
		case ModifierExplode:
			var err error
			pool, err = applyExplode(term, pool, &tr, roller)
			if err != nil {
				return tr, err
			}
		}
	}

	kept, dropped := applyDropKeep(term, pool)
	tr.Kept = kept
	tr.Dropped = dropped

	for _, v := range kept {
		tr.Subtotal += v
	}
	if term.Negative {
		tr.Subtotal = -tr.Subtotal
	}
	return tr, nil
}

// applyReroll replaces every die showing the trigger value, rerolling until
// the die shows something else or the per-die cap is reached.
func applyReroll(term Term, trigger int, pool []int, tr *TermResult, roller Roller) error {
	for i := range pool {
		attempts := 0
		for pool[i] == trigger {
			if attempts >= maxRerollsPerDie {
				tr.Warnings = append(tr.Warnings,
					fmt.Sprintf("reroll cap reached after %d attempts on %s", maxRerollsPerDie, tr.Notation))
				break
			}
			v, err := roller.Roll(term.Faces)
			if err != nil {
				return err
			}
			tr.Rolls = append(tr.Rolls, v)
			pool[i] = v
			tr.Rerolls++
			attempts++
		}
	}
	return nil
}

// applyExplode adds an extra die for every die showing the max face, chaining
// until a non-max value or the depth cap.
func applyExplode(term Term, pool []int, tr *TermResult, roller Roller) ([]int, error) {
	// Chained explosions are handled by the inner loop; only the original
	// dice trigger new chains.
	initial := len(pool)
	for i := 0; i < initial; i++ {
		if pool[i] != term.Faces {
			continue
		}
		depth := 0
		for {
			if depth >= maxExplosionDepth {
				tr.Warnings = append(tr.Warnings,
					fmt.Sprintf("explosion depth cap reached at %d on %s", maxExplosionDepth, tr.Notation))
				break
			}
			v, err := roller.Roll(term.Faces)
			if err != nil {
				return pool, err
			}
			tr.Rolls = append(tr.Rolls, v)
			pool = append(pool, v)
			tr.Explosions++
			depth++
			if v != term.Faces {
				break
			}
		}
	}
	return pool, nil
}

// applyDropKeep resolves drop/keep modifiers against the pool, preserving
// roll order among kept dice. Counts at or beyond the pool size clamp to
// dropping or keeping everything.
func applyDropKeep(term Term, pool []int) (kept, dropped []int) {
	keepFlags := make([]bool, len(pool))
	for i := range keepFlags {
		keepFlags[i] = true
	}

	for _, mod := range term.Mods {
		switch mod.Kind {
		case ModifierDropLowest:
			markByRank(pool, keepFlags, mod.N, true)
		case ModifierDropHighest:
			markByRank(pool, keepFlags, mod.N, false)
		case ModifierKeepHighest:
			markByRank(pool, keepFlags, len(pool)-mod.N, true)
		case ModifierKeepLowest:
			markByRank(pool, keepFlags, len(pool)-mod.N, false)
		}
	}

	for i, v := range pool {
		if keepFlags[i] {
			kept = append(kept, v)
		} else {
			dropped = append(dropped, v)
		}
	}
	return kept, dropped
}

// markByRank clears the keep flag on n dice taken from the low end
// (fromLow) or high end of the value ordering. Ties resolve by roll order,
// so the marking is stable and deterministic. n clamps to [0, len(pool)].
func markByRank(pool []int, keepFlags []bool, n int, fromLow bool) {
	if n <= 0 {
		return
	}
	if n > len(pool) {
		n = len(pool)
	}

	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if fromLow {
			return pool[order[a]] < pool[order[b]]
		}
		return pool[order[a]] > pool[order[b]]
	})

	marked := 0
	for _, idx := range order {
		if marked == n {
			break
		}
		if keepFlags[idx] {
			keepFlags[idx] = false
			marked++
		}
	}
}
