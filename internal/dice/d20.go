package dice

// Advantage selects how a d20 roll is made. Advantage and disadvantage are
// implemented as 2d20kh1 / 2d20kl1 so every caller (attacks, saves, checks)
// shares the single keep-highest/keep-lowest mechanism.
type Advantage int

const (
	Normal Advantage = iota
	WithAdvantage
	WithDisadvantage
)

// Combine merges two advantage states: matching or neutral states pass
// through, opposing states cancel to Normal.
func Combine(a, b Advantage) Advantage {
	if a == Normal {
		return b
	}
	if b == Normal || a == b {
		return a
	}
	return Normal
}

var (
	d20Normal       = MustParse("1d20")
	d20Advantage    = MustParse("2d20kh1")
	d20Disadvantage = MustParse("2d20kl1")
)

// D20Result is the outcome of a d20 test before comparison to any DC or AC.
type D20Result struct {
	Roll *RollResult
	// Natural is the kept die before any bonus.
	Natural int
	// Total is Natural plus the bonus.
	Total int
	// IsCrit reports a natural 20.
	IsCrit bool
	// IsFumble reports a natural 1.
	IsFumble bool
}

// D20 rolls a d20 test with the given flat bonus and advantage state.
func D20(roller Roller, bonus int, adv Advantage) (*D20Result, error) {
	expr := d20Normal
	switch adv {
	case WithAdvantage:
		expr = d20Advantage
	case WithDisadvantage:
		expr = d20Disadvantage
	}

	roll, err := Evaluate(expr, roller)
	if err != nil {
		return nil, err
	}

	natural := roll.Total
	return &D20Result{
		Roll:     roll,
		Natural:  natural,
		Total:    natural + bonus,
		IsCrit:   natural == 20,
		IsFumble: natural == 1,
	}, nil
}
