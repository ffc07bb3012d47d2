package dice

import (
	"fmt"
	"strings"
)

// ModifierKind identifies a per-term roll modifier.
type ModifierKind string

const (
	ModifierDropLowest  ModifierKind = "dl"
	ModifierDropHighest ModifierKind = "dh"
	ModifierKeepHighest ModifierKind = "kh"
	ModifierKeepLowest  ModifierKind = "kl"
	ModifierReroll      ModifierKind = "r"
	ModifierExplode     ModifierKind = "!"
)

// TermModifier is one modifier applied to a dice term, in notation order.
type TermModifier struct {
	Kind ModifierKind
	// N is the drop/keep count or the reroll trigger value. Unused for explode.
	N int
}

// Term is one signed term of a dice expression: either a dice pool
// (Count d Faces with modifiers) or a flat constant (Faces == 0).
type Term struct {
	Negative bool
	Count    int
	Faces    int
	Flat     int
	Mods     []TermModifier
}

// IsConstant reports whether the term is a flat integer with no dice.
func (t Term) IsConstant() bool {
	return t.Faces == 0
}

// notation renders the term without its sign.
func (t Term) notation() string {
	if t.IsConstant() {
		return fmt.Sprintf("%d", t.Flat)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%dd%d", t.Count, t.Faces)
	for _, m := range t.Mods {
		if m.Kind == ModifierExplode {
			b.WriteString("!")
			continue
		}
		fmt.Fprintf(&b, "%s%d", m.Kind, m.N)
	}
	return b.String()
}

// Expression is an immutable parsed dice expression: a sum of signed terms.
// Parse it once and evaluate it as many times as needed; evaluation never
// mutates the expression.
type Expression struct {
	terms []Term
}

// Terms returns the parsed terms in notation order.
func (e *Expression) Terms() []Term {
	return e.terms
}

// String renders the expression in canonical notation. Reparsing the result
// yields an equivalent expression.
func (e *Expression) String() string {
	var b strings.Builder
	for i, t := range e.terms {
		switch {
		case i == 0 && t.Negative:
			b.WriteString("-")
		case i > 0 && t.Negative:
			b.WriteString("-")
		case i > 0:
			b.WriteString("+")
		}
		b.WriteString(t.notation())
	}
	return b.String()
}

// Doubled returns a copy of the expression with every dice term's count
// doubled and flat constants left alone. This is the critical-hit transform:
// double the dice, not the modifier.
func (e *Expression) Doubled() *Expression {
	doubled := make([]Term, len(e.terms))
	for i, t := range e.terms {
		doubled[i] = t
		if !t.IsConstant() {
			doubled[i].Count = t.Count * 2
		}
		doubled[i].Mods = append([]TermModifier(nil), t.Mods...)
	}
	return &Expression{terms: doubled}
}

// MustParse parses notation and panics on error. For package-level
// expressions known to be valid at compile time.
func MustParse(notation string) *Expression {
	expr, err := Parse(notation)
	if err != nil {
		panic(fmt.Sprintf("dice: invalid notation %q: %v", notation, err))
	}
	return expr
}
