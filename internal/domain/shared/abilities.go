package shared

import "github.com/sternmatt/dungeonforge/internal/rules"

// Attribute names one of the six ability scores.
type Attribute string

// Attributes lists every ability in standard order.
var Attributes = []Attribute{AttributeStrength, AttributeDexterity, AttributeConstitution, AttributeIntelligence, AttributeWisdom, AttributeCharisma}

const (
	AttributeNone         Attribute = ""
	AttributeStrength     Attribute = "Str"
	AttributeDexterity    Attribute = "Dex"
	AttributeConstitution Attribute = "Con"
	AttributeIntelligence Attribute = "Int"
	AttributeWisdom       Attribute = "Wis"
	AttributeCharisma     Attribute = "Cha"
)

// IsValid reports whether the attribute is one of the six abilities.
func (a Attribute) IsValid() bool {
	for _, attr := range Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// AbilityScores maps each attribute to its raw score (1-30).
type AbilityScores map[Attribute]int

// Modifier returns the derived modifier for the attribute. A missing
// attribute counts as an average score of 10.
func (s AbilityScores) Modifier(attr Attribute) int {
	score, ok := s[attr]
	if !ok {
		score = 10
	}
	return rules.Modifier(score)
}

// Clone returns an independent copy.
func (s AbilityScores) Clone() AbilityScores {
	if s == nil {
		return nil
	}
	out := make(AbilityScores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
