// Package damage defines damage types and the defender-side adjustments
// (resistance, immunity, vulnerability) applied to rolled damage.
package damage

// Type classifies damage for resistance and immunity purposes.
type Type string

const (
	TypeAcid        Type = "acid"
	TypeBludgeoning Type = "bludgeoning"
	TypeCold        Type = "cold"
	TypeFire        Type = "fire"
	TypeForce       Type = "force"
	TypeLightning   Type = "lightning"
	TypeNecrotic    Type = "necrotic"
	TypePiercing    Type = "piercing"
	TypePoison      Type = "poison"
	TypePsychic     Type = "psychic"
	TypeRadiant     Type = "radiant"
	TypeSlashing    Type = "slashing"
	TypeThunder     Type = "thunder"
)

// Defenses is a defender's set of damage-type adjustments.
type Defenses struct {
	Resistances     []Type `json:"resistances,omitempty"`
	Immunities      []Type `json:"immunities,omitempty"`
	Vulnerabilities []Type `json:"vulnerabilities,omitempty"`
}

// Clone returns an independent copy.
func (d Defenses) Clone() Defenses {
	return Defenses{
		Resistances:     append([]Type(nil), d.Resistances...),
		Immunities:      append([]Type(nil), d.Immunities...),
		Vulnerabilities: append([]Type(nil), d.Vulnerabilities...),
	}
}

func contains(types []Type, t Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// Adjust applies the defender's defenses to a rolled damage amount:
// immunity negates, resistance halves rounding down, vulnerability doubles.
// Immunity wins over the other two.
func (d Defenses) Adjust(amount int, damageType Type) int {
	if amount <= 0 {
		return 0
	}
	if contains(d.Immunities, damageType) {
		return 0
	}
	if contains(d.Resistances, damageType) {
		amount /= 2
	}
	if contains(d.Vulnerabilities, damageType) {
		amount *= 2
	}
	return amount
}
