package shared

// HPResource tracks hit points and temporary HP.
type HPResource struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Temporary int `json:"temporary"`
}

// ApplyDamage reduces HP by amount, consuming temporary HP first. Current
// never drops below zero. Returns the damage actually dealt.
func (hp *HPResource) ApplyDamage(amount int) int {
	if amount <= 0 {
		return 0
	}

	dealt := amount
	if hp.Temporary > 0 {
		if hp.Temporary >= amount {
			hp.Temporary -= amount
			return dealt
		}
		amount -= hp.Temporary
		hp.Temporary = 0
	}

	hp.Current -= amount
	if hp.Current < 0 {
		hp.Current = 0
	}
	return dealt
}

// Heal restores hit points up to max and returns the amount restored.
func (hp *HPResource) Heal(amount int) int {
	if amount <= 0 || hp.Current >= hp.Max {
		return 0
	}

	before := hp.Current
	hp.Current += amount
	if hp.Current > hp.Max {
		hp.Current = hp.Max
	}
	return hp.Current - before
}

// GrantTemporary sets temporary HP; temporary HP does not stack, the higher
// grant wins.
func (hp *HPResource) GrantTemporary(amount int) {
	if amount > hp.Temporary {
		hp.Temporary = amount
	}
}

// Depleted reports whether the combatant is at 0 HP.
func (hp *HPResource) Depleted() bool {
	return hp.Current <= 0
}
