package dice

import (
	"math/rand"
	"time"
)

// randomRoller implements Roller over math/rand.
type randomRoller struct {
	rng *rand.Rand
}

// NewRandomRoller creates a time-seeded roller. Not safe for concurrent use;
// give each goroutine its own roller.
func NewRandomRoller() Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller creates a roller with a fixed seed, reproducing the same
// roll sequence every run.
func NewSeededRoller(seed int64) Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(faces int) (int, error) {
	return r.rng.Intn(faces) + 1, nil
}
