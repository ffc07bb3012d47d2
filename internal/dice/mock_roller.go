package dice

import (
	"fmt"
	"sync"
)

// MockRoller implements Roller for tests with predetermined results.
type MockRoller struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
}

// NewMockRoller creates a new mock roller with no queued rolls.
func NewMockRoller() *MockRoller {
	return &MockRoller{}
}

// SetNextRoll appends one roll result to the queue.
func (m *MockRoller) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetRolls replaces the queue with the given sequence.
func (m *MockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// Reset clears all queued rolls.
func (m *MockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = nil
	m.rollIndex = 0
}

// Remaining reports how many queued rolls are unused.
func (m *MockRoller) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rolls) - m.rollIndex
}

// Roll implements Roller.Roll, returning the next queued value regardless of
// the requested faces.
func (m *MockRoller) Roll(faces int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		return 0, fmt.Errorf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls))
	}

	roll := m.rolls[m.rollIndex]
	m.rollIndex++
	return roll, nil
}
