package parallel

import "sync"
import "encoding/binary"

// MoveSet is a thread-safe set of hashtron retraining attempts made from a
// given training state. Attempts are grouped by level (the accuracy at the
// time); when the level changes all attempts are forgotten.
type MoveSet struct {
	mu    sync.RWMutex
	set   map[[40]byte]struct{}
	level byte
}

// NewMoveSet initializes and returns a new MoveSet instance. Initial level is 0.
func NewMoveSet() *MoveSet {
	return &MoveSet{
		set: make(map[[40]byte]struct{}),
	}
}

// Insert records that hashtron move was retrained from state at level.
func (m *MoveSet) Insert(state [32]byte, move int, level byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.level != level {
		m.set = make(map[[40]byte]struct{})
		m.level = level
	}
	m.set[serialize(state, move)] = struct{}{}
}

// Exists reports whether hashtron move was already retrained from state at level.
func (m *MoveSet) Exists(state [32]byte, move int, level byte) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.level != level {
		return false
	}

	_, exists := m.set[serialize(state, move)]
	return exists
}

// Len reports the number of attempts recorded at the current level
func (m *MoveSet) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.set)
}

func serialize(state [32]byte, move int) [40]byte {
	var key [40]byte
	copy(key[:32], state[:])
	binary.LittleEndian.PutUint64(key[32:], uint64(move))
	return key
}
