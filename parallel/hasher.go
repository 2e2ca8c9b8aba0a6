package parallel

import "crypto/sha256"
import "encoding/binary"

// Hasher digests a fixed number of predictions written concurrently in any
// order. Two evaluations of the same model on the same samples produce the
// same digest, which identifies a training state.
type Hasher struct {
	values []uint16
	seen   []uint32
}

// NewUint16Hasher creates a hasher for n uint16 predictions
func NewUint16Hasher(n int) *Hasher {
	return &Hasher{
		values: make([]uint16, n),
		seen:   make([]uint32, n),
	}
}

// MustPutUint16 stores the n-th prediction. Each n may be written once.
func (h *Hasher) MustPutUint16(n int, value uint16) {
	if h.seen[n] != 0 {
		panic("duplicate write")
	}
	h.seen[n] = 1
	h.values[n] = value
}

// Sum returns the digest of the predictions written so far
func (h *Hasher) Sum() (ret [32]byte) {
	sha := sha256.New()
	var buf [2]byte
	for n, v := range h.values {
		if h.seen[n] == 0 {
			continue
		}
		binary.LittleEndian.PutUint16(buf[:], v)
		sha.Write(buf[:])
	}
	copy(ret[:], sha.Sum(nil))
	return
}
