package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Source yields uniform draws in [0, 1). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewSeededSource returns a PCG-backed source; equal seeds give equal draw sequences.
func NewSeededSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// LockedSource serialises access to a shared source.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

// NewLockedSource wraps src for use by concurrent requests.
func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

// Float64 draws from the wrapped source under the lock.
func (l *LockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// SequenceSource replays a fixed list of draws. It panics once the list is
// exhausted, since a replay that needs more draws than were recorded is a bug.
type SequenceSource struct {
	draws []float64
	next  int
}

// NewSequenceSource returns a source that yields draws in order.
func NewSequenceSource(draws ...float64) *SequenceSource {
	return &SequenceSource{draws: append([]float64(nil), draws...)}
}

// Float64 returns the next recorded draw.
func (s *SequenceSource) Float64() float64 {
	if s.next >= len(s.draws) {
		panic(fmt.Sprintf("dice: sequence source exhausted after %d draws", len(s.draws)))
	}
	draw := s.draws[s.next]
	s.next++
	return draw
}

// Remaining reports how many recorded draws are left.
func (s *SequenceSource) Remaining() int {
	return len(s.draws) - s.next
}
