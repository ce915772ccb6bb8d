package id

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

// Generator mints opaque numeric IDs for platform resources.
type Generator interface {
	NextID() (int64, error)
}

// RandomGenerator produces non-sequential IDs from the system CSPRNG.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NextID() (int64, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return 0, fmt.Errorf("read random bytes: %w", err)
	}

	value := int64(binary.BigEndian.Uint64(buf) >> 1)
	if value == 0 {
		value = 1
	}
	return value, nil
}

// SequenceGenerator produces monotonically increasing IDs from a fixed seed.
// Deterministic, so tests can predict the IDs a fake workspace will assign.
type SequenceGenerator struct {
	next atomic.Int64
}

func NewSequenceGenerator(start int64) *SequenceGenerator {
	g := &SequenceGenerator{}
	if start < 1 {
		start = 1
	}
	g.next.Store(start)
	return g
}

func (g *SequenceGenerator) NextID() (int64, error) {
	return g.next.Add(1) - 1, nil
}
