// Package seed derives a unique, reproducible random seed for every
// document in a batch. Each job builds its own generator from its seed, so
// no random state is ever shared between workers.
package seed

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// gamma is the SplitMix64 increment, an odd constant close to 2^64/phi.
const gamma = 0x9E3779B97F4A7C15

// Allocator hands out per-index seeds derived from one base seed. The
// mapping index -> seed is a bijection over uint64, so seeds within a batch
// never collide, and rerunning with the same base reproduces the batch
// exactly.
type Allocator struct {
	base uint64
}

func NewAllocator(base uint64) *Allocator {
	return &Allocator{base: base}
}

// Base returns the base seed the allocator was built from.
func (a *Allocator) Base() uint64 {
	return a.base
}

// ForIndex returns the seed for the i-th document of the batch.
func (a *Allocator) ForIndex(i int) uint64 {
	return mix64(a.base + (uint64(i)+1)*gamma)
}

// NewBase draws a fresh base seed from the OS entropy source. Callers are
// expected to log the returned value so the run can be replayed.
func NewBase() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read entropy for base seed: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// mix64 is the SplitMix64 finalizer (Steele, Lea, Flood 2014).
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x
}
