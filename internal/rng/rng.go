// Package rng provides the engine's deterministic, domain-separated random
// source. Every draw is a pure hash of (seed, domain, entity id, tick); there
// is no mutable generator state, so the same inputs always produce the same
// output regardless of thread scheduling, platform, or call order.
package rng

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Domain labels the semantic use of a draw, isolating independent sub-streams
// so that, for example, a COMBAT roll for entity 5 never collides with an
// AI_DECISION roll for the same entity at the same tick.
type Domain int32

const (
	Combat Domain = iota
	Loot
	AIDecision
	Spawn
	LevelUp
	Item
	Harvest
	MapGen
	Weather
)

// Source is the deterministic RNG. It is immutable and safe for concurrent
// use by any number of goroutines — it carries no state beyond the seed.
type Source struct {
	seed int64
}

// New returns a deterministic source for the given world seed.
func New(seed int64) Source {
	return Source{seed: seed}
}

// Hash returns a deterministic, platform-independent 64-bit hash of the
// (seed, domain, entityID, tick) quadruple.
func (s Source) Hash(domain Domain, entityID uint64, tick int64) uint64 {
	var buf [28]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(s.seed))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(domain))
	binary.LittleEndian.PutUint64(buf[12:20], entityID)
	binary.LittleEndian.PutUint64(buf[20:28], uint64(tick))
	return xxhash.Sum64(buf[:])
}

// NextFloat returns a value in [0, 1).
func (s Source) NextFloat(domain Domain, entityID uint64, tick int64) float64 {
	h := s.Hash(domain, entityID, tick)
	return float64(h>>11) / (1 << 53)
}

// NextInt returns a value in [lo, hi], inclusive.
func (s Source) NextInt(domain Domain, entityID uint64, tick int64, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := uint64(hi-lo) + 1
	h := s.Hash(domain, entityID, tick)
	return lo + int(h%span)
}

// NextBool returns true with probability p (clamped to [0, 1]).
func (s Source) NextBool(domain Domain, entityID uint64, tick int64, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.NextFloat(domain, entityID, tick) < p
}
