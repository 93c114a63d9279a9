package dispatch

import (
	"hash/fnv"
	"math/rand"
)

// Subsystem names for PartitionedRNG (spec §6 "agent_placement_seed").
const (
	SubsystemPlacement = "placement"
	SubsystemPolicy    = "search_policy"
)

// PartitionedRNG provides deterministic, isolated RNG streams per
// subsystem, derived from a single master seed. Grounded on the teacher's
// sim/rng.go PartitionedRNG: the same subsystem name always returns the
// same cached *rand.Rand, and different subsystems never share a stream,
// so adding a new RNG consumer can't perturb an existing one's draw
// sequence (spec §5 "Determinism").
//
// Thread-safety: NOT thread-safe. The simulator is single-threaded (spec
// §5), so this is never called from more than one goroutine.
type PartitionedRNG struct {
	masterSeed int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{
		masterSeed: masterSeed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the deterministically-seeded RNG for name, creating
// and caching it on first use.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	seed := p.masterSeed ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(seed))
	p.subsystems[name] = rng
	return rng
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
