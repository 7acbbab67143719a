package rng

import (
	"context"
	"math/rand"
)

// replicationStride separates per-replication seeds far enough that
// consecutive replication streams do not overlap in practice
const replicationStride int64 = 6364136223846793005

// Adapter implements ports.RNG with deterministic seed derivation
type Adapter struct{}

// NewAdapter creates an RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named
// operation
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	return rand.New(rand.NewSource(seed + int64(hashString(name)))), nil
}

// ReplicationStream derives an independent stream for one replication.
// The seed depends only on (stage, replication, baseSeed), so a fixed run
// seed reproduces every replication exactly, regardless of how replications
// are scheduled across workers.
func (a *Adapter) ReplicationStream(ctx context.Context, stage string, replication int, baseSeed int64) (*rand.Rand, error) {
	seed := baseSeed + int64(hashString(stage))
	seed += int64(replication+1) * replicationStride
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
