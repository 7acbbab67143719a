package ports

import (
	"context"
	"math/rand"
)

// RNG provides seeded random number generation for deterministic operations
type RNG interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// ReplicationStream creates the independent stream for one replication
	// of a simulation run. Streams for distinct replication indices must be
	// non-overlapping, and the same (stage, replication, baseSeed) triple
	// must always yield an identical stream regardless of worker count.
	ReplicationStream(ctx context.Context, stage string, replication int, baseSeed int64) (*rand.Rand, error)
}
