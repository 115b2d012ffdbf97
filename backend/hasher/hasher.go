package hasher

import "github.com/veil-labs/veilpool/common"

//go:generate mockgen -source hasher.go -destination hasher_mocks.go -package hasher

// MaxCompressInputs is the widest input list Compress accepts.
const MaxCompressInputs = 3

// Provider combines a small ordered list of field elements into a single
// field element. Implementations must be deterministic and free of side
// effects, so that two trees built with the same provider agree on every
// node value.
type Provider interface {

	// Compress hashes 1 to MaxCompressInputs field elements into one.
	// An empty or over-long input list is a caller bug and panics.
	Compress(inputs []common.Hash) common.Hash
}
