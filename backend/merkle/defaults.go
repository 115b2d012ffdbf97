package merkle

import (
	"fmt"

	"github.com/veil-labs/veilpool/backend/hasher"
	"github.com/veil-labs/veilpool/common"
)

// DefaultDepth is the depth of the commitment tree used by the pool.
const DefaultDepth = 48

// DefaultHashes caches the hash of an all-absent subtree for every height of
// a tree. Whenever a node is not physically stored, its effective value is
// the entry of this cache at the node's height. The cache is immutable once
// constructed and is meant to be built once per (provider, depth) pair and
// shared between all trees of that shape.
type DefaultHashes struct {
	hashes []common.Hash
}

// NewDefaultHashes precomputes the default hashes for a tree of the given
// depth. The height-0 default is the compression of a single zero element;
// each following height compresses two copies of the previous one.
func NewDefaultHashes(provider hasher.Provider, depth uint32) *DefaultHashes {
	hashes := make([]common.Hash, depth+1)
	var zero common.Hash
	hashes[0] = provider.Compress([]common.Hash{zero})
	for height := uint32(1); height <= depth; height++ {
		hashes[height] = provider.Compress([]common.Hash{hashes[height-1], hashes[height-1]})
	}
	return &DefaultHashes{hashes: hashes}
}

// Depth provides the tree depth the cache was built for.
func (d *DefaultHashes) Depth() uint32 {
	return uint32(len(d.hashes)) - 1
}

// At provides the default hash for the given height. Heights above the
// configured depth are a caller bug.
func (d *DefaultHashes) At(height uint32) common.Hash {
	if height >= uint32(len(d.hashes)) {
		panic(fmt.Sprintf("height %d out of range, tree depth is %d", height, d.Depth()))
	}
	return d.hashes[height]
}
