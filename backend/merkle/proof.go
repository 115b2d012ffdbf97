package merkle

import (
	"github.com/veil-labs/veilpool/backend/hasher"
	"github.com/veil-labs/veilpool/common"
)

// MerkleProof is an inclusion proof for one leaf. Both sequences are ordered
// leaf-to-root and hold one entry per tree level: the sibling hash at that
// level, and whether the proven node is the left child of its parent.
type MerkleProof struct {
	Siblings []common.Hash
	Path     []bool
}

// Root folds the proof upward from the given leaf value and provides the
// root it commits to. The proof is valid for a tree iff the result equals
// the tree's root.
func (p *MerkleProof) Root(provider hasher.Provider, leaf common.Hash) common.Hash {
	current := leaf
	for i, sibling := range p.Siblings {
		if p.Path[i] {
			current = provider.Compress([]common.Hash{current, sibling})
		} else {
			current = provider.Compress([]common.Hash{sibling, current})
		}
	}
	return current
}

// GetProof provides the inclusion proof of the leaf at the given index, or
// nil if no leaf is physically stored there. Siblings absent from the store
// transparently resolve to the default hash of their height, so proofs stay
// correct for trees with pruned regions.
func (t *MerkleTree) GetProof(index uint32) (*MerkleProof, error) {
	_, exists, err := t.store.GetNode(0, index)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	depth := t.Depth()
	proof := &MerkleProof{
		Siblings: make([]common.Hash, depth),
		Path:     make([]bool, depth),
	}
	current := index
	for height := uint32(0); height < depth; height++ {
		proof.Path[height] = current%2 == 0
		sibling, err := t.Get(height, current^1)
		if err != nil {
			return nil, err
		}
		proof.Siblings[height] = sibling
		current /= 2
	}
	return proof, nil
}
