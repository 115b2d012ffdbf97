package merkle

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/veil-labs/veilpool/backend/hasher"
	"github.com/veil-labs/veilpool/backend/nodestore"
	"github.com/veil-labs/veilpool/common"
)

// MerkleTree is a fixed-depth sparse commitment tree persisted in a node
// store. Leaves live at height 0, the root at the configured depth. Only
// nodes that differ from the default hash of their height are physically
// stored, and subtrees consisting entirely of temporary leaves are collapsed
// into their root node, so the storage footprint is proportional to the
// number of permanent leaves plus the depth per temporary region.
//
// Every write method commits exactly one atomic batch; a failed write leaves
// no partial state behind. The tree performs no synchronization of its own -
// concurrent writers must be serialized by the caller.
type MerkleTree struct {
	store    *nodestore.Store
	provider hasher.Provider
	defaults *DefaultHashes
}

// Leaf is a single leaf insertion order: the value to place at the index,
// and whether the leaf is temporary. Temporary leaves are dropped from the
// store once every leaf of an enclosing subtree is temporary.
type Leaf struct {
	Index     uint32
	Value     common.Hash
	Temporary bool
}

// Node identifies one physically stored tree node and its value.
type Node struct {
	Height uint32
	Index  uint32
	Value  common.Hash
}

// NewMerkleTree constructs a tree over the given store. The defaults cache
// determines the tree depth and must have been built with a provider
// producing the same hashes as the one given here.
func NewMerkleTree(store *nodestore.Store, provider hasher.Provider, defaults *DefaultHashes) *MerkleTree {
	return &MerkleTree{
		store:    store,
		provider: provider,
		defaults: defaults,
	}
}

// Depth provides the configured tree depth (the height of the root).
func (t *MerkleTree) Depth() uint32 {
	return t.defaults.Depth()
}

// Get provides the effective value of the node: the stored value when
// present, the default hash of the height otherwise.
func (t *MerkleTree) Get(height, index uint32) (common.Hash, error) {
	value, exists, err := t.GetOpt(height, index)
	if err != nil {
		return common.Hash{}, err
	}
	if !exists {
		return t.defaults.At(height), nil
	}
	return value, nil
}

// GetOpt provides the physically stored value of the node, if any. Heights
// above the tree depth are a caller bug.
func (t *MerkleTree) GetOpt(height, index uint32) (common.Hash, bool, error) {
	if height > t.Depth() {
		panic(fmt.Sprintf("height %d out of range, tree depth is %d", height, t.Depth()))
	}
	return t.store.GetNode(height, index)
}

// Root provides the current root of the tree.
func (t *MerkleTree) Root() (common.Hash, error) {
	return t.Get(t.Depth(), 0)
}

// GetAllNodes enumerates every physically stored node, ordered by height and
// index. The enumeration is meant for diagnostics - proof and root reads do
// not depend on it and stay correct when nodes are pruned.
func (t *MerkleTree) GetAllNodes() ([]Node, error) {
	var nodes []Node
	err := t.store.ForEachNode(func(height, index uint32, value common.Hash) error {
		nodes = append(nodes, Node{Height: height, Index: index, Value: value})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate nodes; %w", err)
	}
	return nodes, nil
}

// AddHash stores a leaf at the given index and recomputes its ancestors up
// to the root. Set temporary to true if the leaf may be dropped from the
// store once its whole enclosing subtree consists of temporary leaves.
func (t *MerkleTree) AddHash(index uint32, value common.Hash, temporary bool) error {
	batch := t.store.NewBatch()

	var temporaryLeaves uint32
	if temporary {
		temporaryLeaves = 1
	}
	batch.Put(0, index, value, temporaryLeaves)

	if err := t.updatePath(batch, 0, index, value, temporaryLeaves); err != nil {
		return err
	}
	return t.store.Write(batch)
}

// AddHashes applies AddHash for every leaf, in the given order. Each leaf is
// committed on its own; callers needing one atomic commit for a whole run of
// leaves must use AddSubtree instead.
func (t *MerkleTree) AddHashes(leaves []Leaf) error {
	for _, leaf := range leaves {
		if err := t.AddHash(leaf.Index, leaf.Value, leaf.Temporary); err != nil {
			return err
		}
	}
	return nil
}

// AddSubtree stores a power-of-two-sized run of permanent leaves in one
// atomic commit. The run must be aligned to its own size, so that it maps
// exactly onto one subtree: its internal nodes are built bottom-up in memory
// and persisted together with the leaves, and only the path from the subtree
// root upward needs recomputation. Misaligned or non-power-of-two input is a
// caller bug.
func (t *MerkleTree) AddSubtree(values []common.Hash, startIndex uint32) error {
	size := len(values)
	if size == 0 || size&(size-1) != 0 {
		panic(fmt.Sprintf("subtree size must be a power of two, got %d", size))
	}
	if startIndex%uint32(size) != 0 {
		panic(fmt.Sprintf("subtree of size %d misaligned at index %d", size, startIndex))
	}
	if uint64(size) > uint64(1)<<t.Depth() {
		panic(fmt.Sprintf("subtree of %d leaves exceeds the tree capacity", size))
	}

	batch := t.store.NewBatch()

	for i, value := range values {
		batch.Put(0, startIndex+uint32(i), value, 0)
	}

	// reduce the subtree bottom-up until only its root remains
	children := slices.Clone(values)
	height := uint32(0)
	levelStart := startIndex
	for len(children) > 1 {
		height++
		levelStart /= 2
		parents := make([]common.Hash, len(children)/2)
		for i := range parents {
			parents[i] = t.provider.Compress([]common.Hash{children[2*i], children[2*i+1]})
			batch.Put(height, levelStart+uint32(i), parents[i], 0)
		}
		children = parents
	}

	if err := t.updatePath(batch, height, levelStart, children[0], 0); err != nil {
		return err
	}
	return t.store.Write(batch)
}

// AddSubtreeRoot inserts a precomputed subtree root without materializing
// its descendants and accounts the subtree's whole leaf capacity as
// temporary. This lets callers represent a fully discarded range of leaves
// with a single stored node. The height must leave the capacity addressable
// by a 32-bit counter.
func (t *MerkleTree) AddSubtreeRoot(height, index uint32, value common.Hash) error {
	if height > t.Depth() {
		panic(fmt.Sprintf("height %d out of range, tree depth is %d", height, t.Depth()))
	}
	if height >= 32 {
		panic(fmt.Sprintf("subtree capacity at height %d exceeds the leaf counter range", height))
	}

	batch := t.store.NewBatch()

	capacity := uint32(1) << height
	batch.Put(height, index, value, capacity)

	if err := t.updatePath(batch, height, index, value, capacity); err != nil {
		return err
	}
	return t.store.Write(batch)
}

// updatePath recomputes all ancestors of the given node up to the root and
// stages them into the batch. Sibling values and counters are read from the
// committed state - the walk never revisits an address staged earlier in the
// same batch. Whenever a parent's temporary-leaf counter reaches the full
// capacity of its subtree, both children are staged for deletion: no proof
// can ever be requested below a fully temporary node, so the parent alone is
// enough to reconstruct the root.
func (t *MerkleTree) updatePath(batch *nodestore.Batch, height, index uint32, value common.Hash, temporaryLeaves uint32) error {
	childIndex := index
	childValue := value
	childTemporaryLeaves := temporaryLeaves

	for level := height + 1; level <= t.Depth(); level++ {
		parentIndex := childIndex / 2
		siblingIndex := childIndex ^ 1

		siblingValue, err := t.Get(level-1, siblingIndex)
		if err != nil {
			return err
		}
		var parentValue common.Hash
		if childIndex%2 == 0 {
			parentValue = t.provider.Compress([]common.Hash{childValue, siblingValue})
		} else {
			parentValue = t.provider.Compress([]common.Hash{siblingValue, childValue})
		}

		siblingTemporaryLeaves, err := t.store.GetLeafCount(level-1, siblingIndex)
		if err != nil {
			return err
		}
		parentTemporaryLeaves := childTemporaryLeaves + siblingTemporaryLeaves

		batch.Put(level, parentIndex, parentValue, parentTemporaryLeaves)

		if uint64(parentTemporaryLeaves) == uint64(1)<<level {
			// all leaves below the parent are temporary, keep only the parent
			batch.Delete(level-1, childIndex)
			batch.Delete(level-1, siblingIndex)
		}

		childIndex = parentIndex
		childValue = parentValue
		childTemporaryLeaves = parentTemporaryLeaves
	}
	return nil
}
