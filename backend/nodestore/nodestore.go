package nodestore

import (
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/veil-labs/veilpool/common"
)

// ErrCorruptedStore is returned when a stored entry does not have the
// expected serialized size.
const ErrCorruptedStore = common.ConstError("corrupted node store entry")

// Store persists tree nodes in a key-value database. Nodes are addressed by
// (height, index) and span two columns: the node value and the number of
// temporary leaves below the node. A missing value means the node was never
// written or was pruned; a missing counter means zero.
type Store struct {
	db              common.LevelDB
	hashSerializer  common.HashSerializer
	countSerializer common.CountSerializer
}

// NewStore constructs a new instance of the Store.
func NewStore(db common.LevelDB) *Store {
	return &Store{db: db}
}

// Key returns the 8-byte big-endian storage key of a node address.
func Key(height, index uint32) []byte {
	key := binary.BigEndian.AppendUint32(make([]byte, 0, 8), height)
	return binary.BigEndian.AppendUint32(key, index)
}

// GetNode provides the stored value of the node, if present.
func (s *Store) GetNode(height, index uint32) (value common.Hash, exists bool, err error) {
	dbKey := common.NodeValueKey.ToDBKey(Key(height, index))
	data, err := s.db.Get(dbKey.ToBytes(), nil)
	if err == leveldb.ErrNotFound {
		return common.Hash{}, false, nil
	}
	if err != nil {
		return common.Hash{}, false, err
	}
	if len(data) != s.hashSerializer.Size() {
		return common.Hash{}, false, fmt.Errorf("%w: node value of %d bytes at %d/%d", ErrCorruptedStore, len(data), height, index)
	}
	return s.hashSerializer.FromBytes(data), true, nil
}

// GetLeafCount provides the number of temporary leaves below the node.
// Nodes without a stored counter have a count of zero.
func (s *Store) GetLeafCount(height, index uint32) (count uint32, err error) {
	dbKey := common.LeafCountKey.ToDBKey(Key(height, index))
	data, err := s.db.Get(dbKey.ToBytes(), nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(data) != s.countSerializer.Size() {
		return 0, fmt.Errorf("%w: leaf counter of %d bytes at %d/%d", ErrCorruptedStore, len(data), height, index)
	}
	return s.countSerializer.FromBytes(data), nil
}

// ForEachNode calls the callback for every physically stored node value, in
// key order (lower heights first, lower indexes first within a height).
// Iteration stops on the first error returned by the callback.
func (s *Store) ForEachNode(callback func(height, index uint32, value common.Hash) error) error {
	r := util.BytesPrefix([]byte{byte(common.NodeValueKey)})
	iter := s.db.NewIterator(r, nil)
	defer iter.Release()

	for iter.Next() {
		key := iter.Key()
		height := binary.BigEndian.Uint32(key[1:5])
		index := binary.BigEndian.Uint32(key[5:9])
		data := iter.Value()
		if len(data) != s.hashSerializer.Size() {
			return fmt.Errorf("%w: node value of %d bytes at %d/%d", ErrCorruptedStore, len(data), height, index)
		}
		if err := callback(height, index, s.hashSerializer.FromBytes(data)); err != nil {
			return err
		}
	}
	return iter.Error()
}

// NewBatch creates an empty batch of node updates.
func (s *Store) NewBatch() *Batch {
	return &Batch{}
}

// Write commits all updates collected in the batch atomically.
func (s *Store) Write(batch *Batch) error {
	if err := s.db.Write(&batch.batch, nil); err != nil {
		return fmt.Errorf("failed to write node batch; %w", err)
	}
	return nil
}

// Batch collects node updates to be committed in one atomic write. Updates
// staged in a batch are not visible to reads until the batch is written.
type Batch struct {
	batch           leveldb.Batch
	hashSerializer  common.HashSerializer
	countSerializer common.CountSerializer
}

// Put stages the node value and its temporary-leaf counter at the given
// address. A zero counter is not stored - its absence means zero.
func (b *Batch) Put(height, index uint32, value common.Hash, leafCount uint32) {
	key := Key(height, index)
	b.batch.Put(common.NodeValueKey.ToDBKey(key).ToBytes(), b.hashSerializer.ToBytes(value))
	if leafCount > 0 {
		b.batch.Put(common.LeafCountKey.ToDBKey(key).ToBytes(), b.countSerializer.ToBytes(leafCount))
	}
}

// Delete stages the removal of the node from both columns.
func (b *Batch) Delete(height, index uint32) {
	key := Key(height, index)
	b.batch.Delete(common.NodeValueKey.ToDBKey(key).ToBytes())
	b.batch.Delete(common.LeafCountKey.ToDBKey(key).ToBytes())
}
