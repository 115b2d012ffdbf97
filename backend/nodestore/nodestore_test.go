package nodestore

import (
	"errors"
	"testing"

	"github.com/syndtr/goleveldb/leveldb"
	"golang.org/x/exp/slices"

	"github.com/veil-labs/veilpool/common"
)

func openDb(t *testing.T) *leveldb.DB {
	db, err := leveldb.OpenFile(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to open database; %s", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func hashOf(value uint64) common.Hash {
	var hash common.Hash
	hash.SetUint64(value)
	return hash
}

func TestMissingNodeIsReportedAsAbsent(t *testing.T) {
	store := NewStore(openDb(t))

	_, exists, err := store.GetNode(3, 14)
	if err != nil {
		t.Fatalf("failed to read node; %s", err)
	}
	if exists {
		t.Errorf("node reported present in an empty store")
	}

	count, err := store.GetLeafCount(3, 14)
	if err != nil {
		t.Fatalf("failed to read leaf count; %s", err)
	}
	if count != 0 {
		t.Errorf("missing counter must read as zero, got %d", count)
	}
}

func TestBatchIsInvisibleUntilWritten(t *testing.T) {
	store := NewStore(openDb(t))

	batch := store.NewBatch()
	batch.Put(2, 5, hashOf(42), 3)

	_, exists, err := store.GetNode(2, 5)
	if err != nil {
		t.Fatalf("failed to read node; %s", err)
	}
	if exists {
		t.Errorf("staged node visible before the batch was written")
	}

	if err := store.Write(batch); err != nil {
		t.Fatalf("failed to write batch; %s", err)
	}

	value, exists, err := store.GetNode(2, 5)
	if err != nil {
		t.Fatalf("failed to read node; %s", err)
	}
	if !exists {
		t.Fatalf("node missing after the batch was written")
	}
	if value != hashOf(42) {
		t.Errorf("unexpected node value")
	}
	count, err := store.GetLeafCount(2, 5)
	if err != nil {
		t.Fatalf("failed to read leaf count; %s", err)
	}
	if count != 3 {
		t.Errorf("unexpected leaf count %d, wanted 3", count)
	}
}

func TestZeroCountIsNotStored(t *testing.T) {
	db := openDb(t)
	store := NewStore(db)

	batch := store.NewBatch()
	batch.Put(0, 7, hashOf(1), 0)
	if err := store.Write(batch); err != nil {
		t.Fatalf("failed to write batch; %s", err)
	}

	countKey := common.LeafCountKey.ToDBKey(Key(0, 7))
	present, err := db.Has(countKey.ToBytes(), nil)
	if err != nil {
		t.Fatalf("failed to check counter presence; %s", err)
	}
	if present {
		t.Errorf("zero counter was physically stored")
	}
}

func TestDeleteRemovesBothColumns(t *testing.T) {
	db := openDb(t)
	store := NewStore(db)

	batch := store.NewBatch()
	batch.Put(1, 2, hashOf(9), 4)
	if err := store.Write(batch); err != nil {
		t.Fatalf("failed to write batch; %s", err)
	}

	batch = store.NewBatch()
	batch.Delete(1, 2)
	if err := store.Write(batch); err != nil {
		t.Fatalf("failed to write batch; %s", err)
	}

	_, exists, err := store.GetNode(1, 2)
	if err != nil {
		t.Fatalf("failed to read node; %s", err)
	}
	if exists {
		t.Errorf("node value present after delete")
	}
	countKey := common.LeafCountKey.ToDBKey(Key(1, 2))
	present, err := db.Has(countKey.ToBytes(), nil)
	if err != nil {
		t.Fatalf("failed to check counter presence; %s", err)
	}
	if present {
		t.Errorf("leaf counter present after delete")
	}
}

func TestNodesAreEnumeratedInKeyOrder(t *testing.T) {
	store := NewStore(openDb(t))

	batch := store.NewBatch()
	batch.Put(1, 0, hashOf(10), 0)
	batch.Put(0, 5, hashOf(5), 0)
	batch.Put(0, 1, hashOf(1), 2)
	batch.Put(2, 7, hashOf(27), 0)
	if err := store.Write(batch); err != nil {
		t.Fatalf("failed to write batch; %s", err)
	}

	var addresses [][2]uint32
	err := store.ForEachNode(func(height, index uint32, value common.Hash) error {
		addresses = append(addresses, [2]uint32{height, index})
		return nil
	})
	if err != nil {
		t.Fatalf("failed to enumerate nodes; %s", err)
	}

	expected := [][2]uint32{{0, 1}, {0, 5}, {1, 0}, {2, 7}}
	if !slices.Equal(addresses, expected) {
		t.Errorf("unexpected enumeration order %v, wanted %v", addresses, expected)
	}
}

func TestEnumerationStopsOnCallbackError(t *testing.T) {
	store := NewStore(openDb(t))

	batch := store.NewBatch()
	batch.Put(0, 0, hashOf(1), 0)
	batch.Put(0, 1, hashOf(2), 0)
	if err := store.Write(batch); err != nil {
		t.Fatalf("failed to write batch; %s", err)
	}

	callbackErr := common.ConstError("stop")
	visited := 0
	err := store.ForEachNode(func(height, index uint32, value common.Hash) error {
		visited++
		return callbackErr
	})
	if !errors.Is(err, callbackErr) {
		t.Errorf("callback error not propagated, got %v", err)
	}
	if visited != 1 {
		t.Errorf("enumeration continued after an error, visited %d nodes", visited)
	}
}

func TestCorruptedEntriesAreReported(t *testing.T) {
	db := openDb(t)
	store := NewStore(db)

	valueKey := common.NodeValueKey.ToDBKey(Key(0, 0))
	if err := db.Put(valueKey.ToBytes(), []byte{1, 2, 3}, nil); err != nil {
		t.Fatalf("failed to plant corrupted value; %s", err)
	}
	if _, _, err := store.GetNode(0, 0); !errors.Is(err, ErrCorruptedStore) {
		t.Errorf("corrupted node value not reported, got %v", err)
	}

	countKey := common.LeafCountKey.ToDBKey(Key(0, 0))
	if err := db.Put(countKey.ToBytes(), []byte{1}, nil); err != nil {
		t.Fatalf("failed to plant corrupted counter; %s", err)
	}
	if _, err := store.GetLeafCount(0, 0); !errors.Is(err, ErrCorruptedStore) {
		t.Errorf("corrupted leaf counter not reported, got %v", err)
	}
}
