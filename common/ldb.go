package common

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// TableSpace divides the key-value storage into spaces by adding a prefix to
// the key. Each table space acts as an independent column of the store.
type TableSpace byte

const (
	// NodeValueKey is a tablespace for tree node values
	NodeValueKey TableSpace = 'V'
	// LeafCountKey is a tablespace for temporary-leaf counters
	LeafCountKey TableSpace = 'T'
)

// DbKey is a table-space prefix followed by the 8-byte node address
// (height and index, both big-endian).
type DbKey [9]byte

func (d DbKey) ToBytes() []byte {
	return d[:]
}

// ToDBKey converts the input key to its respective table space key
func (t TableSpace) ToDBKey(key []byte) DbKey {
	var dbKey DbKey
	dbKey[0] = byte(t)
	if len(key) != len(dbKey)-1 {
		panic(fmt.Sprintf("input key does not fit into dbkey: len(key) != len(DbKey)-1: %d != %d", len(key), len(dbKey)-1))
	}
	copy(dbKey[1:], key)
	return dbKey
}

// LevelDB is the subset of the LevelDB instance methods used by this project.
// It allows for easy switching between instance types in tests.
type LevelDB interface {

	// Get gets the value for the given key. It returns ErrNotFound if the
	// DB does not contain the key.
	//
	// The returned slice is its own copy, it is safe to modify the contents
	// of the returned slice.
	Get(key []byte, ro *opt.ReadOptions) (value []byte, err error)

	// Has returns true if the DB does contain the given key.
	Has(key []byte, ro *opt.ReadOptions) (bool, error)

	// NewIterator returns an iterator for the latest snapshot of the
	// underlying DB. Slice allows slicing the iterator to only contain keys
	// in the given range. The iterator must be released after use.
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator

	// Write applies the given batch to the DB atomically: either all of its
	// puts and deletes become visible, or none do.
	Write(batch *leveldb.Batch, wo *opt.WriteOptions) error
}
