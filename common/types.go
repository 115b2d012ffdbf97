package common

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// Hash is a single element of the bn254 scalar field. It is the value type of
// every tree node: leaves are supplied as field elements and internal nodes are
// produced by the compression hash. Two hashes are equal iff the field elements
// are equal, so values can be compared with ==.
type Hash = fr.Element

// HashSize is the number of bytes of a serialized Hash.
const HashSize = fr.Bytes

// Serializer converts a type to a fixed-size byte representation and back.
type Serializer[T any] interface {
	// ToBytes serializes the type to a slice of bytes
	ToBytes(T) []byte
	// FromBytes deserializes the type from a slice of bytes
	FromBytes([]byte) T
	// Size provides the size of the type when serialized (bytes)
	Size() int
}
