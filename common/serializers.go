package common

import "encoding/binary"

// HashSerializer is a Serializer of the Hash type. Hashes are stored in their
// canonical 32-byte big-endian form.
type HashSerializer struct{}

func (a HashSerializer) ToBytes(hash Hash) []byte {
	b := hash.Bytes()
	return b[:]
}
func (a HashSerializer) FromBytes(bytes []byte) Hash {
	var hash Hash
	hash.SetBytes(bytes)
	return hash
}
func (a HashSerializer) Size() int {
	return HashSize
}

// CountSerializer is a Serializer of the temporary-leaf counters, stored as
// 4-byte big-endian unsigned integers.
type CountSerializer struct{}

func (a CountSerializer) ToBytes(count uint32) []byte {
	return binary.BigEndian.AppendUint32([]byte{}, count)
}
func (a CountSerializer) FromBytes(bytes []byte) uint32 {
	return binary.BigEndian.Uint32(bytes)
}
func (a CountSerializer) Size() int {
	return 4
}
