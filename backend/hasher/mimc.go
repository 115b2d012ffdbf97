package hasher

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/veil-labs/veilpool/common"
)

// Mimc is a Provider hashing with the MiMC sponge over the bn254 scalar
// field. Each input is absorbed in its canonical 32-byte form and a single
// field element is squeezed out.
type Mimc struct{}

// NewMimc constructs a new MiMC-backed compression hash provider.
func NewMimc() *Mimc {
	return &Mimc{}
}

func (m *Mimc) Compress(inputs []common.Hash) common.Hash {
	if len(inputs) == 0 || len(inputs) > MaxCompressInputs {
		panic(fmt.Sprintf("compress expects 1 to %d inputs, got %d", MaxCompressInputs, len(inputs)))
	}
	hash := mimc.NewMiMC()
	for _, input := range inputs {
		bytes := input.Bytes()
		if _, err := hash.Write(bytes[:]); err != nil {
			// canonical field-element encodings are always accepted
			panic(fmt.Sprintf("failed to absorb field element; %s", err))
		}
	}
	var out common.Hash
	out.SetBytes(hash.Sum(nil))
	return out
}
