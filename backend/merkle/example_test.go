package merkle_test

import (
	"fmt"
	"log"
	"os"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/veil-labs/veilpool/backend/hasher"
	"github.com/veil-labs/veilpool/backend/merkle"
	"github.com/veil-labs/veilpool/backend/nodestore"
	"github.com/veil-labs/veilpool/common"
)

func ExampleMerkleTree() {
	dir, err := os.MkdirTemp("", "veilpool-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	provider := hasher.NewMimc()
	defaults := merkle.NewDefaultHashes(provider, 16)
	tree := merkle.NewMerkleTree(nodestore.NewStore(db), provider, defaults)

	var commitment common.Hash
	commitment.SetUint64(12345)
	if err := tree.AddHash(0, commitment, false); err != nil {
		log.Fatal(err)
	}

	proof, err := tree.GetProof(0)
	if err != nil {
		log.Fatal(err)
	}
	root, err := tree.Root()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("proof entries: %d\n", len(proof.Siblings))
	fmt.Printf("root matches: %t\n", proof.Root(provider, commitment) == root)
	// Output:
	// proof entries: 16
	// root matches: true
}
