// Package merkle computes the binary Merkle commitment over a block's
// ordered transaction sequence.
package merkle

import (
	"github.com/kilimba/utxoledger/pkg/hashutil"
	"github.com/pkg/errors"
)

// Root computes the Merkle root over leaves, an ordered, non-empty sequence
// of leaf hashes (one per transaction, already hashed by the caller).
//
// Level 0 is the leaves themselves. While the current level has more than
// one node, nodes are paired consecutively; an unpaired final node is
// duplicated. Each pair (L, R) produces hash(L || R) in the next level. The
// root for a single leaf is that leaf itself.
func Root(leaves []hashutil.Hash) (hashutil.Hash, error) {
	if len(leaves) == 0 {
		return hashutil.Hash{}, errors.New("merkle: cannot commit to an empty transaction list")
	}

	level := make([]hashutil.Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}

		next := make([]hashutil.Hash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, pairHash(level[i], level[i+1]))
		}
		level = next
	}

	return level[0], nil
}

func pairHash(left, right hashutil.Hash) hashutil.Hash {
	enc := hashutil.NewEncoder().Raw(left.Bytes()).Raw(right.Bytes())
	return hashutil.Sum(enc)
}
