package chain

import (
	"math"
	"time"

	"github.com/kilimba/utxoledger/internal/ledgererr"
	"github.com/kilimba/utxoledger/pkg/hashutil"
	"github.com/kilimba/utxoledger/pkg/merkle"
	"github.com/sirupsen/logrus"
)

// BlockHeader is the five-field commitment the header hash is taken over,
// in this fixed order.
type BlockHeader struct {
	Timestamp     time.Time
	Nonce         uint64
	PrevBlockHash hashutil.Hash
	MerkleRoot    hashutil.Hash
	Target        hashutil.Target
}

// Hash is the stable hash of the header's five fields in declaration order.
func (h BlockHeader) Hash() hashutil.Hash {
	enc := hashutil.NewEncoder().
		Int64(h.Timestamp.UTC().UnixNano()).
		Uint64(h.Nonce).
		Raw(h.PrevBlockHash.Bytes()).
		Raw(h.MerkleRoot.Bytes()).
		Raw(h.Target.Bytes())
	return hashutil.Sum(enc)
}

// Block couples a header to its ordered transaction list; transactions[0]
// is always the coinbase.
type Block struct {
	Header       BlockHeader
	Transactions []Transaction
}

// NewBlock assembles a candidate block whose MerkleRoot is derived from txs.
// It does not mine the header; callers run Header.Mine separately, keeping
// template assembly and nonce search as distinct steps.
func NewBlock(prevHash hashutil.Hash, target hashutil.Target, timestamp time.Time, txs []Transaction) (*Block, error) {
	if len(txs) == 0 {
		return nil, ledgererr.New(ledgererr.InvalidBlock, "block must contain at least one transaction")
	}
	leaves := make([]hashutil.Hash, len(txs))
	for i, tx := range txs {
		leaves[i] = tx.Hash()
	}
	root, err := merkle.Root(leaves)
	if err != nil {
		return nil, ledgererr.New(ledgererr.InvalidBlock, err.Error())
	}
	return &Block{
		Header: BlockHeader{
			Timestamp:     timestamp,
			Nonce:         0,
			PrevBlockHash: prevHash,
			MerkleRoot:    root,
			Target:        target,
		},
		Transactions: txs,
	}, nil
}

// Hash is the block's identity: its header hash.
func (b Block) Hash() hashutil.Hash {
	return b.Header.Hash()
}

// Mine searches for a nonce that makes the header's hash meet its target,
// taking at most steps iterations. If the header already
// meets its target, Mine returns true immediately without touching state.
//
// On nonce overflow the nonce resets to 0 and the timestamp is rolled
// forward to the current wall clock (the only place a header mutates
// after template assembly). Rolling the timestamp can violate the
// strictly-increasing-vs-tip rule, so callers must re-check
// against the chain tip before submitting.
func (h *BlockHeader) Mine(steps uint64) bool {
	if h.Hash().MatchesTarget(h.Target) {
		return true
	}

	for i := uint64(0); i < steps; i++ {
		if h.Nonce == math.MaxUint64 {
			h.Nonce = 0
			h.Timestamp = time.Now().UTC()
		} else {
			h.Nonce++
		}

		if h.Hash().MatchesTarget(h.Target) {
			logrus.WithFields(logrus.Fields{
				"nonce": h.Nonce,
				"hash":  h.Hash().String(),
			}).Debug("utxoledger/chain: mined header meeting target")
			return true
		}
	}

	logrus.WithField("steps", steps).Debug("utxoledger/chain: mining budget exhausted")
	return false
}
