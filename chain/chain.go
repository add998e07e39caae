// Package chain implements the content-addressed
// block chain, its UTXO index, its mempool, its transaction/coinbase
// validation, its proof-of-work mining primitive, and its difficulty
// retarget policy. Everything a node or miner process needs is exposed
// here; gossip, persistence, and wallet/address concerns are left to those
// external collaborators.
package chain

import (
	"time"

	"github.com/kilimba/utxoledger/internal/ledgererr"
	"github.com/kilimba/utxoledger/pkg/hashutil"
	"github.com/kilimba/utxoledger/pkg/merkle"
	"github.com/sirupsen/logrus"
)

// Hash and Target are re-exported from pkg/hashutil so callers of this
// package don't need a second import for the types its own API speaks in.
type (
	Hash   = hashutil.Hash
	Target = hashutil.Target
)

// Chain is the ordered block sequence plus the derived state it owns
// exclusively: the UTXO index, the pending mempool, and the current target.
type Chain struct {
	params  Params
	blocks  []*Block
	utxos   UTXOSet
	mempool *Mempool
	target  Target
}

// New returns an empty chain at the default difficulty ceiling.
func New(params Params) *Chain {
	return &Chain{
		params:  params,
		blocks:  nil,
		utxos:   newUTXOSet(),
		mempool: newMempool(),
		target:  params.MinimumTarget,
	}
}

// Params returns the consensus constants this chain was constructed with.
func (c *Chain) Params() Params {
	return c.params
}

// Height is the number of committed blocks.
func (c *Chain) Height() uint64 {
	return uint64(len(c.blocks))
}

// Target is the target the next template should be mined against.
func (c *Chain) Target() Target {
	return c.target
}

// UTXOs returns a read-only snapshot of the live UTXO index. The map is a
// defensive copy: the chain is the exclusive owner of its own index
// and never hands out a mutable alias to it.
func (c *Chain) UTXOs() UTXOSet {
	return c.utxos.Clone()
}

// Blocks returns the committed block sequence in append order.
func (c *Chain) Blocks() []*Block {
	out := make([]*Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Mempool returns the pending (not yet committed) transactions.
func (c *Chain) Mempool() []Transaction {
	return c.mempool.Transactions()
}

// SubmitToMempool queues tx for later inclusion in a block template. It
// performs no validation of its own; a transaction only becomes binding
// once a block containing it passes Extend.
func (c *Chain) SubmitToMempool(tx Transaction) Hash {
	return c.mempool.Submit(tx)
}

// lastBlock returns the current tip, or nil if the chain is empty.
func (c *Chain) lastBlock() *Block {
	if len(c.blocks) == 0 {
		return nil
	}
	return c.blocks[len(c.blocks)-1]
}

// Extend validates block against every chain-extension rule and, only
// if every check passes, commits it: mempool entries it contains are
// pruned, the UTXO delta is applied, the block is appended, and the
// retargeter runs if this commit lands on a retarget boundary. Any
// validation failure leaves the chain completely unchanged: every check
// below runs before the first mutation.
func (c *Chain) Extend(block *Block) error {
	height := c.Height()

	if len(c.blocks) == 0 {
		return c.extendGenesis(block)
	}

	last := c.lastBlock()

	if len(block.Transactions) == 0 {
		return ledgererr.New(ledgererr.InvalidBlock, "block has no transactions")
	}
	if block.Header.PrevBlockHash != last.Hash() {
		return ledgererr.New(ledgererr.InvalidBlock, "prev_block_hash does not match the chain tip")
	}
	if !block.Header.Hash().MatchesTarget(block.Header.Target) {
		return ledgererr.New(ledgererr.InvalidBlock, "header hash does not meet its target")
	}
	if err := c.checkMerkleRoot(block); err != nil {
		return err
	}
	if !block.Header.Timestamp.After(last.Header.Timestamp) {
		return ledgererr.New(ledgererr.InvalidBlock, "timestamp does not strictly increase over the tip")
	}
	if err := verifyTransactions(height, block.Transactions, c.utxos, c.params); err != nil {
		return err
	}

	c.commit(block)
	return nil
}

// extendGenesis accepts the very first block on the zero-hash link and a
// non-empty transaction list, with no Merkle / coinbase / target checks
// (see SPEC_FULL.md §E for why the alternative strict mode was not taken).
func (c *Chain) extendGenesis(block *Block) error {
	if block.Header.PrevBlockHash != hashutil.Zero() {
		return ledgererr.New(ledgererr.InvalidBlock, "genesis block must link to the zero hash")
	}
	if len(block.Transactions) == 0 {
		return ledgererr.New(ledgererr.InvalidBlock, "genesis block has no transactions")
	}

	c.commit(block)
	return nil
}

func (c *Chain) checkMerkleRoot(block *Block) error {
	leaves := make([]hashutil.Hash, len(block.Transactions))
	for i, tx := range block.Transactions {
		leaves[i] = tx.Hash()
	}
	root, err := merkle.Root(leaves)
	if err != nil {
		return ledgererr.New(ledgererr.InvalidBlock, err.Error())
	}
	if root != block.Header.MerkleRoot {
		return ledgererr.New(ledgererr.InvalidMerkleRoot, "computed merkle root does not match header")
	}
	return nil
}

// commit performs the atomic part of Extend: it is only ever called after
// every validation check has already passed.
func (c *Chain) commit(block *Block) {
	c.mempool.removeCommitted(block)
	c.utxos.apply(block)
	c.blocks = append(c.blocks, block)

	logrus.WithFields(logrus.Fields{
		"height": c.Height(),
		"hash":   block.Hash().String(),
		"txs":    len(block.Transactions),
	}).Info("utxoledger/chain: committed block")

	c.maybeRetarget()
}

// maybeRetarget runs whenever the new chain length is a
// positive multiple of DifficultyUpdateIntervals.
func (c *Chain) maybeRetarget() {
	interval := c.params.DifficultyUpdateIntervals
	height := c.Height()
	if interval == 0 || height == 0 || height%interval != 0 {
		return
	}

	start := c.blocks[height-interval]
	end := c.blocks[height-1]
	deltaSeconds := uint64(end.Header.Timestamp.Sub(start.Header.Timestamp) / time.Second)

	newTarget := retarget(c.target, deltaSeconds, c.params)

	logrus.WithFields(logrus.Fields{
		"height":     height,
		"old_target": c.target.BigInt().String(),
		"new_target": newTarget.BigInt().String(),
		"delta_secs": deltaSeconds,
	}).Info("utxoledger/chain: retargeted difficulty")

	c.target = newTarget
}

// RebuildUTXOs reconstructs the UTXO index from scratch by replaying every
// committed block in order. It does not mutate the chain;
// callers compare the result against UTXOs() to check the invariant that
// rebuild and incremental maintenance always agree.
func (c *Chain) RebuildUTXOs() UTXOSet {
	rebuilt := newUTXOSet()
	for _, block := range c.blocks {
		rebuilt.apply(block)
	}
	return rebuilt
}
