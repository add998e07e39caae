package chain

import (
	"testing"
	"time"

	"github.com/kilimba/utxoledger/internal/ledgererr"
	"github.com/kilimba/utxoledger/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mineBlock assembles a template and searches for a nonce meeting c's
// current target, failing the test if the budget is exhausted. The
// minimum-difficulty ceiling needs on the order of 2^16 attempts on average,
// so this budget comfortably covers the rare unlucky draw.
func mineBlock(t *testing.T, prevHash hashutil.Hash, target hashutil.Target, timestamp time.Time, txs []Transaction) *Block {
	t.Helper()
	block, err := NewBlock(prevHash, target, timestamp, txs)
	require.NoError(t, err)
	require.True(t, block.Header.Mine(5_000_000), "exhausted mining budget")
	return block
}

// TestFreshChainHasZeroHeightAndMinimumTarget checks a brand new chain's
// initial state: height 0, target at the minimum-difficulty ceiling, empty
// UTXO set.
func TestFreshChainHasZeroHeightAndMinimumTarget(t *testing.T) {
	params := DefaultParams()
	c := New(params)

	assert.Equal(t, uint64(0), c.Height())
	assert.Equal(t, 0, c.Target().Cmp(params.MinimumTarget))
	assert.Empty(t, c.UTXOs())
}

// TestGenesisAcceptedOnZeroHashLinkAlone checks that the first block is
// accepted on its zero-hash link without being mined, so its header hash
// need not meet the chain's target.
func TestGenesisAcceptedOnZeroHashLinkAlone(t *testing.T) {
	_, pub := mustKey(t)
	params := DefaultParams()
	c := New(params)

	coinbase, err := NewCoinbaseTransaction(0, 0, pub, params)
	require.NoError(t, err)
	genesis, err := NewBlock(hashutil.Zero(), c.Target(), time.Now().UTC(), []Transaction{coinbase})
	require.NoError(t, err)
	// Deliberately not mined: genesis acceptance must not require a
	// target-matching header hash.

	require.NoError(t, c.Extend(genesis))
	assert.Equal(t, uint64(1), c.Height())

	utxos := c.UTXOs()
	_, ok := utxos[coinbase.Outputs[0].Hash()]
	assert.True(t, ok)
}

func TestExtendRejectsBlockWithWrongPrevHash(t *testing.T) {
	_, pub := mustKey(t)
	params := DefaultParams()
	c := New(params)

	genesisCoinbase, err := NewCoinbaseTransaction(0, 0, pub, params)
	require.NoError(t, err)
	genesis, err := NewBlock(hashutil.Zero(), c.Target(), time.Now().UTC(), []Transaction{genesisCoinbase})
	require.NoError(t, err)
	require.NoError(t, c.Extend(genesis))

	coinbase2, err := NewCoinbaseTransaction(1, 0, pub, params)
	require.NoError(t, err)
	// PrevBlockHash left as the zero hash instead of genesis.Hash().
	bogus, err := NewBlock(hashutil.Zero(), c.Target(), genesis.Header.Timestamp.Add(time.Second), []Transaction{coinbase2})
	require.NoError(t, err)

	err = c.Extend(bogus)
	require.Error(t, err)
	assert.True(t, ledgererr.Is(err, ledgererr.InvalidBlock))
	assert.Equal(t, uint64(1), c.Height(), "a rejected block must leave the chain unchanged")
}

// TestExtendRejectsIntraBlockDoubleSpend builds a transaction that spends
// the same output twice within one block and checks it is rejected before
// any UTXO mutation is applied.
func TestExtendRejectsIntraBlockDoubleSpend(t *testing.T) {
	ownerPriv, ownerPub := mustKey(t)
	params := DefaultParams()
	c := New(params)

	genesisCoinbase, err := NewCoinbaseTransaction(0, 0, ownerPub, params)
	require.NoError(t, err)
	genesis, err := NewBlock(hashutil.Zero(), c.Target(), time.Now().UTC(), []Transaction{genesisCoinbase})
	require.NoError(t, err)
	require.NoError(t, c.Extend(genesis))

	prevOut := genesisCoinbase.Outputs[0]
	_, recipientPub := mustKey(t)
	halfOut, err := NewTransactionOutput(prevOut.Value/2, recipientPub)
	require.NoError(t, err)

	spend := Transaction{
		Inputs: []TransactionInput{
			{PrevOutputHash: prevOut.Hash()},
			{PrevOutputHash: prevOut.Hash()},
		},
		Outputs: []TransactionOutput{halfOut},
	}
	require.NoError(t, spend.SignInput(0, ownerPriv))
	require.NoError(t, spend.SignInput(1, ownerPriv))

	coinbase2, err := NewCoinbaseTransaction(1, 0, ownerPub, params)
	require.NoError(t, err)
	block2 := mineBlock(t, genesis.Hash(), c.Target(), genesis.Header.Timestamp.Add(time.Second), []Transaction{coinbase2, spend})

	err = c.Extend(block2)
	require.Error(t, err)
	assert.True(t, ledgererr.Is(err, ledgererr.InvalidTransaction))
	assert.Equal(t, uint64(1), c.Height())
}

// TestExtendRejectsInvalidSignature signs a spend with the wrong key and
// checks it is rejected as an invalid signature.
func TestExtendRejectsInvalidSignature(t *testing.T) {
	_, ownerPub := mustKey(t)
	impostorPriv, _ := mustKey(t)
	params := DefaultParams()
	c := New(params)

	genesisCoinbase, err := NewCoinbaseTransaction(0, 0, ownerPub, params)
	require.NoError(t, err)
	genesis, err := NewBlock(hashutil.Zero(), c.Target(), time.Now().UTC(), []Transaction{genesisCoinbase})
	require.NoError(t, err)
	require.NoError(t, c.Extend(genesis))

	prevOut := genesisCoinbase.Outputs[0]
	_, recipientPub := mustKey(t)
	out, err := NewTransactionOutput(prevOut.Value, recipientPub)
	require.NoError(t, err)

	spend := Transaction{
		Inputs:  []TransactionInput{{PrevOutputHash: prevOut.Hash()}},
		Outputs: []TransactionOutput{out},
	}
	// Signed by someone who does not own the referenced output.
	require.NoError(t, spend.SignInput(0, impostorPriv))

	coinbase2, err := NewCoinbaseTransaction(1, 0, ownerPub, params)
	require.NoError(t, err)
	block2 := mineBlock(t, genesis.Hash(), c.Target(), genesis.Header.Timestamp.Add(time.Second), []Transaction{coinbase2, spend})

	err = c.Extend(block2)
	require.Error(t, err)
	assert.True(t, ledgererr.Is(err, ledgererr.InvalidSignature))
}

// TestRetargetTightensAfterFastBlocks mines an interval's worth of blocks
// much faster than the ideal spacing and checks that the next target
// tightens (shrinks) rather than loosens.
func TestRetargetTightensAfterFastBlocks(t *testing.T) {
	_, pub := mustKey(t)
	params := DefaultParams()
	c := New(params)
	startingTarget := c.Target()

	genesisCoinbase, err := NewCoinbaseTransaction(0, 0, pub, params)
	require.NoError(t, err)
	genesis, err := NewBlock(hashutil.Zero(), c.Target(), time.Now().UTC(), []Transaction{genesisCoinbase})
	require.NoError(t, err)
	require.NoError(t, c.Extend(genesis))

	tip := genesis
	for height := uint64(1); height <= params.DifficultyUpdateIntervals; height++ {
		coinbase, err := NewCoinbaseTransaction(height, 0, pub, params)
		require.NoError(t, err)
		// One second apart: far faster than IdealBlockTime=10s.
		next := mineBlock(t, tip.Hash(), c.Target(), tip.Header.Timestamp.Add(time.Second), []Transaction{coinbase})
		require.NoError(t, c.Extend(next))
		tip = next
	}

	assert.Equal(t, -1, c.Target().Cmp(startingTarget), "mining far faster than ideal must tighten the target")
}

func TestRebuildUTXOsMatchesIncrementalState(t *testing.T) {
	ownerPriv, ownerPub := mustKey(t)
	params := DefaultParams()
	c := New(params)

	genesisCoinbase, err := NewCoinbaseTransaction(0, 0, ownerPub, params)
	require.NoError(t, err)
	genesis, err := NewBlock(hashutil.Zero(), c.Target(), time.Now().UTC(), []Transaction{genesisCoinbase})
	require.NoError(t, err)
	require.NoError(t, c.Extend(genesis))

	prevOut := genesisCoinbase.Outputs[0]
	_, recipientPub := mustKey(t)
	spendOut, err := NewTransactionOutput(prevOut.Value, recipientPub)
	require.NoError(t, err)
	spend := Transaction{
		Inputs:  []TransactionInput{{PrevOutputHash: prevOut.Hash()}},
		Outputs: []TransactionOutput{spendOut},
	}
	require.NoError(t, spend.SignInput(0, ownerPriv))

	coinbase2, err := NewCoinbaseTransaction(1, 0, ownerPub, params)
	require.NoError(t, err)
	block2 := mineBlock(t, genesis.Hash(), c.Target(), genesis.Header.Timestamp.Add(time.Second), []Transaction{coinbase2, spend})
	require.NoError(t, c.Extend(block2))

	assert.True(t, c.UTXOs().Equal(c.RebuildUTXOs()))
}

func TestSubmitAndCommitPrunesMempool(t *testing.T) {
	ownerPriv, ownerPub := mustKey(t)
	params := DefaultParams()
	c := New(params)

	genesisCoinbase, err := NewCoinbaseTransaction(0, 0, ownerPub, params)
	require.NoError(t, err)
	genesis, err := NewBlock(hashutil.Zero(), c.Target(), time.Now().UTC(), []Transaction{genesisCoinbase})
	require.NoError(t, err)
	require.NoError(t, c.Extend(genesis))

	prevOut := genesisCoinbase.Outputs[0]
	_, recipientPub := mustKey(t)
	spendOut, err := NewTransactionOutput(prevOut.Value, recipientPub)
	require.NoError(t, err)
	spend := Transaction{
		Inputs:  []TransactionInput{{PrevOutputHash: prevOut.Hash()}},
		Outputs: []TransactionOutput{spendOut},
	}
	require.NoError(t, spend.SignInput(0, ownerPriv))

	c.SubmitToMempool(spend)
	assert.Len(t, c.Mempool(), 1)

	coinbase2, err := NewCoinbaseTransaction(1, 0, ownerPub, params)
	require.NoError(t, err)
	block2 := mineBlock(t, genesis.Hash(), c.Target(), genesis.Header.Timestamp.Add(time.Second), []Transaction{coinbase2, spend})
	require.NoError(t, c.Extend(block2))

	assert.Empty(t, c.Mempool())
}
