package chain

import (
	"github.com/kilimba/utxoledger/internal/ledgererr"
	"github.com/kilimba/utxoledger/pkg/hashutil"
	"github.com/kilimba/utxoledger/pkg/keys"
)

// verifyTransactions checks coinbase issuance, per-input signature + UTXO
// lookup, intra-block double-spend detection, and value conservation over
// a candidate block's transaction list. utxos is read-only here: Extend
// applies the resulting delta only after every check here has passed.
func verifyTransactions(height uint64, txs []Transaction, utxos UTXOSet, params Params) error {
	if len(txs) == 0 {
		return ledgererr.New(ledgererr.InvalidBlock, "block must contain at least one transaction")
	}
	if !txs[0].IsCoinbase() {
		return ledgererr.New(ledgererr.InvalidTransaction, "first transaction must be the coinbase")
	}
	for _, tx := range txs[1:] {
		if tx.IsCoinbase() {
			return ledgererr.New(ledgererr.InvalidTransaction, "only the first transaction may be a coinbase")
		}
	}

	seenPrevOutputs := make(map[hashutil.Hash]bool)
	var totalFees uint64

	for _, tx := range txs[1:] {
		if len(tx.Inputs) == 0 {
			return ledgererr.New(ledgererr.InvalidTransactionInput, "non-coinbase transaction has no inputs")
		}
		if len(tx.Outputs) == 0 {
			return ledgererr.New(ledgererr.InvalidTransactionOutput, "transaction has no outputs")
		}

		var inputTotal uint64
		for _, in := range tx.Inputs {
			if seenPrevOutputs[in.PrevOutputHash] {
				return ledgererr.Newf(ledgererr.InvalidTransaction,
					"double-spend of output %s within block", in.PrevOutputHash)
			}
			seenPrevOutputs[in.PrevOutputHash] = true

			prevOut, ok := utxos[in.PrevOutputHash]
			if !ok {
				return ledgererr.Newf(ledgererr.InvalidTransaction,
					"input references unknown output %s", in.PrevOutputHash)
			}

			ok, err := keys.Verify(in.Signature, in.PrevOutputHash.Bytes(), prevOut.PublicKey)
			if err != nil {
				return ledgererr.Newf(ledgererr.InvalidSignature, "%v", err)
			}
			if !ok {
				return ledgererr.New(ledgererr.InvalidSignature, "input signature does not verify")
			}

			inputTotal += prevOut.Value
		}

		outputTotal := outputSum(tx.Outputs)
		if inputTotal < outputTotal {
			return ledgererr.New(ledgererr.InvalidTransaction,
				"transaction spends more than its inputs carry")
		}
		totalFees += inputTotal - outputTotal
	}

	wantCoinbase := params.RewardAt(height) + totalFees
	gotCoinbase := outputSum(txs[0].Outputs)
	if gotCoinbase != wantCoinbase {
		return ledgererr.Newf(ledgererr.InvalidTransaction,
			"coinbase pays %d, want reward+fees=%d", gotCoinbase, wantCoinbase)
	}

	return nil
}
