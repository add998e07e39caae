package chain

import "github.com/kilimba/utxoledger/pkg/hashutil"

// UTXOSet maps an output's hash to the output itself. Entries are held by
// value (independent clones of whatever block produced them), so lookups
// never need to reach back into the block list.
type UTXOSet map[hashutil.Hash]TransactionOutput

func newUTXOSet() UTXOSet {
	return make(UTXOSet)
}

// Clone returns an independent copy, used by Chain.UTXOs so callers never
// hold a mutable alias to the chain's own index.
func (u UTXOSet) Clone() UTXOSet {
	out := make(UTXOSet, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// apply removes every input's referenced output and inserts every output of
// every transaction in block, including the coinbase.
func (u UTXOSet) apply(block *Block) {
	for _, tx := range block.Transactions {
		if !tx.IsCoinbase() {
			for _, in := range tx.Inputs {
				delete(u, in.PrevOutputHash)
			}
		}
		for _, out := range tx.Outputs {
			u[out.Hash()] = out
		}
	}
}

// Equal reports whether two UTXO sets contain exactly the same entries,
// used to check that rebuild-from-history matches incremental maintenance.
// Because every entry is stored under its own Hash(), two sets with
// identical key sets necessarily hold identical values, so there is no
// separate value comparison to do.
func (u UTXOSet) Equal(o UTXOSet) bool {
	if len(u) != len(o) {
		return false
	}
	for k := range u {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}
