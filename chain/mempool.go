package chain

import "github.com/kilimba/utxoledger/pkg/hashutil"

// Mempool is a basic pending-transaction pool: accept on submission, remove
// automatically when a block commits a transaction with the same hash. It
// has no fee market or eviction policy, only basic inclusion tracking.
type Mempool struct {
	byHash map[hashutil.Hash]Transaction
	order  []hashutil.Hash
}

func newMempool() *Mempool {
	return &Mempool{byHash: make(map[hashutil.Hash]Transaction)}
}

// Submit adds tx to the pool, keyed by its hash. Submitting the same
// transaction twice is a no-op.
func (m *Mempool) Submit(tx Transaction) hashutil.Hash {
	h := tx.Hash()
	if _, exists := m.byHash[h]; !exists {
		m.byHash[h] = tx
		m.order = append(m.order, h)
	}
	return h
}

// Transactions returns a snapshot of pending transactions in submission order.
func (m *Mempool) Transactions() []Transaction {
	out := make([]Transaction, 0, len(m.order))
	for _, h := range m.order {
		if tx, ok := m.byHash[h]; ok {
			out = append(out, tx)
		}
	}
	return out
}

// removeCommitted drops every entry whose hash matches a transaction in block.
func (m *Mempool) removeCommitted(block *Block) {
	if len(m.byHash) == 0 {
		return
	}
	committed := make(map[hashutil.Hash]bool, len(block.Transactions))
	for _, tx := range block.Transactions {
		committed[tx.Hash()] = true
	}

	kept := m.order[:0]
	for _, h := range m.order {
		if committed[h] {
			delete(m.byHash, h)
			continue
		}
		kept = append(kept, h)
	}
	m.order = kept
}
