package chain

import (
	"crypto/rand"

	"github.com/kilimba/utxoledger/internal/ledgererr"
	"github.com/kilimba/utxoledger/pkg/hashutil"
	"github.com/kilimba/utxoledger/pkg/keys"
	"github.com/pkg/errors"
)

// TransactionOutput is a spendable unit of value. UniqueID
// gives otherwise-identical outputs (same value, same recipient) distinct
// hashes, so the UTXO map's output_hash -> output keying stays collision-free.
type TransactionOutput struct {
	Value     uint64
	UniqueID  [16]byte
	PublicKey keys.PublicKey
}

// NewTransactionOutput builds an output paying value to pub, drawing a fresh
// random UniqueID.
func NewTransactionOutput(value uint64, pub keys.PublicKey) (TransactionOutput, error) {
	var id [16]byte
	if _, err := rand.Read(id[:]); err != nil {
		return TransactionOutput{}, errors.Wrap(err, "chain: generate output unique id")
	}
	return TransactionOutput{Value: value, UniqueID: id, PublicKey: pub}, nil
}

// Hash is the stable hash of the output's canonical encoding. It is the key
// the UTXO map indexes by, and the digest signed/verified by the input that
// later spends this output.
func (o TransactionOutput) Hash() hashutil.Hash {
	enc := hashutil.NewEncoder().
		Uint64(o.Value).
		Raw(o.UniqueID[:]).
		Bytes(o.PublicKey.Bytes())
	return hashutil.Sum(enc)
}

// TransactionInput references a prior output by hash: never a
// pointer graph, only the hash used as the UTXO map key.
type TransactionInput struct {
	PrevOutputHash hashutil.Hash
	Signature      keys.Signature
}

func (in TransactionInput) encode(enc *hashutil.Encoder) {
	enc.Raw(in.PrevOutputHash.Bytes()).Bytes(in.Signature.Bytes())
}

// Transaction is an ordered list of inputs and outputs. It carries no
// stored ID field: Hash is always recomputed from the current
// inputs/outputs, so there is no risk of a stale cached ID surviving a
// mutation.
type Transaction struct {
	Inputs  []TransactionInput
	Outputs []TransactionOutput
}

// Hash is the stable hash of the transaction's entire serialized form.
func (tx Transaction) Hash() hashutil.Hash {
	enc := hashutil.NewEncoder()
	enc.Uint64(uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		in.encode(enc)
	}
	enc.Uint64(uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		enc.Raw(out.Hash().Bytes())
	}
	return hashutil.Sum(enc)
}

// IsCoinbase reports whether tx has the coinbase shape: zero inputs and at
// least one output.
func (tx Transaction) IsCoinbase() bool {
	return len(tx.Inputs) == 0 && len(tx.Outputs) > 0
}

// NewCoinbaseTransaction builds the distinguished first transaction of a
// block, paying reward+fees to pub. height is the index the new block will
// occupy
func NewCoinbaseTransaction(height uint64, fees uint64, pub keys.PublicKey, params Params) (Transaction, error) {
	out, err := NewTransactionOutput(params.RewardAt(height)+fees, pub)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{Outputs: []TransactionOutput{out}}, nil
}

// SignInput signs input i of tx against the referenced output's hash (the
// digest every signature is defined over) and stores the
// resulting signature in place.
func (tx *Transaction) SignInput(i int, priv *keys.PrivateKey) error {
	if i < 0 || i >= len(tx.Inputs) {
		return ledgererr.Newf(ledgererr.InvalidTransactionInput, "input index %d out of range", i)
	}
	digest := tx.Inputs[i].PrevOutputHash.Bytes()
	sig, err := keys.Sign(digest, priv)
	if err != nil {
		return errors.Wrap(err, "chain: sign input")
	}
	tx.Inputs[i].Signature = sig
	return nil
}

// outputSum is a small local helper shared by coinbase and per-transaction
// validation.
func outputSum(outs []TransactionOutput) uint64 {
	var total uint64
	for _, o := range outs {
		total += o.Value
	}
	return total
}
