package chain

import (
	"math/big"

	"github.com/kilimba/utxoledger/pkg/hashutil"
)

// retarget adjusts current by the ratio of observed to ideal block spacing.
// deltaSeconds is the observed span between the block
// DifficultyUpdateIntervals back and the newest block, truncated to whole
// seconds; timestamps strictly increase, but a span under one second
// truncates to 0, which the lower clamp bounds at current/4.
//
// The multiply is done in math/big because current.BigInt() * deltaSeconds
// can overflow 256 bits before the division truncates it back down. Doing
// this in fixed-width 256-bit modular arithmetic would silently wrap.
func retarget(current Target, deltaSeconds uint64, params Params) Target {
	targetSeconds := params.IdealBlockTime * params.DifficultyUpdateIntervals

	numerator := new(big.Int).Mul(current.BigInt(), new(big.Int).SetUint64(deltaSeconds))
	newTarget := new(big.Int).Quo(numerator, new(big.Int).SetUint64(targetSeconds))

	lowerBound := new(big.Int).Div(current.BigInt(), big.NewInt(4))
	upperBound := new(big.Int).Mul(current.BigInt(), big.NewInt(4))

	if newTarget.Cmp(lowerBound) < 0 {
		newTarget = lowerBound
	}
	if newTarget.Cmp(upperBound) > 0 {
		newTarget = upperBound
	}

	return hashutil.NewTarget(newTarget)
}
