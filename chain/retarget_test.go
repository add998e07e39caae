package chain

import (
	"math/big"
	"testing"

	"github.com/kilimba/utxoledger/pkg/hashutil"
	"github.com/stretchr/testify/assert"
)

func TestRetargetUnchangedWhenDeltaMatchesIdeal(t *testing.T) {
	params := DefaultParams()
	current := hashutil.NewTarget(big.NewInt(1_000_000))
	targetSeconds := params.IdealBlockTime * params.DifficultyUpdateIntervals

	got := retarget(current, targetSeconds, params)
	assert.Equal(t, 0, got.Cmp(current))
}

func TestRetargetClampsToQuarterOnFastBlocks(t *testing.T) {
	params := DefaultParams()
	current := hashutil.NewTarget(big.NewInt(1_000_000))

	got := retarget(current, 0, params)
	want := hashutil.NewTarget(new(big.Int).Div(current.BigInt(), big.NewInt(4)))
	assert.Equal(t, 0, got.Cmp(want))
}

func TestRetargetClampsToQuadrupleOnSlowBlocks(t *testing.T) {
	params := DefaultParams()
	current := hashutil.NewTarget(big.NewInt(1_000_000))
	targetSeconds := params.IdealBlockTime * params.DifficultyUpdateIntervals

	got := retarget(current, targetSeconds*1000, params)
	want := hashutil.NewTarget(new(big.Int).Mul(current.BigInt(), big.NewInt(4)))
	assert.Equal(t, 0, got.Cmp(want))
}

func TestRetargetNeverExceedsMinimumTarget(t *testing.T) {
	params := DefaultParams()
	current := hashutil.MinimumTarget()
	targetSeconds := params.IdealBlockTime * params.DifficultyUpdateIntervals

	got := retarget(current, targetSeconds*1000, params)
	assert.Equal(t, 0, got.Cmp(hashutil.MinimumTarget()))
}
