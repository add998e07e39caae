package chain

import "github.com/kilimba/utxoledger/pkg/hashutil"

// Params holds the wire-observable consensus constants. It is a plain
// struct of tunables rather than a parsed config file. Loading these from
// disk or the environment is a host-process concern, outside this
// library's scope.
type Params struct {
	// InitialReward is the block-0 coinbase reward, in whole reward units.
	InitialReward uint64
	// HalvingInterval is the number of blocks between reward halvings.
	HalvingInterval uint64
	// IdealBlockTime is the target inter-block spacing, in seconds.
	IdealBlockTime uint64
	// DifficultyUpdateIntervals is the retarget period, in blocks.
	DifficultyUpdateIntervals uint64
	// MinimumTarget is the ceiling every target is clamped to.
	MinimumTarget hashutil.Target
}

// baseUnitsPerReward converts a whole reward unit into its 10^-8 base units.
const baseUnitsPerReward = 100_000_000

// DefaultParams returns the baseline consensus constants:
// InitialReward=50, HalvingInterval=210, IdealBlockTime=10,
// DifficultyUpdateIntervals=50, MinimumTarget = 2^240-1.
func DefaultParams() Params {
	return Params{
		InitialReward:             50,
		HalvingInterval:           210,
		IdealBlockTime:            10,
		DifficultyUpdateIntervals: 50,
		MinimumTarget:             hashutil.MinimumTarget(),
	}
}

// RewardAt computes reward(h) in base units: InitialReward * 10^8 >> (h / HalvingInterval).
func (p Params) RewardAt(height uint64) uint64 {
	reward := p.InitialReward * baseUnitsPerReward
	halvings := height / p.HalvingInterval
	if halvings >= 64 {
		return 0
	}
	return reward >> halvings
}
