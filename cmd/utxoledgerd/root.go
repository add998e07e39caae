package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "utxoledgerd",
		Short: "Demonstrator for the utxoledger chain package",
		Long: "utxoledgerd drives the chain package's validation, UTXO, and " +
			"mining primitives against a local, in-memory chain. It is not a " +
			"network node, with no peers, no RPC, and no disk storage.",
	}

	root.AddCommand(newMineCommand())
	return root
}
