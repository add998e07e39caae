// Command utxoledgerd is a thin demonstrator, not a node: it has no p2p
// layer, no RPC, and no persistence. It exists to exercise the chain
// package end to end: assemble a template, run the mining loop, and
// extend a chain.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("utxoledgerd: command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
