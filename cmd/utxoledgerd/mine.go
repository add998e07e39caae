package main

import (
	"time"

	"github.com/kilimba/utxoledger/chain"
	"github.com/kilimba/utxoledger/pkg/hashutil"
	"github.com/kilimba/utxoledger/pkg/keys"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMineCommand() *cobra.Command {
	var blocks int
	var stepsPerAttempt uint64

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine a short local chain and print each committed block",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMine(blocks, stepsPerAttempt)
		},
	}

	cmd.Flags().IntVar(&blocks, "blocks", 3, "number of blocks to mine after genesis")
	cmd.Flags().Uint64Var(&stepsPerAttempt, "steps", 1_000_000, "nonce search budget per mining attempt")

	return cmd
}

func runMine(blocks int, stepsPerAttempt uint64) error {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return errors.Wrap(err, "generate miner key")
	}
	pub := priv.Public()

	params := chain.DefaultParams()
	c := chain.New(params)

	genesisCoinbase, err := chain.NewCoinbaseTransaction(0, 0, pub, params)
	if err != nil {
		return errors.Wrap(err, "build genesis coinbase")
	}
	genesis, err := chain.NewBlock(hashutil.Zero(), c.Target(), time.Now().UTC(), []chain.Transaction{genesisCoinbase})
	if err != nil {
		return errors.Wrap(err, "assemble genesis block")
	}
	if err := c.Extend(genesis); err != nil {
		return errors.Wrap(err, "extend with genesis")
	}
	logrus.WithField("hash", genesis.Hash().String()).Info("utxoledgerd: genesis committed")

	for i := 0; i < blocks; i++ {
		if err := mineNextBlock(c, pub, stepsPerAttempt); err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"height": c.Height(),
		"target": c.Target().BigInt().String(),
	}).Info("utxoledgerd: done")
	return nil
}

func mineNextBlock(c *chain.Chain, pub keys.PublicKey, steps uint64) error {
	height := c.Height()
	tip := c.Blocks()[len(c.Blocks())-1]

	coinbase, err := chain.NewCoinbaseTransaction(height, 0, pub, c.Params())
	if err != nil {
		return errors.Wrap(err, "build coinbase")
	}

	for {
		timestamp := time.Now().UTC()
		if !timestamp.After(tip.Header.Timestamp) {
			timestamp = tip.Header.Timestamp.Add(time.Nanosecond)
		}

		block, err := chain.NewBlock(tip.Hash(), c.Target(), timestamp, []chain.Transaction{coinbase})
		if err != nil {
			return errors.Wrap(err, "assemble block")
		}

		if !block.Header.Mine(steps) {
			continue
		}
		if !block.Header.Timestamp.After(tip.Header.Timestamp) {
			// Mining rolled the timestamp on nonce overflow; re-check
			// against the tip before submitting.
			continue
		}

		if err := c.Extend(block); err != nil {
			return errors.Wrap(err, "extend chain")
		}
		logrus.WithFields(logrus.Fields{
			"height": c.Height(),
			"hash":   block.Hash().String(),
		}).Info("utxoledgerd: block committed")
		return nil
	}
}
