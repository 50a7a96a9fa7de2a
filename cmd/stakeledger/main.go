// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/builtin/staker"
	"github.com/vechain/stakeledger/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "stakeledger"
	app.Usage = "Delegation ledger and request queues of the staking contract"
	app.Copyright = "2025 VeChain Foundation <https://vechain.org/>"
	app.Flags = []cli.Flag{
		dataDirFlag,
		configFlag,
		maxValidatorsFlag,
		verbosityFlag,
		verbosityStakerFlag,
		jsonLogsFlag,
		metricsAddrFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		initLogger(ctx)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "bond",
			Usage:     "add to the bonded balance of an account",
			ArgsUsage: "<account> <amount>",
			Action:    withStaker(bondAction),
		},
		{
			Name:      "unbond",
			Usage:     "release bonded stake that is not delegated",
			ArgsUsage: "<account> <amount>",
			Action:    withStaker(unbondAction),
		},
		{
			Name:      "delegate",
			Usage:     "delegate bonded stake to a validator",
			ArgsUsage: "<delegator> <validator> <amount>",
			Action:    withStaker(delegateAction),
		},
		{
			Name:      "undelegate",
			Usage:     "request the removal of a delegation, the whole delegation when amount is omitted",
			ArgsUsage: "<delegator> <validator> [amount]",
			Flags:     []cli.Flag{atFlag},
			Action:    withStaker(undelegateAction),
		},
		{
			Name:      "redelegate",
			Usage:     "request moving a delegation to another validator",
			ArgsUsage: "<delegator> <src-validator> <dest-validator> [amount]",
			Flags:     []cli.Flag{atFlag},
			Action:    withStaker(redelegateAction),
		},
		{
			Name:      "claim",
			Usage:     "request a reward claim",
			ArgsUsage: "<claimant> <amount>",
			Flags:     []cli.Flag{atFlag},
			Action:    withStaker(claimAction),
		},
		{
			Name:   "step",
			Usage:  "apply every matured request",
			Flags:  []cli.Flag{atFlag, intervalFlag},
			Action: withStaker(stepAction),
		},
		{
			Name:   "validators",
			Usage:  "print the active validator set",
			Action: withStaker(validatorsAction),
		},
		{
			Name:   "show",
			Usage:  "print delegations and pending requests",
			Action: withStaker(showAction),
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Error("command failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withStaker opens the database and hands a staker to action.
func withStaker(action func(ctx *cli.Context, s *staker.Staker) error) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Warn("failed to close database", "err", err)
			}
		}()
		return action(ctx, staker.New(db, cfg))
	}
}
