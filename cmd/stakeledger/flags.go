// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the staking database",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML file with staking parameters",
	}
	maxValidatorsFlag = cli.IntFlag{
		Name:  "max-validators",
		Usage: "size of the active validator set, overrides the config file",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	verbosityStakerFlag = cli.Uint64Flag{
		Name:  "verbosity-staker",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity for staker (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "serve Prometheus metrics on this address, e.g. localhost:2112",
	}

	atFlag = cli.Uint64Flag{
		Name:  "at",
		Usage: "request time in seconds, defaults to the current unix time",
	}
	intervalFlag = cli.DurationFlag{
		Name:  "interval",
		Usage: "repeat the step at this interval until interrupted",
	}
)
