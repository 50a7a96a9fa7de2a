// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakeledger/builtin/staker"
	"github.com/vechain/stakeledger/builtin/staker/requests"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/thor"
)

var output io.Writer = os.Stdout

func bondAction(ctx *cli.Context, s *staker.Staker) error {
	keys, err := parseKeys(ctx.Args(), 1)
	if err != nil {
		return err
	}
	if len(ctx.Args()) < 2 {
		return errors.New("missing amount")
	}
	amount, err := parseAmount(ctx.Args()[1])
	if err != nil {
		return err
	}
	return s.Bond(keys[0], amount)
}

func unbondAction(ctx *cli.Context, s *staker.Staker) error {
	keys, err := parseKeys(ctx.Args(), 1)
	if err != nil {
		return err
	}
	if len(ctx.Args()) < 2 {
		return errors.New("missing amount")
	}
	amount, err := parseAmount(ctx.Args()[1])
	if err != nil {
		return err
	}
	return s.Unbond(keys[0], amount)
}

func delegateAction(ctx *cli.Context, s *staker.Staker) error {
	keys, err := parseKeys(ctx.Args(), 2)
	if err != nil {
		return err
	}
	if len(ctx.Args()) < 3 {
		return errors.New("missing amount")
	}
	amount, err := parseAmount(ctx.Args()[2])
	if err != nil {
		return err
	}
	return s.Delegate(keys[0], keys[1], amount)
}

func undelegateAction(ctx *cli.Context, s *staker.Staker) error {
	keys, err := parseKeys(ctx.Args(), 2)
	if err != nil {
		return err
	}
	amount, err := optionalAmount(ctx.Args(), 2)
	if err != nil {
		return err
	}
	requested, err := s.RequestUndelegate(keys[0], keys[1], amount, requestTime(ctx))
	if err != nil {
		return err
	}
	fmt.Fprintln(output, requested)
	return nil
}

func redelegateAction(ctx *cli.Context, s *staker.Staker) error {
	keys, err := parseKeys(ctx.Args(), 3)
	if err != nil {
		return err
	}
	amount, err := optionalAmount(ctx.Args(), 3)
	if err != nil {
		return err
	}
	requested, err := s.RequestRedelegate(keys[0], keys[1], keys[2], amount, requestTime(ctx))
	if err != nil {
		return err
	}
	fmt.Fprintln(output, requested)
	return nil
}

func claimAction(ctx *cli.Context, s *staker.Staker) error {
	keys, err := parseKeys(ctx.Args(), 1)
	if err != nil {
		return err
	}
	if len(ctx.Args()) < 2 {
		return errors.New("missing amount")
	}
	amount, err := parseAmount(ctx.Args()[1])
	if err != nil {
		return err
	}
	return s.RequestClaim(keys[0], amount, requestTime(ctx))
}

type stepReport struct {
	At          uint64          `yaml:"at"`
	Undelegated []requestView   `yaml:"undelegated,omitempty"`
	Redelegated []requestView   `yaml:"redelegated,omitempty"`
	Claims      []requestView   `yaml:"claims,omitempty"`
	Dropped     int             `yaml:"dropped"`
	Validators  []validatorView `yaml:"validators,omitempty"`
}

func stepAction(ctx *cli.Context, s *staker.Staker) error {
	interval := ctx.Duration(intervalFlag.Name)
	if interval <= 0 {
		return step(s, requestTime(ctx))
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := ctx.GlobalString(metricsAddrFlag.Name); addr != "" {
		url, stopMetrics, err := startMetricsServer(addr)
		if err != nil {
			return err
		}
		defer stopMetrics()
		log.Info("metrics server started", "url", url)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := step(s, uint64(time.Now().Unix())); err != nil {
			return err
		}
		select {
		case <-runCtx.Done():
			log.Info("exiting")
			return nil
		case <-ticker.C:
		}
	}
}

func step(s *staker.Staker, now uint64) error {
	result, err := s.Step(now)
	if err != nil {
		return err
	}
	report := stepReport{At: now, Dropped: result.Dropped}
	for _, e := range result.Undelegated {
		report.Undelegated = append(report.Undelegated, undelegateView(e))
	}
	for _, e := range result.Redelegated {
		report.Redelegated = append(report.Redelegated, redelegateView(e))
	}
	for _, e := range result.Claims {
		report.Claims = append(report.Claims, claimView(e))
	}
	for _, v := range result.Validators {
		report.Validators = append(report.Validators, validatorView{Validator: v.Validator, Amount: v.Amount})
	}
	return printYAML(report)
}

type validatorView struct {
	Validator thor.PublicKey `yaml:"validator"`
	Amount    *big.Int       `yaml:"amount"`
}

func validatorsAction(_ *cli.Context, s *staker.Staker) error {
	validators, err := s.Validators()
	if err != nil {
		return err
	}
	views := make([]validatorView, 0, len(validators))
	for _, v := range validators {
		views = append(views, validatorView{Validator: v.Validator, Amount: v.Amount})
	}
	return printYAML(views)
}

type delegationView struct {
	Delegator thor.PublicKey `yaml:"delegator"`
	Validator thor.PublicKey `yaml:"validator"`
	Amount    *big.Int       `yaml:"amount"`
}

type requestView struct {
	Delegator thor.PublicKey  `yaml:"delegator,omitempty"`
	Validator *thor.PublicKey `yaml:"validator,omitempty"`
	Src       *thor.PublicKey `yaml:"src,omitempty"`
	Dest      *thor.PublicKey `yaml:"dest,omitempty"`
	Amount    *big.Int        `yaml:"amount"`
	Timestamp uint64          `yaml:"timestamp"`
}

func undelegateView(e *requests.Entry[requests.UndelegateKey]) requestView {
	return requestView{Delegator: e.Key.Delegator, Validator: &e.Key.Validator, Amount: e.Amount, Timestamp: e.Timestamp}
}

func redelegateView(e *requests.Entry[requests.RedelegateKey]) requestView {
	return requestView{Delegator: e.Key.Delegator, Src: &e.Key.Src, Dest: &e.Key.Dest, Amount: e.Amount, Timestamp: e.Timestamp}
}

func claimView(e *requests.Entry[requests.ClaimKey]) requestView {
	return requestView{Delegator: e.Key.Claimant, Amount: e.Amount, Timestamp: e.Timestamp}
}

type showReport struct {
	TotalAmount   *big.Int         `yaml:"total-amount"`
	Delegations   []delegationView `yaml:"delegations"`
	Undelegations []requestView    `yaml:"pending-undelegations"`
	Redelegations []requestView    `yaml:"pending-redelegations"`
	Claims        []requestView    `yaml:"pending-claims"`
}

func showAction(_ *cli.Context, s *staker.Staker) error {
	total, err := s.TotalAmount()
	if err != nil {
		return err
	}
	report := showReport{TotalAmount: total}

	entries, err := s.Delegations()
	if err != nil {
		return err
	}
	for _, e := range entries {
		report.Delegations = append(report.Delegations, delegationView{Delegator: e.Delegator, Validator: e.Validator, Amount: e.Amount})
	}

	undelegations, err := s.PendingUndelegations()
	if err != nil {
		return err
	}
	for _, e := range undelegations {
		report.Undelegations = append(report.Undelegations, undelegateView(e))
	}

	redelegations, err := s.PendingRedelegations()
	if err != nil {
		return err
	}
	for _, e := range redelegations {
		report.Redelegations = append(report.Redelegations, redelegateView(e))
	}

	claims, err := s.PendingClaims()
	if err != nil {
		return err
	}
	for _, e := range claims {
		report.Claims = append(report.Claims, claimView(e))
	}
	return printYAML(report)
}

func printYAML(v any) error {
	enc := yaml.NewEncoder(output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode output")
	}
	return enc.Close()
}
