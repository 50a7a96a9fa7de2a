// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"time"

	"github.com/vechain/stakeledger/builtin/staker/delegations"
	"github.com/vechain/stakeledger/builtin/staker/requests"
	"github.com/vechain/stakeledger/builtin/staker/reverts"
)

// StepResult describes what a housekeeping step applied.
type StepResult struct {
	Undelegated []*requests.Entry[requests.UndelegateKey]
	Redelegated []*requests.Entry[requests.RedelegateKey]
	// Claims matured in this step. Paying them out is up to the caller.
	Claims []*requests.Entry[requests.ClaimKey]
	// Dropped counts matured requests the ledger could no longer satisfy.
	Dropped    int
	Validators []*delegations.ValidatorWeight
}

// IsEmpty reports whether the step matured nothing.
func (r *StepResult) IsEmpty() bool {
	return len(r.Undelegated) == 0 && len(r.Redelegated) == 0 && len(r.Claims) == 0 && r.Dropped == 0
}

// cutoff returns the latest request timestamp that has matured at now.
func cutoff(now, delay uint64) (uint64, bool) {
	if now < delay {
		return 0, false
	}
	return now - delay, true
}

// Step applies every request that matured at now, in the order the requests were made.
func (s *Staker) Step(now uint64) (*StepResult, error) {
	start := time.Now()
	defer func() {
		metricStepDuration().Observe(time.Since(start).Milliseconds())
	}()

	result := &StepResult{}
	err := s.invoke("step", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}

		undelegations, err := inv.queues.ReadUndelegateRequests()
		if err != nil {
			return err
		}
		if due, ok := cutoff(now, s.cfg.UndelegateDelay); ok {
			for _, req := range undelegations.PopDue(due) {
				if _, err := ledger.Undelegate(req.Key.Delegator, req.Key.Validator, req.Amount); err != nil {
					if !reverts.IsRevertErr(err) {
						return err
					}
					result.Dropped++
					logger.Warn("dropping matured undelegation", "delegator", req.Key.Delegator.AbbrevString(), "validator", req.Key.Validator.AbbrevString(), "amount", req.Amount, "err", err)
					continue
				}
				result.Undelegated = append(result.Undelegated, req)
			}
		}

		redelegations, err := inv.queues.ReadRedelegateRequests()
		if err != nil {
			return err
		}
		if due, ok := cutoff(now, s.cfg.RedelegateDelay); ok {
			for _, req := range redelegations.PopDue(due) {
				if err := ledger.Redelegate(req.Key.Delegator, req.Key.Src, req.Key.Dest, req.Amount); err != nil {
					if !reverts.IsRevertErr(err) {
						return err
					}
					result.Dropped++
					logger.Warn("dropping matured redelegation", "delegator", req.Key.Delegator.AbbrevString(), "src", req.Key.Src.AbbrevString(), "dest", req.Key.Dest.AbbrevString(), "amount", req.Amount, "err", err)
					continue
				}
				result.Redelegated = append(result.Redelegated, req)
			}
		}

		claims, err := inv.queues.ReadClaimRequests()
		if err != nil {
			return err
		}
		if due, ok := cutoff(now, s.cfg.ClaimDelay); ok {
			result.Claims = claims.PopDue(due)
		}

		result.Validators = ledger.Validators(s.cfg.MaxValidators)

		metricPendingRequests().SetWithLabel(int64(undelegations.Len()), map[string]string{"queue": "undelegate"})
		metricPendingRequests().SetWithLabel(int64(redelegations.Len()), map[string]string{"queue": "redelegate"})
		metricPendingRequests().SetWithLabel(int64(claims.Len()), map[string]string{"queue": "claim"})
		metricValidators().Set(int64(len(result.Validators)))

		if result.IsEmpty() {
			return nil
		}
		if err := inv.queues.WriteDelegations(ledger); err != nil {
			return err
		}
		if err := inv.queues.WriteUndelegateRequests(undelegations); err != nil {
			return err
		}
		if err := inv.queues.WriteRedelegateRequests(redelegations); err != nil {
			return err
		}
		return inv.queues.WriteClaimRequests(claims)
	})
	if err != nil {
		return nil, err
	}

	if !result.IsEmpty() {
		logger.Info("performed housekeeping", "at", now,
			"undelegated", len(result.Undelegated),
			"redelegated", len(result.Redelegated),
			"claims", len(result.Claims),
			"dropped", result.Dropped)
	}
	return result, nil
}
