// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staker implements the delegation contract on top of a key value store.
//
// Every exported operation is one invocation: the structures it needs are loaded
// from local storage, mutated, written back and committed as a single batch.
// A failing operation leaves the store untouched.
package staker

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/staker/delegations"
	"github.com/vechain/stakeledger/builtin/staker/localstore"
	"github.com/vechain/stakeledger/builtin/staker/requests"
	"github.com/vechain/stakeledger/builtin/staker/reverts"
	"github.com/vechain/stakeledger/builtin/staker/stakes"
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/metrics"
	"github.com/vechain/stakeledger/thor"
)

var (
	logger = log.WithContext("pkg", "staker")

	metricOps             = metrics.LazyLoadCounterVec("staker_ops_total", []string{"op", "result"})
	metricPendingRequests = metrics.LazyLoadGaugeVec("staker_pending_requests", []string{"queue"})
	metricValidators      = metrics.LazyLoadGauge("staker_active_validators")
	metricStepDuration    = metrics.LazyLoadHistogram("staker_step_duration_ms", metrics.BucketMillis)
)

func SetLogger(l log.Logger) {
	logger = l
}

// Staker implements the methods of the delegation contract.
type Staker struct {
	local *localstore.Store
	cfg   Config
	mu    sync.Mutex
}

// storeBucket prefixes every key the staker writes.
const storeBucket = kv.Bucket("staker/")

// New creates a staker storing its state in db.
func New(db kv.Store, cfg Config) *Staker {
	return &Staker{local: localstore.New(storeBucket.NewStore(db)), cfg: cfg}
}

// Config returns the staking parameters.
func (s *Staker) Config() Config {
	return s.cfg
}

//
// Getters - no state change
//

// Validators returns the active validator set, largest stake first.
func (s *Staker) Validators() ([]*delegations.ValidatorWeight, error) {
	var validators []*delegations.ValidatorWeight
	err := s.invoke("validators", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}
		validators = ledger.Validators(s.cfg.MaxValidators)
		metricValidators().Set(int64(len(validators)))
		return nil
	})
	return validators, err
}

// TotalAmount returns the sum of all delegations.
func (s *Staker) TotalAmount() (*big.Int, error) {
	var total *big.Int
	err := s.invoke("total", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}
		total = ledger.TotalAmount()
		return nil
	})
	return total, err
}

// Delegation returns the stake delegator placed on validator.
func (s *Staker) Delegation(delegator, validator thor.PublicKey) (*big.Int, error) {
	var amount *big.Int
	err := s.invoke("delegation", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}
		amount, err = ledger.Delegation(delegator, validator)
		return err
	})
	return amount, err
}

// DelegatingAmount returns how much delegator has delegated in total.
func (s *Staker) DelegatingAmount(delegator thor.PublicKey) (*big.Int, error) {
	var amount *big.Int
	err := s.invoke("delegating", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}
		amount = ledger.DelegatingAmount(delegator)
		return nil
	})
	return amount, err
}

// DelegatedAmount returns how much stake validator received in total.
func (s *Staker) DelegatedAmount(validator thor.PublicKey) (*big.Int, error) {
	var amount *big.Int
	err := s.invoke("delegated", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}
		amount = ledger.DelegatedAmount(validator)
		return nil
	})
	return amount, err
}

// BondingAmount returns how much account has bonded.
func (s *Staker) BondingAmount(account thor.PublicKey) (*big.Int, error) {
	var amount *big.Int
	err := s.invoke("bonding", func(inv *invocation) (err error) {
		amount, err = inv.bonding.BondingAmount(account)
		return err
	})
	return amount, err
}

// Delegations returns every delegation ordered by delegator then validator.
func (s *Staker) Delegations() ([]*delegations.Entry, error) {
	var entries []*delegations.Entry
	err := s.invoke("delegations", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}
		entries = ledger.Entries()
		return nil
	})
	return entries, err
}

// PendingUndelegations returns the queued undelegations in request order.
func (s *Staker) PendingUndelegations() ([]*requests.Entry[requests.UndelegateKey], error) {
	var entries []*requests.Entry[requests.UndelegateKey]
	err := s.invoke("pending-undelegations", func(inv *invocation) error {
		q, err := inv.queues.ReadUndelegateRequests()
		if err != nil {
			return err
		}
		entries = q.Entries()
		return nil
	})
	return entries, err
}

// PendingRedelegations returns the queued redelegations in request order.
func (s *Staker) PendingRedelegations() ([]*requests.Entry[requests.RedelegateKey], error) {
	var entries []*requests.Entry[requests.RedelegateKey]
	err := s.invoke("pending-redelegations", func(inv *invocation) error {
		q, err := inv.queues.ReadRedelegateRequests()
		if err != nil {
			return err
		}
		entries = q.Entries()
		return nil
	})
	return entries, err
}

// PendingClaims returns the queued reward claims in request order.
func (s *Staker) PendingClaims() ([]*requests.Entry[requests.ClaimKey], error) {
	var entries []*requests.Entry[requests.ClaimKey]
	err := s.invoke("pending-claims", func(inv *invocation) error {
		list, err := inv.queues.ReadClaimRequests()
		if err != nil {
			return err
		}
		entries = list.Entries()
		return nil
	})
	return entries, err
}

//
// Setters - state change
//

// Bond adds amount to the bonded balance of account.
func (s *Staker) Bond(account thor.PublicKey, amount *big.Int) error {
	if !stakes.IsPositive(amount) {
		return reverts.ErrInvalidAmount
	}
	return s.invoke("bond", func(inv *invocation) error {
		bonded, err := inv.bonding.BondingAmount(account)
		if err != nil {
			return err
		}
		if err := inv.bonding.SetBondingAmount(account, stakes.Add(bonded, amount)); err != nil {
			return err
		}
		logger.Info("bonded", "account", account.AbbrevString(), "amount", amount)
		return nil
	})
}

// Unbond releases amount from the bonded balance of account. Stake that is still
// delegated, including stake waiting in the undelegation queue, can not be released.
func (s *Staker) Unbond(account thor.PublicKey, amount *big.Int) error {
	if !stakes.IsPositive(amount) {
		return reverts.ErrInvalidAmount
	}
	return s.invoke("unbond", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}
		bonded, err := inv.bonding.BondingAmount(account)
		if err != nil {
			return err
		}
		free := stakes.SaturatingSub(bonded, ledger.DelegatingAmount(account))
		if amount.Cmp(free) > 0 {
			return reverts.ErrUnbondTooLarge
		}
		if err := inv.bonding.SetBondingAmount(account, stakes.SaturatingSub(bonded, amount)); err != nil {
			return err
		}
		logger.Info("unbonded", "account", account.AbbrevString(), "amount", amount)
		return nil
	})
}

// Delegate places amount of delegator's bonded stake on validator.
func (s *Staker) Delegate(delegator, validator thor.PublicKey, amount *big.Int) error {
	return s.invoke("delegate", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}
		if err := ledger.Delegate(delegator, validator, amount); err != nil {
			return err
		}
		return inv.queues.WriteDelegations(ledger)
	})
}

// RequestUndelegate queues the removal of amount from delegator's stake on validator.
// A nil amount requests the whole delegation as it stands now. The requested amount is returned.
func (s *Staker) RequestUndelegate(delegator, validator thor.PublicKey, amount *big.Int, now uint64) (*big.Int, error) {
	var requested *big.Int
	err := s.invoke("undelegate", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}
		requested, err = resolveAmount(ledger, delegator, validator, amount)
		if err != nil {
			return err
		}

		queue, err := inv.queues.ReadUndelegateRequests()
		if err != nil {
			return err
		}
		key := requests.UndelegateKey{Delegator: delegator, Validator: validator}
		if err := queue.Push(key, requested, now); err != nil {
			return err
		}
		metricPendingRequests().SetWithLabel(int64(queue.Len()), map[string]string{"queue": "undelegate"})

		logger.Info("undelegation requested", "delegator", delegator.AbbrevString(), "validator", validator.AbbrevString(), "amount", requested, "at", now)
		return inv.queues.WriteUndelegateRequests(queue)
	})
	if err != nil {
		return nil, err
	}
	return requested, nil
}

// RequestRedelegate queues moving amount of delegator's stake from src to dest.
// A nil amount requests the whole delegation as it stands now. The requested amount is returned.
func (s *Staker) RequestRedelegate(delegator, src, dest thor.PublicKey, amount *big.Int, now uint64) (*big.Int, error) {
	if src == dest {
		return nil, reverts.ErrSameValidator
	}
	var requested *big.Int
	err := s.invoke("redelegate", func(inv *invocation) error {
		ledger, err := inv.ledger()
		if err != nil {
			return err
		}
		requested, err = resolveAmount(ledger, delegator, src, amount)
		if err != nil {
			return err
		}

		queue, err := inv.queues.ReadRedelegateRequests()
		if err != nil {
			return err
		}
		key := requests.RedelegateKey{Delegator: delegator, Src: src, Dest: dest}
		if err := queue.Push(key, requested, now); err != nil {
			return err
		}
		metricPendingRequests().SetWithLabel(int64(queue.Len()), map[string]string{"queue": "redelegate"})

		logger.Info("redelegation requested", "delegator", delegator.AbbrevString(), "src", src.AbbrevString(), "dest", dest.AbbrevString(), "amount", requested, "at", now)
		return inv.queues.WriteRedelegateRequests(queue)
	})
	if err != nil {
		return nil, err
	}
	return requested, nil
}

// RequestClaim queues a reward claim of amount for claimant.
func (s *Staker) RequestClaim(claimant thor.PublicKey, amount *big.Int, now uint64) error {
	if !stakes.IsPositive(amount) {
		return reverts.ErrInvalidAmount
	}
	return s.invoke("claim", func(inv *invocation) error {
		list, err := inv.queues.ReadClaimRequests()
		if err != nil {
			return err
		}
		if err := list.Push(requests.ClaimKey{Claimant: claimant}, amount, now); err != nil {
			return err
		}
		metricPendingRequests().SetWithLabel(int64(list.Len()), map[string]string{"queue": "claim"})

		logger.Info("claim requested", "claimant", claimant.AbbrevString(), "amount", amount, "at", now)
		return inv.queues.WriteClaimRequests(list)
	})
}

// resolveAmount checks the delegation covers amount, a nil amount resolves to the whole delegation.
func resolveAmount(ledger *delegations.Ledger, delegator, validator thor.PublicKey, amount *big.Int) (*big.Int, error) {
	current, err := ledger.Delegation(delegator, validator)
	if err != nil {
		return nil, err
	}
	if amount == nil {
		return current, nil
	}
	if !stakes.InRange(amount) {
		return nil, reverts.ErrInvalidAmount
	}
	if amount.Cmp(current) > 0 {
		return nil, reverts.ErrUndelegateTooLarge
	}
	return stakes.Copy(amount), nil
}

// internal wraps a non revert error with the operation it failed in.
func internal(err error, op string) error {
	if err == nil || reverts.IsRevertErr(err) {
		return err
	}
	return errors.Wrap(err, op)
}
