// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package delegations keeps the authoritative delegator to validator stake table.
//
// The table is ordered by (delegator, validator). The total of all stakes is kept
// alongside the table and updated on every mutation. Every mutating call validates
// its input before touching the table, so a failed call leaves the ledger unchanged.
package delegations

import (
	"math/big"
	"slices"

	"github.com/google/btree"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/staker/reverts"
	"github.com/vechain/stakeledger/builtin/staker/stakes"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/thor"
)

const treeDegree = 32

var logger = log.WithContext("pkg", "delegations")

// SetLogger overrides the package logger.
func SetLogger(l log.Logger) {
	logger = l
}

// Bonding reports how much an account has bonded in total.
type Bonding interface {
	BondingAmount(account thor.PublicKey) (*big.Int, error)
}

// Ledger maps (delegator, validator) pairs to delegated amounts.
type Ledger struct {
	table   *btree.BTreeG[*item]
	total   *big.Int
	bonding Bonding
}

// New builds a ledger from persisted entries and recomputes the total.
// Zero rows are kept, a zero self-delegation still admits other delegators.
// Repeated keys are merged.
func New(entries []*Entry, bonding Bonding) *Ledger {
	l := &Ledger{
		table:   btree.NewG(treeDegree, lessItem),
		total:   stakes.Zero(),
		bonding: bonding,
	}
	for _, e := range entries {
		if e == nil || !stakes.InRange(e.Amount) {
			continue
		}
		l.credit(e.Key(), e.Amount)
		l.total.Add(l.total, e.Amount)
	}
	return l
}

// Len returns the number of (delegator, validator) pairs.
func (l *Ledger) Len() int {
	return l.table.Len()
}

// TotalAmount returns the sum of all delegations.
func (l *Ledger) TotalAmount() *big.Int {
	return stakes.Copy(l.total)
}

// Delegation returns the amount delegated by delegator to validator.
func (l *Ledger) Delegation(delegator, validator thor.PublicKey) (*big.Int, error) {
	it, ok := l.table.Get(&item{key: Key{delegator, validator}})
	if !ok {
		return nil, reverts.ErrDelegationsNotFound
	}
	return stakes.Copy(it.amount), nil
}

// DelegatingAmount returns the sum of the delegator's stakes over all validators.
// Rows are ordered by delegator, so only the delegator's range is visited.
func (l *Ledger) DelegatingAmount(delegator thor.PublicKey) *big.Int {
	sum := stakes.Zero()
	pivot := &item{key: Key{Delegator: delegator}}
	l.table.AscendGreaterOrEqual(pivot, func(it *item) bool {
		if it.key.Delegator != delegator {
			return false
		}
		sum.Add(sum, it.amount)
		return true
	})
	return sum
}

// DelegatedAmount returns the sum of all stakes received by the validator.
// It scans the whole table, callers must keep it out of hot paths.
func (l *Ledger) DelegatedAmount(validator thor.PublicKey) *big.Int {
	sum := stakes.Zero()
	l.table.Ascend(func(it *item) bool {
		if it.key.Validator == validator {
			sum.Add(sum, it.amount)
		}
		return true
	})
	return sum
}

// Validators returns at most max validators ordered by delegated stake, largest first.
// Validators with the same stake keep ascending key order.
func (l *Ledger) Validators(max int) []*ValidatorWeight {
	sums := make(map[thor.PublicKey]*big.Int)
	l.table.Ascend(func(it *item) bool {
		if sum, ok := sums[it.key.Validator]; ok {
			sum.Add(sum, it.amount)
		} else {
			sums[it.key.Validator] = stakes.Copy(it.amount)
		}
		return true
	})

	weights := make([]*ValidatorWeight, 0, len(sums))
	for v, sum := range sums {
		weights = append(weights, &ValidatorWeight{Validator: v, Amount: sum})
	}
	slices.SortFunc(weights, func(a, b *ValidatorWeight) int {
		return a.Validator.Compare(b.Validator)
	})
	slices.SortStableFunc(weights, func(a, b *ValidatorWeight) int {
		return b.Amount.Cmp(a.Amount)
	})

	if max < 0 {
		max = 0
	}
	if len(weights) > max {
		weights = weights[:max]
	}
	return weights
}

// Delegate adds amount to the delegator's stake on validator.
//
// A validator must hold a self-delegation before accepting stake from others, and
// a delegator can not delegate more than its bonded amount in total.
func (l *Ledger) Delegate(delegator, validator thor.PublicKey, amount *big.Int) error {
	if !stakes.InRange(amount) {
		return reverts.ErrInvalidAmount
	}
	key := Key{delegator, validator}
	if !key.IsSelf() {
		if _, ok := l.table.Get(&item{key: Key{validator, validator}}); !ok {
			return reverts.ErrNotSelfDelegated
		}
	}

	bonded, err := l.bonding.BondingAmount(delegator)
	if err != nil {
		return errors.Wrap(err, "read bonding amount")
	}
	available := stakes.SaturatingSub(bonded, l.DelegatingAmount(delegator))
	if amount.Cmp(available) > 0 {
		return reverts.ErrDelegateTooLarge
	}

	l.credit(key, amount)
	l.total.Add(l.total, amount)

	logger.Debug("delegated", "delegator", delegator.AbbrevString(), "validator", validator.AbbrevString(), "amount", amount)
	return nil
}

// Undelegate removes stake from the delegator's delegation to validator and returns
// the removed amount. A nil amount removes the whole delegation.
func (l *Ledger) Undelegate(delegator, validator thor.PublicKey, amount *big.Int) (*big.Int, error) {
	removed, err := l.debit(Key{delegator, validator}, amount)
	if err != nil {
		return nil, err
	}
	l.total = stakes.SaturatingSub(l.total, removed)

	logger.Debug("undelegated", "delegator", delegator.AbbrevString(), "validator", validator.AbbrevString(), "amount", removed)
	return removed, nil
}

// Redelegate moves stake from src to dest without it leaving the ledger.
// A nil amount moves the whole delegation. The destination is not required to be
// self-delegated.
func (l *Ledger) Redelegate(delegator, src, dest thor.PublicKey, amount *big.Int) error {
	moved, err := l.debit(Key{delegator, src}, amount)
	if err != nil {
		return err
	}
	l.credit(Key{delegator, dest}, moved)

	logger.Debug("redelegated", "delegator", delegator.AbbrevString(), "src", src.AbbrevString(), "dest", dest.AbbrevString(), "amount", moved)
	return nil
}

// Entries returns the rows of the ledger in key order.
func (l *Ledger) Entries() []*Entry {
	entries := make([]*Entry, 0, l.table.Len())
	l.table.Ascend(func(it *item) bool {
		entries = append(entries, &Entry{
			Delegator: it.key.Delegator,
			Validator: it.key.Validator,
			Amount:    stakes.Copy(it.amount),
		})
		return true
	})
	return entries
}

// credit adds amount to the row of key, inserting it when absent. The total is left as is.
func (l *Ledger) credit(key Key, amount *big.Int) {
	if it, ok := l.table.Get(&item{key: key}); ok {
		it.amount.Add(it.amount, amount)
		return
	}
	l.table.ReplaceOrInsert(&item{key: key, amount: stakes.Copy(amount)})
}

// debit removes amount, or the whole row when amount is nil, from the row of key.
// The total is left as is.
func (l *Ledger) debit(key Key, amount *big.Int) (*big.Int, error) {
	if amount != nil && !stakes.InRange(amount) {
		return nil, reverts.ErrInvalidAmount
	}
	it, ok := l.table.Get(&item{key: key})
	if !ok {
		return nil, reverts.ErrDelegationsNotFound
	}
	if amount == nil {
		l.table.Delete(it)
		return it.amount, nil
	}

	switch it.amount.Cmp(amount) {
	case 1:
		it.amount.Sub(it.amount, amount)
	case 0:
		l.table.Delete(it)
	default:
		return nil, reverts.ErrUndelegateTooLarge
	}
	return stakes.Copy(amount), nil
}
