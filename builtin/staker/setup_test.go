// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/thor"
)

func newStaker(t *testing.T, cfg Config) *Staker {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, cfg)
}

func testConfig() Config {
	return Config{
		MaxValidators:   3,
		UndelegateDelay: 10,
		RedelegateDelay: 5,
		ClaimDelay:      2,
	}
}

type TestFunc func(t *testing.T)

// TestSequence chains staker calls and runs them in order.
type TestSequence struct {
	staker *Staker

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(staker *Staker) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), staker: staker}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Bond(account thor.PublicKey, amount int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.staker.Bond(account, big.NewInt(amount)), "bond %s", account.AbbrevString())
	})
}

func (st *TestSequence) Delegate(delegator, validator thor.PublicKey, amount int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.staker.Delegate(delegator, validator, big.NewInt(amount))
		require.NoError(t, err, "delegate %s -> %s", delegator.AbbrevString(), validator.AbbrevString())
	})
}

// SelfBond bonds amount and delegates all of it to the account itself.
func (st *TestSequence) SelfBond(validator thor.PublicKey, amount int64) *TestSequence {
	return st.Bond(validator, amount).Delegate(validator, validator, amount)
}

func (st *TestSequence) Undelegate(delegator, validator thor.PublicKey, amount int64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		_, err := st.staker.RequestUndelegate(delegator, validator, big.NewInt(amount), now)
		require.NoError(t, err)
	})
}

func (st *TestSequence) Redelegate(delegator, src, dest thor.PublicKey, amount int64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		_, err := st.staker.RequestRedelegate(delegator, src, dest, big.NewInt(amount), now)
		require.NoError(t, err)
	})
}

func (st *TestSequence) Step(now uint64, check func(t *testing.T, result *StepResult)) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		result, err := st.staker.Step(now)
		require.NoError(t, err, "step at %d", now)
		if check != nil {
			check(t, result)
		}
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

// DelegationAssertions checks the stake of one (delegator, validator) pair.
type DelegationAssertions struct {
	staker    *Staker
	delegator thor.PublicKey
	validator thor.PublicKey

	amount *big.Int
	absent bool
}

func AssertDelegation(staker *Staker, delegator, validator thor.PublicKey) *DelegationAssertions {
	return &DelegationAssertions{staker: staker, delegator: delegator, validator: validator}
}

func (da *DelegationAssertions) Amount(expected int64) *DelegationAssertions {
	da.amount = big.NewInt(expected)
	return da
}

func (da *DelegationAssertions) Absent() *DelegationAssertions {
	da.absent = true
	return da
}

func (da *DelegationAssertions) Assert(t *testing.T) {
	t.Helper()
	amount, err := da.staker.Delegation(da.delegator, da.validator)
	if da.absent {
		assert.Error(t, err, "delegation %s -> %s should not exist", da.delegator.AbbrevString(), da.validator.AbbrevString())
		return
	}
	require.NoError(t, err, "delegation %s -> %s", da.delegator.AbbrevString(), da.validator.AbbrevString())
	if da.amount != nil {
		assert.Equal(t, da.amount.String(), amount.String(), "delegation %s -> %s amount mismatch", da.delegator.AbbrevString(), da.validator.AbbrevString())
	}
}
