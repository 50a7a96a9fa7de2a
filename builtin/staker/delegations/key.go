// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegations

import (
	"math/big"

	"github.com/vechain/stakeledger/thor"
)

// Key identifies the stake a delegator placed on a validator.
// Keys are ordered by delegator first, then by validator.
type Key struct {
	Delegator thor.PublicKey
	Validator thor.PublicKey
}

// Compare orders keys by delegator, then by validator.
func (k Key) Compare(other Key) int {
	if c := k.Delegator.Compare(other.Delegator); c != 0 {
		return c
	}
	return k.Validator.Compare(other.Validator)
}

// IsSelf reports whether the key is a self-delegation.
func (k Key) IsSelf() bool {
	return k.Delegator == k.Validator
}

// Entry is the persisted form of one ledger row.
type Entry struct {
	Delegator thor.PublicKey
	Validator thor.PublicKey
	Amount    *big.Int
}

// Key returns the key of the entry.
func (e *Entry) Key() Key {
	return Key{Delegator: e.Delegator, Validator: e.Validator}
}

// ValidatorWeight is a validator with the total stake delegated to it.
type ValidatorWeight struct {
	Validator thor.PublicKey
	Amount    *big.Int
}

// item is the btree element.
type item struct {
	key    Key
	amount *big.Int
}

func lessItem(a, b *item) bool {
	return a.key.Compare(b.key) < 0
}
