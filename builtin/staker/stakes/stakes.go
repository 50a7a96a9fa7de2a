// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakes holds the arithmetic on stake amounts. Amounts are unsigned
// 512-bit integers carried in *big.Int. All helpers allocate their result and
// never modify their operands.
package stakes

import "math/big"

// AmountBits is the width of a stake amount.
const AmountBits = 512

// MaxAmount is the largest representable amount, 2^512 - 1.
var MaxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), AmountBits), big.NewInt(1))

// Zero returns a new zero amount.
func Zero() *big.Int {
	return new(big.Int)
}

// Copy returns a copy of a, treating nil as zero.
func Copy(a *big.Int) *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a)
}

// InRange reports whether a is a representable amount, zero included.
func InRange(a *big.Int) bool {
	return a != nil && a.Sign() >= 0 && a.Cmp(MaxAmount) <= 0
}

// IsPositive reports whether a is a representable, non-zero amount.
func IsPositive(a *big.Int) bool {
	return InRange(a) && a.Sign() > 0
}

// Add returns a + b.
func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(Copy(a), Copy(b))
}

// SaturatingSub returns a - b, clamped to zero.
func SaturatingSub(a, b *big.Int) *big.Int {
	diff := new(big.Int).Sub(Copy(a), Copy(b))
	if diff.Sign() < 0 {
		return diff.SetInt64(0)
	}
	return diff
}
