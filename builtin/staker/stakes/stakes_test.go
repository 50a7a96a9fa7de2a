// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaturatingSub(t *testing.T) {
	assert.Equal(t, big.NewInt(3), SaturatingSub(big.NewInt(5), big.NewInt(2)))
	assert.Equal(t, 0, SaturatingSub(big.NewInt(2), big.NewInt(5)).Sign())
	assert.Equal(t, 0, SaturatingSub(nil, big.NewInt(1)).Sign())
	assert.Equal(t, big.NewInt(7), SaturatingSub(big.NewInt(7), nil))
}

func TestSaturatingSub_DoesNotModifyOperands(t *testing.T) {
	a := big.NewInt(10)
	b := big.NewInt(4)
	SaturatingSub(a, b)
	Add(a, b)
	assert.Equal(t, big.NewInt(10), a)
	assert.Equal(t, big.NewInt(4), b)
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(big.NewInt(0)))
	assert.True(t, InRange(MaxAmount))
	assert.False(t, InRange(nil))
	assert.False(t, InRange(big.NewInt(-1)))
	assert.False(t, InRange(new(big.Int).Add(MaxAmount, big.NewInt(1))))

	assert.False(t, IsPositive(big.NewInt(0)))
	assert.True(t, IsPositive(big.NewInt(1)))
	assert.Equal(t, AmountBits, MaxAmount.BitLen())
}

func TestCopy(t *testing.T) {
	assert.Equal(t, 0, Copy(nil).Sign())
	a := big.NewInt(3)
	c := Copy(a)
	c.SetInt64(4)
	assert.Equal(t, big.NewInt(3), a)
	assert.Equal(t, 0, Zero().Sign())
}
