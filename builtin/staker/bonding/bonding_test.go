// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bonding

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/builtin/staker/localstore"
	"github.com/vechain/stakeledger/builtin/staker/reverts"
	"github.com/vechain/stakeledger/builtin/staker/stakes"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/test/datagen"
)

func TestKVStore(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	local := localstore.New(db)
	store := NewKVStore(local)
	a, b := datagen.RandPublicKey(), datagen.RandPublicKey()

	amount, err := store.BondingAmount(a)
	require.NoError(t, err)
	assert.Equal(t, 0, amount.Sign())

	require.NoError(t, store.SetBondingAmount(a, big.NewInt(1000)))
	require.NoError(t, local.Commit())

	amount, err = NewKVStore(localstore.New(db)).BondingAmount(a)
	require.NoError(t, err)
	assert.Equal(t, "1000", amount.String())

	amount, err = store.BondingAmount(b)
	require.NoError(t, err)
	assert.Equal(t, 0, amount.Sign())

	require.NoError(t, store.SetBondingAmount(a, stakes.MaxAmount))
	amount, err = store.BondingAmount(a)
	require.NoError(t, err)
	assert.Equal(t, stakes.MaxAmount.String(), amount.String())

	require.NoError(t, store.SetBondingAmount(a, big.NewInt(0)))
	amount, err = store.BondingAmount(a)
	require.NoError(t, err)
	assert.Equal(t, 0, amount.Sign())

	assert.ErrorIs(t, store.SetBondingAmount(a, big.NewInt(-1)), reverts.ErrInvalidAmount)
	assert.ErrorIs(t, store.SetBondingAmount(a, new(big.Int).Lsh(big.NewInt(1), 512)), reverts.ErrInvalidAmount)
}
