// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contractqueue

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/builtin/staker/delegations"
	"github.com/vechain/stakeledger/builtin/staker/localstore"
	"github.com/vechain/stakeledger/builtin/staker/requests"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/test/datagen"
	"github.com/vechain/stakeledger/thor"
)

func newContractQueue(t *testing.T) (*ContractQueue, *localstore.Store) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := localstore.New(db)
	return New(store), store
}

type failingStorage struct{}

func (failingStorage) ReadLocal(thor.Bytes32) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}

func (failingStorage) WriteLocal(thor.Bytes32, []byte) {}

type noBonds struct{}

func (noBonds) BondingAmount(thor.PublicKey) (*big.Int, error) { return new(big.Int), nil }

func TestEmptySlots(t *testing.T) {
	cq, _ := newContractQueue(t)

	undelegations, err := cq.ReadUndelegateRequests()
	require.NoError(t, err)
	assert.Equal(t, 0, undelegations.Len())

	redelegations, err := cq.ReadRedelegateRequests()
	require.NoError(t, err)
	assert.Equal(t, 0, redelegations.Len())

	claims, err := cq.ReadClaimRequests()
	require.NoError(t, err)
	assert.Equal(t, 0, claims.Len())

	entries, err := cq.ReadDelegations()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRoundTrip(t *testing.T) {
	cq, store := newContractQueue(t)
	keys := datagen.RandSortedPublicKeys(3)

	undelegations := requests.NewQueue[requests.UndelegateKey]()
	require.NoError(t, undelegations.Push(requests.UndelegateKey{Delegator: keys[0], Validator: keys[1]}, big.NewInt(5), 100))
	require.NoError(t, cq.WriteUndelegateRequests(undelegations))

	redelegations := requests.NewQueue[requests.RedelegateKey]()
	require.NoError(t, redelegations.Push(requests.RedelegateKey{Delegator: keys[0], Src: keys[1], Dest: keys[2]}, big.NewInt(3), 7))
	require.NoError(t, redelegations.Push(requests.RedelegateKey{Delegator: keys[1], Src: keys[1], Dest: keys[2]}, big.NewInt(4), 8))
	require.NoError(t, cq.WriteRedelegateRequests(redelegations))

	claims := requests.NewClaimList()
	require.NoError(t, claims.Push(requests.ClaimKey{Claimant: keys[2]}, big.NewInt(9), 11))
	require.NoError(t, cq.WriteClaimRequests(claims))

	require.NoError(t, store.Commit())

	gotUndelegations, err := cq.ReadUndelegateRequests()
	require.NoError(t, err)
	assert.Equal(t, 1, gotUndelegations.Len())
	assert.Equal(t, uint64(100), gotUndelegations.LastTimestamp())

	gotRedelegations, err := cq.ReadRedelegateRequests()
	require.NoError(t, err)
	assert.Equal(t, 2, gotRedelegations.Len())

	gotClaims, err := cq.ReadClaimRequests()
	require.NoError(t, err)
	e, ok := gotClaims.Get(requests.ClaimKey{Claimant: keys[2]})
	require.True(t, ok)
	assert.Equal(t, "9", e.Amount.String())

	n, err := cq.PendingDelegationRequests(KindRedelegate)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = cq.PendingDelegationRequests(KindUndelegate)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = cq.PendingDelegationRequests(Kind(9))
	assert.Error(t, err)
}

func TestSlotsAreSeparate(t *testing.T) {
	assert.NotEqual(t, KindUndelegate.slot(), KindRedelegate.slot())
	assert.NotEqual(t, slotClaimRequests, slotDelegations)
	assert.Equal(t, "undelegate", KindUndelegate.String())
	assert.Equal(t, "redelegate", KindRedelegate.String())
}

func TestUndecodableQueueIsEmpty(t *testing.T) {
	cq, store := newContractQueue(t)
	store.WriteLocal(slotUndelegateRequests, []byte{0xff, 0x01})

	q, err := cq.ReadUndelegateRequests()
	require.NoError(t, err)
	assert.Equal(t, 0, q.Len())
}

func TestStorageFailure(t *testing.T) {
	cq := New(failingStorage{})

	_, err := cq.ReadUndelegateRequests()
	assert.Error(t, err)
	_, err = cq.ReadClaimRequests()
	assert.Error(t, err)
	_, err = cq.ReadDelegations()
	assert.Error(t, err)
}

func TestDelegations(t *testing.T) {
	cq, store := newContractQueue(t)
	keys := datagen.RandSortedPublicKeys(2)

	ledger := delegations.New([]*delegations.Entry{
		{Delegator: keys[0], Validator: keys[0], Amount: big.NewInt(10)},
		{Delegator: keys[1], Validator: keys[0], Amount: big.NewInt(20)},
	}, noBonds{})
	require.NoError(t, cq.WriteDelegations(ledger))

	entries, err := cq.ReadDelegations()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "30", delegations.New(entries, noBonds{}).TotalAmount().String())

	// an empty ledger clears the slot
	require.NoError(t, cq.WriteDelegations(delegations.New(nil, noBonds{})))
	_, ok, err := store.ReadLocal(slotDelegations)
	require.NoError(t, err)
	assert.False(t, ok)

	store.WriteLocal(slotDelegations, []byte{0xff})
	_, err = cq.ReadDelegations()
	assert.Error(t, err)
}
