// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bonding records how much each account has bonded in total.
package bonding

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/staker/reverts"
	"github.com/vechain/stakeledger/builtin/staker/stakes"
	"github.com/vechain/stakeledger/thor"
)

var slotPrefix = []byte("bonding")

// Store is the read side consumed by the delegation ledger.
type Store interface {
	BondingAmount(account thor.PublicKey) (*big.Int, error)
}

// LocalStorage is the call scoped key value storage of the contract.
type LocalStorage interface {
	ReadLocal(slot thor.Bytes32) ([]byte, bool, error)
	WriteLocal(slot thor.Bytes32, val []byte)
}

// KVStore keeps one slot per account.
type KVStore struct {
	storage LocalStorage
}

var _ Store = (*KVStore)(nil)

// NewKVStore creates a KVStore over storage.
func NewKVStore(storage LocalStorage) *KVStore {
	return &KVStore{storage: storage}
}

func slotOf(account thor.PublicKey) thor.Bytes32 {
	return thor.Blake2b(slotPrefix, account.Bytes())
}

// BondingAmount returns the bonded amount of account, zero when it never bonded.
func (s *KVStore) BondingAmount(account thor.PublicKey) (*big.Int, error) {
	data, ok, err := s.storage.ReadLocal(slotOf(account))
	if err != nil {
		return nil, errors.Wrap(err, "read bonding amount")
	}
	amount := stakes.Zero()
	if !ok {
		return amount, nil
	}
	if err := rlp.DecodeBytes(data, amount); err != nil {
		return nil, errors.Wrap(err, "decode bonding amount")
	}
	return amount, nil
}

// SetBondingAmount overwrites the bonded amount of account.
func (s *KVStore) SetBondingAmount(account thor.PublicKey, amount *big.Int) error {
	if !stakes.InRange(amount) {
		return reverts.ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		s.storage.WriteLocal(slotOf(account), nil)
		return nil
	}
	data, err := rlp.EncodeToBytes(amount)
	if err != nil {
		return errors.Wrap(err, "encode bonding amount")
	}
	s.storage.WriteLocal(slotOf(account), data)
	return nil
}
