// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package localstore implements the call-scoped local storage of the staker contract.
// Reads fall through to the backing kv store, writes are journaled in memory and only
// reach the backing store, atomically, on Commit.
package localstore

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/stackedmap"
	"github.com/vechain/stakeledger/thor"
)

// Store is the local storage of one contract invocation.
type Store struct {
	db      kv.Store
	journal *stackedmap.StackedMap[thor.Bytes32, []byte]
}

// New creates the local storage view of the given kv store.
func New(db kv.Store) *Store {
	s := &Store{db: db}
	s.journal = stackedmap.New(s.load)
	return s
}

func (s *Store) load(slot thor.Bytes32) ([]byte, bool, error) {
	val, err := s.db.Get(slot.Bytes())
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "read slot %v", slot.AbbrevString())
	}
	return val, true, nil
}

// ReadLocal returns the value stored in the slot. The boolean is false when the slot is absent.
func (s *Store) ReadLocal(slot thor.Bytes32) ([]byte, bool, error) {
	val, ok, err := s.journal.Get(slot)
	if err != nil {
		return nil, false, err
	}
	if !ok || len(val) == 0 {
		return nil, false, nil
	}
	return val, true, nil
}

// WriteLocal overwrites the slot. An empty value clears it.
func (s *Store) WriteLocal(slot thor.Bytes32, val []byte) {
	s.journal.Put(slot, append([]byte(nil), val...))
}

// Checkpoint records the current state of pending writes and returns its revision.
func (s *Store) Checkpoint() int {
	return s.journal.Push()
}

// RevertTo discards every write made after the checkpoint of the given revision.
func (s *Store) RevertTo(revision int) {
	s.journal.PopTo(revision)
	if s.journal.Depth() == 0 {
		s.journal.Push()
	}
}

// Dirty returns the number of distinct slots written since the store was created.
func (s *Store) Dirty() int {
	keys, _ := s.journal.Changes()
	return len(keys)
}

// Commit flushes every pending write to the backing store in one batch.
// The store is reset afterwards, so it can serve the next invocation.
func (s *Store) Commit() error {
	keys, values := s.journal.Changes()
	if len(keys) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	for i, slot := range keys {
		var err error
		if len(values[i]) == 0 {
			err = batch.Delete(slot.Bytes())
		} else {
			err = batch.Put(slot.Bytes(), values[i])
		}
		if err != nil {
			return errors.Wrap(err, "stage local storage")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit local storage")
	}
	s.journal = stackedmap.New(s.load)
	return nil
}
