// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/vechain/stakeledger/builtin/staker/bonding"
	"github.com/vechain/stakeledger/builtin/staker/contractqueue"
	"github.com/vechain/stakeledger/builtin/staker/delegations"
	"github.com/vechain/stakeledger/builtin/staker/localstore"
	"github.com/vechain/stakeledger/builtin/staker/reverts"
)

const (
	resultOK     = "ok"
	resultRevert = "revert"
	resultError  = "error"
)

// invocation is a single read-modify-write cycle over the contract storage.
// Nothing it loads outlives it, its writes live above a checkpoint of the local store.
type invocation struct {
	local   *localstore.Store
	queues  *contractqueue.ContractQueue
	bonding *bonding.KVStore
}

func (inv *invocation) ledger() (*delegations.Ledger, error) {
	entries, err := inv.queues.ReadDelegations()
	if err != nil {
		return nil, err
	}
	return delegations.New(entries, inv.bonding), nil
}

// invoke runs fn above a checkpoint of the local store. Writes are committed when fn
// succeeds and reverted to the checkpoint otherwise.
func (s *Staker) invoke(op string, fn func(inv *invocation) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkpoint := s.local.Checkpoint()
	inv := &invocation{
		local:   s.local,
		queues:  contractqueue.New(s.local),
		bonding: bonding.NewKVStore(s.local),
	}

	if err := fn(inv); err != nil {
		result := resultError
		if reverts.IsRevertErr(err) {
			result = resultRevert
		}
		metricOps().AddWithLabel(1, map[string]string{"op": op, "result": result})
		logger.Debug("invocation reverted", "op", op, "dirty", s.local.Dirty(), "err", err)
		s.local.RevertTo(checkpoint)
		return internal(err, op)
	}

	if err := s.local.Commit(); err != nil {
		metricOps().AddWithLabel(1, map[string]string{"op": op, "result": resultError})
		s.local.RevertTo(checkpoint)
		return internal(err, op)
	}
	metricOps().AddWithLabel(1, map[string]string{"op": op, "result": resultOK})
	return nil
}
