// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package contractqueue loads and stores the staker structures from fixed local storage slots.
package contractqueue

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/staker/delegations"
	"github.com/vechain/stakeledger/builtin/staker/requests"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/thor"
)

var logger = log.WithContext("pkg", "contractqueue")

var (
	slotUndelegateRequests = thor.NameToSlot("UNDELEGATE_REQUEST_QUEUE")
	slotRedelegateRequests = thor.NameToSlot("REDELEGATE_REQUEST_QUEUE")
	slotClaimRequests      = thor.NameToSlot("CLAIM_REQUESTS")
	slotDelegations        = thor.NameToSlot("DELEGATIONS")
)

// Kind selects the delegation request queue.
type Kind uint8

const (
	KindUndelegate Kind = iota
	KindRedelegate
)

func (k Kind) String() string {
	switch k {
	case KindUndelegate:
		return "undelegate"
	case KindRedelegate:
		return "redelegate"
	default:
		return "unknown"
	}
}

func (k Kind) slot() thor.Bytes32 {
	if k == KindRedelegate {
		return slotRedelegateRequests
	}
	return slotUndelegateRequests
}

// LocalStorage is the call scoped key value storage of the contract.
type LocalStorage interface {
	ReadLocal(slot thor.Bytes32) ([]byte, bool, error)
	WriteLocal(slot thor.Bytes32, val []byte)
}

// ContractQueue is a pure load/store boundary, nothing is validated here.
type ContractQueue struct {
	storage LocalStorage
}

// New creates a ContractQueue over storage.
func New(storage LocalStorage) *ContractQueue {
	return &ContractQueue{storage: storage}
}

// ReadUndelegateRequests loads the pending undelegations.
func (c *ContractQueue) ReadUndelegateRequests() (*requests.UndelegateQueue, error) {
	return readQueue[requests.UndelegateKey](c.storage, KindUndelegate.slot())
}

// WriteUndelegateRequests overwrites the pending undelegations.
func (c *ContractQueue) WriteUndelegateRequests(queue *requests.UndelegateQueue) error {
	return writeQueue(c.storage, KindUndelegate.slot(), queue)
}

// ReadRedelegateRequests loads the pending redelegations.
func (c *ContractQueue) ReadRedelegateRequests() (*requests.RedelegateQueue, error) {
	return readQueue[requests.RedelegateKey](c.storage, KindRedelegate.slot())
}

// WriteRedelegateRequests overwrites the pending redelegations.
func (c *ContractQueue) WriteRedelegateRequests(queue *requests.RedelegateQueue) error {
	return writeQueue(c.storage, KindRedelegate.slot(), queue)
}

// PendingDelegationRequests returns the number of requests pending in the queue of kind.
func (c *ContractQueue) PendingDelegationRequests(kind Kind) (int, error) {
	switch kind {
	case KindUndelegate:
		q, err := c.ReadUndelegateRequests()
		if err != nil {
			return 0, err
		}
		return q.Len(), nil
	case KindRedelegate:
		q, err := c.ReadRedelegateRequests()
		if err != nil {
			return 0, err
		}
		return q.Len(), nil
	}
	return 0, errors.Errorf("unknown request kind %d", kind)
}

// ReadClaimRequests loads the pending reward claims.
func (c *ContractQueue) ReadClaimRequests() (*requests.ClaimList, error) {
	return readQueue[requests.ClaimKey](c.storage, slotClaimRequests)
}

// WriteClaimRequests overwrites the pending reward claims.
func (c *ContractQueue) WriteClaimRequests(list *requests.ClaimList) error {
	return writeQueue(c.storage, slotClaimRequests, list)
}

// ReadDelegations loads the delegation table. Unlike the queues, a table that can
// not be decoded is an error since dropping it would lose stake.
func (c *ContractQueue) ReadDelegations() ([]*delegations.Entry, error) {
	data, ok, err := c.storage.ReadLocal(slotDelegations)
	if err != nil {
		return nil, errors.Wrap(err, "read delegations")
	}
	if !ok {
		return nil, nil
	}
	var entries []*delegations.Entry
	if err := rlp.DecodeBytes(data, &entries); err != nil {
		return nil, errors.Wrap(err, "decode delegations")
	}
	return entries, nil
}

// WriteDelegations overwrites the delegation table with the ledger rows.
func (c *ContractQueue) WriteDelegations(ledger *delegations.Ledger) error {
	entries := ledger.Entries()
	if len(entries) == 0 {
		c.storage.WriteLocal(slotDelegations, nil)
		return nil
	}
	data, err := rlp.EncodeToBytes(entries)
	if err != nil {
		return errors.Wrap(err, "encode delegations")
	}
	c.storage.WriteLocal(slotDelegations, data)
	return nil
}

// readQueue returns an empty queue when the slot is absent or does not decode.
func readQueue[K comparable](storage LocalStorage, slot thor.Bytes32) (*requests.Queue[K], error) {
	data, ok, err := storage.ReadLocal(slot)
	if err != nil {
		return nil, errors.Wrapf(err, "read slot %v", slot.AbbrevString())
	}
	queue := requests.NewQueue[K]()
	if !ok {
		return queue, nil
	}
	if err := rlp.DecodeBytes(data, queue); err != nil {
		logger.Warn("discarding undecodable request queue", "slot", slot.AbbrevString(), "err", err)
		return requests.NewQueue[K](), nil
	}
	return queue, nil
}

func writeQueue[K comparable](storage LocalStorage, slot thor.Bytes32, queue *requests.Queue[K]) error {
	data, err := rlp.EncodeToBytes(queue)
	if err != nil {
		return errors.Wrapf(err, "encode slot %v", slot.AbbrevString())
	}
	storage.WriteLocal(slot, data)
	return nil
}
