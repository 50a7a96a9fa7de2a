// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package requests holds the time-gated request queues.
//
// A queue keeps pending requests in insertion order. Callers push with a
// non-decreasing clock and drain everything that matured up to a cutoff.
package requests

import (
	"io"
	"iter"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakeledger/builtin/staker/reverts"
	"github.com/vechain/stakeledger/builtin/staker/stakes"
)

// Entry is one pending request.
type Entry[K comparable] struct {
	Key       K
	Amount    *big.Int
	Timestamp uint64
}

// Queue is an insertion ordered set of pending requests, at most one per key.
type Queue[K comparable] struct {
	entries       []*Entry[K]
	index         map[K]struct{}
	lastTimestamp uint64
}

// NewQueue returns an empty queue.
func NewQueue[K comparable]() *Queue[K] {
	return &Queue[K]{index: make(map[K]struct{})}
}

// Push appends a request.
// The timestamp must not precede the one of the previous push, whether or not that
// request is still queued.
func (q *Queue[K]) Push(key K, amount *big.Int, timestamp uint64) error {
	if timestamp < q.lastTimestamp {
		return reverts.ErrTimeWentBackwards
	}
	if q.Has(key) {
		return reverts.ErrMultipleRequests
	}
	if !stakes.InRange(amount) {
		return reverts.ErrInvalidAmount
	}
	if q.index == nil {
		q.index = make(map[K]struct{})
	}

	q.entries = append(q.entries, &Entry[K]{
		Key:       key,
		Amount:    stakes.Copy(amount),
		Timestamp: timestamp,
	})
	q.index[key] = struct{}{}
	q.lastTimestamp = timestamp
	return nil
}

// PopDue removes and returns, in insertion order, every request with a timestamp
// at or before cutoff.
func (q *Queue[K]) PopDue(cutoff uint64) []*Entry[K] {
	var (
		due  []*Entry[K]
		kept = q.entries[:0]
	)
	for _, e := range q.entries {
		if e.Timestamp <= cutoff {
			due = append(due, e)
			delete(q.index, e.Key)
		} else {
			kept = append(kept, e)
		}
	}
	clear(q.entries[len(kept):])
	q.entries = kept
	return due
}

// Get returns the pending request of key.
func (q *Queue[K]) Get(key K) (*Entry[K], bool) {
	if _, ok := q.index[key]; !ok {
		return nil, false
	}
	for _, e := range q.entries {
		if e.Key == key {
			return copyEntry(e), true
		}
	}
	return nil, false
}

// Has reports whether a request is pending for key.
func (q *Queue[K]) Has(key K) bool {
	_, ok := q.index[key]
	return ok
}

// Len returns the number of pending requests.
func (q *Queue[K]) Len() int {
	return len(q.entries)
}

// LastTimestamp returns the timestamp of the most recent push.
func (q *Queue[K]) LastTimestamp() uint64 {
	return q.lastTimestamp
}

// Iter yields the pending requests in insertion order.
func (q *Queue[K]) Iter() iter.Seq[*Entry[K]] {
	return func(yield func(*Entry[K]) bool) {
		for _, e := range q.entries {
			if !yield(copyEntry(e)) {
				return
			}
		}
	}
}

// Entries returns a copy of the pending requests in insertion order.
func (q *Queue[K]) Entries() []*Entry[K] {
	entries := make([]*Entry[K], 0, len(q.entries))
	for e := range q.Iter() {
		entries = append(entries, e)
	}
	return entries
}

type queueRLP[K comparable] struct {
	Entries       []*Entry[K]
	LastTimestamp uint64
}

// EncodeRLP implements rlp.Encoder.
func (q *Queue[K]) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &queueRLP[K]{
		Entries:       q.entries,
		LastTimestamp: q.lastTimestamp,
	})
}

// DecodeRLP implements rlp.Decoder.
func (q *Queue[K]) DecodeRLP(s *rlp.Stream) error {
	var dec queueRLP[K]
	if err := s.Decode(&dec); err != nil {
		return err
	}

	decoded := NewQueue[K]()
	decoded.lastTimestamp = dec.LastTimestamp
	var prev uint64
	for _, e := range dec.Entries {
		if _, ok := decoded.index[e.Key]; ok {
			return reverts.ErrMultipleRequests
		}
		if e.Timestamp < prev || e.Timestamp > decoded.lastTimestamp {
			return reverts.ErrTimeWentBackwards
		}
		prev = e.Timestamp
		if e.Amount == nil {
			e.Amount = stakes.Zero()
		}
		decoded.entries = append(decoded.entries, e)
		decoded.index[e.Key] = struct{}{}
	}
	*q = *decoded
	return nil
}

func copyEntry[K comparable](e *Entry[K]) *Entry[K] {
	return &Entry[K]{
		Key:       e.Key,
		Amount:    stakes.Copy(e.Amount),
		Timestamp: e.Timestamp,
	}
}
