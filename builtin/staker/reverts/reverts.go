// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts holds the errors that reject a staking call. A revert is the
// expected outcome of invalid input; any other error is an internal failure.
package reverts

import (
	"errors"
)

// Kind is the semantic category of a revert.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindPolicyViolation
	KindDuplicateRequest
	KindClockViolation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindPolicyViolation:
		return "policy-violation"
	case KindDuplicateRequest:
		return "duplicate-request"
	case KindClockViolation:
		return "clock-violation"
	default:
		return "unknown"
	}
}

var (
	ErrDelegationsNotFound = newKind(KindNotFound, "delegation not found")
	ErrNotSelfDelegated    = newKind(KindPolicyViolation, "validator is not self-delegated")
	ErrDelegateTooLarge    = newKind(KindPolicyViolation, "delegation exceeds the undelegated bonded amount")
	ErrUndelegateTooLarge  = newKind(KindPolicyViolation, "undelegation exceeds the delegated amount")
	ErrInvalidAmount       = newKind(KindPolicyViolation, "invalid amount")
	ErrUnbondTooLarge      = newKind(KindPolicyViolation, "unbond exceeds the bonded amount not delegated")
	ErrSameValidator       = newKind(KindPolicyViolation, "source and destination validator are the same")
	ErrMultipleRequests    = newKind(KindDuplicateRequest, "request already pending")
	ErrTimeWentBackwards   = newKind(KindClockViolation, "request timestamp precedes the last request")
)

type ErrRevert struct {
	kind    Kind
	message string
}

func newKind(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Kind returns the category of the revert.
func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the category of the revert wrapped in err, or KindUnknown.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return KindUnknown
}
