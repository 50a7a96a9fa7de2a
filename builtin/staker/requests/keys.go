// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requests

import (
	"github.com/vechain/stakeledger/thor"
)

// UndelegateKey identifies a pending undelegation.
type UndelegateKey struct {
	Delegator thor.PublicKey
	Validator thor.PublicKey
}

// RedelegateKey identifies a pending redelegation.
type RedelegateKey struct {
	Delegator thor.PublicKey
	Src       thor.PublicKey
	Dest      thor.PublicKey
}

// ClaimKey identifies a pending reward claim. A claimant has at most one.
type ClaimKey struct {
	Claimant thor.PublicKey
}

type (
	UndelegateQueue = Queue[UndelegateKey]
	RedelegateQueue = Queue[RedelegateKey]
	// ClaimList holds pending reward claims, one per claimant.
	ClaimList = Queue[ClaimKey]
)

// NewClaimList returns an empty claim list.
func NewClaimList() *ClaimList {
	return NewQueue[ClaimKey]()
}
