// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"slices"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/vechain/stakeledger/thor"
)

// RandPublicKey returns the compressed public key of a fresh secp256k1 key pair.
func RandPublicKey() thor.PublicKey {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		panic(err)
	}
	return thor.BytesToPublicKey(priv.PubKey().SerializeCompressed())
}

// RandSortedPublicKeys returns n distinct keys in ascending order.
func RandSortedPublicKeys(n int) []thor.PublicKey {
	keys := make([]thor.PublicKey, 0, n)
	for len(keys) < n {
		k := RandPublicKey()
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, thor.PublicKey.Compare)
	return keys
}
