// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublicKey(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	compressed := priv.PubKey().SerializeCompressed()
	uncompressed := priv.PubKey().SerializeUncompressed()

	fromCompressed, err := ParsePublicKey(hexutil.Encode(compressed))
	require.NoError(t, err)
	assert.Equal(t, compressed, fromCompressed.Bytes())

	// no prefix, uncompressed form
	fromUncompressed, err := ParsePublicKey(hexutil.Encode(uncompressed)[2:])
	require.NoError(t, err)
	assert.Equal(t, fromCompressed, fromUncompressed)

	_, err = ParsePublicKey("0x1234")
	assert.Error(t, err)

	_, err = ParsePublicKey("0xzz")
	assert.Error(t, err)
}

func TestPublicKeyText(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	k := BytesToPublicKey(priv.PubKey().SerializeCompressed())

	text, err := k.MarshalText()
	require.NoError(t, err)

	var decoded PublicKey
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, k, decoded)
}

func TestPublicKeyCompare(t *testing.T) {
	a := BytesToPublicKey([]byte{1})
	b := BytesToPublicKey([]byte{2})

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, PublicKey{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestBytes32(t *testing.T) {
	slot := NameToSlot("CLAIM_REQUESTS")
	assert.Equal(t, Blake2b([]byte("CLAIM_REQUESTS")), slot)
	assert.NotEqual(t, slot, Blake2b([]byte("CLAIM_"), []byte("REQUESTS2")))
	assert.Equal(t, Blake2b([]byte("CLAIM_REQUESTS")), Blake2b([]byte("CLAIM_"), []byte("REQUESTS")))

	assert.Len(t, slot.String(), 66)
	assert.True(t, Bytes32{}.IsZero())
}
