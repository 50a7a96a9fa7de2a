// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"bytes"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// PublicKeyLength length of a compressed secp256k1 public key in bytes.
const PublicKeyLength = secp256k1.PubKeyBytesLenCompressed

// PublicKey identifies a delegator or a validator account.
// It holds the compressed form of a secp256k1 public key.
type PublicKey [PublicKeyLength]byte

// String implements the stringer interface
func (k PublicKey) String() string {
	return hexutil.Encode(k[:])
}

// AbbrevString returns abbrev string presentation.
func (k PublicKey) AbbrevString() string {
	s := k.String()
	return s[:10] + "…" + s[len(s)-6:]
}

// Bytes returns byte slice form of the key.
func (k PublicKey) Bytes() []byte {
	return k[:]
}

// IsZero returns if the key has all zero bytes.
func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

// Compare orders keys by their byte representation.
func (k PublicKey) Compare(other PublicKey) int {
	return bytes.Compare(k[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (k PublicKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParsePublicKey converts a hex presented public key, compressed or not, into PublicKey.
// The point must lie on the secp256k1 curve.
func ParsePublicKey(s string) (PublicKey, error) {
	if !strings.HasPrefix(strings.ToLower(s), "0x") {
		s = "0x" + s
	} else {
		s = "0x" + s[2:]
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "decode public key")
	}
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "parse public key")
	}
	var k PublicKey
	copy(k[:], pub.SerializeCompressed())
	return k, nil
}

// BytesToPublicKey converts bytes slice into PublicKey without validating the curve point.
// If b is larger than the key length, b will be cropped (from the left).
// If b is smaller than the key length, b will be extended (from the left).
func BytesToPublicKey(b []byte) (k PublicKey) {
	if len(b) > len(k) {
		b = b[len(b)-len(k):]
	}
	copy(k[len(k)-len(b):], b)
	return
}
