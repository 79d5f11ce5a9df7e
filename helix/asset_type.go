// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package helix

import (
	"encoding/hex"
	"errors"
	"strings"
)

// AssetTypeLength length of asset type identifier in bytes.
const AssetTypeLength = 20

// AssetType 160-bit identifier of a fungible asset.
// It is derived from the minting transaction, so two distinct mints
// never collide on asset type.
type AssetType [AssetTypeLength]byte

// String implements the stringer interface.
func (t AssetType) String() string {
	return "0x" + hex.EncodeToString(t[:])
}

// Bytes returns byte slice form of asset type.
func (t AssetType) Bytes() []byte {
	return t[:]
}

// IsZero returns if asset type has all zero bytes.
func (t AssetType) IsZero() bool {
	return t == AssetType{}
}

// ParseAssetType convert string presented asset type into AssetType type.
func ParseAssetType(s string) (*AssetType, error) {
	if len(s) == AssetTypeLength*2 {
	} else if len(s) == AssetTypeLength*2+2 {
		if strings.ToLower(s[:2]) != "0x" {
			return nil, errors.New("invalid prefix")
		}
		s = s[2:]
	} else {
		return nil, errors.New("invalid length")
	}

	var at AssetType
	_, err := hex.Decode(at[:], []byte(s))
	if err != nil {
		return nil, err
	}
	return &at, nil
}

// AssetTypeOf derives the asset type minted by the transaction with the given hash.
func AssetTypeOf(txHash Bytes32) AssetType {
	return AssetType(Blake2b160(txHash[:]))
}

// LockScriptHash 160-bit digest of a lock script, identifying the
// spending condition of an asset output.
type LockScriptHash [20]byte

// String implements the stringer interface.
func (h LockScriptHash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Bytes returns byte slice form of lock script hash.
func (h LockScriptHash) Bytes() []byte {
	return h[:]
}

// IsZero returns if lock script hash has all zero bytes.
func (h LockScriptHash) IsZero() bool {
	return h == LockScriptHash{}
}

// LockScriptHashOf computes the lock script hash of the given lock script.
func LockScriptHashOf(script []byte) LockScriptHash {
	return LockScriptHash(Blake2b160(script))
}
