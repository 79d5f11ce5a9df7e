// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/binary"

	"github.com/helix-chain/helix/helix"
)

// OutPoint is the registry key of an asset output.
type OutPoint struct {
	TxHash helix.Bytes32
	Index  uint32
}

// Bytes returns the persisted key form of the out point.
func (op OutPoint) Bytes() []byte {
	var b [36]byte
	copy(b[:32], op.TxHash[:])
	binary.BigEndian.PutUint32(b[32:], op.Index)
	return b[:]
}

// AssetOutput is an unspent asset output. An output is either present
// (spendable exactly once) or deleted; there is no spent marker.
type AssetOutput struct {
	AssetType      helix.AssetType
	Quantity       uint64
	LockScriptHash helix.LockScriptHash
	Parameters     [][]byte
	ShardID        uint16
}
