// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/helix-chain/helix/helix"
)

// AssetOutPoint references an asset output by the creating tx and
// its output index. Asset type and quantity are declared redundantly
// and verified against the ledger on spend.
type AssetOutPoint struct {
	TxHash    helix.Bytes32
	Index     uint32
	AssetType helix.AssetType
	Quantity  uint64
}

// TransferInput consumes one asset output.
type TransferInput struct {
	PrevOut      AssetOutPoint
	LockScript   []byte
	UnlockParams [][]byte
}

// TransferOutput creates one asset output.
type TransferOutput struct {
	LockScriptHash helix.LockScriptHash
	Parameters     [][]byte
	AssetType      helix.AssetType
	ShardID        uint16
	Quantity       uint64
}
