// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/helix-chain/helix/helix"
)

// ActionKind tags a tx action variant on the wire.
type ActionKind uint8

// Action kinds.
const (
	KindPay ActionKind = iota + 1
	KindMintAsset
	KindTransferAsset
	KindSetRegularKey
	KindTransferStake
	KindDelegateStake
	KindRevokeStake
)

func (k ActionKind) String() string {
	switch k {
	case KindPay:
		return "pay"
	case KindMintAsset:
		return "mintAsset"
	case KindTransferAsset:
		return "transferAsset"
	case KindSetRegularKey:
		return "setRegularKey"
	case KindTransferStake:
		return "transferStake"
	case KindDelegateStake:
		return "delegateStake"
	case KindRevokeStake:
		return "revokeStake"
	}
	return "unknown"
}

// Action is the payload of a transaction. Exactly one variant
// is carried per tx.
type Action interface {
	Kind() ActionKind
}

// Pay moves quantity of the chain coin from origin to the recipient.
type Pay struct {
	To       helix.Address
	Quantity *big.Int
}

// Kind implements Action.
func (*Pay) Kind() ActionKind { return KindPay }

// MintAsset creates a brand new asset type with the whole supply
// assigned to a single output.
type MintAsset struct {
	ShardID uint16
	Output  *MintOutput
}

// MintOutput describes the output of a mint action.
type MintOutput struct {
	LockScriptHash helix.LockScriptHash
	Parameters     [][]byte
	Supply         uint64
}

// Kind implements Action.
func (*MintAsset) Kind() ActionKind { return KindMintAsset }

// TransferAsset consumes asset inputs and produces asset outputs,
// optionally settling embedded order applications.
type TransferAsset struct {
	Inputs  []*TransferInput
	Outputs []*TransferOutput
	Orders  []*OrderApplication
}

// Kind implements Action.
func (*TransferAsset) Kind() ActionKind { return KindTransferAsset }

// SetRegularKey binds a regular public key to the origin account.
// Txs signed with the regular key act on behalf of the origin.
type SetRegularKey struct {
	Key []byte
}

// Kind implements Action.
func (*SetRegularKey) Kind() ActionKind { return KindSetRegularKey }

// TransferStake moves stake tokens from origin to the recipient.
type TransferStake struct {
	To       helix.Address
	Quantity uint64
}

// Kind implements Action.
func (*TransferStake) Kind() ActionKind { return KindTransferStake }

// DelegateStake delegates stake tokens from origin to a validator.
type DelegateStake struct {
	Delegatee helix.Address
	Quantity  uint64
}

// Kind implements Action.
func (*DelegateStake) Kind() ActionKind { return KindDelegateStake }

// RevokeStake takes back stake tokens previously delegated.
type RevokeStake struct {
	Delegatee helix.Address
	Quantity  uint64
}

// Kind implements Action.
func (*RevokeStake) Kind() ActionKind { return KindRevokeStake }

// DecodeAction decodes an RLP encoded action payload of the given kind.
func DecodeAction(kind ActionKind, data []byte) (Action, error) {
	var action Action
	switch kind {
	case KindPay:
		action = &Pay{}
	case KindMintAsset:
		action = &MintAsset{}
	case KindTransferAsset:
		action = &TransferAsset{}
	case KindSetRegularKey:
		action = &SetRegularKey{}
	case KindTransferStake:
		action = &TransferStake{}
	case KindDelegateStake:
		action = &DelegateStake{}
	case KindRevokeStake:
		action = &RevokeStake{}
	default:
		return nil, errors.Errorf("unknown action kind %d", kind)
	}
	if err := rlp.DecodeBytes(data, action); err != nil {
		return nil, errors.WithMessage(err, "decode action")
	}
	return action, nil
}
