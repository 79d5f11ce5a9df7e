// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/helix-chain/helix/helix"
)

// Order is a single-use exchange instruction embedded in a transfer:
// the maker offers QuantityFrom of AssetTypeFrom against QuantityTo of
// AssetTypeTo, backed by the origin outputs. There is no resting order
// book; an order lives and dies within the transactions that carry it.
type Order struct {
	AssetTypeFrom helix.AssetType
	AssetTypeTo   helix.AssetType
	QuantityFrom  uint64
	QuantityTo    uint64

	// OriginOutputs are the asset outputs whose spending this order controls.
	OriginOutputs []AssetOutPoint

	// Expiration is chain time; the order fails validation once
	// chain time reaches it.
	Expiration uint64

	// Maker authorization binding. Both must match the origin outputs.
	LockScriptHashFrom helix.LockScriptHash
	ParametersFrom     [][]byte
}

// Hash returns hash of the order.
func (o *Order) Hash() helix.Bytes32 {
	return helix.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, o)
	})
}

// ReceivedQuantity returns the exact quantity of AssetTypeTo the maker
// must receive for spending spentQuantity of AssetTypeFrom:
// floor(spent * QuantityTo / QuantityFrom). The taker keeps any
// rounding remainder.
func (o *Order) ReceivedQuantity(spentQuantity uint64) uint64 {
	if o.QuantityFrom == 0 {
		return 0
	}
	// spent*QuantityTo may exceed 64 bits
	v := new(big.Int).Mul(new(big.Int).SetUint64(spentQuantity), new(big.Int).SetUint64(o.QuantityTo))
	v.Div(v, new(big.Int).SetUint64(o.QuantityFrom))
	return v.Uint64()
}

// Consumed returns the residual order left after spending spentQuantity,
// rebased onto the given origin outputs (the change outputs of the
// partially filling transfer). Partial fill chaining is a client-side
// convention; the ledger validates each carrying tx independently.
func (o *Order) Consumed(spentQuantity uint64, originOutputs []AssetOutPoint) *Order {
	received := o.ReceivedQuantity(spentQuantity)
	residual := *o
	residual.QuantityFrom = o.QuantityFrom - spentQuantity
	residual.QuantityTo = o.QuantityTo - received
	residual.OriginOutputs = append([]AssetOutPoint(nil), originOutputs...)
	return &residual
}

// OrderApplication binds one order to a subset of a transfer's inputs
// and outputs, fulfilling spentQuantity of the order's offer side.
type OrderApplication struct {
	Order         *Order
	SpentQuantity uint64
	InputIndices  []uint32
	OutputIndices []uint32
}
