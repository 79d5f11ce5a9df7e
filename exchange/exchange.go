// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package exchange validates and applies asset transfer actions,
// including transfers carrying embedded order applications.
//
// There is no resting order book. Every order is fully specified and
// settled within the single transaction that carries it; a partial
// fill is the client resubmitting a residual order against the change
// outputs of the previous fill, and cancellation is spending the
// origin outputs without any order application.
package exchange

import (
	"bytes"

	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/state"
	"github.com/helix-chain/helix/tx"
)

// Validator validates transfer actions against a ledger view at a
// fixed chain time.
type Validator struct {
	state     *state.State
	chainTime uint64
}

// New creates a validator over the given state.
// chainTime is the timestamp of the block being applied; order
// expiration is evaluated against it, never against a wall clock.
func New(st *state.State, chainTime uint64) *Validator {
	return &Validator{st, chainTime}
}

// ApplyTransfer validates the transfer and, on success, consumes all
// inputs and registers all outputs under the carrying tx hash.
// On failure the state is untouched and a rule error describes the
// first violated check.
func (v *Validator) ApplyTransfer(txHash helix.Bytes32, transfer *tx.TransferAsset) error {
	prevouts, err := v.resolveInputs(transfer)
	if err != nil {
		return err
	}
	for _, out := range transfer.Outputs {
		if out.Quantity == 0 {
			return tx.NewRuleError(tx.ErrInvalidAssetQuantity, "zero quantity output")
		}
	}

	for _, app := range transfer.Orders {
		if err := v.validateOrder(transfer, prevouts, app); err != nil {
			return err
		}
	}
	if err := checkOrdersDisjoint(transfer.Orders); err != nil {
		return err
	}
	if err := checkConservation(transfer, prevouts); err != nil {
		return err
	}

	// all checks passed; mutate the registry
	for _, in := range transfer.Inputs {
		v.state.RemoveAssetOutput(state.OutPoint{TxHash: in.PrevOut.TxHash, Index: in.PrevOut.Index})
	}
	for i, out := range transfer.Outputs {
		v.state.AddAssetOutput(
			state.OutPoint{TxHash: txHash, Index: uint32(i)},
			&state.AssetOutput{
				AssetType:      out.AssetType,
				Quantity:       out.Quantity,
				LockScriptHash: out.LockScriptHash,
				Parameters:     out.Parameters,
				ShardID:        out.ShardID,
			})
	}
	return nil
}

// resolveInputs looks up every input's unspent output and verifies the
// declared asset type, quantity and lock script against the ledger.
func (v *Validator) resolveInputs(transfer *tx.TransferAsset) ([]*state.AssetOutput, error) {
	if len(transfer.Inputs) == 0 {
		return nil, tx.NewRuleError(tx.ErrInconsistentTransferInOut, "no inputs")
	}
	seen := make(map[state.OutPoint]bool, len(transfer.Inputs))
	prevouts := make([]*state.AssetOutput, len(transfer.Inputs))
	for i, in := range transfer.Inputs {
		op := state.OutPoint{TxHash: in.PrevOut.TxHash, Index: in.PrevOut.Index}
		if seen[op] {
			return nil, tx.NewRuleError(tx.ErrAssetNotFound, "%v:%d referenced twice", op.TxHash, op.Index)
		}
		seen[op] = true

		utxo, err := v.state.GetAssetOutput(op)
		if err != nil {
			return nil, err
		}
		if utxo == nil {
			return nil, tx.NewRuleError(tx.ErrAssetNotFound, "%v:%d not found or spent", op.TxHash, op.Index)
		}
		if utxo.AssetType != in.PrevOut.AssetType || utxo.Quantity != in.PrevOut.Quantity {
			return nil, tx.NewRuleError(tx.ErrInvalidAssetQuantity,
				"input %d declares %v:%d, ledger has %v:%d",
				i, in.PrevOut.AssetType, in.PrevOut.Quantity, utxo.AssetType, utxo.Quantity)
		}
		if helix.LockScriptHashOf(in.LockScript) != utxo.LockScriptHash {
			return nil, tx.NewRuleError(tx.ErrInvalidTransferLockScript, "input %d", i)
		}
		prevouts[i] = utxo
	}
	return prevouts, nil
}

// validateOrder runs the order application checks in their normative
// sequence; the first failing check decides the reported error kind.
func (v *Validator) validateOrder(transfer *tx.TransferAsset, prevouts []*state.AssetOutput, app *tx.OrderApplication) error {
	order := app.Order
	if order == nil {
		return tx.NewRuleError(tx.ErrInvalidOriginOutputs, "missing order")
	}

	for _, idx := range app.InputIndices {
		if int(idx) >= len(transfer.Inputs) {
			return tx.NewRuleError(tx.ErrInvalidOriginOutputs, "input index %d out of range", idx)
		}
	}
	for _, idx := range app.OutputIndices {
		if int(idx) >= len(transfer.Outputs) {
			return tx.NewRuleError(tx.ErrInconsistentTransferInOutWithOrders, "output index %d out of range", idx)
		}
	}

	// 1. origin outputs must exactly match the order-bound inputs
	if err := checkOriginOutputs(transfer, order, app.InputIndices); err != nil {
		return err
	}

	// 2. an order must exchange distinct asset types
	if order.AssetTypeFrom == order.AssetTypeTo {
		return tx.NewRuleError(tx.ErrInvalidOrderAssetTypes, "%v on both sides", order.AssetTypeFrom)
	}

	// 3. both sides of the ratio must be nonzero
	if order.QuantityFrom == 0 || order.QuantityTo == 0 {
		return tx.NewRuleError(tx.ErrInvalidOrderAssetQuantities, "%d/%d", order.QuantityFrom, order.QuantityTo)
	}

	// 4. expiration is a strict chain-time bound
	if order.Expiration <= v.chainTime {
		return tx.NewRuleError(tx.ErrOrderExpired, "expired at %d, chain time %d", order.Expiration, v.chainTime)
	}

	// 5. maker authorization must match the origin outputs
	for _, idx := range app.InputIndices {
		utxo := prevouts[idx]
		if utxo.LockScriptHash != order.LockScriptHashFrom {
			return tx.NewRuleError(tx.ErrInvalidOrderLockScriptHash,
				"origin output locked to %v, order declares %v", utxo.LockScriptHash, order.LockScriptHashFrom)
		}
		if !parametersEqual(utxo.Parameters, order.ParametersFrom) {
			return tx.NewRuleError(tx.ErrInvalidOrderParameters, "origin output parameters mismatch")
		}
	}

	return v.checkOrderQuantities(transfer, prevouts, app)
}

// checkOriginOutputs verifies that the order's origin outputs equal,
// as a set, the previous outputs of the inputs at inputIndices.
func checkOriginOutputs(transfer *tx.TransferAsset, order *tx.Order, inputIndices []uint32) error {
	if len(order.OriginOutputs) == 0 {
		return tx.NewRuleError(tx.ErrInvalidOriginOutputs, "empty origin outputs")
	}
	if len(order.OriginOutputs) != len(inputIndices) {
		return tx.NewRuleError(tx.ErrInvalidOriginOutputs,
			"%d origin outputs, %d order-bound inputs", len(order.OriginOutputs), len(inputIndices))
	}
	remaining := make(map[state.OutPoint]int, len(order.OriginOutputs))
	for _, origin := range order.OriginOutputs {
		remaining[state.OutPoint{TxHash: origin.TxHash, Index: origin.Index}]++
	}
	for _, idx := range inputIndices {
		prev := transfer.Inputs[idx].PrevOut
		op := state.OutPoint{TxHash: prev.TxHash, Index: prev.Index}
		if remaining[op] == 0 {
			return tx.NewRuleError(tx.ErrInvalidOriginOutputs, "input %v:%d not an origin output", op.TxHash, op.Index)
		}
		remaining[op]--
	}
	return nil
}

// checkOrderQuantities enforces the output-count bound and the exact
// ratio arithmetic of one order application.
func (v *Validator) checkOrderQuantities(transfer *tx.TransferAsset, prevouts []*state.AssetOutput, app *tx.OrderApplication) error {
	order := app.Order

	if app.SpentQuantity > order.QuantityFrom {
		return tx.NewRuleError(tx.ErrInconsistentTransferInOutWithOrders,
			"spent %d exceeds offered %d", app.SpentQuantity, order.QuantityFrom)
	}

	var (
		fromOutputs, toOutputs   int
		fromQuantity, toQuantity uint64
	)
	for _, idx := range app.OutputIndices {
		out := transfer.Outputs[idx]
		switch out.AssetType {
		case order.AssetTypeFrom:
			fromOutputs++
			fromQuantity += out.Quantity
		case order.AssetTypeTo:
			toOutputs++
			toQuantity += out.Quantity
		default:
			return tx.NewRuleError(tx.ErrInconsistentTransferInOutWithOrders,
				"order-bound output carries foreign asset %v", out.AssetType)
		}
		// order-bound outputs belong to the maker
		if out.LockScriptHash != order.LockScriptHashFrom || !parametersEqual(out.Parameters, order.ParametersFrom) {
			return tx.NewRuleError(tx.ErrInconsistentTransferInOutWithOrders,
				"order-bound output %d not owned by maker", idx)
		}
	}

	// 6. at most remainder + payment per side
	if fromOutputs > helix.MaxOrderBoundOutputs || toOutputs > helix.MaxOrderBoundOutputs {
		return tx.NewRuleError(tx.ErrInconsistentTransferInOutWithOrders,
			"%d/%d order-bound outputs per side, at most %d", fromOutputs, toOutputs, helix.MaxOrderBoundOutputs)
	}

	// 7. exact ratio: the maker gets floor(spent*to/from) of the asked
	// asset and the untouched remainder of the offered one.
	var inputFromQuantity uint64
	for _, idx := range app.InputIndices {
		utxo := prevouts[idx]
		if utxo.AssetType == order.AssetTypeFrom {
			inputFromQuantity += utxo.Quantity
		}
	}
	if inputFromQuantity < app.SpentQuantity {
		return tx.NewRuleError(tx.ErrInconsistentTransferInOutWithOrders,
			"order-bound inputs hold %d, spending %d", inputFromQuantity, app.SpentQuantity)
	}
	if want := inputFromQuantity - app.SpentQuantity; fromQuantity != want {
		return tx.NewRuleError(tx.ErrInconsistentTransferInOutWithOrders,
			"maker change %d, want %d", fromQuantity, want)
	}
	if want := order.ReceivedQuantity(app.SpentQuantity); toQuantity != want {
		return tx.NewRuleError(tx.ErrInconsistentTransferInOutWithOrders,
			"maker receives %d, want %d", toQuantity, want)
	}
	return nil
}

// checkOrdersDisjoint rejects cross-order input/output sharing.
// Independent order applications settle against disjoint index subsets.
func checkOrdersDisjoint(orders []*tx.OrderApplication) error {
	usedInputs := make(map[uint32]bool)
	usedOutputs := make(map[uint32]bool)
	for _, app := range orders {
		for _, idx := range app.InputIndices {
			if usedInputs[idx] {
				return tx.NewRuleError(tx.ErrInconsistentTransferInOutWithOrders,
					"input %d bound by two orders", idx)
			}
			usedInputs[idx] = true
		}
		for _, idx := range app.OutputIndices {
			if usedOutputs[idx] {
				return tx.NewRuleError(tx.ErrInconsistentTransferInOutWithOrders,
					"output %d bound by two orders", idx)
			}
			usedOutputs[idx] = true
		}
	}
	return nil
}

// checkConservation verifies per-asset-type quantity conservation over
// the whole transfer. Orders reassign ownership, never quantity, so
// the rule holds with and without them.
func checkConservation(transfer *tx.TransferAsset, prevouts []*state.AssetOutput) error {
	sums := make(map[helix.AssetType]quantityPair)
	for _, utxo := range prevouts {
		p := sums[utxo.AssetType]
		p.in += utxo.Quantity
		sums[utxo.AssetType] = p
	}
	for _, out := range transfer.Outputs {
		p := sums[out.AssetType]
		p.out += out.Quantity
		sums[out.AssetType] = p
	}
	for assetType, p := range sums {
		if p.in != p.out {
			kind := tx.ErrInconsistentTransferInOut
			if len(transfer.Orders) > 0 {
				kind = tx.ErrInconsistentTransferInOutWithOrders
			}
			return tx.NewRuleError(kind, "%v: %d in, %d out", assetType, p.in, p.out)
		}
	}
	return nil
}

type quantityPair struct {
	in, out uint64
}

func parametersEqual(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
