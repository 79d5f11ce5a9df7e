// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime applies individual transactions to a ledger state.
//
// Every execution is framed by a state checkpoint: a rule failure
// reverts all sub-ledger mutations and yields a not-applied receipt,
// while storage failures abort execution without a receipt.
package runtime

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/helix-chain/helix/exchange"
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/metrics"
	"github.com/helix-chain/helix/staking"
	"github.com/helix-chain/helix/state"
	"github.com/helix-chain/helix/tx"
)

var (
	metricTxApplied  = metrics.NewCounter("runtime_tx_applied_total")
	metricTxRejected = metrics.NewCounterVec("runtime_tx_rejected_total", "kind")
)

// Context the block environment transactions execute in.
type Context struct {
	Number uint32
	Time   uint64
	Author helix.Address
}

// Runtime executes transactions against a state within a block context.
type Runtime struct {
	state      *state.State
	ctx        *Context
	config     *helix.Config
	validators staking.ValidatorSet
}

// New creates a runtime.
// validators supplies the active validator set for delegation checks;
// it may be nil on networks without delegations.
func New(st *state.State, ctx *Context, config *helix.Config, validators staking.ValidatorSet) *Runtime {
	return &Runtime{st, ctx, config, validators}
}

// State returns the state the runtime operates on.
func (rt *Runtime) State() *state.State {
	return rt.state
}

// Context returns the block context.
func (rt *Runtime) Context() *Context {
	return rt.ctx
}

// ExecuteTransaction validates and applies the transaction, producing
// its receipt. A rule failure reverts all mutations and is reported in
// the receipt, not as an error; a non-nil error means storage trouble
// and the state must be discarded.
func (rt *Runtime) ExecuteTransaction(transaction *tx.Transaction) (*tx.Receipt, error) {
	checkpoint := rt.state.NewCheckpoint()

	fee, err := rt.executeTransaction(transaction)
	if err != nil {
		rt.state.RevertTo(checkpoint)
		if ruleErr, ok := tx.AsRuleError(err); ok {
			metricTxRejected.Add(1, ruleErr.Kind().String())
			return &tx.Receipt{
				TxHash:    transaction.Hash(),
				Applied:   false,
				ErrorKind: ruleErr.Kind(),
				Fee:       new(big.Int),
			}, nil
		}
		return nil, err
	}

	metricTxApplied.Add(1)
	return &tx.Receipt{
		TxHash:  transaction.Hash(),
		Applied: true,
		Fee:     fee,
	}, nil
}

func (rt *Runtime) executeTransaction(transaction *tx.Transaction) (*big.Int, error) {
	if transaction.NetworkID() != rt.config.NetworkID {
		return nil, tx.NewRuleError(tx.ErrInvalidNetworkID,
			"tx for network %#x, this is %#x", transaction.NetworkID(), rt.config.NetworkID)
	}

	signer, err := transaction.Origin()
	if err != nil {
		return nil, tx.NewRuleError(tx.ErrInvalidSignature, "%v", err)
	}
	// a signature by a registered regular key acts for its owner
	origin := signer
	if owner, err := rt.state.GetRegularKeyOwner(signer); err != nil {
		return nil, err
	} else if !owner.IsZero() {
		origin = owner
	}

	seq, err := rt.state.GetSeq(origin)
	if err != nil {
		return nil, err
	}
	if transaction.Seq() != seq {
		return nil, tx.NewRuleError(tx.ErrInvalidSeq, "tx seq %d, account seq %d", transaction.Seq(), seq)
	}

	fee := transaction.Fee()
	if fee.Cmp(rt.config.MinTxFee) < 0 {
		return nil, tx.NewRuleError(tx.ErrTooLowFee, "fee %v below floor %v", fee, rt.config.MinTxFee)
	}
	balance, err := rt.state.GetBalance(origin)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(fee) < 0 {
		return nil, tx.NewRuleError(tx.ErrNotEnoughBalance, "balance %v, fee %v", balance, fee)
	}

	if err := rt.state.SetBalance(origin, new(big.Int).Sub(balance, fee)); err != nil {
		return nil, err
	}
	if err := rt.state.SetSeq(origin, seq+1); err != nil {
		return nil, err
	}

	if err := rt.applyAction(transaction, origin); err != nil {
		return nil, err
	}
	return fee, nil
}

func (rt *Runtime) applyAction(transaction *tx.Transaction, origin helix.Address) error {
	switch action := transaction.Action().(type) {
	case *tx.Pay:
		return rt.applyPay(origin, action)
	case *tx.MintAsset:
		return rt.applyMint(transaction.Hash(), action)
	case *tx.TransferAsset:
		return exchange.New(rt.state, rt.ctx.Time).ApplyTransfer(transaction.Hash(), action)
	case *tx.SetRegularKey:
		return rt.applySetRegularKey(origin, action)
	case *tx.TransferStake:
		return rt.stakingLedger().Transfer(origin, action.To, action.Quantity)
	case *tx.DelegateStake:
		return rt.stakingLedger().Delegate(origin, action.Delegatee, action.Quantity)
	case *tx.RevokeStake:
		return rt.stakingLedger().Revoke(origin, action.Delegatee, action.Quantity)
	}
	return errors.Errorf("runtime: unhandled action kind %v", transaction.Action().Kind())
}

func (rt *Runtime) stakingLedger() *staking.Staking {
	return staking.New(rt.state, rt.validators, rt.config.EnableDelegations)
}

func (rt *Runtime) applyPay(origin helix.Address, action *tx.Pay) error {
	if action.Quantity == nil || action.Quantity.Sign() < 0 {
		return tx.NewRuleError(tx.ErrInvalidAssetQuantity, "negative payment")
	}
	balance, err := rt.state.GetBalance(origin)
	if err != nil {
		return err
	}
	if balance.Cmp(action.Quantity) < 0 {
		return tx.NewRuleError(tx.ErrNotEnoughBalance, "balance %v, paying %v", balance, action.Quantity)
	}
	if err := rt.state.SetBalance(origin, new(big.Int).Sub(balance, action.Quantity)); err != nil {
		return err
	}
	toBalance, err := rt.state.GetBalance(action.To)
	if err != nil {
		return err
	}
	return rt.state.SetBalance(action.To, new(big.Int).Add(toBalance, action.Quantity))
}

// applyMint creates the whole supply of a brand new asset type as a
// single output at index 0 of the minting tx.
func (rt *Runtime) applyMint(txHash helix.Bytes32, action *tx.MintAsset) error {
	if action.Output == nil || action.Output.Supply == 0 {
		return tx.NewRuleError(tx.ErrInvalidAssetQuantity, "zero supply mint")
	}
	rt.state.AddAssetOutput(
		state.OutPoint{TxHash: txHash, Index: 0},
		&state.AssetOutput{
			AssetType:      helix.AssetTypeOf(txHash),
			Quantity:       action.Output.Supply,
			LockScriptHash: action.Output.LockScriptHash,
			Parameters:     action.Output.Parameters,
			ShardID:        action.ShardID,
		})
	return nil
}

func (rt *Runtime) applySetRegularKey(origin helix.Address, action *tx.SetRegularKey) error {
	keyAddr, err := helix.PubkeyBytesToAddress(action.Key)
	if err != nil {
		return tx.NewRuleError(tx.ErrInvalidSignature, "malformed regular key")
	}
	return rt.state.SetRegularKey(origin, action.Key, keyAddr)
}
