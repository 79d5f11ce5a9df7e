// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"github.com/helix-chain/helix/block"
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/runtime"
	"github.com/helix-chain/helix/state"
	"github.com/helix-chain/helix/tx"
)

// Flow the flow of packing a new block.
type Flow struct {
	packer       *Packer
	parentHeader *block.Header
	runtime      *runtime.Runtime
	processedTxs map[helix.Bytes32]bool
	txs          tx.Transactions
	receipts     tx.Receipts
	packed       bool
}

func newFlow(packer *Packer, parentHeader *block.Header, rt *runtime.Runtime) *Flow {
	return &Flow{
		packer:       packer,
		parentHeader: parentHeader,
		runtime:      rt,
		processedTxs: make(map[helix.Bytes32]bool),
	}
}

// ParentHeader returns parent block header.
func (f *Flow) ParentHeader() *block.Header {
	return f.parentHeader
}

// When returns the timestamp of the block being packed.
func (f *Flow) When() uint64 {
	return f.runtime.Context().Time
}

// Adopt tries to execute the given transaction and include it in the
// new block. A rule failure drops the one tx with a bad-tx error
// carrying the failure kind; the flow remains usable.
func (f *Flow) Adopt(transaction *tx.Transaction) error {
	if f.packed {
		return errPacked
	}
	txHash := transaction.Hash()
	if f.processedTxs[txHash] {
		return errKnownTx
	}

	receipt, err := f.runtime.ExecuteTransaction(transaction)
	if err != nil {
		// storage trouble; the flow state can no longer be trusted
		return err
	}
	if !receipt.Applied {
		// runtime already reverted the tx's mutations
		f.packer.logger.Debug().
			Stringer("tx", txHash).
			Stringer("kind", receipt.ErrorKind).
			Msg("tx rejected")
		return badTxError{receipt.ErrorKind}
	}

	f.processedTxs[txHash] = true
	f.txs = append(f.txs, transaction)
	f.receipts = append(f.receipts, receipt)
	return nil
}

// Pack settles rewards and fee distribution, stages the state and
// builds the new block. The flow cannot adopt after packing.
func (f *Flow) Pack() (*block.Block, *state.Stage, tx.Receipts, error) {
	if f.packed {
		return nil, nil, nil, errPacked
	}
	f.packed = true

	if _, err := f.runtime.Finalize(f.receipts); err != nil {
		return nil, nil, nil, err
	}

	stage, err := f.runtime.State().Stage(f.parentHeader.StateRoot())
	if err != nil {
		return nil, nil, nil, err
	}

	builder := new(block.Builder).
		ParentID(f.parentHeader.ID()).
		Number(f.parentHeader.Number() + 1).
		Timestamp(f.runtime.Context().Time).
		Author(f.packer.author).
		StateRoot(stage.Root()).
		ReceiptsRoot(f.receipts.RootHash())
	for _, transaction := range f.txs {
		builder.Transaction(transaction)
	}
	newBlock := builder.Build()

	f.packer.logger.Info().
		Stringer("id", newBlock.Header().ID()).
		Uint32("number", newBlock.Header().Number()).
		Int("txs", len(f.txs)).
		Msg("block packed")
	return newBlock, stage, f.receipts, nil
}
