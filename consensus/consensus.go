// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package consensus verifies and settles received blocks.
//
// Unlike the packing path, settlement here is all-or-nothing: a
// single invalid transaction rejects the whole block, and the staged
// state is discarded.
package consensus

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/helix-chain/helix/block"
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/metrics"
	"github.com/helix-chain/helix/runtime"
	"github.com/helix-chain/helix/staking"
	"github.com/helix-chain/helix/state"
	"github.com/helix-chain/helix/tx"
)

var metricBlockProcessed = metrics.NewCounterVec("consensus_block_processed_total", "status")

// Consensus settles blocks received from the sealing engine.
type Consensus struct {
	stater *state.Stater
	config *helix.Config
	logger zerolog.Logger
}

// New create a Consensus instance.
func New(stater *state.Stater, config *helix.Config, logger zerolog.Logger) *Consensus {
	return &Consensus{
		stater: stater,
		config: config,
		logger: logger.With().Str("pkg", "consensus").Logger(),
	}
}

// Process applies blk on top of its parent, strictly sequentially.
// On success the returned stage holds the settled state, ready to
// commit; on a consensus error nothing may be committed.
func (c *Consensus) Process(parent *block.Header, blk *block.Block) (*state.Stage, tx.Receipts, error) {
	header := blk.Header()
	if err := c.validateHeader(parent, header); err != nil {
		metricBlockProcessed.Add(1, "invalid")
		return nil, nil, err
	}

	st := c.stater.NewState()
	rt := runtime.New(
		st,
		&runtime.Context{
			Number: header.Number(),
			Time:   header.Timestamp(),
			Author: header.Author(),
		},
		c.config,
		staking.NewStoredValidators(st),
	)

	txs := blk.Transactions()
	if root := txs.RootHash(); root != header.TxsRoot() {
		metricBlockProcessed.Add(1, "invalid")
		return nil, nil, consensusError(fmt.Sprintf(
			"block txs root mismatch: want %v, have %v", header.TxsRoot(), root))
	}
	receipts := make(tx.Receipts, 0, len(txs))
	for i, transaction := range txs {
		receipt, err := rt.ExecuteTransaction(transaction)
		if err != nil {
			metricBlockProcessed.Add(1, "failed")
			return nil, nil, err
		}
		if !receipt.Applied {
			// block-level atomicity: one bad tx is fatal to the block
			metricBlockProcessed.Add(1, "invalid")
			return nil, nil, consensusError(fmt.Sprintf(
				"tx %d invalid: %v", i, receipt.ErrorKind))
		}
		receipts = append(receipts, receipt)
	}

	if _, err := rt.Finalize(receipts); err != nil {
		metricBlockProcessed.Add(1, "failed")
		return nil, nil, err
	}

	stage, err := st.Stage(parent.StateRoot())
	if err != nil {
		metricBlockProcessed.Add(1, "failed")
		return nil, nil, err
	}
	if stage.Root() != header.StateRoot() {
		metricBlockProcessed.Add(1, "invalid")
		return nil, nil, consensusError(fmt.Sprintf(
			"block state root mismatch: want %v, have %v", header.StateRoot(), stage.Root()))
	}
	if receiptsRoot := receipts.RootHash(); receiptsRoot != header.ReceiptsRoot() {
		metricBlockProcessed.Add(1, "invalid")
		return nil, nil, consensusError(fmt.Sprintf(
			"block receipts root mismatch: want %v, have %v", header.ReceiptsRoot(), receiptsRoot))
	}

	metricBlockProcessed.Add(1, "proposed")
	c.logger.Debug().
		Stringer("id", header.ID()).
		Uint32("number", header.Number()).
		Int("txs", len(txs)).
		Msg("block processed")
	return stage, receipts, nil
}

func (c *Consensus) validateHeader(parent, header *block.Header) error {
	if header.ParentID() != parent.ID() {
		return consensusError(fmt.Sprintf(
			"block parent mismatch: want %v, have %v", parent.ID(), header.ParentID()))
	}
	if header.Number() != parent.Number()+1 {
		return consensusError(fmt.Sprintf(
			"block number not sequential: parent %d, block %d", parent.Number(), header.Number()))
	}
	if header.Timestamp() <= parent.Timestamp() {
		return consensusError(fmt.Sprintf(
			"block timestamp not monotonic: parent %d, block %d", parent.Timestamp(), header.Timestamp()))
	}
	return nil
}
