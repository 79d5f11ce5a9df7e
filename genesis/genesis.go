// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the block 0 state deterministically from a
// network description.
package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/helix-chain/helix/block"
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/staking"
	"github.com/helix-chain/helix/state"
	"github.com/helix-chain/helix/tx"
)

// CoinAlloc an initial coin balance.
type CoinAlloc struct {
	Addr    helix.Address
	Balance *big.Int
}

// StakeAlloc an initial stake token balance.
type StakeAlloc struct {
	Addr     helix.Address
	Quantity uint64
}

// Genesis describes a network at block 0.
type Genesis struct {
	Config      helix.Config
	Timestamp   uint64
	CoinAllocs  []CoinAlloc
	StakeAllocs []StakeAlloc
	Validators  []helix.Address
}

// Build stages the genesis state and assembles block 0.
// The caller commits the stage and saves the block.
func (g *Genesis) Build(stater *state.Stater) (*block.Block, *state.Stage, error) {
	st := stater.NewState()

	for _, alloc := range g.CoinAllocs {
		if alloc.Balance == nil || alloc.Balance.Sign() < 0 {
			return nil, nil, errors.Errorf("genesis: bad balance for %v", alloc.Addr)
		}
		if err := st.SetBalance(alloc.Addr, alloc.Balance); err != nil {
			return nil, nil, err
		}
	}

	stakeLedger := staking.New(st, nil, false)
	for _, alloc := range g.StakeAllocs {
		if err := stakeLedger.Mint(alloc.Addr, alloc.Quantity); err != nil {
			return nil, nil, err
		}
	}

	validators := staking.NewStoredValidators(st)
	for _, addr := range g.Validators {
		if err := validators.Add(addr); err != nil {
			return nil, nil, err
		}
	}

	stage, err := st.Stage(helix.Bytes32{})
	if err != nil {
		return nil, nil, err
	}

	blk := new(block.Builder).
		Timestamp(g.Timestamp).
		StateRoot(stage.Root()).
		ReceiptsRoot(tx.Receipts(nil).RootHash()).
		Build()
	return blk, stage, nil
}
