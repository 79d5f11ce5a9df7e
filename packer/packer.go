// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package packer builds new blocks out of pending transactions.
//
// This is the mempool-facing settlement path: a rule-failing tx is
// individually dropped and reported, in contrast to the consensus
// path where one bad tx invalidates the whole block.
package packer

import (
	"github.com/rs/zerolog"

	"github.com/helix-chain/helix/block"
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/runtime"
	"github.com/helix-chain/helix/staking"
	"github.com/helix-chain/helix/state"
)

// Packer to pack txs and build new blocks.
type Packer struct {
	stater *state.Stater
	config *helix.Config
	author helix.Address
	logger zerolog.Logger
}

// New create a new Packer instance.
// author is the address block rewards and fee remainders accrue to.
func New(stater *state.Stater, config *helix.Config, author helix.Address, logger zerolog.Logger) *Packer {
	return &Packer{
		stater: stater,
		config: config,
		author: author,
		logger: logger.With().Str("pkg", "packer").Logger(),
	}
}

// Prepare starts packing a block on top of the parent header.
// The new block's timestamp is parent time advanced by the block
// interval, unless a later now is given.
func (p *Packer) Prepare(parent *block.Header, now uint64) (*Flow, error) {
	timestamp := parent.Timestamp() + helix.BlockInterval
	if now > timestamp {
		timestamp = now
	}

	st := p.stater.NewState()
	rt := runtime.New(
		st,
		&runtime.Context{
			Number: parent.Number() + 1,
			Time:   timestamp,
			Author: p.author,
		},
		p.config,
		staking.NewStoredValidators(st),
	)
	return newFlow(p, parent, rt), nil
}
