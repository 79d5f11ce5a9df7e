// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package helix

import "math/big"

// Constants of block chain.
const (
	BlockInterval uint64 = 10 // time interval between two consecutive blocks.

	// MaxOrderBoundOutputs the max number of order-bound outputs carrying
	// the same asset type on one side of an order application
	// (remainder-to-maker plus payment).
	MaxOrderBoundOutputs = 2
)

// Default protocol params.
var (
	InitialBlockReward = big.NewInt(50_000_000_000) // fixed reward assigned to the block author.
	InitialMinTxFee    = big.NewInt(100)            // fee floor for any transaction kind.
)

// Config carries chain-wide protocol settings. It is fixed at genesis
// and must be identical across all nodes of a network.
type Config struct {
	// NetworkID distinguishes networks. A transaction carrying a
	// different id is invalid on this chain.
	NetworkID byte

	// EnableDelegations gates the stake delegation operation network-wide.
	// When false, any delegate transaction is rejected.
	EnableDelegations bool

	// BlockReward fixed amount paid to the block author on settlement.
	BlockReward *big.Int

	// MinTxFee the minimum acceptable transaction fee.
	MinTxFee *big.Int
}

// DefaultConfig config most test networks run with.
var DefaultConfig = Config{
	NetworkID:         0x91,
	EnableDelegations: true,
	BlockReward:       InitialBlockReward,
	MinTxFee:          InitialMinTxFee,
}
