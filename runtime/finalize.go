// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/helix-chain/helix/staking"
	"github.com/helix-chain/helix/tx"
)

// Finalize settles the block-level payouts: the fixed block reward to
// the author, and the accumulated fees distributed across stakeholders
// by stake weight with the rounding remainder going to the author.
// It must be called exactly once, after the block's last transaction.
func (rt *Runtime) Finalize(receipts tx.Receipts) ([]staking.Share, error) {
	totalFee := new(big.Int)
	for _, receipt := range receipts {
		if receipt.Applied {
			totalFee.Add(totalFee, receipt.Fee)
		}
	}

	shares, err := rt.stakingLedger().DistributeFee(rt.ctx.Author, totalFee)
	if err != nil {
		return nil, err
	}

	if rt.config.BlockReward.Sign() > 0 {
		balance, err := rt.state.GetBalance(rt.ctx.Author)
		if err != nil {
			return nil, err
		}
		if err := rt.state.SetBalance(rt.ctx.Author, new(big.Int).Add(balance, rt.config.BlockReward)); err != nil {
			return nil, err
		}
	}
	return shares, nil
}
