// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/helix-chain/helix/helix"
)

// Share one stakeholder's cut of a block's fees.
type Share struct {
	Addr   helix.Address
	Amount *big.Int
}

// DistributeFee splits totalFee across stakeholders proportionally to
// their effective stake weight, floor per share, and credits the
// shares to coin balances. The rounding remainder goes to the block
// author, on top of whatever share the author earns as a stakeholder.
//
// The returned shares are in stakeholder-set order; the last entry is
// the author's remainder when nonzero.
func (s *Staking) DistributeFee(author helix.Address, totalFee *big.Int) ([]Share, error) {
	if totalFee.Sign() == 0 {
		return nil, nil
	}

	stakeholders, err := s.Stakeholders()
	if err != nil {
		return nil, err
	}

	weights := make([]uint64, len(stakeholders))
	totalWeight := new(big.Int)
	for i, addr := range stakeholders {
		w, err := s.WeightOf(addr)
		if err != nil {
			return nil, err
		}
		weights[i] = w
		totalWeight.Add(totalWeight, new(big.Int).SetUint64(w))
	}

	var shares []Share
	distributed := new(big.Int)
	if totalWeight.Sign() > 0 {
		for i, addr := range stakeholders {
			if weights[i] == 0 {
				continue
			}
			amount := new(big.Int).Mul(totalFee, new(big.Int).SetUint64(weights[i]))
			amount.Div(amount, totalWeight)
			if amount.Sign() == 0 {
				continue
			}
			if err := s.addCoinBalance(addr, amount); err != nil {
				return nil, err
			}
			distributed.Add(distributed, amount)
			shares = append(shares, Share{addr, amount})
		}
	}

	// rounding loss reconciles to the author
	remainder := new(big.Int).Sub(totalFee, distributed)
	if remainder.Sign() > 0 {
		if err := s.addCoinBalance(author, remainder); err != nil {
			return nil, err
		}
		shares = append(shares, Share{author, remainder})
	}
	return shares, nil
}

func (s *Staking) addCoinBalance(addr helix.Address, amount *big.Int) error {
	balance, err := s.state.GetBalance(addr)
	if err != nil {
		return err
	}
	return s.state.SetBalance(addr, new(big.Int).Add(balance, amount))
}
