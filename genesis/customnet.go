// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/helix-chain/helix/helix"
)

// customNet is the JSON form of a network description.
type customNet struct {
	NetworkID         byte   `json:"networkId"`
	EnableDelegations bool   `json:"enableDelegations"`
	Timestamp         uint64 `json:"timestamp"`
	BlockReward       string `json:"blockReward"`
	MinTxFee          string `json:"minTxFee"`
	Allocs            []struct {
		Address string `json:"address"`
		Balance string `json:"balance"`
		Stake   uint64 `json:"stake"`
	} `json:"allocs"`
	Validators []string `json:"validators"`
}

// FromJSON parses a network description into a Genesis.
func FromJSON(data []byte) (*Genesis, error) {
	var net customNet
	if err := json.Unmarshal(data, &net); err != nil {
		return nil, errors.Wrap(err, "parse genesis")
	}

	config := helix.DefaultConfig
	config.NetworkID = net.NetworkID
	config.EnableDelegations = net.EnableDelegations
	if net.BlockReward != "" {
		reward, ok := new(big.Int).SetString(net.BlockReward, 10)
		if !ok {
			return nil, errors.Errorf("bad block reward %q", net.BlockReward)
		}
		config.BlockReward = reward
	}
	if net.MinTxFee != "" {
		fee, ok := new(big.Int).SetString(net.MinTxFee, 10)
		if !ok {
			return nil, errors.Errorf("bad min tx fee %q", net.MinTxFee)
		}
		config.MinTxFee = fee
	}

	gene := Genesis{Config: config, Timestamp: net.Timestamp}
	for _, alloc := range net.Allocs {
		addr, err := helix.ParseAddress(alloc.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "bad address %q", alloc.Address)
		}
		if alloc.Balance != "" {
			balance, ok := new(big.Int).SetString(alloc.Balance, 10)
			if !ok {
				return nil, errors.Errorf("bad balance %q", alloc.Balance)
			}
			gene.CoinAllocs = append(gene.CoinAllocs, CoinAlloc{*addr, balance})
		}
		if alloc.Stake > 0 {
			gene.StakeAllocs = append(gene.StakeAllocs, StakeAlloc{*addr, alloc.Stake})
		}
	}
	for _, v := range net.Validators {
		addr, err := helix.ParseAddress(v)
		if err != nil {
			return nil, errors.Wrapf(err, "bad validator %q", v)
		}
		gene.Validators = append(gene.Validators, *addr)
	}
	return &gene, nil
}
