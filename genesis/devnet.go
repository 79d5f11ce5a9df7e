// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/helix-chain/helix/helix"
)

// DevAccount is a prefunded account on the dev network.
type DevAccount struct {
	Address    helix.Address
	PrivateKey *ecdsa.PrivateKey
}

var (
	devAccounts     []DevAccount
	devAccountsOnce sync.Once
)

// DevAccounts returns the accounts prefunded by NewDevnet.
// The keys are well known, never use them outside a dev network.
func DevAccounts() []DevAccount {
	devAccountsOnce.Do(func() {
		privKeys := []string{
			"99f0500549792796c14fed62011a51081dc5b5e68fe8bd8a13b86be829c4fd36",
			"7b067f53d350f1cf20ec13df416b7b73e88a1dc7331bc904b92108b1e76a08b1",
			"f4a1a17039216f535d42ec23732c79943ffb45a089fbb78a14daad0dae93e991",
			"35b5cc144faca7d7f220fca7ad3420090861d5231d80eb23e1013426847371c4",
			"10c851d8d6c6ed9e6f625742063f292f4cf57c2dbeea8099fa3aca53ef90aef1",
			"2dd2c5b5d65913214783a6bd5679d8c6ef29ca9f2e2eae98b4add061d0b85ea0",
		}
		for _, str := range privKeys {
			pk, err := crypto.HexToECDSA(str)
			if err != nil {
				panic(err)
			}
			addr := crypto.PubkeyToAddress(pk.PublicKey)
			devAccounts = append(devAccounts, DevAccount{helix.Address(addr), pk})
		}
	})
	return devAccounts
}

// NewDevnet creates the genesis of a local dev network.
// Every dev account gets coins and stake, and the first three form the
// validator set.
func NewDevnet() *Genesis {
	config := helix.DefaultConfig
	config.NetworkID = 0xd7

	gene := Genesis{
		Config:    config,
		Timestamp: 1717545600, // '2024-06-05T00:00:00.000Z'
	}
	coins := new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1_000_000_000))
	for i, acc := range DevAccounts() {
		gene.CoinAllocs = append(gene.CoinAllocs, CoinAlloc{acc.Address, new(big.Int).Set(coins)})
		gene.StakeAllocs = append(gene.StakeAllocs, StakeAlloc{acc.Address, 100_000})
		if i < 3 {
			gene.Validators = append(gene.Validators, acc.Address)
		}
	}
	return &gene
}
