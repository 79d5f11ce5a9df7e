// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/helix-chain/helix/kv"
)

// Account is the ledger entity of an address.
type Account struct {
	Balance    *big.Int
	Seq        uint64
	RegularKey []byte
}

// IsEmpty returns if an account is empty.
// Empty accounts are not persisted.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0 && a.Seq == 0 && len(a.RegularKey) == 0
}

func emptyAccount() *Account {
	return &Account{Balance: &big.Int{}}
}

// loadAccount load an account object by address. An empty account is
// returned if the address is unknown to the ledger.
func loadAccount(getter kv.Getter, addr []byte) (*Account, error) {
	data, err := getter.Get(addr)
	if err != nil {
		if getter.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, err
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// saveAccount save the account object to the given putter.
// The entry is deleted if the account becomes empty.
func saveAccount(putter kv.Putter, addr []byte, a *Account) error {
	if a.IsEmpty() {
		return putter.Delete(addr)
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return putter.Put(addr, data)
}
