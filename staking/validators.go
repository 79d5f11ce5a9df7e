// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/state"
)

var validatorsKey = []byte("Validators")

// StoredValidators is the validator set recorded in ledger state.
// The consensus engine maintains it; the staking ledger only consults
// membership when validating delegation targets.
type StoredValidators struct {
	state *state.State
}

// NewStoredValidators creates a view over the stored validator set.
func NewStoredValidators(st *state.State) *StoredValidators {
	return &StoredValidators{st}
}

var _ ValidatorSet = (*StoredValidators)(nil)

// List returns the validator addresses, sorted.
func (v *StoredValidators) List() ([]helix.Address, error) {
	var list []helix.Address
	err := v.state.DecodeStaking(validatorsKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &list)
	})
	return list, err
}

// Contains implements ValidatorSet.
func (v *StoredValidators) Contains(addr helix.Address) (bool, error) {
	list, err := v.List()
	if err != nil {
		return false, err
	}
	i := sort.Search(len(list), func(i int) bool {
		return bytes.Compare(list[i].Bytes(), addr.Bytes()) >= 0
	})
	return i < len(list) && list[i] == addr, nil
}

// Add records addr as a validator. Idempotent.
func (v *StoredValidators) Add(addr helix.Address) error {
	list, err := v.List()
	if err != nil {
		return err
	}
	i := sort.Search(len(list), func(i int) bool {
		return bytes.Compare(list[i].Bytes(), addr.Bytes()) >= 0
	})
	if i < len(list) && list[i] == addr {
		return nil
	}
	list = append(list, helix.Address{})
	copy(list[i+1:], list[i:])
	list[i] = addr
	return v.state.EncodeStaking(validatorsKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(list)
	})
}
