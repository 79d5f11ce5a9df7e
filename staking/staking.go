// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the stake token ledger: direct balances,
// delegations and the stakeholder set used for fee distribution.
//
// All entries live in the state's staking storage as RLP, and must
// round-trip byte-identically across nodes. Zero-quantity entries are
// never persisted; stakeholder set membership is append-only.
package staking

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/state"
	"github.com/helix-chain/helix/tx"
)

// Storage key prefixes.
var (
	stakeholdersKey   = []byte("StakeholderAddresses")
	accountKeyPrefix  = []byte("Account")
	delegationsPrefix = []byte("Delegation")
	delegatedInPrefix = []byte("DelegatedIn")
)

func accountKey(addr helix.Address) []byte {
	return append(append([]byte(nil), accountKeyPrefix...), addr.Bytes()...)
}

func delegationsKey(addr helix.Address) []byte {
	return append(append([]byte(nil), delegationsPrefix...), addr.Bytes()...)
}

func delegatedInKey(addr helix.Address) []byte {
	return append(append([]byte(nil), delegatedInPrefix...), addr.Bytes()...)
}

// ValidatorSet tells whether an address is a current validator.
// The active set is maintained by the consensus engine.
type ValidatorSet interface {
	Contains(addr helix.Address) (bool, error)
}

// Delegation one delegatee entry of a delegator.
type Delegation struct {
	Delegatee helix.Address
	Quantity  uint64
}

// Staking provides the stake ledger operations over a state.
type Staking struct {
	state             *state.State
	validators        ValidatorSet
	enableDelegations bool
}

// New creates a staking ledger handle.
// validators may be nil when no delegate operation will be performed.
func New(st *state.State, validators ValidatorSet, enableDelegations bool) *Staking {
	return &Staking{st, validators, enableDelegations}
}

// GetBalance returns the directly held stake of addr.
func (s *Staking) GetBalance(addr helix.Address) (uint64, error) {
	var quantity uint64
	err := s.state.DecodeStaking(accountKey(addr), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &quantity)
	})
	return quantity, err
}

// setBalance persists the direct stake of addr, pruning the entry at zero.
func (s *Staking) setBalance(addr helix.Address, quantity uint64) error {
	return s.state.EncodeStaking(accountKey(addr), func() ([]byte, error) {
		if quantity == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(quantity)
	})
}

// GetDelegations returns the delegations of a delegator,
// sorted by delegatee address.
func (s *Staking) GetDelegations(delegator helix.Address) ([]Delegation, error) {
	var list []Delegation
	err := s.state.DecodeStaking(delegationsKey(delegator), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &list)
	})
	return list, err
}

func (s *Staking) setDelegations(delegator helix.Address, list []Delegation) error {
	return s.state.EncodeStaking(delegationsKey(delegator), func() ([]byte, error) {
		if len(list) == 0 {
			return nil, nil
		}
		sort.Slice(list, func(i, j int) bool {
			return bytes.Compare(list[i].Delegatee.Bytes(), list[j].Delegatee.Bytes()) < 0
		})
		return rlp.EncodeToBytes(list)
	})
}

// GetDelegationQuantity returns the quantity delegator has delegated
// to delegatee, zero if none.
func (s *Staking) GetDelegationQuantity(delegator, delegatee helix.Address) (uint64, error) {
	list, err := s.GetDelegations(delegator)
	if err != nil {
		return 0, err
	}
	for _, d := range list {
		if d.Delegatee == delegatee {
			return d.Quantity, nil
		}
	}
	return 0, nil
}

// getDelegatedIn returns the aggregate quantity delegated to addr.
func (s *Staking) getDelegatedIn(addr helix.Address) (uint64, error) {
	var quantity uint64
	err := s.state.DecodeStaking(delegatedInKey(addr), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &quantity)
	})
	return quantity, err
}

func (s *Staking) setDelegatedIn(addr helix.Address, quantity uint64) error {
	return s.state.EncodeStaking(delegatedInKey(addr), func() ([]byte, error) {
		if quantity == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(quantity)
	})
}

// Stakeholders returns the stakeholder set, sorted by address.
// Membership is historical: an address stays a stakeholder even after
// its balance is pruned to zero.
func (s *Staking) Stakeholders() ([]helix.Address, error) {
	var list []helix.Address
	err := s.state.DecodeStaking(stakeholdersKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &list)
	})
	return list, err
}

// addStakeholder records addr as a stakeholder. Idempotent.
func (s *Staking) addStakeholder(addr helix.Address) error {
	list, err := s.Stakeholders()
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
	return s.state.EncodeStaking(stakeholdersKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(list)
	})
}

// Mint credits quantity of stake to addr out of nothing.
// Only the genesis builder may use it.
func (s *Staking) Mint(addr helix.Address, quantity uint64) error {
	if quantity == 0 {
		return nil
	}
	balance, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	if err := s.setBalance(addr, balance+quantity); err != nil {
		return err
	}
	return s.addStakeholder(addr)
}

// Transfer moves quantity of directly held stake from sender to receiver.
func (s *Staking) Transfer(sender, receiver helix.Address, quantity uint64) error {
	balance, err := s.GetBalance(sender)
	if err != nil {
		return err
	}
	if balance < quantity {
		return tx.NewRuleError(tx.ErrNotEnoughBalance, "stake balance %d, transferring %d", balance, quantity)
	}
	if err := s.setBalance(sender, balance-quantity); err != nil {
		return err
	}
	receiverBalance, err := s.GetBalance(receiver)
	if err != nil {
		return err
	}
	if err := s.setBalance(receiver, receiverBalance+quantity); err != nil {
		return err
	}
	return s.addStakeholder(receiver)
}

// Delegate moves quantity from the delegator's direct balance into a
// delegation towards delegatee. The delegatee must be a current
// validator, and delegations must be enabled on this network.
func (s *Staking) Delegate(delegator, delegatee helix.Address, quantity uint64) error {
	if !s.enableDelegations {
		return tx.NewRuleError(tx.ErrInvalidDelegatee, "delegations are disabled")
	}
	if s.validators == nil {
		return tx.NewRuleError(tx.ErrInvalidDelegatee, "no validator set")
	}
	ok, err := s.validators.Contains(delegatee)
	if err != nil {
		return err
	}
	if !ok {
		return tx.NewRuleError(tx.ErrInvalidDelegatee, "%v is not a validator", delegatee)
	}

	balance, err := s.GetBalance(delegator)
	if err != nil {
		return err
	}
	if balance < quantity {
		return tx.NewRuleError(tx.ErrNotEnoughBalance, "stake balance %d, delegating %d", balance, quantity)
	}
	if err := s.setBalance(delegator, balance-quantity); err != nil {
		return err
	}

	list, err := s.GetDelegations(delegator)
	if err != nil {
		return err
	}
	found := false
	for i := range list {
		if list[i].Delegatee == delegatee {
			list[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		list = append(list, Delegation{delegatee, quantity})
	}
	if err := s.setDelegations(delegator, list); err != nil {
		return err
	}

	delegatedIn, err := s.getDelegatedIn(delegatee)
	if err != nil {
		return err
	}
	if err := s.setDelegatedIn(delegatee, delegatedIn+quantity); err != nil {
		return err
	}
	return s.addStakeholder(delegatee)
}

// Revoke takes back quantity from an existing delegation.
// Revoking more than currently delegated is rejected and leaves the
// ledger untouched.
func (s *Staking) Revoke(delegator, delegatee helix.Address, quantity uint64) error {
	list, err := s.GetDelegations(delegator)
	if err != nil {
		return err
	}
	idx := -1
	for i := range list {
		if list[i].Delegatee == delegatee {
			idx = i
			break
		}
	}
	if idx < 0 || list[idx].Quantity < quantity {
		var current uint64
		if idx >= 0 {
			current = list[idx].Quantity
		}
		return tx.NewRuleError(tx.ErrNotEnoughBalance, "delegated %d, revoking %d", current, quantity)
	}

	list[idx].Quantity -= quantity
	if list[idx].Quantity == 0 {
		list = append(list[:idx], list[idx+1:]...)
	}
	if err := s.setDelegations(delegator, list); err != nil {
		return err
	}

	delegatedIn, err := s.getDelegatedIn(delegatee)
	if err != nil {
		return err
	}
	if err := s.setDelegatedIn(delegatee, delegatedIn-quantity); err != nil {
		return err
	}

	balance, err := s.GetBalance(delegator)
	if err != nil {
		return err
	}
	return s.setBalance(delegator, balance+quantity)
}

// WeightOf returns the effective fee-distribution weight of addr:
// directly held stake plus stake delegated to it. Delegating away
// already moved the quantity out of the direct balance.
func (s *Staking) WeightOf(addr helix.Address) (uint64, error) {
	balance, err := s.GetBalance(addr)
	if err != nil {
		return 0, err
	}
	delegatedIn, err := s.getDelegatedIn(addr)
	if err != nil {
		return 0, err
	}
	return balance + delegatedIn, nil
}
