// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/kv"
	"github.com/helix-chain/helix/stackedmap"
)

// Key buckets of persisted ledger entities.
const (
	AccountBucket    kv.Bucket = "a"
	AssetBucket      kv.Bucket = "u"
	StakingBucket    kv.Bucket = "s"
	RegularRefBucket kv.Bucket = "r"
)

// Error is the error caused by state access failure.
// It indicates storage trouble, never a validation failure,
// and is fatal to block application.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the world state: accounts, the asset output registry
// and raw staking storage. All mutations are journaled; checkpoints
// give save/revert semantics within a tx or a block.
//
// A State instance is not safe for concurrent use. Application of
// transactions against one ledger view is strictly sequential.
type State struct {
	src kv.Getter
	sm  *stackedmap.StackedMap
}

type (
	accountKey    helix.Address
	assetKey      OutPoint
	stakingKey    string
	regularRefKey helix.Address
)

// New create a state object bound to the committed source.
func New(src kv.Getter) *State {
	state := State{src: src}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.srcGetter(key)
	})
	// the bottom checkpoint holds all uncommitted changes
	state.sm.Push()
	return &state
}

// srcGetter implements stackedmap.MapGetter against committed data.
func (s *State) srcGetter(key any) (any, bool, error) {
	switch k := key.(type) {
	case accountKey:
		acc, err := loadAccount(AccountBucket.NewGetter(s.src), helix.Address(k).Bytes())
		if err != nil {
			return nil, false, err
		}
		return acc, true, nil
	case assetKey:
		data, err := AssetBucket.NewGetter(s.src).Get(OutPoint(k).Bytes())
		if err != nil {
			if s.src.IsNotFound(err) {
				return (*AssetOutput)(nil), true, nil
			}
			return nil, false, err
		}
		var out AssetOutput
		if err := rlp.DecodeBytes(data, &out); err != nil {
			return nil, false, err
		}
		return &out, true, nil
	case stakingKey:
		data, err := StakingBucket.NewGetter(s.src).Get([]byte(k))
		if err != nil {
			if s.src.IsNotFound(err) {
				return []byte(nil), true, nil
			}
			return nil, false, err
		}
		return data, true, nil
	case regularRefKey:
		data, err := RegularRefBucket.NewGetter(s.src).Get(helix.Address(k).Bytes())
		if err != nil {
			if s.src.IsNotFound(err) {
				return []byte(nil), true, nil
			}
			return nil, false, err
		}
		return data, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// getAccount gets account by address. The returned account must not be modified.
func (s *State) getAccount(addr helix.Address) (*Account, error) {
	v, _, err := s.sm.Get(accountKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return v.(*Account), nil
}

// getAccountCopy get a copy of account by address.
func (s *State) getAccountCopy(addr helix.Address) (Account, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return Account{}, err
	}
	return *acc, nil
}

func (s *State) updateAccount(addr helix.Address, acc *Account) {
	s.sm.Put(accountKey(addr), acc)
}

// GetBalance returns coin balance for the given address.
func (s *State) GetBalance(addr helix.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, err
	}
	return acc.Balance, nil
}

// SetBalance set coin balance for the given address.
func (s *State) SetBalance(addr helix.Address, balance *big.Int) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return err
	}
	cpy.Balance = balance
	s.updateAccount(addr, &cpy)
	return nil
}

// GetSeq returns the sequence number of the given address.
func (s *State) GetSeq(addr helix.Address) (uint64, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return 0, err
	}
	return acc.Seq, nil
}

// SetSeq set the sequence number of the given address.
func (s *State) SetSeq(addr helix.Address, seq uint64) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return err
	}
	cpy.Seq = seq
	s.updateAccount(addr, &cpy)
	return nil
}

// GetRegularKey returns the regular public key bound to the address,
// or nil if none.
func (s *State) GetRegularKey(addr helix.Address) ([]byte, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, err
	}
	return acc.RegularKey, nil
}

// SetRegularKey binds a regular public key to the address and records
// the reverse mapping from the key's derived address to the owner.
func (s *State) SetRegularKey(addr helix.Address, key []byte, keyAddr helix.Address) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return err
	}
	if len(cpy.RegularKey) > 0 {
		// unbind the previous key address
		if prevKeyAddr, err := helix.PubkeyBytesToAddress(cpy.RegularKey); err == nil {
			s.sm.Put(regularRefKey(prevKeyAddr), []byte(nil))
		}
	}
	cpy.RegularKey = key
	s.updateAccount(addr, &cpy)
	s.sm.Put(regularRefKey(keyAddr), addr.Bytes())
	return nil
}

// GetRegularKeyOwner resolves the owner account of a regular key
// address. The zero address is returned when keyAddr is not a
// registered regular key.
func (s *State) GetRegularKeyOwner(keyAddr helix.Address) (helix.Address, error) {
	v, _, err := s.sm.Get(regularRefKey(keyAddr))
	if err != nil {
		return helix.Address{}, &Error{err}
	}
	data := v.([]byte)
	if len(data) == 0 {
		return helix.Address{}, nil
	}
	return helix.BytesToAddress(data), nil
}

// GetAssetOutput returns the unspent asset output referenced by the
// out point, or nil if the output does not exist or was spent.
func (s *State) GetAssetOutput(op OutPoint) (*AssetOutput, error) {
	v, _, err := s.sm.Get(assetKey(op))
	if err != nil {
		return nil, &Error{err}
	}
	return v.(*AssetOutput), nil
}

// AddAssetOutput registers a new unspent asset output.
func (s *State) AddAssetOutput(op OutPoint, out *AssetOutput) {
	s.sm.Put(assetKey(op), out)
}

// RemoveAssetOutput consumes an asset output. The out point can never
// be referenced again.
func (s *State) RemoveAssetOutput(op OutPoint) {
	s.sm.Put(assetKey(op), (*AssetOutput)(nil))
}

// GetStakingRaw returns raw staking storage for the given key.
// Nil is returned for an absent entry.
func (s *State) GetStakingRaw(key []byte) ([]byte, error) {
	v, _, err := s.sm.Get(stakingKey(key))
	if err != nil {
		return nil, &Error{err}
	}
	return v.([]byte), nil
}

// SetStakingRaw set raw staking storage for the given key.
// An empty raw deletes the entry.
func (s *State) SetStakingRaw(key, raw []byte) {
	s.sm.Put(stakingKey(key), raw)
}

// EncodeStaking set staking storage value encoded by the given enc method.
func (s *State) EncodeStaking(key []byte, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetStakingRaw(key, raw)
	return nil
}

// DecodeStaking get and decode staking storage value.
func (s *State) DecodeStaking(key []byte, dec func([]byte) error) error {
	raw, err := s.GetStakingRaw(key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// Exists returns whether an account exists at the given address.
func (s *State) Exists(addr helix.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, err
	}
	return !acc.IsEmpty(), nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}
