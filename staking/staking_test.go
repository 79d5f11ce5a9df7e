// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/lvldb"
	"github.com/helix-chain/helix/staking"
	"github.com/helix-chain/helix/state"
	"github.com/helix-chain/helix/tx"
)

var (
	faucet = helix.BytesToAddress([]byte("faucet"))
	alice  = helix.BytesToAddress([]byte("alice"))
	bob    = helix.BytesToAddress([]byte("bob"))
	val1   = helix.BytesToAddress([]byte("validator-1"))
)

func newLedger(t *testing.T) (*staking.Staking, *state.State) {
	db, err := lvldb.NewMem()
	if err != nil {
		t.Fatal(err)
	}
	st := state.NewStater(db).NewState()
	validators := staking.NewStoredValidators(st)
	if err := validators.Add(val1); err != nil {
		t.Fatal(err)
	}
	return staking.New(st, validators, true), st
}

func kindOf(t *testing.T, err error) tx.ErrorKind {
	t.Helper()
	ruleErr, ok := tx.AsRuleError(err)
	if !ok {
		t.Fatalf("want a rule error, got %v", err)
	}
	return ruleErr.Kind()
}

func TestMintAndTransfer(t *testing.T) {
	assert := assert.New(t)
	ledger, _ := newLedger(t)

	assert.Nil(ledger.Mint(faucet, 1000))
	balance, err := ledger.GetBalance(faucet)
	assert.Nil(err)
	assert.Equal(uint64(1000), balance)

	assert.Nil(ledger.Transfer(faucet, alice, 300))
	balance, _ = ledger.GetBalance(faucet)
	assert.Equal(uint64(700), balance)
	balance, _ = ledger.GetBalance(alice)
	assert.Equal(uint64(300), balance)

	err = ledger.Transfer(alice, bob, 301)
	assert.Equal(tx.ErrNotEnoughBalance, kindOf(t, err))
	balance, _ = ledger.GetBalance(alice)
	assert.Equal(uint64(300), balance)

	holders, err := ledger.Stakeholders()
	assert.Nil(err)
	assert.Contains(holders, faucet)
	assert.Contains(holders, alice)
	assert.NotContains(holders, bob)
}

func TestZeroBalancePruned(t *testing.T) {
	assert := assert.New(t)
	ledger, st := newLedger(t)

	assert.Nil(ledger.Mint(alice, 100))
	assert.Nil(ledger.Transfer(alice, bob, 100))

	balance, err := ledger.GetBalance(alice)
	assert.Nil(err)
	assert.Equal(uint64(0), balance)

	// the balance entry is gone from storage, but alice stays a
	// stakeholder
	raw, err := st.GetStakingRaw(append([]byte("Account"), alice.Bytes()...))
	assert.Nil(err)
	assert.Nil(raw)
	holders, err := ledger.Stakeholders()
	assert.Nil(err)
	assert.Contains(holders, alice)
}

func TestDelegate(t *testing.T) {
	assert := assert.New(t)
	ledger, _ := newLedger(t)
	assert.Nil(ledger.Mint(alice, 1000))

	assert.Nil(ledger.Delegate(alice, val1, 400))

	balance, _ := ledger.GetBalance(alice)
	assert.Equal(uint64(600), balance)
	quantity, err := ledger.GetDelegationQuantity(alice, val1)
	assert.Nil(err)
	assert.Equal(uint64(400), quantity)

	// delegated stake counts into the delegatee's weight
	weight, err := ledger.WeightOf(val1)
	assert.Nil(err)
	assert.Equal(uint64(400), weight)
	weight, err = ledger.WeightOf(alice)
	assert.Nil(err)
	assert.Equal(uint64(600), weight)

	// repeat delegation accumulates into one entry
	assert.Nil(ledger.Delegate(alice, val1, 100))
	list, err := ledger.GetDelegations(alice)
	assert.Nil(err)
	assert.Len(list, 1)
	assert.Equal(uint64(500), list[0].Quantity)
}

func TestDelegateErrors(t *testing.T) {
	assert := assert.New(t)
	ledger, _ := newLedger(t)
	assert.Nil(ledger.Mint(alice, 100))

	// not a validator
	err := ledger.Delegate(alice, bob, 50)
	assert.Equal(tx.ErrInvalidDelegatee, kindOf(t, err))

	// insufficient balance
	err = ledger.Delegate(alice, val1, 101)
	assert.Equal(tx.ErrNotEnoughBalance, kindOf(t, err))

	// delegations disabled network-wide
	db, _ := lvldb.NewMem()
	st := state.NewStater(db).NewState()
	validators := staking.NewStoredValidators(st)
	assert.Nil(validators.Add(val1))
	disabled := staking.New(st, validators, false)
	assert.Nil(disabled.Mint(alice, 100))
	err = disabled.Delegate(alice, val1, 50)
	assert.Equal(tx.ErrInvalidDelegatee, kindOf(t, err))
}

func TestRevoke(t *testing.T) {
	assert := assert.New(t)
	ledger, _ := newLedger(t)
	assert.Nil(ledger.Mint(alice, 1000))
	assert.Nil(ledger.Delegate(alice, val1, 400))

	assert.Nil(ledger.Revoke(alice, val1, 150))
	balance, _ := ledger.GetBalance(alice)
	assert.Equal(uint64(750), balance)
	quantity, _ := ledger.GetDelegationQuantity(alice, val1)
	assert.Equal(uint64(250), quantity)
	weight, _ := ledger.WeightOf(val1)
	assert.Equal(uint64(250), weight)

	// revoking more than delegated is rejected, untouched ledger
	err := ledger.Revoke(alice, val1, 251)
	assert.Equal(tx.ErrNotEnoughBalance, kindOf(t, err))
	quantity, _ = ledger.GetDelegationQuantity(alice, val1)
	assert.Equal(uint64(250), quantity)

	// revoking the rest removes the delegation entry
	assert.Nil(ledger.Revoke(alice, val1, 250))
	list, err := ledger.GetDelegations(alice)
	assert.Nil(err)
	assert.Empty(list)
	balance, _ = ledger.GetBalance(alice)
	assert.Equal(uint64(1000), balance)

	// a second revoke finds nothing
	err = ledger.Revoke(alice, val1, 1)
	assert.Equal(tx.ErrNotEnoughBalance, kindOf(t, err))
}

func TestDistributeFee(t *testing.T) {
	assert := assert.New(t)
	ledger, st := newLedger(t)

	assert.Nil(ledger.Mint(faucet, 70000))
	assert.Nil(ledger.Mint(alice, 20000))
	assert.Nil(ledger.Mint(bob, 10000))

	author := helix.BytesToAddress([]byte("author"))
	shares, err := ledger.DistributeFee(author, big.NewInt(1000))
	assert.Nil(err)

	balance := func(addr helix.Address) *big.Int {
		b, err := st.GetBalance(addr)
		assert.Nil(err)
		return b
	}
	assert.Equal(big.NewInt(700), balance(faucet))
	assert.Equal(big.NewInt(200), balance(alice))
	assert.Equal(big.NewInt(100), balance(bob))
	assert.Equal(new(big.Int), balance(author))
	assert.Len(shares, 3)
}

func TestDistributeFeeRemainder(t *testing.T) {
	assert := assert.New(t)
	ledger, st := newLedger(t)

	// 3 equal stakeholders, fee 1000: floor gives 333 each, the
	// remainder 1 goes to the author
	assert.Nil(ledger.Mint(faucet, 100))
	assert.Nil(ledger.Mint(alice, 100))
	assert.Nil(ledger.Mint(bob, 100))

	author := helix.BytesToAddress([]byte("author"))
	shares, err := ledger.DistributeFee(author, big.NewInt(1000))
	assert.Nil(err)
	assert.Len(shares, 4)

	total := new(big.Int)
	for _, share := range shares {
		total.Add(total, share.Amount)
	}
	assert.Equal(big.NewInt(1000), total)

	authorBalance, _ := st.GetBalance(author)
	assert.Equal(big.NewInt(1), authorBalance)
}

func TestDistributeFeeDelegationWeights(t *testing.T) {
	assert := assert.New(t)
	ledger, st := newLedger(t)

	// alice delegates half her stake to val1: fees follow the
	// effective weights, not the direct balances
	assert.Nil(ledger.Mint(alice, 800))
	assert.Nil(ledger.Mint(bob, 200))
	assert.Nil(ledger.Delegate(alice, val1, 400))

	author := helix.BytesToAddress([]byte("author"))
	_, err := ledger.DistributeFee(author, big.NewInt(1000))
	assert.Nil(err)

	balance := func(addr helix.Address) *big.Int {
		b, _ := st.GetBalance(addr)
		return b
	}
	assert.Equal(big.NewInt(400), balance(alice))
	assert.Equal(big.NewInt(200), balance(bob))
	assert.Equal(big.NewInt(400), balance(val1))
}

func TestDistributeFeeNoStakeholders(t *testing.T) {
	assert := assert.New(t)
	ledger, st := newLedger(t)

	// without any stake weight, the whole fee falls to the author
	author := helix.BytesToAddress([]byte("author"))
	shares, err := ledger.DistributeFee(author, big.NewInt(1000))
	assert.Nil(err)
	assert.Len(shares, 1)
	assert.Equal(author, shares[0].Addr)

	authorBalance, _ := st.GetBalance(author)
	assert.Equal(big.NewInt(1000), authorBalance)

	// zero fee distributes nothing
	shares, err = ledger.DistributeFee(author, new(big.Int))
	assert.Nil(err)
	assert.Empty(shares)
}

func TestStoredValidators(t *testing.T) {
	assert := assert.New(t)
	db, _ := lvldb.NewMem()
	st := state.NewStater(db).NewState()
	validators := staking.NewStoredValidators(st)

	ok, err := validators.Contains(val1)
	assert.Nil(err)
	assert.False(ok)

	assert.Nil(validators.Add(val1))
	assert.Nil(validators.Add(val1)) // idempotent
	ok, err = validators.Contains(val1)
	assert.Nil(err)
	assert.True(ok)

	list, err := validators.List()
	assert.Nil(err)
	assert.Len(list, 1)
}
