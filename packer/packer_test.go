// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer_test

import (
	"math/big"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/helix-chain/helix/block"
	"github.com/helix-chain/helix/genesis"
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/lvldb"
	"github.com/helix-chain/helix/packer"
	"github.com/helix-chain/helix/state"
	"github.com/helix-chain/helix/tx"
)

type testChain struct {
	stater  *state.Stater
	gene    *genesis.Genesis
	genesis *block.Block
}

func newTestChain(t *testing.T) *testChain {
	db, err := lvldb.NewMem()
	if err != nil {
		t.Fatal(err)
	}
	stater := state.NewStater(db)
	gene := genesis.NewDevnet()
	blk, stage, err := gene.Build(stater)
	if err != nil {
		t.Fatal(err)
	}
	if err := stater.Commit(stage); err != nil {
		t.Fatal(err)
	}
	return &testChain{stater, gene, blk}
}

func (c *testChain) signedPay(seq uint64, quantity int64) *tx.Transaction {
	acc := genesis.DevAccounts()[0]
	return tx.MustSign(new(tx.Builder).
		NetworkID(c.gene.Config.NetworkID).
		Seq(seq).
		Fee(big.NewInt(100)).
		Action(&tx.Pay{
			To:       genesis.DevAccounts()[1].Address,
			Quantity: big.NewInt(quantity),
		}).
		Build(), acc.PrivateKey)
}

func TestPackBlock(t *testing.T) {
	assert := assert.New(t)
	c := newTestChain(t)
	author := genesis.DevAccounts()[2].Address

	p := packer.New(c.stater, &c.gene.Config, author, zerolog.Nop())
	flow, err := p.Prepare(c.genesis.Header(), 0)
	assert.Nil(err)
	assert.Equal(c.genesis.Header().Timestamp()+helix.BlockInterval, flow.When())

	trx := c.signedPay(0, 1000)
	assert.Nil(flow.Adopt(trx))

	// the same tx cannot be adopted twice
	assert.True(packer.IsKnownTx(flow.Adopt(trx)))

	blk, stage, receipts, err := flow.Pack()
	assert.Nil(err)
	assert.Len(receipts, 1)
	assert.True(receipts[0].Applied)

	header := blk.Header()
	assert.Equal(c.genesis.Header().ID(), header.ParentID())
	assert.Equal(uint32(1), header.Number())
	assert.Equal(author, header.Author())
	assert.Equal(stage.Root(), header.StateRoot())
	assert.Equal(receipts.RootHash(), header.ReceiptsRoot())
	assert.Len(blk.Transactions(), 1)

	// committing the stage makes the transfer visible
	assert.Nil(c.stater.Commit(stage))
	balance, err := c.stater.NewState().GetBalance(genesis.DevAccounts()[1].Address)
	assert.Nil(err)
	expected := new(big.Int).Add(
		new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1_000_000_000)),
		big.NewInt(1000))
	assert.Equal(expected, balance)
}

// A rule-failing tx is dropped individually; the flow keeps packing.
func TestAdoptBadTx(t *testing.T) {
	assert := assert.New(t)
	c := newTestChain(t)

	p := packer.New(c.stater, &c.gene.Config, genesis.DevAccounts()[2].Address, zerolog.Nop())
	flow, err := p.Prepare(c.genesis.Header(), 0)
	assert.Nil(err)

	// wrong seq
	err = flow.Adopt(c.signedPay(9, 1000))
	kind, bad := packer.IsBadTx(err)
	assert.True(bad)
	assert.Equal(tx.ErrInvalidSeq, kind)

	// the flow is still usable
	assert.Nil(flow.Adopt(c.signedPay(0, 1000)))
	blk, _, receipts, err := flow.Pack()
	assert.Nil(err)
	assert.Len(blk.Transactions(), 1)
	assert.Len(receipts, 1)

	// and packed flows refuse further work
	assert.NotNil(flow.Adopt(c.signedPay(1, 1)))
	_, _, _, err = flow.Pack()
	assert.NotNil(err)
}

func TestPrepareTimestamp(t *testing.T) {
	assert := assert.New(t)
	c := newTestChain(t)

	p := packer.New(c.stater, &c.gene.Config, genesis.DevAccounts()[2].Address, zerolog.Nop())

	// a later now wins over parent time plus interval
	later := c.genesis.Header().Timestamp() + 1000
	flow, err := p.Prepare(c.genesis.Header(), later)
	assert.Nil(err)
	assert.Equal(later, flow.When())
}
