// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"

	"github.com/helix-chain/helix/block"
	"github.com/helix-chain/helix/chain"
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/lvldb"
	"github.com/helix-chain/helix/tx"
)

func TestRepository(t *testing.T) {
	assert := assert.New(t)
	db, err := lvldb.NewMem()
	assert.Nil(err)
	defer db.Close()
	repo := chain.NewRepository(db)

	_, err = repo.BestBlock()
	assert.True(repo.IsNotFound(err))

	pk, _ := crypto.GenerateKey()
	trx := tx.MustSign(new(tx.Builder).
		NetworkID(0x91).
		Fee(big.NewInt(100)).
		Action(&tx.Pay{To: helix.BytesToAddress([]byte("to")), Quantity: big.NewInt(1)}).
		Build(), pk)

	blk := new(block.Builder).
		ParentID(helix.BytesToBytes32([]byte("parent"))).
		Number(1).
		Timestamp(1000).
		Author(helix.BytesToAddress([]byte("author"))).
		StateRoot(helix.BytesToBytes32([]byte("state"))).
		ReceiptsRoot(helix.BytesToBytes32([]byte("receipts"))).
		Transaction(trx).
		Build()

	assert.Nil(repo.SaveBlock(blk))
	assert.Nil(repo.SetBestBlockID(blk.Header().ID()))

	loaded, err := repo.GetBlock(blk.Header().ID())
	assert.Nil(err)
	assert.Equal(blk.Header().ID(), loaded.Header().ID())
	assert.Len(loaded.Transactions(), 1)
	assert.Equal(trx.Hash(), loaded.Transactions()[0].Hash())

	id, err := repo.GetBlockIDByNumber(1)
	assert.Nil(err)
	assert.Equal(blk.Header().ID(), id)

	best, err := repo.BestBlock()
	assert.Nil(err)
	assert.Equal(blk.Header().ID(), best.Header().ID())

	_, err = repo.GetBlock(helix.BytesToBytes32([]byte("unknown")))
	assert.True(repo.IsNotFound(err))
}
