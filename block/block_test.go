// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"

	"github.com/helix-chain/helix/block"
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/tx"
)

func TestBlockEncoding(t *testing.T) {
	assert := assert.New(t)

	pk, _ := crypto.GenerateKey()
	trx := tx.MustSign(new(tx.Builder).
		NetworkID(0x91).
		Fee(big.NewInt(100)).
		Action(&tx.Pay{To: helix.BytesToAddress([]byte("to")), Quantity: big.NewInt(1)}).
		Build(), pk)

	blk := new(block.Builder).
		ParentID(helix.BytesToBytes32([]byte("parent"))).
		Number(7).
		Timestamp(1000).
		Author(helix.BytesToAddress([]byte("author"))).
		StateRoot(helix.BytesToBytes32([]byte("state"))).
		ReceiptsRoot(helix.BytesToBytes32([]byte("receipts"))).
		Transaction(trx).
		Build()

	header := blk.Header()
	assert.Equal(uint32(7), header.Number())
	assert.Equal(tx.Transactions{trx}.RootHash(), header.TxsRoot())

	data, err := rlp.EncodeToBytes(blk)
	assert.Nil(err)
	var decoded block.Block
	assert.Nil(rlp.DecodeBytes(data, &decoded))

	assert.Equal(header.ID(), decoded.Header().ID())
	assert.Equal(header.StateRoot(), decoded.Header().StateRoot())
	assert.Len(decoded.Transactions(), 1)
	assert.Equal(trx.Hash(), decoded.Transactions()[0].Hash())
}

func TestHeaderID(t *testing.T) {
	assert := assert.New(t)

	build := func(number uint32) *block.Header {
		return new(block.Builder).
			ParentID(helix.BytesToBytes32([]byte("parent"))).
			Number(number).
			Timestamp(1000).
			Build().Header()
	}
	assert.Equal(build(1).ID(), build(1).ID())
	assert.NotEqual(build(1).ID(), build(2).ID())
}
