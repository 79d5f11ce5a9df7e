// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/tx"
)

// Builder to make it easy to build a block object.
type Builder struct {
	headerBody headerBody
	txs        tx.Transactions
}

// ParentID set parent id.
func (b *Builder) ParentID(id helix.Bytes32) *Builder {
	b.headerBody.ParentID = id
	return b
}

// Number set block number.
func (b *Builder) Number(number uint32) *Builder {
	b.headerBody.Number = number
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.headerBody.Timestamp = ts
	return b
}

// Author set the block author.
func (b *Builder) Author(author helix.Address) *Builder {
	b.headerBody.Author = author
	return b
}

// StateRoot set state root.
func (b *Builder) StateRoot(root helix.Bytes32) *Builder {
	b.headerBody.StateRoot = root
	return b
}

// ReceiptsRoot set receipts root.
func (b *Builder) ReceiptsRoot(root helix.Bytes32) *Builder {
	b.headerBody.ReceiptsRoot = root
	return b
}

// Transaction add a transaction.
func (b *Builder) Transaction(transaction *tx.Transaction) *Builder {
	b.txs = append(b.txs, transaction)
	return b
}

// Build build a block object.
func (b *Builder) Build() *Block {
	header := Header{body: b.headerBody}
	header.body.TxsRoot = b.txs.RootHash()

	return &Block{
		header: &header,
		txs:    b.txs.Copy(),
	}
}
