// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"
)

// Builder to make it easy to build a transaction.
type Builder struct {
	body body
}

// NetworkID set network id.
func (b *Builder) NetworkID(id byte) *Builder {
	b.body.NetworkID = id
	return b
}

// Seq set sender sequence number.
func (b *Builder) Seq(seq uint64) *Builder {
	b.body.Seq = seq
	return b
}

// Fee set fee.
func (b *Builder) Fee(fee *big.Int) *Builder {
	b.body.Fee = new(big.Int).Set(fee)
	return b
}

// Action set the action.
func (b *Builder) Action(action Action) *Builder {
	b.body.Action = action
	return b
}

// Build build tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	if tx.body.Fee == nil {
		tx.body.Fee = new(big.Int)
	}
	return &tx
}
