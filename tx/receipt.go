// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/helix-chain/helix/helix"
)

// Receipt is the invoice of one applied or rejected transaction.
type Receipt struct {
	// TxHash hash of the tx this receipt belongs to.
	TxHash helix.Bytes32
	// Applied whether the tx mutated the ledger.
	Applied bool
	// ErrorKind the rule failure when not applied.
	ErrorKind ErrorKind
	// Fee the fee charged. Zero when the tx was rejected.
	Fee *big.Int
}

// Receipts slice of receipts.
type Receipts []*Receipt

// RootHash computes merkle root hash of receipts.
func (rs Receipts) RootHash() helix.Bytes32 {
	if len(rs) == 0 {
		// optimized
		return emptyRoot
	}
	return rootHashOf(func(i int) any { return rs[i] }, len(rs))
}

var emptyRoot = helix.Blake2b(rlp.EmptyList)

// rootHashOf derives an order-sensitive commitment over a list of
// RLP encodable items.
func rootHashOf(item func(i int) any, n int) helix.Bytes32 {
	return helix.Blake2bFn(func(w io.Writer) {
		for i := 0; i < n; i++ {
			h := helix.Blake2bFn(func(hw io.Writer) {
				rlp.Encode(hw, item(i))
			})
			w.Write(h.Bytes())
		}
	})
}
