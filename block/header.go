// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/helix-chain/helix/helix"
)

// Header contains almost all information about a block, except the
// transaction list.
// It's immutable.
type Header struct {
	body headerBody

	cache struct {
		id atomic.Value
	}
}

// headerBody body of header.
type headerBody struct {
	ParentID  helix.Bytes32
	Number    uint32
	Timestamp uint64
	Author    helix.Address

	TxsRoot      helix.Bytes32
	StateRoot    helix.Bytes32
	ReceiptsRoot helix.Bytes32
}

// ParentID returns id of the parent block.
func (h *Header) ParentID() helix.Bytes32 {
	return h.body.ParentID
}

// Number returns sequential number of this block.
func (h *Header) Number() uint32 {
	return h.body.Number
}

// Timestamp returns timestamp of this block.
func (h *Header) Timestamp() uint64 {
	return h.body.Timestamp
}

// Author returns the address of the block author.
func (h *Header) Author() helix.Address {
	return h.body.Author
}

// TxsRoot returns merkle root of txs contained in this block.
func (h *Header) TxsRoot() helix.Bytes32 {
	return h.body.TxsRoot
}

// StateRoot returns the state root after applying this block.
func (h *Header) StateRoot() helix.Bytes32 {
	return h.body.StateRoot
}

// ReceiptsRoot returns merkle root of tx receipts.
func (h *Header) ReceiptsRoot() helix.Bytes32 {
	return h.body.ReceiptsRoot
}

// ID computes id of block, which uniquely identifies it.
func (h *Header) ID() (id helix.Bytes32) {
	if cached := h.cache.id.Load(); cached != nil {
		return cached.(helix.Bytes32)
	}
	defer func() { h.cache.id.Store(id) }()

	return helix.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, h)
	})
}

// EncodeRLP implements rlp.Encoder.
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf(`Header(%v)
	Number:       %v
	ParentID:     %v
	Timestamp:    %v
	Author:       %v
	TxsRoot:      %v
	StateRoot:    %v
	ReceiptsRoot: %v`,
		h.ID(), h.body.Number, h.body.ParentID, h.body.Timestamp, h.body.Author,
		h.body.TxsRoot, h.body.StateRoot, h.body.ReceiptsRoot)
}
