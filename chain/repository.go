// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain persists blocks and the best-chain head.
// Fork choice itself is up to the sealing engine; the repository only
// stores what it is told.
package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/helix-chain/helix/block"
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/kv"
)

const (
	blockBucket  kv.Bucket = "b"
	numberBucket kv.Bucket = "n"
	headBucket   kv.Bucket = "c"
)

var bestKey = []byte("best")

// Repository stores blocks in a kv store.
type Repository struct {
	db kv.GetPutter
}

// NewRepository creates a repository over the given store.
func NewRepository(db kv.GetPutter) *Repository {
	return &Repository{db}
}

// SaveBlock persists the block and indexes it by number.
func (r *Repository) SaveBlock(blk *block.Block) error {
	data, err := rlp.EncodeToBytes(blk)
	if err != nil {
		return errors.Wrap(err, "encode block")
	}
	id := blk.Header().ID()
	if err := blockBucket.NewPutter(r.db).Put(id.Bytes(), data); err != nil {
		return err
	}
	var numKey [4]byte
	binary.BigEndian.PutUint32(numKey[:], blk.Header().Number())
	return numberBucket.NewPutter(r.db).Put(numKey[:], id.Bytes())
}

// GetBlock retrieves a block by id.
func (r *Repository) GetBlock(id helix.Bytes32) (*block.Block, error) {
	data, err := blockBucket.NewGetter(r.db).Get(id.Bytes())
	if err != nil {
		return nil, err
	}
	var blk block.Block
	if err := rlp.DecodeBytes(data, &blk); err != nil {
		return nil, errors.Wrap(err, "decode block")
	}
	return &blk, nil
}

// GetBlockIDByNumber resolves a block id on the best chain by number.
func (r *Repository) GetBlockIDByNumber(number uint32) (helix.Bytes32, error) {
	var numKey [4]byte
	binary.BigEndian.PutUint32(numKey[:], number)
	data, err := numberBucket.NewGetter(r.db).Get(numKey[:])
	if err != nil {
		return helix.Bytes32{}, err
	}
	return helix.BytesToBytes32(data), nil
}

// SetBestBlockID updates the best chain head.
func (r *Repository) SetBestBlockID(id helix.Bytes32) error {
	return headBucket.NewPutter(r.db).Put(bestKey, id.Bytes())
}

// BestBlock returns the best chain head block.
func (r *Repository) BestBlock() (*block.Block, error) {
	data, err := headBucket.NewGetter(r.db).Get(bestKey)
	if err != nil {
		return nil, err
	}
	return r.GetBlock(helix.BytesToBytes32(data))
}

// IsNotFound to check if an error means missing block.
func (r *Repository) IsNotFound(err error) bool {
	return r.db.IsNotFound(err)
}
