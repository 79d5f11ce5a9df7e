// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/kv"
)

type stageKV struct {
	bucket kv.Bucket
	key    []byte
	value  []byte // nil means delete
}

// Stage flattens journaled state changes into the final set of kv
// mutations, and derives the deterministic state root committing to
// them. The root chains the parent root, so two nodes that applied
// the same tx sequence over the same parent state agree byte-for-byte.
type Stage struct {
	root helix.Bytes32
	kvs  []stageKV
}

// Stage makes a stage object out of the current journal.
func (s *State) Stage(parentRoot helix.Bytes32) (*Stage, error) {
	// the last write per key wins
	changes := make(map[any]any)
	s.sm.Journal(func(k, v any) bool {
		changes[k] = v
		return true
	})

	kvs := make([]stageKV, 0, len(changes))
	for k, v := range changes {
		switch key := k.(type) {
		case accountKey:
			acc := v.(*Account)
			var value []byte
			if !acc.IsEmpty() {
				data, err := rlp.EncodeToBytes(acc)
				if err != nil {
					return nil, &Error{err}
				}
				value = data
			}
			kvs = append(kvs, stageKV{AccountBucket, helix.Address(key).Bytes(), value})
		case assetKey:
			out := v.(*AssetOutput)
			var value []byte
			if out != nil {
				data, err := rlp.EncodeToBytes(out)
				if err != nil {
					return nil, &Error{err}
				}
				value = data
			}
			kvs = append(kvs, stageKV{AssetBucket, OutPoint(key).Bytes(), value})
		case stakingKey:
			raw := v.([]byte)
			var value []byte
			if len(raw) > 0 {
				value = raw
			}
			kvs = append(kvs, stageKV{StakingBucket, []byte(key), value})
		case regularRefKey:
			raw := v.([]byte)
			var value []byte
			if len(raw) > 0 {
				value = raw
			}
			kvs = append(kvs, stageKV{RegularRefBucket, helix.Address(key).Bytes(), value})
		}
	}

	sort.Slice(kvs, func(i, j int) bool {
		bi := append([]byte(kvs[i].bucket), kvs[i].key...)
		bj := append([]byte(kvs[j].bucket), kvs[j].key...)
		return string(bi) < string(bj)
	})

	root := helix.Blake2bFn(func(w io.Writer) {
		w.Write(parentRoot.Bytes())
		var lenBuf [binary.MaxVarintLen64]byte
		writeChunk := func(b []byte) {
			n := binary.PutUvarint(lenBuf[:], uint64(len(b)))
			w.Write(lenBuf[:n])
			w.Write(b)
		}
		for _, item := range kvs {
			writeChunk([]byte(item.bucket))
			writeChunk(item.key)
			if item.value == nil {
				writeChunk([]byte{0})
			} else {
				writeChunk([]byte{1})
				writeChunk(item.value)
			}
		}
	})

	return &Stage{root: root, kvs: kvs}, nil
}

// Root returns the state root the stage commits to.
func (st *Stage) Root() helix.Bytes32 {
	return st.root
}

// Commit writes all staged mutations atomically to the given putter.
func (st *Stage) Commit(putter kv.Putter) error {
	batch := putter.NewBatch()
	for _, item := range st.kvs {
		bucketed := item.bucket.NewPutter(batch)
		if item.value == nil {
			if err := bucketed.Delete(item.key); err != nil {
				return &Error{err}
			}
		} else {
			if err := bucketed.Put(item.key, item.value); err != nil {
				return &Error{err}
			}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	return nil
}
