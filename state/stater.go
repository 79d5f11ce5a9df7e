// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	lru "github.com/hashicorp/golang-lru"

	"github.com/helix-chain/helix/kv"
)

const readCacheSize = 8192

// Stater hands out State views over the committed ledger, with a
// shared read cache on top of the backing store. Reads against the
// committed data are safe concurrently with each other; committing
// is single-writer by protocol.
type Stater struct {
	db    kv.GetPutter
	cache *lru.Cache // full key string -> []byte, nil slice means known-absent
}

// NewStater creates a stater object.
func NewStater(db kv.GetPutter) *Stater {
	cache, _ := lru.New(readCacheSize)
	return &Stater{db: db, cache: cache}
}

// NewState creates a fresh state view over the committed ledger.
func (st *Stater) NewState() *State {
	return New(&cachedGetter{st})
}

// Commit writes a stage to the backing store and refreshes the cache.
func (st *Stater) Commit(stage *Stage) error {
	if err := stage.Commit(st.db); err != nil {
		return err
	}
	for _, item := range stage.kvs {
		fullKey := string(item.bucket) + string(item.key)
		st.cache.Add(fullKey, item.value)
	}
	return nil
}

var errNotFound = errors.New("not found")

// cachedGetter serves reads through the stater's lru cache.
type cachedGetter struct {
	stater *Stater
}

func (g *cachedGetter) Get(key []byte) ([]byte, error) {
	fullKey := string(key)
	if v, ok := g.stater.cache.Get(fullKey); ok {
		data := v.([]byte)
		if data == nil {
			return nil, errNotFound
		}
		return data, nil
	}
	data, err := g.stater.db.Get(key)
	if err != nil {
		if g.stater.db.IsNotFound(err) {
			g.stater.cache.Add(fullKey, []byte(nil))
		}
		return nil, err
	}
	g.stater.cache.Add(fullKey, data)
	return data, nil
}

func (g *cachedGetter) Has(key []byte) (bool, error) {
	if _, err := g.Get(key); err != nil {
		if g.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (g *cachedGetter) IsNotFound(err error) bool {
	return err == errNotFound || g.stater.db.IsNotFound(err)
}

func (g *cachedGetter) NewIterator(r kv.Range) kv.Iterator {
	return g.stater.db.NewIterator(r)
}
