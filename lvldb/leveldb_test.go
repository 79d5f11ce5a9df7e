// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helix-chain/helix/kv"
	"github.com/helix-chain/helix/lvldb"
)

func TestMem(t *testing.T) {
	assert := assert.New(t)
	db, err := lvldb.NewMem()
	assert.Nil(err)
	defer db.Close()

	key := []byte("key")
	value := []byte("value")

	_, err = db.Get(key)
	assert.True(db.IsNotFound(err))

	assert.Nil(db.Put(key, value))
	v, err := db.Get(key)
	assert.Nil(err)
	assert.Equal(value, v)

	has, err := db.Has(key)
	assert.Nil(err)
	assert.True(has)

	assert.Nil(db.Delete(key))
	has, err = db.Has(key)
	assert.Nil(err)
	assert.False(has)
}

func TestBatchAndIterator(t *testing.T) {
	assert := assert.New(t)
	db, err := lvldb.NewMem()
	assert.Nil(err)
	defer db.Close()

	batch := db.NewBatch()
	assert.Nil(batch.Put([]byte("k1"), []byte("v1")))
	assert.Nil(batch.Put([]byte("k2"), []byte("v2")))
	assert.Nil(batch.Put([]byte("k3"), []byte("v3")))
	assert.Nil(batch.Delete([]byte("k2")))
	assert.Nil(batch.Write())

	var keys []string
	it := db.NewIterator(kv.Range{})
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	assert.Nil(it.Error())
	assert.Equal([]string{"k1", "k3"}, keys)
}
