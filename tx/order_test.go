// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/tx"
)

func TestReceivedQuantity(t *testing.T) {
	assert := assert.New(t)

	order := &tx.Order{QuantityFrom: 100, QuantityTo: 1000}
	tests := []struct {
		spent, received uint64
	}{
		{0, 0},
		{1, 10},
		{50, 500},
		{100, 1000},
		{33, 330},
	}
	for _, test := range tests {
		assert.Equal(test.received, order.ReceivedQuantity(test.spent))
	}

	// flooring
	odd := &tx.Order{QuantityFrom: 3, QuantityTo: 10}
	assert.Equal(uint64(3), odd.ReceivedQuantity(1))
	assert.Equal(uint64(6), odd.ReceivedQuantity(2))
	assert.Equal(uint64(10), odd.ReceivedQuantity(3))

	// spent*to overflowing 64 bits must still divide exactly
	wide := &tx.Order{QuantityFrom: 1 << 40, QuantityTo: 1 << 40}
	assert.Equal(uint64(1<<39), wide.ReceivedQuantity(1<<39))
}

func TestConsumed(t *testing.T) {
	assert := assert.New(t)

	order := &tx.Order{
		AssetTypeFrom: helix.AssetTypeOf(helix.BytesToBytes32([]byte("gold"))),
		AssetTypeTo:   helix.AssetTypeOf(helix.BytesToBytes32([]byte("silver"))),
		QuantityFrom:  100,
		QuantityTo:    1000,
		OriginOutputs: []tx.AssetOutPoint{{TxHash: helix.BytesToBytes32([]byte("t1")), Quantity: 100}},
		Expiration:    99,
	}

	change := []tx.AssetOutPoint{{TxHash: helix.BytesToBytes32([]byte("t2")), Index: 1, Quantity: 50}}
	residual := order.Consumed(50, change)

	assert.Equal(uint64(50), residual.QuantityFrom)
	assert.Equal(uint64(500), residual.QuantityTo)
	assert.Equal(change, residual.OriginOutputs)
	assert.Equal(order.AssetTypeFrom, residual.AssetTypeFrom)
	assert.Equal(order.Expiration, residual.Expiration)

	// the original is untouched
	assert.Equal(uint64(100), order.QuantityFrom)
	assert.NotEqual(order.Hash(), residual.Hash())
}
