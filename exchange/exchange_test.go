// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package exchange_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helix-chain/helix/exchange"
	"github.com/helix-chain/helix/helix"
	"github.com/helix-chain/helix/lvldb"
	"github.com/helix-chain/helix/state"
	"github.com/helix-chain/helix/tx"
)

var (
	makerLock = []byte("maker-lock")
	takerLock = []byte("taker-lock")

	makerLockHash = helix.LockScriptHashOf(makerLock)
	takerLockHash = helix.LockScriptHashOf(takerLock)

	goldMintTx   = helix.BytesToBytes32([]byte("gold-mint"))
	silverMintTx = helix.BytesToBytes32([]byte("silver-mint"))
	gold         = helix.AssetTypeOf(goldMintTx)
	silver       = helix.AssetTypeOf(silverMintTx)
)

// fixture is a ledger holding the maker's 100 gold at goldMintTx:0 and
// the taker's 1000 silver at silverMintTx:0.
func fixture(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	if err != nil {
		t.Fatal(err)
	}
	st := state.NewStater(db).NewState()
	st.AddAssetOutput(
		state.OutPoint{TxHash: goldMintTx, Index: 0},
		&state.AssetOutput{AssetType: gold, Quantity: 100, LockScriptHash: makerLockHash})
	st.AddAssetOutput(
		state.OutPoint{TxHash: silverMintTx, Index: 0},
		&state.AssetOutput{AssetType: silver, Quantity: 1000, LockScriptHash: takerLockHash})
	return st
}

func goldInput() *tx.TransferInput {
	return &tx.TransferInput{
		PrevOut:    tx.AssetOutPoint{TxHash: goldMintTx, Index: 0, AssetType: gold, Quantity: 100},
		LockScript: makerLock,
	}
}

func silverInput() *tx.TransferInput {
	return &tx.TransferInput{
		PrevOut:    tx.AssetOutPoint{TxHash: silverMintTx, Index: 0, AssetType: silver, Quantity: 1000},
		LockScript: takerLock,
	}
}

// sellGoldOrder offers 100 gold against 1000 silver, backed by the
// maker's gold output.
func sellGoldOrder() *tx.Order {
	return &tx.Order{
		AssetTypeFrom:      gold,
		AssetTypeTo:        silver,
		QuantityFrom:       100,
		QuantityTo:         1000,
		OriginOutputs:      []tx.AssetOutPoint{{TxHash: goldMintTx, Index: 0, AssetType: gold, Quantity: 100}},
		Expiration:         100,
		LockScriptHashFrom: makerLockHash,
	}
}

// fillTransfer is the taker filling spent=50 of sellGoldOrder:
// outputs 0,1 belong to the maker (change gold, received silver),
// outputs 2,3 to the taker.
func fillTransfer(order *tx.Order, spent, makerChange, makerReceived uint64) *tx.TransferAsset {
	return &tx.TransferAsset{
		Inputs: []*tx.TransferInput{goldInput(), silverInput()},
		Outputs: []*tx.TransferOutput{
			{LockScriptHash: makerLockHash, AssetType: gold, Quantity: makerChange},
			{LockScriptHash: makerLockHash, AssetType: silver, Quantity: makerReceived},
			{LockScriptHash: takerLockHash, AssetType: gold, Quantity: 100 - makerChange},
			{LockScriptHash: takerLockHash, AssetType: silver, Quantity: 1000 - makerReceived},
		},
		Orders: []*tx.OrderApplication{{
			Order:         order,
			SpentQuantity: spent,
			InputIndices:  []uint32{0},
			OutputIndices: []uint32{0, 1},
		}},
	}
}

func kindOf(t *testing.T, err error) tx.ErrorKind {
	t.Helper()
	ruleErr, ok := tx.AsRuleError(err)
	if !ok {
		t.Fatalf("want a rule error, got %v", err)
	}
	return ruleErr.Kind()
}

func TestPlainTransfer(t *testing.T) {
	assert := assert.New(t)
	st := fixture(t)
	v := exchange.New(st, 10)

	txHash := helix.BytesToBytes32([]byte("transfer"))
	transfer := &tx.TransferAsset{
		Inputs: []*tx.TransferInput{goldInput()},
		Outputs: []*tx.TransferOutput{
			{LockScriptHash: takerLockHash, AssetType: gold, Quantity: 30},
			{LockScriptHash: makerLockHash, AssetType: gold, Quantity: 70},
		},
	}
	assert.Nil(v.ApplyTransfer(txHash, transfer))

	// input spent, outputs registered
	spent, err := st.GetAssetOutput(state.OutPoint{TxHash: goldMintTx, Index: 0})
	assert.Nil(err)
	assert.Nil(spent)
	out, err := st.GetAssetOutput(state.OutPoint{TxHash: txHash, Index: 0})
	assert.Nil(err)
	assert.Equal(uint64(30), out.Quantity)
	assert.Equal(gold, out.AssetType)
	out, err = st.GetAssetOutput(state.OutPoint{TxHash: txHash, Index: 1})
	assert.Nil(err)
	assert.Equal(uint64(70), out.Quantity)

	// spending the same output again fails
	err = v.ApplyTransfer(helix.BytesToBytes32([]byte("again")), transfer)
	assert.Equal(tx.ErrAssetNotFound, kindOf(t, err))
}

func TestPlainTransferErrors(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name     string
		mutate   func(*tx.TransferAsset)
		wantKind tx.ErrorKind
	}{
		{"no inputs", func(tr *tx.TransferAsset) {
			tr.Inputs = nil
		}, tx.ErrInconsistentTransferInOut},
		{"duplicate input", func(tr *tx.TransferAsset) {
			tr.Inputs = append(tr.Inputs, goldInput())
		}, tx.ErrAssetNotFound},
		{"unknown prevout", func(tr *tx.TransferAsset) {
			tr.Inputs[0].PrevOut.Index = 9
		}, tx.ErrAssetNotFound},
		{"declared quantity mismatch", func(tr *tx.TransferAsset) {
			tr.Inputs[0].PrevOut.Quantity = 99
		}, tx.ErrInvalidAssetQuantity},
		{"declared asset type mismatch", func(tr *tx.TransferAsset) {
			tr.Inputs[0].PrevOut.AssetType = silver
		}, tx.ErrInvalidAssetQuantity},
		{"wrong lock script", func(tr *tx.TransferAsset) {
			tr.Inputs[0].LockScript = takerLock
		}, tx.ErrInvalidTransferLockScript},
		{"zero output", func(tr *tx.TransferAsset) {
			tr.Outputs[0].Quantity = 0
			tr.Outputs[1].Quantity = 100
		}, tx.ErrInvalidAssetQuantity},
		{"quantity not conserved", func(tr *tx.TransferAsset) {
			tr.Outputs[0].Quantity = 31
		}, tx.ErrInconsistentTransferInOut},
		{"foreign asset created", func(tr *tx.TransferAsset) {
			tr.Outputs[0].AssetType = silver
		}, tx.ErrInconsistentTransferInOut},
	}

	for _, test := range tests {
		st := fixture(t)
		transfer := &tx.TransferAsset{
			Inputs: []*tx.TransferInput{goldInput()},
			Outputs: []*tx.TransferOutput{
				{LockScriptHash: takerLockHash, AssetType: gold, Quantity: 30},
				{LockScriptHash: makerLockHash, AssetType: gold, Quantity: 70},
			},
		}
		test.mutate(transfer)
		err := exchange.New(st, 10).ApplyTransfer(helix.BytesToBytes32([]byte("t")), transfer)
		assert.Equal(test.wantKind, kindOf(t, err), test.name)

		// failed transfers leave the registry untouched
		out, err := st.GetAssetOutput(state.OutPoint{TxHash: goldMintTx, Index: 0})
		assert.Nil(err)
		assert.NotNil(out, test.name)
	}
}

func TestOrderFill(t *testing.T) {
	assert := assert.New(t)
	st := fixture(t)
	v := exchange.New(st, 10)

	txHash := helix.BytesToBytes32([]byte("fill"))
	// spending 50 of 100 gold buys exactly 500 silver for the maker
	transfer := fillTransfer(sellGoldOrder(), 50, 50, 500)
	assert.Nil(v.ApplyTransfer(txHash, transfer))

	makerChange, err := st.GetAssetOutput(state.OutPoint{TxHash: txHash, Index: 0})
	assert.Nil(err)
	assert.Equal(gold, makerChange.AssetType)
	assert.Equal(uint64(50), makerChange.Quantity)
	assert.Equal(makerLockHash, makerChange.LockScriptHash)

	makerSilver, err := st.GetAssetOutput(state.OutPoint{TxHash: txHash, Index: 1})
	assert.Nil(err)
	assert.Equal(silver, makerSilver.AssetType)
	assert.Equal(uint64(500), makerSilver.Quantity)
	assert.Equal(makerLockHash, makerSilver.LockScriptHash)

	takerGold, err := st.GetAssetOutput(state.OutPoint{TxHash: txHash, Index: 2})
	assert.Nil(err)
	assert.Equal(uint64(50), takerGold.Quantity)
	assert.Equal(takerLockHash, takerGold.LockScriptHash)
}

func TestOrderRatioExact(t *testing.T) {
	assert := assert.New(t)

	// maker may get neither less nor more than floor(spent*to/from)
	for _, received := range []uint64{499, 501} {
		st := fixture(t)
		err := exchange.New(st, 10).ApplyTransfer(
			helix.BytesToBytes32([]byte("fill")),
			fillTransfer(sellGoldOrder(), 50, 50, received))
		assert.Equal(tx.ErrInconsistentTransferInOutWithOrders, kindOf(t, err), "received %d", received)
	}

	// short maker change is rejected too
	st := fixture(t)
	err := exchange.New(st, 10).ApplyTransfer(
		helix.BytesToBytes32([]byte("fill")),
		fillTransfer(sellGoldOrder(), 50, 49, 500))
	assert.Equal(tx.ErrInconsistentTransferInOutWithOrders, kindOf(t, err))
}

func TestOrderValidationErrors(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name      string
		chainTime uint64
		mutate    func(*tx.TransferAsset)
		wantKind  tx.ErrorKind
	}{
		{"mismatched origin outputs", 10, func(tr *tx.TransferAsset) {
			tr.Orders[0].Order.OriginOutputs[0].Index = 7
		}, tx.ErrInvalidOriginOutputs},
		{"empty origin outputs", 10, func(tr *tx.TransferAsset) {
			tr.Orders[0].Order.OriginOutputs = nil
		}, tx.ErrInvalidOriginOutputs},
		{"origin count mismatch", 10, func(tr *tx.TransferAsset) {
			tr.Orders[0].Order.OriginOutputs = append(
				tr.Orders[0].Order.OriginOutputs,
				tx.AssetOutPoint{TxHash: silverMintTx, Index: 0, AssetType: silver, Quantity: 1000})
		}, tx.ErrInvalidOriginOutputs},
		{"same asset both sides", 10, func(tr *tx.TransferAsset) {
			tr.Orders[0].Order.AssetTypeTo = gold
		}, tx.ErrInvalidOrderAssetTypes},
		{"zero quantity from", 10, func(tr *tx.TransferAsset) {
			tr.Orders[0].Order.QuantityFrom = 0
		}, tx.ErrInvalidOrderAssetQuantities},
		{"zero quantity to", 10, func(tr *tx.TransferAsset) {
			tr.Orders[0].Order.QuantityTo = 0
		}, tx.ErrInvalidOrderAssetQuantities},
		{"expired order", 100, func(tr *tx.TransferAsset) {}, tx.ErrOrderExpired},
		{"zero expiration", 0, func(tr *tx.TransferAsset) {
			tr.Orders[0].Order.Expiration = 0
		}, tx.ErrOrderExpired},
		{"wrong maker lock hash", 10, func(tr *tx.TransferAsset) {
			tr.Orders[0].Order.LockScriptHashFrom = takerLockHash
		}, tx.ErrInvalidOrderLockScriptHash},
		{"wrong maker parameters", 10, func(tr *tx.TransferAsset) {
			tr.Orders[0].Order.ParametersFrom = [][]byte{[]byte("extra")}
		}, tx.ErrInvalidOrderParameters},
		{"overspent order", 10, func(tr *tx.TransferAsset) {
			tr.Orders[0].SpentQuantity = 101
		}, tx.ErrInconsistentTransferInOutWithOrders},
		{"order-bound output to taker", 10, func(tr *tx.TransferAsset) {
			tr.Outputs[0].LockScriptHash = takerLockHash
		}, tx.ErrInconsistentTransferInOutWithOrders},
		{"order binds taker change output", 10, func(tr *tx.TransferAsset) {
			tr.Orders[0].OutputIndices = []uint32{0, 1, 3}
		}, tx.ErrInconsistentTransferInOutWithOrders},
	}

	for _, test := range tests {
		st := fixture(t)
		transfer := fillTransfer(sellGoldOrder(), 50, 50, 500)
		test.mutate(transfer)
		err := exchange.New(st, test.chainTime).ApplyTransfer(helix.BytesToBytes32([]byte("t")), transfer)
		assert.Equal(test.wantKind, kindOf(t, err), test.name)
	}
}

func TestOrderExpirationBound(t *testing.T) {
	assert := assert.New(t)

	// expiration 100 is valid at chain time 99 and invalid at 100
	st := fixture(t)
	assert.Nil(exchange.New(st, 99).ApplyTransfer(
		helix.BytesToBytes32([]byte("t")), fillTransfer(sellGoldOrder(), 50, 50, 500)))

	st = fixture(t)
	err := exchange.New(st, 100).ApplyTransfer(
		helix.BytesToBytes32([]byte("t")), fillTransfer(sellGoldOrder(), 50, 50, 500))
	assert.Equal(tx.ErrOrderExpired, kindOf(t, err))
}

func TestOrderBoundOutputLimit(t *testing.T) {
	assert := assert.New(t)
	st := fixture(t)

	// splitting the maker's silver across three outputs exceeds the
	// per-side bound
	transfer := &tx.TransferAsset{
		Inputs: []*tx.TransferInput{goldInput(), silverInput()},
		Outputs: []*tx.TransferOutput{
			{LockScriptHash: makerLockHash, AssetType: gold, Quantity: 50},
			{LockScriptHash: makerLockHash, AssetType: silver, Quantity: 200},
			{LockScriptHash: makerLockHash, AssetType: silver, Quantity: 200},
			{LockScriptHash: makerLockHash, AssetType: silver, Quantity: 100},
			{LockScriptHash: takerLockHash, AssetType: gold, Quantity: 50},
			{LockScriptHash: takerLockHash, AssetType: silver, Quantity: 500},
		},
		Orders: []*tx.OrderApplication{{
			Order:         sellGoldOrder(),
			SpentQuantity: 50,
			InputIndices:  []uint32{0},
			OutputIndices: []uint32{0, 1, 2, 3},
		}},
	}
	err := exchange.New(st, 10).ApplyTransfer(helix.BytesToBytes32([]byte("t")), transfer)
	assert.Equal(tx.ErrInconsistentTransferInOutWithOrders, kindOf(t, err))
}

func TestOrdersShareNoIndices(t *testing.T) {
	assert := assert.New(t)
	st := fixture(t)

	transfer := fillTransfer(sellGoldOrder(), 50, 50, 500)
	second := *transfer.Orders[0]
	transfer.Orders = append(transfer.Orders, &second)
	err := exchange.New(st, 10).ApplyTransfer(helix.BytesToBytes32([]byte("t")), transfer)
	assert.Equal(tx.ErrInconsistentTransferInOutWithOrders, kindOf(t, err))
}

// TestPartialFillChain fills 50 of the order, then fills the residual
// order against the change outputs. The maker ends with the same
// holdings as a single full fill.
func TestPartialFillChain(t *testing.T) {
	assert := assert.New(t)
	st := fixture(t)

	order := sellGoldOrder()
	fill1 := helix.BytesToBytes32([]byte("fill-1"))
	assert.Nil(exchange.New(st, 10).ApplyTransfer(fill1, fillTransfer(order, 50, 50, 500)))

	// rebase the residual onto the maker's change output of fill1
	residual := order.Consumed(50, []tx.AssetOutPoint{
		{TxHash: fill1, Index: 0, AssetType: gold, Quantity: 50},
	})
	assert.Equal(uint64(50), residual.QuantityFrom)
	assert.Equal(uint64(500), residual.QuantityTo)

	fill2 := helix.BytesToBytes32([]byte("fill-2"))
	transfer := &tx.TransferAsset{
		Inputs: []*tx.TransferInput{
			{
				PrevOut:    tx.AssetOutPoint{TxHash: fill1, Index: 0, AssetType: gold, Quantity: 50},
				LockScript: makerLock,
			},
			{
				PrevOut:    tx.AssetOutPoint{TxHash: fill1, Index: 3, AssetType: silver, Quantity: 500},
				LockScript: takerLock,
			},
		},
		Outputs: []*tx.TransferOutput{
			{LockScriptHash: makerLockHash, AssetType: silver, Quantity: 500},
			{LockScriptHash: takerLockHash, AssetType: gold, Quantity: 50},
		},
		Orders: []*tx.OrderApplication{{
			Order:         residual,
			SpentQuantity: 50,
			InputIndices:  []uint32{0},
			OutputIndices: []uint32{0},
		}},
	}
	assert.Nil(exchange.New(st, 10).ApplyTransfer(fill2, transfer))

	makerSilver1, err := st.GetAssetOutput(state.OutPoint{TxHash: fill1, Index: 1})
	assert.Nil(err)
	makerSilver2, err := st.GetAssetOutput(state.OutPoint{TxHash: fill2, Index: 0})
	assert.Nil(err)
	assert.Equal(uint64(1000), makerSilver1.Quantity+makerSilver2.Quantity)
}

// An order is cancelled by simply spending its origin outputs without
// any order application.
func TestOrderCancelBySpending(t *testing.T) {
	assert := assert.New(t)
	st := fixture(t)

	moveAway := &tx.TransferAsset{
		Inputs: []*tx.TransferInput{goldInput()},
		Outputs: []*tx.TransferOutput{
			{LockScriptHash: makerLockHash, AssetType: gold, Quantity: 100},
		},
	}
	assert.Nil(exchange.New(st, 10).ApplyTransfer(helix.BytesToBytes32([]byte("cancel")), moveAway))

	// the published order can no longer settle
	err := exchange.New(st, 10).ApplyTransfer(
		helix.BytesToBytes32([]byte("fill")), fillTransfer(sellGoldOrder(), 50, 50, 500))
	assert.Equal(tx.ErrAssetNotFound, kindOf(t, err))
}
