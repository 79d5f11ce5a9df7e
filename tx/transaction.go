// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/helix-chain/helix/helix"
)

// Transaction is an immutable tx type.
type Transaction struct {
	body body

	cache struct {
		signingHash atomic.Value
		hash        atomic.Value
		origin      atomic.Value
	}
}

// body describes details of a tx.
type body struct {
	NetworkID byte
	Seq       uint64
	Fee       *big.Int
	Action    Action
	Signature []byte
}

// envelope is the wire form of a tx body. The action is flattened
// into a kind tag plus its own RLP payload, so that every action
// variant round-trips byte-identically.
type envelope struct {
	NetworkID  byte
	Seq        uint64
	Fee        *big.Int
	ActionKind ActionKind
	ActionData []byte
	Signature  []byte
}

// NetworkID returns the network id the tx is bound to.
func (t *Transaction) NetworkID() byte {
	return t.body.NetworkID
}

// Seq returns the sender sequence number.
func (t *Transaction) Seq() uint64 {
	return t.body.Seq
}

// Fee returns the declared fee.
func (t *Transaction) Fee() *big.Int {
	if t.body.Fee == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(t.body.Fee)
}

// Action returns the action the tx carries.
func (t *Transaction) Action() Action {
	return t.body.Action
}

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// Hash returns hash of the tx, which uniquely identifies it.
func (t *Transaction) Hash() (hash helix.Bytes32) {
	if cached := t.cache.hash.Load(); cached != nil {
		return cached.(helix.Bytes32)
	}
	defer func() { t.cache.hash.Store(hash) }()

	hash = helix.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, t)
	})
	return
}

// SigningHash returns hash of the tx excluding signature.
func (t *Transaction) SigningHash() (hash helix.Bytes32) {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return cached.(helix.Bytes32)
	}
	defer func() { t.cache.signingHash.Store(hash) }()

	env, err := t.makeEnvelope()
	if err != nil {
		return helix.Bytes32{}
	}
	env.Signature = nil
	hash = helix.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, env)
	})
	return
}

// Origin extract address of the tx originator from signature.
func (t *Transaction) Origin() (helix.Address, error) {
	if cached := t.cache.origin.Load(); cached != nil {
		return cached.(helix.Address), nil
	}

	if len(t.body.Signature) != 65 {
		return helix.Address{}, errBadSignatureLength
	}
	signingHash := t.SigningHash()
	pub, err := crypto.SigToPub(signingHash.Bytes(), t.body.Signature)
	if err != nil {
		return helix.Address{}, err
	}
	origin := helix.PubkeyToAddress(pub)
	t.cache.origin.Store(origin)
	return origin, nil
}

// WithSignature create a new tx with signature set.
// Signature is not verified here.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{
		body: t.body,
	}
	// copy sig
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

func (t *Transaction) makeEnvelope() (*envelope, error) {
	if t.body.Action == nil {
		return nil, errors.New("tx: nil action")
	}
	actionData, err := rlp.EncodeToBytes(t.body.Action)
	if err != nil {
		return nil, err
	}
	fee := t.body.Fee
	if fee == nil {
		fee = new(big.Int)
	}
	return &envelope{
		NetworkID:  t.body.NetworkID,
		Seq:        t.body.Seq,
		Fee:        fee,
		ActionKind: t.body.Action.Kind(),
		ActionData: actionData,
		Signature:  t.body.Signature,
	}, nil
}

// EncodeRLP implements rlp.Encoder.
func (t *Transaction) EncodeRLP(w io.Writer) error {
	env, err := t.makeEnvelope()
	if err != nil {
		return err
	}
	return rlp.Encode(w, env)
}

// DecodeRLP implements rlp.Decoder.
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var env envelope
	if err := s.Decode(&env); err != nil {
		return err
	}
	action, err := DecodeAction(env.ActionKind, env.ActionData)
	if err != nil {
		return err
	}
	*t = Transaction{
		body: body{
			NetworkID: env.NetworkID,
			Seq:       env.Seq,
			Fee:       env.Fee,
			Action:    action,
			Signature: env.Signature,
		},
	}
	return nil
}

var errBadSignatureLength = errors.New("invalid signature length")
