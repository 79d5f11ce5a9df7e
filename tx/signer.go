// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Sign signs a transaction using the provided private key.
func Sign(t *Transaction, pk *ecdsa.PrivateKey) (*Transaction, error) {
	sig, err := crypto.Sign(t.SigningHash().Bytes(), pk)
	if err != nil {
		return nil, errors.Wrap(err, "unable to sign transaction")
	}
	return t.WithSignature(sig), nil
}

// MustSign signs a transaction and panics on failure.
func MustSign(t *Transaction, pk *ecdsa.PrivateKey) *Transaction {
	signed, err := Sign(t, pk)
	if err != nil {
		panic(err)
	}
	return signed
}
