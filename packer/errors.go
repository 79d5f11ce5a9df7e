// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"errors"

	"github.com/helix-chain/helix/tx"
)

var (
	errKnownTx = errors.New("known tx")
	errPacked  = errors.New("flow already packed")
)

// badTxError is returned by Adopt when the tx fails a validation rule.
// The tx should be evicted from the mempool and not retried.
type badTxError struct {
	kind tx.ErrorKind
}

func (e badTxError) Error() string {
	return "bad tx: " + e.kind.String()
}

// Kind returns the violated rule kind.
func (e badTxError) Kind() tx.ErrorKind {
	return e.kind
}

// IsBadTx returns whether the error indicates an unadoptable tx, and
// the rule kind it violated.
func IsBadTx(err error) (tx.ErrorKind, bool) {
	var bad badTxError
	if errors.As(err, &bad) {
		return bad.kind, true
	}
	return tx.ErrUnknown, false
}

// IsKnownTx returns whether the error indicates the tx was already adopted.
func IsKnownTx(err error) bool {
	return errors.Is(err, errKnownTx)
}
