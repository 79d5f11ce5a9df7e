// Copyright (c) 2024 The Helix developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a local validation failure. A rule error
// rejects the offending tx without any ledger mutation; it is never
// fatal to the node.
type ErrorKind uint8

// Rule error kinds.
const (
	ErrUnknown ErrorKind = iota
	ErrInvalidNetworkID
	ErrInvalidSeq
	ErrTooLowFee
	ErrNotEnoughBalance
	ErrAssetNotFound
	ErrInvalidAssetQuantity
	ErrInconsistentTransferInOut
	ErrInvalidTransferLockScript
	ErrInvalidOriginOutputs
	ErrInvalidOrderAssetTypes
	ErrInvalidOrderAssetQuantities
	ErrOrderExpired
	ErrInvalidOrderLockScriptHash
	ErrInvalidOrderParameters
	ErrInconsistentTransferInOutWithOrders
	ErrInvalidDelegatee
	ErrInvalidSignature
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidNetworkID:
		return "InvalidNetworkId"
	case ErrInvalidSeq:
		return "InvalidSeq"
	case ErrTooLowFee:
		return "TooLowFee"
	case ErrNotEnoughBalance:
		return "NotEnoughBalance"
	case ErrAssetNotFound:
		return "AssetNotFound"
	case ErrInvalidAssetQuantity:
		return "InvalidAssetQuantity"
	case ErrInconsistentTransferInOut:
		return "InconsistentTransactionInOut"
	case ErrInvalidTransferLockScript:
		return "InvalidTransferLockScript"
	case ErrInvalidOriginOutputs:
		return "InvalidOriginOutputs"
	case ErrInvalidOrderAssetTypes:
		return "InvalidOrderAssetTypes"
	case ErrInvalidOrderAssetQuantities:
		return "InvalidOrderAssetQuantities"
	case ErrOrderExpired:
		return "OrderExpired"
	case ErrInvalidOrderLockScriptHash:
		return "InvalidOrderLockScriptHash"
	case ErrInvalidOrderParameters:
		return "InvalidOrderParameters"
	case ErrInconsistentTransferInOutWithOrders:
		return "InconsistentTransactionInOutWithOrders"
	case ErrInvalidDelegatee:
		return "InvalidDelegatee"
	case ErrInvalidSignature:
		return "InvalidSignature"
	}
	return "Unknown"
}

// RuleError is a structured, recoverable validation failure.
type RuleError struct {
	kind ErrorKind
	msg  string
}

// NewRuleError creates a rule error of the given kind.
func NewRuleError(kind ErrorKind, format string, args ...any) *RuleError {
	return &RuleError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Kind returns the error kind.
func (e *RuleError) Kind() ErrorKind {
	return e.kind
}

func (e *RuleError) Error() string {
	if e.msg == "" {
		return e.kind.String()
	}
	return e.kind.String() + ": " + e.msg
}

// AsRuleError unwraps a rule error from err.
// The second return value reports whether err is a rule error at all;
// any other error is a fatal state access failure.
func AsRuleError(err error) (*RuleError, bool) {
	var re *RuleError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
