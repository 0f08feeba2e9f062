// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package engine

import "fmt"

// ErrorCode is a numeric engine error code. Zero is success.
type ErrorCode int32

// Error codes shared by all engines. The values match libfdb_c.
const (
	Success                ErrorCode = 0
	OperationFailed        ErrorCode = 1000
	TimedOut               ErrorCode = 1004
	TransactionTooOld      ErrorCode = 1007
	FutureVersion          ErrorCode = 1009
	NotCommitted           ErrorCode = 1020
	CommitUnknownResult    ErrorCode = 1021
	TransactionCancelled   ErrorCode = 1025
	TransactionTimedOut    ErrorCode = 1031
	ProcessBehind          ErrorCode = 1037
	ClusterVersionChanged  ErrorCode = 1039
	OperationCancelled     ErrorCode = 1101
	TagThrottled           ErrorCode = 1213
	ClientInvalidOperation ErrorCode = 2000
	KeyOutsideLegalRange   ErrorCode = 2004
	InvertedRange          ErrorCode = 2005
	InvalidOptionValue     ErrorCode = 2006
	InvalidOption          ErrorCode = 2007
	NetworkNotSetup        ErrorCode = 2008
	NetworkAlreadySetup    ErrorCode = 2009
	UsedDuringCommit       ErrorCode = 2017
	TransactionTooLarge    ErrorCode = 2101
	KeyTooLarge            ErrorCode = 2102
	ValueTooLarge          ErrorCode = 2103
	APIVersionUnset        ErrorCode = 2200
	APIVersionAlreadySet   ErrorCode = 2201
	APIVersionInvalid      ErrorCode = 2202
	APIVersionNotSupported ErrorCode = 2203
	ExactModeWithoutLimits ErrorCode = 2210
	UnknownError           ErrorCode = 4000
	InternalError          ErrorCode = 4100
)

var codeMessages = map[ErrorCode]string{
	Success:                "Success",
	OperationFailed:        "Operation failed",
	TimedOut:               "Operation timed out",
	TransactionTooOld:      "Transaction is too old to perform reads or be committed",
	FutureVersion:          "Request for future version",
	NotCommitted:           "Transaction not committed due to conflict with another transaction",
	CommitUnknownResult:    "Transaction may or may not have committed",
	TransactionCancelled:   "Operation aborted because the transaction was cancelled",
	TransactionTimedOut:    "Operation aborted because the transaction timed out",
	ProcessBehind:          "Storage process does not have recent mutations",
	ClusterVersionChanged:  "The protocol version of the cluster has changed",
	OperationCancelled:     "Asynchronous operation cancelled",
	TagThrottled:           "Transaction tag is being throttled",
	ClientInvalidOperation: "Invalid API call",
	KeyOutsideLegalRange:   "Key outside legal range",
	InvertedRange:          "Range begin key larger than end key",
	InvalidOptionValue:     "Option set with an invalid value",
	InvalidOption:          "Option not valid in this context",
	NetworkNotSetup:        "Action not possible before the network is configured",
	NetworkAlreadySetup:    "Network can be configured only once",
	UsedDuringCommit:       "Operation issued while a commit was outstanding",
	TransactionTooLarge:    "Transaction exceeds byte limit",
	KeyTooLarge:            "Key length exceeds limit",
	ValueTooLarge:          "Value length exceeds limit",
	APIVersionUnset:        "API version is not set",
	APIVersionAlreadySet:   "API version may be set only once",
	APIVersionInvalid:      "API version not valid",
	APIVersionNotSupported: "API version not supported",
	ExactModeWithoutLimits: "EXACT streaming mode requires limits, but none were given",
	UnknownError:           "An unknown error occurred",
	InternalError:          "An internal error occurred",
}

// Message returns the engine's description of c.
func (c ErrorCode) Message() string {
	if m, ok := codeMessages[c]; ok {
		return m
	}
	return "UNKNOWN_ERROR"
}

// String implements fmt.Stringer.
func (c ErrorCode) String() string {
	return fmt.Sprintf("%d", int32(c))
}

// SafeValue implements redact.SafeValue.
func (c ErrorCode) SafeValue() {}

// ErrorPredicate names a class of error codes. The values match libfdb_c.
type ErrorPredicate int32

const (
	// PredicateRetryable holds for codes after which the whole transaction
	// may be retried.
	PredicateRetryable ErrorPredicate = 50000
	// PredicateMaybeCommitted holds for codes after which the transaction may
	// have been committed.
	PredicateMaybeCommitted ErrorPredicate = 50001
	// PredicateRetryableNotCommitted holds for retryable codes after which the
	// transaction is known not to have been committed.
	PredicateRetryableNotCommitted ErrorPredicate = 50002
)

// DefaultErrorPredicate evaluates p the way libfdb_c does. Engines without a
// native predicate implementation use it.
func DefaultErrorPredicate(p ErrorPredicate, code ErrorCode) bool {
	switch p {
	case PredicateRetryable:
		return DefaultErrorPredicate(PredicateMaybeCommitted, code) ||
			DefaultErrorPredicate(PredicateRetryableNotCommitted, code)
	case PredicateMaybeCommitted:
		return code == CommitUnknownResult || code == ClusterVersionChanged
	case PredicateRetryableNotCommitted:
		switch code {
		case NotCommitted, TransactionTooOld, FutureVersion, ProcessBehind, TagThrottled:
			return true
		}
	}
	return false
}
