// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package ffdb

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/freefdb/ffdb/engine"
)

var (
	// ErrRetryable marks engine errors after which the whole transaction may
	// be reset and run again.
	ErrRetryable = errors.New("ffdb: retryable")
	// ErrFatal marks engine errors that retrying will not fix.
	ErrFatal = errors.New("ffdb: fatal")
	// ErrNoFuture is returned when awaiting an operation that never obtained
	// a completion handle.
	ErrNoFuture = errors.New("ffdb: no future")
	// ErrClosed is panicked when a closed Transaction, Iterator or Store is
	// used.
	ErrClosed = errors.New("ffdb: closed")
)

// ErrorKind classifies an engine error.
type ErrorKind int8

const (
	// KindRetryable errors are conflicts and transient conditions. The
	// transaction may be reset and run again.
	KindRetryable ErrorKind = iota + 1
	// KindFatal errors are everything else.
	KindFatal
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case KindRetryable:
		return "retryable"
	case KindFatal:
		return "fatal"
	}
	return fmt.Sprintf("ErrorKind(%d)", int8(k))
}

// SafeValue implements redact.SafeValue.
func (k ErrorKind) SafeValue() {}

// Error is an engine error with its classification. Errors returned by ffdb
// that originate in the engine wrap an *Error, and are marked with either
// ErrRetryable or ErrFatal.
type Error struct {
	Kind ErrorKind
	Code engine.ErrorCode
	// Message is the engine's description of Code.
	Message string
}

func (e *Error) Error() string { return fmt.Sprint(e) }

// Format implements fmt.Formatter.
func (e *Error) Format(s fmt.State, verb rune) { errors.FormatError(e, s, verb) }

// SafeFormatError implements errors.SafeFormatter.
func (e *Error) SafeFormatError(p errors.Printer) (next error) {
	p.Printf("ffdb: %s engine error %d: %s", e.Kind, e.Code, redact.SafeString(e.Message))
	return nil
}

// IsRetryable reports whether err is a retryable engine error.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryable)
}

// IsFatal reports whether err is a fatal engine error.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}

// classify turns an engine code into an error. Success is nil. The kind is
// decided by the engine's retryable predicate.
func classify(api engine.API, code engine.ErrorCode) error {
	if code == engine.Success {
		return nil
	}
	if api.ErrorPredicate(engine.PredicateRetryable, code) {
		return errors.Mark(&Error{Kind: KindRetryable, Code: code, Message: api.ErrorString(code)}, ErrRetryable)
	}
	return fatal(api, code)
}

func fatal(api engine.API, code engine.ErrorCode) error {
	return errors.Mark(&Error{Kind: KindFatal, Code: code, Message: api.ErrorString(code)}, ErrFatal)
}

// errorCode returns the engine code carried by err, or engine.Success if err
// did not originate in the engine.
func errorCode(err error) engine.ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return engine.Success
}
