package model

import (
	"errors"
	"fmt"
)

// NetworkError reports a failed server round-trip. It is fatal to the current sync attempt.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError reports malformed block or transaction bytes.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// LedgerInvariantViolation signals ledger corruption or a logic bug, e.g. marking a missing note spent.
type LedgerInvariantViolation struct {
	Op     string
	Reason string
}

func (e *LedgerInvariantViolation) Error() string {
	return fmt.Sprintf("ledger invariant violation: %s: %s", e.Op, e.Reason)
}

// NewNetworkError wraps err unless it is nil.
func NewNetworkError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &NetworkError{Op: op, Err: err}
}

// NewDecodeError wraps err unless it is nil.
func NewDecodeError(what string, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{What: what, Err: err}
}

// Violation builds a LedgerInvariantViolation with a formatted reason.
func Violation(op, format string, args ...any) error {
	return &LedgerInvariantViolation{Op: op, Reason: fmt.Sprintf(format, args...)}
}

func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

func IsDecodeError(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

func IsLedgerInvariantViolation(err error) bool {
	var target *LedgerInvariantViolation
	return errors.As(err, &target)
}
