package models

import (
	"errors"
	"fmt"
)

// ErrorKind is a stable machine-readable error classification surfaced to the
// transport boundary.
type ErrorKind string

const (
	KindValidation          ErrorKind = "VALIDATION"
	KindPermissionDenied    ErrorKind = "PERMISSION_DENIED"
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindAlreadyCompleted    ErrorKind = "ALREADY_COMPLETED"
	KindInsufficientBalance ErrorKind = "INSUFFICIENT_BALANCE"
	KindOutcomeNotFound     ErrorKind = "OUTCOME_NOT_FOUND"
	KindInvalidAmount       ErrorKind = "INVALID_AMOUNT"
	KindImbalancedJournal   ErrorKind = "IMBALANCED_JOURNAL"
	KindConflictInProgress  ErrorKind = "CONFLICT_IN_PROGRESS"
	KindHandler             ErrorKind = "HANDLER"
)

// DomainError carries an error kind alongside its message. Wrapped causes stay
// reachable through errors.Is/As.
type DomainError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewDomainError creates a domain error of the given kind.
func NewDomainError(kind ErrorKind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

// NewDomainErrorf creates a domain error with a formatted message.
func NewDomainErrorf(kind ErrorKind, format string, args ...any) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapDomainError wraps err under the given kind, preserving it for
// errors.Is/As.
func WrapDomainError(kind ErrorKind, message string, err error) *DomainError {
	return &DomainError{Kind: kind, Message: message, cause: err}
}

// ErrorKindOf returns the kind of err if it is (or wraps) a DomainError.
// HandlerError wrappers are unwrapped so the inner kind is reported.
func ErrorKindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if !errors.As(err, &de) {
		return "", false
	}
	if de.Kind == KindHandler && de.cause != nil {
		var inner *DomainError
		if errors.As(de.cause, &inner) {
			return inner.Kind, true
		}
	}
	return de.Kind, true
}

// IsKind reports whether err carries the given kind, looking through
// HandlerError wrappers.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := ErrorKindOf(err)
	if ok && k == kind {
		return true
	}
	// A HandlerError wrapping a non-domain cause still matches KindHandler.
	var de *DomainError
	return errors.As(err, &de) && de.Kind == kind
}

// NewInsufficientBalanceError reports a debit that funds cannot cover.
func NewInsufficientBalanceError(have, need int64) *DomainError {
	return NewDomainErrorf(KindInsufficientBalance, "insufficient balance: have %d, need %d", have, need)
}

// NewImbalancedJournalError reports a journal whose entries do not sum to
// zero. This is an internal invariant violation, never user-triggerable.
func NewImbalancedJournalError(sum int64, entryCount int) *DomainError {
	return NewDomainErrorf(KindImbalancedJournal, "imbalanced journal: %d entries sum to %d, want 0", entryCount, sum)
}
