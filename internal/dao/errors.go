package dao

import (
	"errors"
	"fmt"
)

// Kind classifies store failures so callers can branch on the failure
// class instead of sniffing message text.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate in this package.
	KindUnknown Kind = iota
	// KindInsertion covers writes that affected zero rows or failed outright.
	KindInsertion
	// KindRetrieval covers backend failures during a read.
	KindRetrieval
	// KindNotFound covers single-row lookups that matched no row.
	KindNotFound
	// KindUpdation covers updates that affected zero rows or failed outright.
	KindUpdation
	// KindDeletion covers deletes that affected zero rows or failed outright.
	KindDeletion
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindInsertion:
		return "insertion error"
	case KindRetrieval:
		return "retrieval error"
	case KindNotFound:
		return "not found"
	case KindUpdation:
		return "updation error"
	case KindDeletion:
		return "deletion error"
	default:
		return "unknown error"
	}
}

// Error is the typed error returned by every store operation. It carries
// the failed operation name and the underlying cause when one exists.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

func insertionError(op string, err error) *Error {
	return &Error{Kind: KindInsertion, Op: op, Err: err}
}

func retrievalError(op string, err error) *Error {
	return &Error{Kind: KindRetrieval, Op: op, Err: err}
}

func notFoundError(op, id string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("no matching row: %s", id)}
}

func updationError(op string, err error) *Error {
	return &Error{Kind: KindUpdation, Op: op, Err: err}
}

func deletionError(op string, err error) *Error {
	return &Error{Kind: KindDeletion, Op: op, Err: err}
}

// KindOf returns the failure kind of err, or KindUnknown when err was not
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a missing-row failure rather than a
// backend failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
