// Package matcher adapts comparisons into named assertions.
//
// A Matcher answers whether it can handle a check (Supports), runs it in
// either polarity (PositiveMatch, NegativeMatch), and reports a Priority
// used by a Registry to choose between matchers claiming the same check.
// A failed assertion is a *Failure; any other error means the check could
// not be carried out at all.
package matcher

import (
	"context"
	"errors"
)

// ErrFailure matches every *Failure with errors.Is.
var ErrFailure = errors.New("assertion failed")

// Matcher is a single named assertion.
type Matcher interface {
	// Supports reports whether the matcher can run name against subject
	// with the given arguments. It must not consume either operand.
	Supports(name string, subject any, arguments []any) bool

	// PositiveMatch returns nil when subject satisfies the assertion and a
	// *Failure when it does not.
	PositiveMatch(ctx context.Context, name string, subject any, arguments []any) error

	// NegativeMatch is the negated form of PositiveMatch.
	NegativeMatch(ctx context.Context, name string, subject any, arguments []any) error

	// Priority orders matchers that support the same check, higher first.
	Priority() int
}

// Named is implemented by matchers that report a stable name. The name
// is used as the matcher label on metrics; others are labeled by type.
type Named interface {
	Name() string
}

// Failure is a failed assertion. Its message is meant for people; the
// cause, when present, carries the machine-readable reason.
type Failure struct {
	message string
	cause   error
}

// NewFailure returns a Failure with the given message and optional cause.
func NewFailure(message string, cause error) *Failure {
	return &Failure{message: message, cause: cause}
}

// Error returns the failure message.
func (f *Failure) Error() string {
	return f.message
}

// Message returns the human-readable failure message.
func (f *Failure) Message() string {
	return f.message
}

// Unwrap returns the cause, which may be nil.
func (f *Failure) Unwrap() error {
	return f.cause
}

// Is makes every Failure match ErrFailure.
func (f *Failure) Is(target error) bool {
	return target == ErrFailure //nolint:errorlint
}

// IsFailure reports whether err is, or wraps, a failed assertion.
func IsFailure(err error) bool {
	return errors.Is(err, ErrFailure)
}
