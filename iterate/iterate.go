// Package iterate checks whether two sequences of key/value pairs iterate
// identically.
//
// Both sequences are walked in lockstep, one pair at a time, and the walk
// stops at the first divergence. Neither sequence is rewound or read past
// that point, so single-pass sources (channels, cursors) are fine. An
// infinite pair of matching sequences never terminates; that is up to
// the caller to avoid.
package iterate

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/amp-labs/amp-matchers/compare"
	commonerrors "github.com/amp-labs/amp-matchers/errors"
	"github.com/amp-labs/amp-matchers/logger"
	"github.com/amp-labs/amp-matchers/sequence"
)

// ErrNotIterable is returned by CompareValues for operands that are not
// sequences.
var ErrNotIterable = commonerrors.ErrNotIterable

// EqualFunc decides whether two keys, or two values, correspond. The first
// argument comes from the subject, the second from the expected sequence.
type EqualFunc func(actual, expected any) bool

// Option configures a Comparator.
type Option func(*Comparator)

// WithEquality replaces compare.Equal as the equality relation.
func WithEquality(eq EqualFunc) Option {
	return func(c *Comparator) {
		c.equal = eq
	}
}

// WithLogger makes the comparator log to l instead of logger.Get(ctx).
func WithLogger(l *slog.Logger) Option {
	return func(c *Comparator) {
		c.log = l
	}
}

// Comparator compares sequences. It holds no per-comparison state and is
// safe to share between goroutines.
type Comparator struct {
	equal EqualFunc
	log   *slog.Logger
}

// New returns a Comparator using compare.Equal unless told otherwise.
func New(opts ...Option) *Comparator {
	c := &Comparator{equal: compare.Equal}

	for _, opt := range opts {
		opt(c)
	}

	if c.equal == nil {
		c.equal = compare.Equal
	}

	return c
}

var defaultComparator = New() //nolint:gochecknoglobals

// Compare compares subject with expected using the default comparator.
func Compare(ctx context.Context, subject, expected sequence.Seq) Outcome {
	return defaultComparator.Compare(ctx, subject, expected)
}

// CompareSeq2 compares two typed sequences using the default comparator.
func CompareSeq2[K, V any](ctx context.Context, subject, expected iter.Seq2[K, V]) Outcome {
	return defaultComparator.Compare(ctx, sequence.Erase(subject), sequence.Erase(expected))
}

// CompareValues adapts subject and expected with sequence.Of and compares
// them. It fails with ErrNotIterable if either is not a sequence.
func (c *Comparator) CompareValues(ctx context.Context, subject, expected any) (Outcome, error) {
	subjectSeq, ok := sequence.Of(subject)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: subject of type %T", ErrNotIterable, subject)
	}

	expectedSeq, ok := sequence.Of(expected)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: expected value of type %T", ErrNotIterable, expected)
	}

	return c.Compare(ctx, subjectSeq, expectedSeq), nil
}

// Compare walks subject and expected in lockstep. At each step:
//
//   - neither has a next pair: the sequences match;
//   - only expected has one: SubjectShorter;
//   - only subject has one: SubjectLonger;
//   - both do, but keys or values differ: ElementMismatch.
//
// Positions start at 1. A nil sequence is empty. Panics raised by either
// sequence reach the caller unchanged.
func (c *Comparator) Compare(ctx context.Context, subject, expected sequence.Seq) Outcome {
	nextActual, stopActual := iter.Pull2(orEmpty(subject))
	defer stopActual()

	nextExpected, stopExpected := iter.Pull2(orEmpty(expected))
	defer stopExpected()

	for position := 1; ; position++ {
		actualKey, actualValue, hasActual := nextActual()
		expectedKey, expectedValue, hasExpected := nextExpected()

		switch {
		case !hasActual && !hasExpected:
			return Outcome{}
		case !hasActual:
			return c.diverge(ctx, SubjectShorter{Position: position})
		case !hasExpected:
			return c.diverge(ctx, SubjectLonger{Position: position})
		}

		if !c.equal(actualKey, expectedKey) || !c.equal(actualValue, expectedValue) {
			return c.diverge(ctx, ElementMismatch{
				Position:      position,
				ExpectedKey:   expectedKey,
				ExpectedValue: expectedValue,
				ActualKey:     actualKey,
				ActualValue:   actualValue,
			})
		}
	}
}

func (c *Comparator) diverge(ctx context.Context, d Divergence) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}

	log := c.log
	if log == nil {
		log = logger.Get(ctx)
	}

	if !log.Enabled(ctx, slog.LevelDebug) {
		return diverged(d)
	}

	attrs := []any{"divergence", d.Error()}

	if mismatch, ok := d.(ElementMismatch); ok {
		attrs = append(attrs, "diff", compare.Diff(
			[]any{mismatch.ExpectedKey, mismatch.ExpectedValue},
			[]any{mismatch.ActualKey, mismatch.ActualValue}))
	}

	log.DebugContext(ctx, "sequences diverged", attrs...)

	return diverged(d)
}

func orEmpty(s sequence.Seq) sequence.Seq {
	if s == nil {
		return func(func(any, any) bool) {}
	}

	return s
}
