package matcher

import (
	"context"
	"fmt"

	commonerrors "github.com/amp-labs/amp-matchers/errors"
	"github.com/amp-labs/amp-matchers/iterate"
	"github.com/amp-labs/amp-matchers/logger"
	"github.com/amp-labs/amp-matchers/present"
	"github.com/amp-labs/amp-matchers/sequence"
)

const (
	// IterateName is the check name the Iterate matcher answers to.
	IterateName = "iterate"

	// IteratePriority is the fixed priority of the Iterate matcher.
	IteratePriority = 100
)

const (
	shorterMessage  = "Expected subject to have the same count than matched value, but it has less records."
	longerMessage   = "Expected subject to have the same count than matched value, but it has more records."
	mismatchMessage = "Expected subject to have record #%d with key %s and value %s, but got key %s and value %s."
	negatedMessage  = "Expected subject not to iterate the same as matched value, but it does."
)

// IterateOption configures an Iterate matcher.
type IterateOption func(*Iterate)

// WithPresenter sets the presenter used to render keys and values in
// failure messages.
func WithPresenter(p present.Presenter) IterateOption {
	return func(m *Iterate) {
		m.presenter = p
	}
}

// WithComparator sets the comparator that walks the two sequences.
func WithComparator(c *iterate.Comparator) IterateOption {
	return func(m *Iterate) {
		m.comparator = c
	}
}

// Iterate asserts that a subject iterates exactly like the single
// expected argument: same length, same keys, same values, same order.
//
//	iterate(subject, expected)
type Iterate struct {
	presenter  present.Presenter
	comparator *iterate.Comparator
}

var _ Matcher = (*Iterate)(nil)

// NewIterate returns an Iterate matcher. Without options it presents
// values with present.FromEnv and compares with iterate.New.
func NewIterate(opts ...IterateOption) *Iterate {
	m := &Iterate{}

	for _, opt := range opts {
		opt(m)
	}

	if m.presenter == nil {
		m.presenter = present.FromEnv()
	}

	if m.comparator == nil {
		m.comparator = iterate.New()
	}

	return m
}

// Supports is true for the "iterate" check with one argument, when both
// the subject and that argument are sequences.
func (m *Iterate) Supports(name string, subject any, arguments []any) bool {
	return name == IterateName &&
		len(arguments) == 1 &&
		sequence.IsIterable(subject) &&
		sequence.IsIterable(arguments[0])
}

// PositiveMatch returns a *Failure wrapping the first divergence between
// subject and the expected argument, or nil when they iterate alike.
func (m *Iterate) PositiveMatch(ctx context.Context, _ string, subject any, arguments []any) error {
	outcome, err := m.compare(ctx, subject, arguments)
	if err != nil {
		return err
	}

	divergence, diverged := outcome.Divergence()
	if !diverged {
		return nil
	}

	return NewFailure(m.describe(divergence), divergence)
}

// NegativeMatch returns a *Failure when subject iterates exactly like the
// expected argument, and nil on any divergence.
func (m *Iterate) NegativeMatch(ctx context.Context, _ string, subject any, arguments []any) error {
	outcome, err := m.compare(ctx, subject, arguments)
	if err != nil {
		return err
	}

	if !outcome.Matched() {
		return nil
	}

	return NewFailure(negatedMessage, nil)
}

// Priority always returns IteratePriority.
func (m *Iterate) Priority() int {
	return IteratePriority
}

// Name returns IterateName.
func (m *Iterate) Name() string {
	return IterateName
}

func (m *Iterate) compare(ctx context.Context, subject any, arguments []any) (iterate.Outcome, error) {
	if len(arguments) != 1 {
		return iterate.Outcome{}, fmt.Errorf("%w: %s takes exactly one argument, got %d",
			commonerrors.ErrWrongArity, IterateName, len(arguments))
	}

	outcome, err := m.comparator.CompareValues(ctx, subject, arguments[0])
	if err != nil {
		return outcome, logger.AnnotateError(err,
			"subject_type", fmt.Sprintf("%T", subject),
			"expected_type", fmt.Sprintf("%T", arguments[0]))
	}

	return outcome, nil
}

func (m *Iterate) describe(d iterate.Divergence) string {
	switch div := d.(type) {
	case iterate.SubjectShorter:
		return shorterMessage
	case iterate.SubjectLonger:
		return longerMessage
	case iterate.ElementMismatch:
		return fmt.Sprintf(mismatchMessage,
			div.Position,
			m.presenter.Present(div.ExpectedKey),
			m.presenter.Present(div.ExpectedValue),
			m.presenter.Present(div.ActualKey),
			m.presenter.Present(div.ActualValue))
	default:
		return d.Error()
	}
}
