package matcher

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	commonerrors "github.com/amp-labs/amp-matchers/errors"
	"github.com/amp-labs/amp-matchers/logger"
	"github.com/google/uuid"
)

// ErrMatcherNotFound is returned when no registered matcher supports a check.
var ErrMatcherNotFound = errors.New("no matcher supports this check")

// Registry dispatches checks to the registered matcher that supports them.
// It is safe for concurrent use.
type Registry struct {
	mut      sync.RWMutex
	matchers []Matcher
}

// NewRegistry returns a registry holding ms. Nil matchers are skipped.
func NewRegistry(ms ...Matcher) *Registry {
	r := &Registry{}

	_ = r.Add(ms...)

	return r
}

// Default returns a registry holding an Iterate matcher with default
// options.
func Default() *Registry {
	return NewRegistry(NewIterate())
}

// Add registers ms. Nil matchers are rejected; the others are added even
// when some are rejected, and the returned error lists every rejection.
func (r *Registry) Add(ms ...Matcher) error {
	var errs commonerrors.Collection

	r.mut.Lock()
	defer r.mut.Unlock()

	for i, m := range ms {
		if m == nil {
			errs.Addf(commonerrors.ErrWrongType, "matcher %d is nil", i)

			continue
		}

		r.matchers = append(r.matchers, m)
	}

	return errs.GetError()
}

// Len returns the number of registered matchers.
func (r *Registry) Len() int {
	r.mut.RLock()
	defer r.mut.RUnlock()

	return len(r.matchers)
}

// Find returns the highest priority matcher supporting the check. When
// several share that priority, the one registered first wins.
func (r *Registry) Find(name string, subject any, arguments []any) (Matcher, error) { //nolint:ireturn
	r.mut.RLock()
	candidates := slices.Clone(r.matchers)
	r.mut.RUnlock()

	var found Matcher

	for _, m := range candidates {
		if !m.Supports(name, subject, arguments) {
			continue
		}

		if found == nil || m.Priority() > found.Priority() {
			found = m
		}
	}

	if found == nil {
		return nil, fmt.Errorf("%w: %q with subject of type %T and %d argument(s)",
			ErrMatcherNotFound, name, subject, len(arguments))
	}

	return found, nil
}

// Match runs the positive form of the check.
func (r *Registry) Match(ctx context.Context, name string, subject any, arguments ...any) error {
	return r.dispatch(ctx, polarityPositive, name, subject, arguments)
}

// NotMatch runs the negated form of the check.
func (r *Registry) NotMatch(ctx context.Context, name string, subject any, arguments ...any) error {
	return r.dispatch(ctx, polarityNegative, name, subject, arguments)
}

func (r *Registry) dispatch(ctx context.Context, polarity, name string, subject any, arguments []any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx = logger.With(ctx, "check_id", uuid.NewString(), "check", name, "polarity", polarity)

	var m Matcher

	defer func() {
		observe(m, polarity, err)

		if err != nil && !IsFailure(err) {
			logger.Get(ctx).ErrorContext(ctx, "check could not run", "error", err)
		}
	}()

	m, err = r.Find(name, subject, arguments)
	if err != nil {
		return err
	}

	if polarity == polarityNegative {
		return m.NegativeMatch(ctx, name, subject, arguments)
	}

	return m.PositiveMatch(ctx, name, subject, arguments)
}
