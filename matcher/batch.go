package matcher

import (
	"context"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/amp-matchers/envutil"
)

const defaultWorkerCount = 4

// Check is one assertion to run through a registry.
type Check struct {
	Name      string
	Subject   any
	Arguments []any
	Negated   bool
}

// CheckAll runs checks concurrently and returns their errors in the same
// order; a nil entry is a passing check. At most workers checks run at
// once. With workers below 1 the count comes from MATCHER_WORKERS,
// defaulting to 4.
//
// Checks must not share single-pass subjects such as channels.
func (r *Registry) CheckAll(ctx context.Context, workers int, checks ...Check) []error {
	if ctx == nil {
		ctx = context.Background()
	}

	if workers < 1 {
		workers = envutil.Int("MATCHER_WORKERS", envutil.Default(defaultWorkerCount)).
			ValueOrElse(defaultWorkerCount)
	}

	if workers < 1 {
		workers = defaultWorkerCount
	}

	pool := pond.NewPool(workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	tasks := make([]pond.Task, len(checks))

	for i, check := range checks {
		tasks[i] = pool.SubmitErr(func() error {
			if check.Negated {
				return r.NotMatch(ctx, check.Name, check.Subject, check.Arguments...)
			}

			return r.Match(ctx, check.Name, check.Subject, check.Arguments...)
		})
	}

	results := make([]error, len(checks))

	for i, task := range tasks {
		results[i] = task.Wait()
	}

	return results
}
