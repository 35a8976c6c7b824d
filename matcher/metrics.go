package matcher

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	polarityPositive = "positive"
	polarityNegative = "negative"

	resultPass  = "pass"
	resultFail  = "fail"
	resultError = "error"

	unknownMatcher = "unknown"
)

var checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "matcher_checks_total",
	Help: "The total number of checks dispatched through a registry",
}, []string{"matcher", "polarity", "result"})

func observe(m Matcher, polarity string, err error) {
	checksTotal.WithLabelValues(matcherLabel(m), polarity, resultOf(err)).Inc()
}

// matcherLabel names the matcher that ran, or "unknown" when none did.
// Check names come from callers and are not used as labels.
func matcherLabel(m Matcher) string {
	if m == nil {
		return unknownMatcher
	}

	if named, ok := m.(Named); ok {
		return named.Name()
	}

	return fmt.Sprintf("%T", m)
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return resultPass
	case IsFailure(err):
		return resultFail
	default:
		return resultError
	}
}
