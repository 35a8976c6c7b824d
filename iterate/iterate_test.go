package iterate_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"maps"
	"math"
	"os"
	"slices"
	"testing"

	"github.com/amp-labs/amp-matchers/compare"
	"github.com/amp-labs/amp-matchers/iterate"
	"github.com/amp-labs/amp-matchers/sequence"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fixture struct {
	Name          string  `yaml:"name"`
	Subject       []any   `yaml:"subject"`
	Expected      []any   `yaml:"expected"`
	SubjectPairs  [][]any `yaml:"subject_pairs"`
	ExpectedPairs [][]any `yaml:"expected_pairs"`
	Outcome       string  `yaml:"outcome"`
	Position      int     `yaml:"position"`
	ExpectedKey   any     `yaml:"expected_key"`
	ExpectedValue any     `yaml:"expected_value"`
	ActualKey     any     `yaml:"actual_key"`
	ActualValue   any     `yaml:"actual_value"`
}

func loadFixtures(t *testing.T) []fixture {
	t.Helper()

	raw, err := os.ReadFile("testdata/divergences.yaml")
	require.NoError(t, err)

	var fixtures []fixture

	require.NoError(t, yaml.Unmarshal(raw, &fixtures))
	require.NotEmpty(t, fixtures)

	return fixtures
}

func fixtureSeq(t *testing.T, list []any, pairs [][]any) sequence.Seq {
	t.Helper()

	if pairs == nil {
		seq, ok := sequence.Of(list)
		require.True(t, ok)

		return seq
	}

	flat := make([]any, 0, 2*len(pairs))

	for _, p := range pairs {
		require.Len(t, p, 2)

		flat = append(flat, p...)
	}

	return sequence.Pairs(flat...)
}

func TestCompare_Fixtures(t *testing.T) {
	t.Parallel()

	for _, fx := range loadFixtures(t) {
		t.Run(fx.Name, func(t *testing.T) {
			t.Parallel()

			comparator := iterate.New(iterate.WithLogger(slogt.New(t)))
			outcome := comparator.Compare(t.Context(),
				fixtureSeq(t, fx.Subject, fx.SubjectPairs),
				fixtureSeq(t, fx.Expected, fx.ExpectedPairs))

			divergence, diverged := outcome.Divergence()

			switch fx.Outcome {
			case "match":
				require.True(t, outcome.Matched())
				require.False(t, diverged)
				require.NoError(t, outcome.Err())
			case "shorter":
				require.False(t, outcome.Matched())
				require.Equal(t, iterate.SubjectShorter{Position: fx.Position}, divergence)
				require.ErrorIs(t, outcome.Err(), iterate.ErrSubjectShorter)
			case "longer":
				require.False(t, outcome.Matched())
				require.Equal(t, iterate.SubjectLonger{Position: fx.Position}, divergence)
				require.ErrorIs(t, outcome.Err(), iterate.ErrSubjectLonger)
			case "mismatch":
				require.Equal(t, iterate.ElementMismatch{
					Position:      fx.Position,
					ExpectedKey:   fx.ExpectedKey,
					ExpectedValue: fx.ExpectedValue,
					ActualKey:     fx.ActualKey,
					ActualValue:   fx.ActualValue,
				}, divergence)
				require.ErrorIs(t, outcome.Err(), iterate.ErrElementMismatch)
			default:
				t.Fatalf("unknown outcome %q", fx.Outcome)
			}
		})
	}
}

func TestCompare_Reflexive(t *testing.T) {
	t.Parallel()

	values := []map[string]int{{"a": 1}, nil, {"b": 2, "c": 3}}

	seq, ok := sequence.Of(values)
	require.True(t, ok)

	require.True(t, iterate.Compare(t.Context(), seq, seq).Matched())
}

func TestCompare_LengthMismatchIsSymmetric(t *testing.T) {
	t.Parallel()

	short := sequence.Pairs(0, "a", 1, "b")
	long := sequence.Pairs(0, "a", 1, "b", 2, "c")

	outcome := iterate.Compare(t.Context(), short, long)
	require.Equal(t, "subject has fewer elements than expected (position 3)", outcome.String())

	divergence, _ := outcome.Divergence()
	require.Equal(t, iterate.SubjectShorter{Position: 3}, divergence)

	divergence, _ = iterate.Compare(t.Context(), long, short).Divergence()
	require.Equal(t, iterate.SubjectLonger{Position: 3}, divergence)
}

// explodingAfter yields count pairs and panics if asked for another.
func explodingAfter(count int, value string) sequence.Seq {
	return func(yield func(any, any) bool) {
		for i := range count {
			if !yield(i, value) {
				return
			}
		}

		panic("read past the first divergence")
	}
}

func TestCompare_StopsAtFirstDivergence(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		outcome := iterate.Compare(t.Context(), explodingAfter(1, "x"), explodingAfter(1, "y"))

		divergence, ok := outcome.Divergence()
		require.True(t, ok)
		require.Equal(t, iterate.ElementMismatch{
			Position:      1,
			ExpectedKey:   0,
			ExpectedValue: "y",
			ActualKey:     0,
			ActualValue:   "x",
		}, divergence)
	})
}

func TestCompare_ReleasesSourcesOnEarlyStop(t *testing.T) {
	t.Parallel()

	var released []string

	tracked := func(name string, values ...any) sequence.Seq {
		return func(yield func(any, any) bool) {
			defer func() { released = append(released, name) }()

			for i, v := range values {
				if !yield(i, v) {
					return
				}
			}
		}
	}

	outcome := iterate.Compare(t.Context(), tracked("subject", 1, 2, 3), tracked("expected", 1, 9, 3))
	require.False(t, outcome.Matched())
	require.ElementsMatch(t, []string{"subject", "expected"}, released)
}

func TestCompare_SinglePassSource(t *testing.T) {
	t.Parallel()

	ch := make(chan string, 3)
	ch <- "a"
	ch <- "b"
	ch <- "c"
	close(ch)

	outcome, err := iterate.New().CompareValues(t.Context(), ch, []string{"a", "b", "c"})
	require.NoError(t, err)
	require.True(t, outcome.Matched())
}

func TestCompare_UnconsumedChannel(t *testing.T) {
	t.Parallel()

	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)

	outcome, err := iterate.New().CompareValues(t.Context(), ch, []int{5})
	require.NoError(t, err)
	require.False(t, outcome.Matched())

	// Only the first element was read.
	require.Len(t, ch, 2)
}

func TestCompare_PanicsPropagate(t *testing.T) {
	t.Parallel()

	failing := func(yield func(any, any) bool) {
		panic("cursor closed")
	}

	require.PanicsWithValue(t, "cursor closed", func() {
		iterate.Compare(t.Context(), failing, sequence.Pairs(0, 1))
	})
}

func TestCompare_NilSequencesAreEmpty(t *testing.T) {
	t.Parallel()

	require.True(t, iterate.Compare(t.Context(), nil, nil).Matched())

	divergence, _ := iterate.Compare(t.Context(), nil, sequence.Pairs("k", "v")).Divergence()
	require.Equal(t, iterate.SubjectShorter{Position: 1}, divergence)
}

func TestCompare_WithEquality(t *testing.T) {
	t.Parallel()

	subject := sequence.Pairs(0, 1)
	expected := sequence.Pairs(0, int64(1))

	require.True(t, iterate.New().Compare(t.Context(), subject, expected).Matched())

	strict := iterate.New(iterate.WithEquality(compare.Strict))
	divergence, ok := strict.Compare(t.Context(), subject, expected).Divergence()
	require.True(t, ok)

	var mismatch iterate.ElementMismatch

	require.ErrorAs(t, divergence, &mismatch)
	require.Equal(t, int64(1), mismatch.ExpectedValue)
	require.Equal(t, 1, mismatch.ActualValue)
}

func TestCompare_EqualityArgumentOrder(t *testing.T) {
	t.Parallel()

	var calls [][2]any

	recording := iterate.New(iterate.WithEquality(func(actual, expected any) bool {
		calls = append(calls, [2]any{actual, expected})

		return true
	}))

	require.True(t, recording.Compare(t.Context(), sequence.Pairs("ak", "av"), sequence.Pairs("ek", "ev")).Matched())
	require.Equal(t, [][2]any{{"ak", "ek"}, {"av", "ev"}}, calls)
}

func TestCompare_MapsInNaturalOrder(t *testing.T) {
	t.Parallel()

	outcome, err := iterate.New().CompareValues(t.Context(),
		map[string]int{"b": 2, "a": 1},
		sequence.Pairs("a", 1, "b", 2))
	require.NoError(t, err)
	require.True(t, outcome.Matched())
}

func TestCompare_NaNMapKeys(t *testing.T) {
	t.Parallel()

	values := map[float64]string{math.NaN(): "x", 1: "y"}

	outcome, err := iterate.New().CompareValues(t.Context(), values, values)
	require.NoError(t, err)
	require.True(t, outcome.Matched())
}

func TestCompare_LogsMismatchDiff(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	comparator := iterate.New(iterate.WithLogger(log))

	_, err := comparator.CompareValues(t.Context(), []string{"a", "b"}, []string{"a", "c"})
	require.NoError(t, err)

	var record struct {
		Msg  string `json:"msg"`
		Diff string `json:"diff"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "sequences diverged", record.Msg)
	require.Contains(t, record.Diff, `"b"`)
	require.Contains(t, record.Diff, `"c"`)

	buf.Reset()

	_, err = comparator.CompareValues(t.Context(), []string{"a"}, []string{"a", "c"})
	require.NoError(t, err)
	require.NotContains(t, buf.String(), `"diff"`)
}

func TestCompareValues_NotIterable(t *testing.T) {
	t.Parallel()

	comparator := iterate.New()

	_, err := comparator.CompareValues(t.Context(), 42, []int{1})
	require.ErrorIs(t, err, iterate.ErrNotIterable)
	require.Contains(t, err.Error(), "subject of type int")

	_, err = comparator.CompareValues(t.Context(), []int{1}, "abc")
	require.ErrorIs(t, err, iterate.ErrNotIterable)
	require.Contains(t, err.Error(), "expected value of type string")
}

func TestCompareSeq2(t *testing.T) {
	t.Parallel()

	outcome := iterate.CompareSeq2(t.Context(), slices.All([]string{"a", "b"}), slices.All([]string{"a", "b"}))
	require.True(t, outcome.Matched())

	outcome = iterate.CompareSeq2(t.Context(), maps.All(map[string]int{"only": 1}), maps.All(map[string]int{"other": 1}))

	divergence, ok := outcome.Divergence()
	require.True(t, ok)
	require.ErrorIs(t, divergence, iterate.ErrElementMismatch)
}
