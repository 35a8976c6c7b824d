//go:build !assertions_disabled

package assert

import (
	"context"
	"fmt"
	"sync"

	"github.com/amp-labs/amp-matchers/matcher"
)

var registry = sync.OnceValue(matcher.Default) //nolint:gochecknoglobals

// Iterates asserts that subject iterates exactly like expected.
// If the assertion fails, it panics with the failure message.
// The optional args can be used to prefix the panic message:
// - If the first arg is a string, it's used as a format string with remaining args.
// - Otherwise, all args are included in the prefix.
func Iterates(subject, expected any, args ...any) {
	check(registry().Match(context.Background(), matcher.IterateName, subject, expected), args)
}

// NotIterates asserts that subject does not iterate like expected.
// The optional args follow the same formatting rules as Iterates.
func NotIterates(subject, expected any, args ...any) {
	check(registry().NotMatch(context.Background(), matcher.IterateName, subject, expected), args)
}

func check(err error, args []any) {
	if err == nil {
		return
	}

	if len(args) == 0 {
		panic(err.Error())
	}

	first := args[0]
	remaining := args[1:]

	if firstStr, ok := first.(string); ok {
		panic(fmt.Sprintf(firstStr, remaining...) + ": " + err.Error())
	}

	panic(fmt.Sprintf("assertion failed: %v: %s", args, err.Error()))
}
