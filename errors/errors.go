// Package errors holds the sentinel errors shared across the matcher
// packages, and a small accumulator for reporting several errors at once.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotIterable is returned when an operand has none of the shapes
	// the sequence package knows how to walk.
	ErrNotIterable = errors.New("value is not iterable")

	// ErrWrongArity is returned when a matcher receives a number of
	// arguments it cannot work with.
	ErrWrongArity = errors.New("wrong number of arguments")

	// ErrWrongType is returned when a value has an unexpected type.
	ErrWrongType = errors.New("wrong type")
)

// Collection accumulates errors. It is not safe for concurrent use.
type Collection struct {
	errors []error
}

// Add appends err to the collection. Nil errors are ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Addf wraps sentinel with a formatted detail message and appends it.
func (c *Collection) Addf(sentinel error, format string, args ...any) {
	c.Add(fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)))
}

// Len returns the number of collected errors.
func (c *Collection) Len() int {
	return len(c.errors)
}

// HasError reports whether at least one error was collected.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// GetError returns nil for an empty collection, the error itself when
// exactly one was collected, and an errors.Join of all of them otherwise.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
