// Package compare provides the equality relations used when matching
// sequences element by element.
package compare

// Comparable is implemented by types that define their own equality.
// Equal consults it before falling back to structural comparison.
type Comparable[T any] interface {
	Equals(other T) bool
}

// Equals compares two values using the Comparable interface.
func Equals[T any](a Comparable[T], b T) bool {
	return a.Equals(b)
}
