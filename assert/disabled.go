//go:build assertions_disabled

package assert

// Iterates asserts that subject iterates exactly like expected.
// Built with assertions_disabled it does nothing.
func Iterates(subject, expected any, args ...any) {
	// Intentionally left blank
}

// NotIterates asserts that subject does not iterate like expected.
// Built with assertions_disabled it does nothing.
func NotIterates(subject, expected any, args ...any) {
	// Intentionally left blank
}
