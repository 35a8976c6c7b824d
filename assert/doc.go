// Package assert provides panicking assertions for use in code paths where
// a failed check is a programming error. Build with the assertions_disabled
// tag to compile them out.
package assert
