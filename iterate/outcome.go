package iterate

import (
	"errors"
	"fmt"
)

var (
	// ErrSubjectShorter matches every SubjectShorter divergence.
	ErrSubjectShorter = errors.New("subject has fewer elements than expected")

	// ErrSubjectLonger matches every SubjectLonger divergence.
	ErrSubjectLonger = errors.New("subject has more elements than expected")

	// ErrElementMismatch matches every ElementMismatch divergence.
	ErrElementMismatch = errors.New("subject element does not match expected element")
)

// Divergence is the first point where two sequences stop corresponding.
// The set of implementations is closed: SubjectShorter, SubjectLonger and
// ElementMismatch. Each is also an error, so a divergence can be carried as
// the cause of a failure and classified with errors.Is or errors.As.
type Divergence interface {
	error

	divergence()
}

// SubjectShorter means the subject ran out while the expected sequence
// still had the element at Position.
type SubjectShorter struct {
	Position int
}

// SubjectLonger means the subject still had the element at Position after
// the expected sequence ran out.
type SubjectLonger struct {
	Position int
}

// ElementMismatch means the pair at Position differs in key, value, or both.
type ElementMismatch struct {
	Position      int
	ExpectedKey   any
	ExpectedValue any
	ActualKey     any
	ActualValue   any
}

func (SubjectShorter) divergence()  {}
func (SubjectLonger) divergence()   {}
func (ElementMismatch) divergence() {}

func (d SubjectShorter) Error() string {
	return fmt.Sprintf("%s (position %d)", ErrSubjectShorter, d.Position)
}

func (d SubjectLonger) Error() string {
	return fmt.Sprintf("%s (position %d)", ErrSubjectLonger, d.Position)
}

func (d ElementMismatch) Error() string {
	return fmt.Sprintf("%s (position %d)", ErrElementMismatch, d.Position)
}

func (SubjectShorter) Is(target error) bool  { return target == ErrSubjectShorter }  //nolint:errorlint
func (SubjectLonger) Is(target error) bool   { return target == ErrSubjectLonger }   //nolint:errorlint
func (ElementMismatch) Is(target error) bool { return target == ErrElementMismatch } //nolint:errorlint

// Outcome is the result of a comparison: either a match, or exactly one
// Divergence. The zero Outcome is a match.
type Outcome struct {
	divergence Divergence
}

func diverged(d Divergence) Outcome {
	return Outcome{divergence: d}
}

// Matched reports whether both sequences iterated identically.
func (o Outcome) Matched() bool {
	return o.divergence == nil
}

// Divergence returns the divergence, if any.
func (o Outcome) Divergence() (Divergence, bool) { //nolint:ireturn
	return o.divergence, o.divergence != nil
}

// Err returns the divergence as an error, or nil on a match.
func (o Outcome) Err() error {
	if o.divergence == nil {
		return nil
	}

	return o.divergence
}

func (o Outcome) String() string {
	if o.divergence == nil {
		return "match"
	}

	return o.divergence.Error()
}
