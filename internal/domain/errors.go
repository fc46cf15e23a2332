package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a quiz session has not been opened.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuestionSetNotFound indicates no source is configured under the requested id.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrShapeMismatch means a question's answers do not line up with its blanks.
	ErrShapeMismatch = errors.New("answer count does not match blank count")
	// ErrAlreadyUsed is returned when an option is already placed in a blank.
	ErrAlreadyUsed = errors.New("option already placed")
	// ErrNoEmptySlot is returned when every blank is already filled.
	ErrNoEmptySlot = errors.New("no empty blank")
	// ErrUnknownOption indicates the option is not offered by the current question.
	ErrUnknownOption = errors.New("option not offered for this question")
	// ErrBlankOutOfRange indicates a blank index outside the sentence.
	ErrBlankOutOfRange = errors.New("blank index out of range")
	// ErrIncompleteAnswer is returned when submitting with unfilled blanks.
	ErrIncompleteAnswer = errors.New("every blank must be filled before submitting")
	// ErrInvalidTransition is returned for operations not allowed in the current mode.
	ErrInvalidTransition = errors.New("operation not allowed in current session mode")
	// ErrUnsuccessfulStatus is returned when the document status is not SUCCESS.
	ErrUnsuccessfulStatus = errors.New("document returned unsuccessful status")
)

// LoadError reports a failed question-set load. Callers offer a manual retry.
type LoadError struct {
	Source string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load question set %q: %v", e.Source, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// IsRecoverableInput reports whether err is an expected user-input condition
// that should be ignored rather than surfaced as a failure.
func IsRecoverableInput(err error) bool {
	return errors.Is(err, ErrAlreadyUsed) || errors.Is(err, ErrNoEmptySlot)
}
