package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks rejected caller input; no collaborator was called.
	ErrInvalidInput = errors.New("invalid input")
	// ErrExtraction marks a task extractor failure or unusable task list.
	ErrExtraction = errors.New("task extraction failed")
	// ErrCatalog marks a missing or empty robot catalog.
	ErrCatalog = errors.New("robot catalog unavailable")
	// ErrUnexpected marks an unclassified failure during a run.
	ErrUnexpected = errors.New("unexpected analysis failure")
)

// InputError describes a caller mistake. Its message is meant for the caller
// and it matches ErrInvalidInput with errors.Is.
type InputError struct {
	msg string
}

func invalidInput(format string, args ...any) error {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

func (e *InputError) Error() string { return e.msg }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }
