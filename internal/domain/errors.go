package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput rejects a question before any tier runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDependencyUnavailable marks a backing store or model that could not be reached.
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrEmbeddingFailure means the question could not be vectorized.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrGenerativeFailure means no tier produced an answer.
	ErrGenerativeFailure = errors.New("generative failure")

	// ErrPartialWriteBack means at least one write-back target failed.
	ErrPartialWriteBack = errors.New("partial write-back failure")

	// ErrNotFound is returned by stores for missing keys.
	ErrNotFound = errors.New("not found")
)

// ResolutionError is returned alongside a failed PipelineResult.
type ResolutionError struct {
	Kind error
	Step Step
	Err  error
}

func (e *ResolutionError) Error() string {
	kind := e.Kind.Error()
	if e.Step != "" {
		kind = fmt.Sprintf("%s at %s", kind, e.Step)
	}
	switch {
	case e.Err == nil:
		return kind
	case errors.Is(e.Err, e.Kind) && e.Step == "":
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s: %v", kind, e.Err)
	}
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is and errors.As.
func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newResolutionError(kind error, step Step, err error) *ResolutionError {
	return &ResolutionError{Kind: kind, Step: step, Err: err}
}

// unavailable wraps a store failure so callers can match ErrDependencyUnavailable.
func unavailable(component string, err error) error {
	return fmt.Errorf("%s: %w: %w", component, ErrDependencyUnavailable, err)
}
