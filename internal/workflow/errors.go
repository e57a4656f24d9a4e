package workflow

import (
	"errors"
	"fmt"

	"github.com/teemow/gtasks-mcp/internal/tasks"
)

// Error kinds. Use errors.Is to classify a returned error.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrRemoteCall         = errors.New("remote call failed")
	ErrCreateFailed       = errors.New("create failed")
	ErrVerificationFailed = errors.New("verification failed")
	ErrReparentFailed     = errors.New("reparent failed")
)

// ValidationError reports a missing or malformed input field.
// It is always returned before any remote call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// OperationError ties a failed step to its kind and the underlying cause.
type OperationError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the kind and the cause. A remote call rejected with a 404
// also matches ErrNotFound, whatever its kind.
func (e *OperationError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Kind != ErrNotFound && tasks.IsNotFound(e.Err) {
		errs = append(errs, ErrNotFound)
	}
	return errs
}

func opError(kind error, err error, format string, args ...any) error {
	return &OperationError{Op: fmt.Sprintf(format, args...), Kind: kind, Err: err}
}
