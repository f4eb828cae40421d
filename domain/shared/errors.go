/*
Package shared holds the errors shared by the domain packages.

Sentinel errors are matched with errors.Is(). A DomainError captures the stack
when created and formats it on demand. Domain errors carry no HTTP status.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// ErrNotFound the resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict concurrent modification or a unique constraint violation
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput validation failed
	ErrInvalidInput = errors.New("invalid input")
)

// ============================================================================
// Domain error
// ============================================================================

// DomainError is a structured error carrying business context and a stack.
type DomainError struct {
	// Err is the sentinel matched by errors.Is().
	Err error

	// Entity names the entity, e.g. "order" or "product".
	Entity string

	// Message is the human-readable description.
	Message string

	// Field is the offending field for validation errors, if any.
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured stack on demand.
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack records the current call stack.
// skip is usually 3: Callers, CaptureStack and the NewXxxError constructor.
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders at most 10 frames, skipping runtime internals.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError reports a single invalid field.
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// ValidationErrors reports several invalid fields. Fields maps field to reason.
type ValidationErrors struct {
	Entity string
	Fields map[string]string
	stack  []uintptr
}

// NewValidationErrors returns nil when fields is empty.
func NewValidationErrors(entity string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationErrors{Entity: entity, Fields: fields, stack: CaptureStack(3)}
}

func (e *ValidationErrors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationErrors) Unwrap() error {
	return ErrInvalidInput
}

func (e *ValidationErrors) Stack() []string {
	return FormatStack(e.stack)
}

// Stacker is implemented by errors that carry a stack. The API layer logs it.
type Stacker interface {
	Stack() []string
}
