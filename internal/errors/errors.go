package errors

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/julianstephens/studyplan/internal/logger"
)

var (
	// ErrInvalidRequest marks malformed or missing request fields
	ErrInvalidRequest = errors.New("invalid schedule request")
	// ErrConflictingCommitments marks two fixed commitments overlapping on the same day
	ErrConflictingCommitments = errors.New("conflicting fixed commitments")
	// ErrInfeasibleDay marks a day whose commitments leave no room for meals or study
	ErrInfeasibleDay = errors.New("infeasible day")
)

// ValidationError reports a single malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidRequest, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrInvalidRequest, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

// Invalid builds a ValidationError with a formatted reason.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// CommitmentRef identifies one side of a commitment conflict.
type CommitmentRef struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r CommitmentRef) String() string {
	return fmt.Sprintf("%q (%s-%s)", r.Label, r.Start, r.End)
}

// ConflictError reports two fixed commitments that overlap on Date.
type ConflictError struct {
	Date   string
	First  CommitmentRef
	Second CommitmentRef
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v on %s: %s overlaps %s", ErrConflictingCommitments, e.Date, e.First, e.Second)
}

func (e *ConflictError) Unwrap() error { return ErrConflictingCommitments }

// InfeasibleError reports a day that can only be produced in degraded form.
type InfeasibleError struct {
	Date   string
	Reason string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("%v %s: %s", ErrInfeasibleDay, e.Date, e.Reason)
}

func (e *InfeasibleError) Unwrap() error { return ErrInfeasibleDay }

// HTTPStatus maps an error to the status code a transport should return.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflictingCommitments):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidRequest):
		return 2
	case errors.Is(err, ErrConflictingCommitments):
		return 3
	default:
		return 1
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits with the code ExitCode assigns to it
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
