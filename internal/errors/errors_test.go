package errors

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "validation error",
			err:      Invalid("number_of_days", "must be at least 1, got %d", 0),
			expected: "Error: invalid schedule request: number_of_days: must be at least 1, got 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	result := Formatf("failed to load %s", "deadlines")
	if result != "Error: failed to load deadlines" {
		t.Errorf("Formatf() = %q", result)
	}
}

func TestTaxonomy(t *testing.T) {
	conflict := &ConflictError{
		Date:   "2026-03-02",
		First:  CommitmentRef{Label: "Physics", Start: "08:00", End: "10:00"},
		Second: CommitmentRef{Label: "Chemistry", Start: "09:00", End: "11:00"},
	}
	wrapped := fmt.Errorf("day 1: %w", conflict)

	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
		exit     int
	}{
		{"validation", Invalid("deadlines[0].estimated_hours", "must not be negative"), ErrInvalidRequest, http.StatusBadRequest, 2},
		{"conflict", wrapped, ErrConflictingCommitments, http.StatusConflict, 3},
		{"infeasible", &InfeasibleError{Date: "2026-03-02", Reason: "no room for lunch"}, ErrInfeasibleDay, http.StatusInternalServerError, 1},
		{"other", errors.New("disk full"), nil, http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.sentinel != nil && !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			if got := HTTPStatus(tt.err); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
			if got := ExitCode(tt.err); got != tt.exit {
				t.Errorf("ExitCode() = %d, want %d", got, tt.exit)
			}
		})
	}

	var ce *ConflictError
	if !errors.As(wrapped, &ce) {
		t.Fatal("errors.As failed to find ConflictError")
	}
	if !strings.Contains(ce.Error(), "Physics") || !strings.Contains(ce.Error(), "Chemistry") {
		t.Errorf("conflict message should name both commitments: %q", ce.Error())
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(Invalid("start_date", "required"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 2 {
			t.Errorf("Fatal() exit code = %d, want 2", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: invalid schedule request: start_date: required") {
			t.Errorf("Fatal() stderr = %q", stderr.String())
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
