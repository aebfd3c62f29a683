package errs

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationErrorAggregatesAllProblems(t *testing.T) {
	err := &ValidationError{Problems: []string{"missing a.b", "missing c.d"}}
	msg := err.Error()
	if !strings.Contains(msg, "missing a.b") || !strings.Contains(msg, "missing c.d") {
		t.Fatalf("Error() = %q, want both problems present", msg)
	}
}

func TestCircularDependencyErrorReportsCycleAndUnreachable(t *testing.T) {
	err := &CircularDependencyError{Cycle: []string{"a", "b", "a"}, Unreachable: []string{"c"}}
	msg := err.Error()
	if !strings.Contains(msg, "a -> b -> a") {
		t.Errorf("Error() = %q, missing cycle path", msg)
	}
	if !strings.Contains(msg, "c") {
		t.Errorf("Error() = %q, missing unreachable table", msg)
	}
}

func TestWrappedErrorsUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &SchemaError{Table: "users", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("errors.Is(SchemaError, inner) = false, want true")
	}
}
