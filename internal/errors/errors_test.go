package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrValidationError(t *testing.T) {
	err := &ErrValidation{Field: "legId", Message: "is required"}
	if got, want := err.Error(), "legId: is required"; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}
}

func TestCodeOf(t *testing.T) {
	err := New(CodeInvalidStatus, "action is not pending")
	if CodeOf(err) != CodeInvalidStatus {
		t.Fatalf("expected INVALID_STATUS, got %s", CodeOf(err))
	}
	wrapped := fmt.Errorf("outer: %w", err)
	if CodeOf(wrapped) != CodeInvalidStatus {
		t.Fatalf("expected code to survive wrapping, got %s", CodeOf(wrapped))
	}
	if CodeOf(stderrors.New("plain")) != CodeExecutionError {
		t.Fatalf("uncoded errors should map to EXECUTION_ERROR")
	}
}

func TestWrapUnwrap(t *testing.T) {
	inner := stderrors.New("db down")
	err := Wrap(CodeExecutionError, inner, "could not load action")
	if !stderrors.Is(err, inner) {
		t.Fatalf("expected wrapped error to match inner")
	}
	if MessageOf(err) != "could not load action" {
		t.Fatalf("unexpected message: %s", MessageOf(err))
	}
}
