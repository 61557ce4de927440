package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodePathNotFound, "root path does not exist")
		if err.Error() != "[PATH_NOT_FOUND] root path does not exist" {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeAnalysisFailed, "analysis failed")
		expected := "[ANALYSIS_FAILED] analysis failed: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidation, "invalid weights")
		if !IsCode(err, CodeValidation) {
			t.Error("expected IsCode to return true for CodeValidation")
		}
		if IsCode(err, CodePathNotFound) {
			t.Error("expected IsCode to return false for CodePathNotFound")
		}
	})

	t.Run("CodeOf", func(t *testing.T) {
		if CodeOf(New(CodeNotADirectory, "x")) != CodeNotADirectory {
			t.Error("expected CodeNotADirectory")
		}
		if CodeOf(errors.New("plain")) != CodeInternal {
			t.Error("expected plain errors to map to CodeInternal")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := New(CodePathNotFound, "missing")
		err = AddContext(err, CtxPath, "/tmp/nope")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected DomainError")
		}
		if de.Context[CtxPath] != "/tmp/nope" {
			t.Errorf("unexpected context: %v", de.Context)
		}
	})
}
