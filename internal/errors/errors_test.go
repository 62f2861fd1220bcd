package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(ResolutionFailed, "failed to resolve content", nil)
	if got := plain.Error(); got != "[RESOLUTION_FAILED] failed to resolve content" {
		t.Errorf("unexpected message %q", got)
	}

	caused := New(BackendUnavailable, "search failed", fmt.Errorf("dial tcp: refused"))
	if got := caused.Error(); got != "[BACKEND_UNAVAILABLE] search failed: dial tcp: refused" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := New(InternalError, "wrapper", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestIsSkipped(t *testing.T) {
	if !IsSkipped(ErrSkipped) {
		t.Error("sentinel itself must be skipped")
	}
	if !IsSkipped(fmt.Errorf("wrapped: %w", ErrSkipped)) {
		t.Error("wrapped sentinel must be skipped")
	}
	if IsSkipped(New(Timeout, "deadline", nil)) {
		t.Error("other codes are not skipped")
	}
	if IsSkipped(nil) {
		t.Error("nil is not skipped")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(FileTooLarge, "too big", nil)); got != FileTooLarge {
		t.Errorf("unexpected code %s", got)
	}
	if got := CodeOf(fmt.Errorf("outer: %w", New(NotRegularFile, "dir", nil))); got != NotRegularFile {
		t.Errorf("unexpected code through wrapping: %s", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != InternalError {
		t.Errorf("plain errors map to internal, got %s", got)
	}
}
