package common

import (
	"errors"
	"testing"
)

func TestAppError(t *testing.T) {
	e := NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	if got := e.Error(); got != "CONFIG_ERROR: DB_URL is required: invalid input" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(e, ErrInvalidInput) {
		t.Error("AppError must unwrap to its cause")
	}

	bare := NewAppError("NOT_FOUND", "no such paper", nil)
	if got := bare.Error(); got != "NOT_FOUND: no such paper" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("wrapping nil must stay nil")
	}
	base := errors.New("boom")
	wrapped := WrapError(base, "stage one")
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error must unwrap to base")
	}
	if wrapped.Error() != "stage one: boom" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(t.Context(), "rid-123")
	if got := RequestIDFromContext(ctx); got != "rid-123" {
		t.Errorf("RequestIDFromContext = %q", got)
	}
	// absent id mints a fresh one
	if got := RequestIDFromContext(t.Context()); got == "" {
		t.Error("expected minted request id")
	}
}
