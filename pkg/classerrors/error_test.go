package classerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestInvalid(t *testing.T) {
	err := fmt.Errorf("create assignment: %w", Invalid("title and htmlText are required"))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatal("expected ArgumentError")
	}
	if argErr.Msg != "title and htmlText are required" {
		t.Fatalf("unexpected message %q", argErr.Msg)
	}
}

func TestUpstreamError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &UpstreamError{Status: 409, Body: "duplicate key"})

	var up *UpstreamError
	if !errors.As(err, &up) {
		t.Fatal("expected UpstreamError")
	}
	if up.Status != 409 || up.Body != "duplicate key" {
		t.Fatalf("unexpected upstream error %+v", up)
	}
}
