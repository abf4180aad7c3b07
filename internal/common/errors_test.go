package common

import (
	"errors"
	"testing"
)

func TestUserError(t *testing.T) {
	cause := errors.New("open /tmp/missing.json: no such file or directory")
	err := NewUserError("cannot read input file", cause)

	want := "cannot read input file: open /tmp/missing.json: no such file or directory"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("UserError must unwrap to its cause")
	}

	var userErr *UserError
	if !errors.As(err, &userErr) {
		t.Fatal("errors.As should recover the UserError")
	}
	if userErr.UserMessage != "cannot read input file" {
		t.Errorf("UserMessage = %q", userErr.UserMessage)
	}
}

func TestUserError_NoCause(t *testing.T) {
	err := NewUserError("input file contains no products", nil)
	if err.Error() != "input file contains no products" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRetryableError_Unwrap(t *testing.T) {
	err := &RetryableError{Err: ErrCategoryNotFound, Retryable: false}
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Error("RetryableError must unwrap to its cause")
	}
}
