package amserr

import (
	"errors"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := New(SchemaMismatch, "bad shape", errors.New("boom"))
	if KindOf(err) != SchemaMismatch {
		t.Errorf("KindOf = %v, want SchemaMismatch", KindOf(err))
	}
	if KindOf(errors.New("plain")) != Internal {
		t.Errorf("KindOf(plain) = %v, want Internal", KindOf(errors.New("plain")))
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(New(ExternalTransient, "timeout", nil)) {
		t.Error("ExternalTransient should be retryable")
	}
	if Retryable(New(ExternalFatal, "bad exit", nil)) {
		t.Error("ExternalFatal should not be retryable")
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{New(ExternalTransient, "x", nil), 1},
		{New(SchemaMismatch, "x", nil), 2},
		{New(HashMismatch, "x", nil), 2},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Errorf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(Internal, "wrapped", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}
